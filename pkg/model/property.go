package model

import "github.com/pyvmt/pyvmt/pkg/expr"

// PropKind is the verification kind of a property.
type PropKind int

const (
	// Invar is an invariant property, G (formula) in LTL.
	Invar PropKind = iota
	// Live is a liveness property, F G (formula) in LTL.
	Live
	// Ltl is a property whose formula may contain LTL operators.
	Ltl
	// Ltlf is an LTL property interpreted over finite traces.
	Ltlf
)

func (k PropKind) String() string {
	switch k {
	case Invar:
		return "invar"
	case Live:
		return "live"
	case Ltl:
		return "ltl"
	case Ltlf:
		return "ltlf"
	}
	return "?"
}

func (k PropKind) valid() bool { return k >= Invar && k <= Ltlf }

// allowsLTL reports whether formulas of this kind may contain LTL
// operators.
func (k PropKind) allowsLTL() bool { return k == Ltl || k == Ltlf }

// Property pairs a verification kind with its formula.
type Property struct {
	Kind    PropKind
	Formula *expr.Expr
}

func (p Property) String() string {
	return p.Kind.String() + " prop: " + p.Formula.String()
}
