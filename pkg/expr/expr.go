// Package expr implements the hash-consed formula kernel: a DAG of
// Boolean, arithmetic and bitvector nodes extended with the LTL
// operators and a Next marker. Nodes are immutable and interned per
// environment, so structural equality is pointer equality for formulae
// built in the same Env.
package expr

// Expr is a single interned formula node. Exprs are created through the
// builder methods on Env and must never be mutated.
type Expr struct {
	id   int
	kind Kind
	typ  Type
	args []*Expr

	// payloads, valid depending on kind
	name  string  // KindSymbol
	bval  bool    // KindBoolConst
	ival  int64   // KindIntConst
	rval  string  // KindRealConst, decimal spelling
	bvval uint64  // KindBVConst
	vars  []*Expr // quantifier-bound symbols
	lo    int     // KindBVExtract
	hi    int     // KindBVExtract
}

// ID returns the interning identifier of the node, unique per Env.
func (x *Expr) ID() int { return x.id }

// Kind returns the operator or leaf variety of the node.
func (x *Expr) Kind() Kind { return x.kind }

// Type returns the sort of the node.
func (x *Expr) Type() Type { return x.typ }

// Arity returns the number of children.
func (x *Expr) Arity() int { return len(x.args) }

// Arg returns the i-th child.
func (x *Expr) Arg(i int) *Expr { return x.args[i] }

// Args returns the children slice. The slice is shared and must be
// treated as read-only.
func (x *Expr) Args() []*Expr { return x.args }

// QuantVars returns the bound symbols of a quantifier node.
func (x *Expr) QuantVars() []*Expr { return x.vars }

// Name returns the symbol name; empty for non-symbols.
func (x *Expr) Name() string { return x.name }

// BoolValue returns the payload of a boolean constant.
func (x *Expr) BoolValue() bool { return x.bval }

// IntValue returns the payload of an integer constant.
func (x *Expr) IntValue() int64 { return x.ival }

// RealValue returns the decimal spelling of a real constant.
func (x *Expr) RealValue() string { return x.rval }

// BVValue returns the payload of a bitvector constant.
func (x *Expr) BVValue() uint64 { return x.bvval }

// ExtractBounds returns the inclusive bit range of a BVExtract node.
func (x *Expr) ExtractBounds() (lo, hi int) { return x.lo, x.hi }

// IsSymbol reports whether the node is a symbol leaf.
func (x *Expr) IsSymbol() bool { return x.kind == KindSymbol }

// IsConstant reports whether the node is a constant leaf.
func (x *Expr) IsConstant() bool {
	switch x.kind {
	case KindBoolConst, KindIntConst, KindRealConst, KindBVConst:
		return true
	}
	return false
}

// IsTrue reports whether the node is the boolean constant true.
func (x *Expr) IsTrue() bool { return x.kind == KindBoolConst && x.bval }

// IsFalse reports whether the node is the boolean constant false.
func (x *Expr) IsFalse() bool { return x.kind == KindBoolConst && !x.bval }
