// Package model implements the transition-model container: state and
// input variables, INIT and TRANS constraint lists, and indexed
// properties. Every insertion is gated by well-formedness checks;
// constraint and variable order is preserved end-to-end so that
// serialisation and encoding stay deterministic.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/expr"
)

// Model holds one symbolic transition system. The zero value is not
// usable; create models with New.
type Model struct {
	env *expr.Env

	stateVars []*expr.Expr
	stateSet  map[*expr.Expr]bool
	inputVars []*expr.Expr
	inputSet  map[*expr.Expr]bool

	init  []*expr.Expr
	trans []*expr.Expr

	props       map[int]Property
	nextPropIdx int
}

// New creates an empty model bound to the environment.
func New(env *expr.Env) *Model {
	return &Model{
		env:      env,
		stateSet: map[*expr.Expr]bool{},
		inputSet: map[*expr.Expr]bool{},
		props:    map[int]Property{},
	}
}

// Env returns the environment the model belongs to.
func (m *Model) Env() *expr.Env { return m.env }

// IsStateVar reports whether the formula is a declared state variable.
func (m *Model) IsStateVar(f *expr.Expr) bool { return f.IsSymbol() && m.stateSet[f] }

// IsInputVar reports whether the formula is a declared input.
func (m *Model) IsInputVar(f *expr.Expr) bool { return f.IsSymbol() && m.inputSet[f] }

func (m *Model) isDeclared(f *expr.Expr) bool { return m.stateSet[f] || m.inputSet[f] }

func (m *Model) checkFresh(sym *expr.Expr) error {
	if !sym.IsSymbol() {
		return fmt.Errorf("%w: %s", ErrNotSymbol, sym)
	}
	if m.isDeclared(sym) {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, sym.Name())
	}
	return nil
}

func (m *Model) checkDeclared(f *expr.Expr) error {
	for _, v := range m.env.FreeVars(f) {
		if !m.isDeclared(v) {
			return fmt.Errorf("%w: %s", ErrUndeclaredSymbol, v.Name())
		}
	}
	return nil
}

// AddStateVar declares a symbol as a state variable.
func (m *Model) AddStateVar(sym *expr.Expr) error {
	if err := m.checkFresh(sym); err != nil {
		return err
	}
	m.stateVars = append(m.stateVars, sym)
	m.stateSet[sym] = true
	return nil
}

// AddInputVar declares a symbol as an input. Inputs may appear in TRANS
// constraints and properties but not in INIT constraints.
func (m *Model) AddInputVar(sym *expr.Expr) error {
	if err := m.checkFresh(sym); err != nil {
		return err
	}
	m.inputVars = append(m.inputVars, sym)
	m.inputSet[sym] = true
	return nil
}

// CreateStateVar creates a symbol with the given name and type and
// declares it as a state variable.
func (m *Model) CreateStateVar(name string, t expr.Type) (*expr.Expr, error) {
	sym, err := m.env.TrySymbol(name, t)
	if err != nil {
		return nil, err
	}
	if err := m.AddStateVar(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// CreateInputVar creates a symbol with the given name and type and
// declares it as an input.
func (m *Model) CreateInputVar(name string, t expr.Type) (*expr.Expr, error) {
	sym, err := m.env.TrySymbol(name, t)
	if err != nil {
		return nil, err
	}
	if err := m.AddInputVar(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// CreateFrozenVar creates a state variable that keeps its initial
// value forever, by constraining v' = v.
func (m *Model) CreateFrozenVar(name string, t expr.Type) (*expr.Expr, error) {
	sym, err := m.CreateStateVar(name, t)
	if err != nil {
		return nil, err
	}
	if err := m.AddTrans(m.env.EqualsOrIff(sym, m.env.Next(sym))); err != nil {
		return nil, err
	}
	return sym, nil
}

// StateVars returns the state variables in declaration order.
func (m *Model) StateVars() []*expr.Expr {
	out := make([]*expr.Expr, len(m.stateVars))
	copy(out, m.stateVars)
	return out
}

// InputVars returns the input variables in declaration order.
func (m *Model) InputVars() []*expr.Expr {
	out := make([]*expr.Expr, len(m.inputVars))
	copy(out, m.inputVars)
	return out
}

// AllVars returns state variables followed by inputs.
func (m *Model) AllVars() []*expr.Expr {
	return append(m.StateVars(), m.InputVars()...)
}

// AddInit appends an init constraint. The formula must be Bool, refer
// only to state variables, and contain neither LTL nor Next.
func (m *Model) AddInit(f *expr.Expr) error {
	for _, v := range m.env.FreeVars(f) {
		if !m.IsStateVar(v) {
			return fmt.Errorf("%w: init constraints cannot contain %s", ErrUndeclaredSymbol, v.Name())
		}
	}
	if m.env.HasLTL(f) {
		return fmt.Errorf("%w: init constraints cannot contain LTL", ErrUnexpectedLtl)
	}
	if m.env.HasNext(f) {
		return fmt.Errorf("%w: init constraints cannot contain the next operator", ErrUnexpectedNext)
	}
	if !f.Type().IsBool() {
		return fmt.Errorf("%w: init constraint has type %s", ErrTypeMismatch, f.Type())
	}
	m.init = append(m.init, f)
	return nil
}

// AddTrans appends a trans constraint. The formula must be Bool, refer
// only to declared variables, and contain no LTL.
func (m *Model) AddTrans(f *expr.Expr) error {
	if err := m.checkDeclared(f); err != nil {
		return err
	}
	if !f.Type().IsBool() {
		return fmt.Errorf("%w: trans constraint has type %s", ErrTypeMismatch, f.Type())
	}
	if m.env.HasLTL(f) {
		return fmt.Errorf("%w: trans constraints cannot contain LTL", ErrUnexpectedLtl)
	}
	m.trans = append(m.trans, f)
	return nil
}

// AddInvar constrains the formula to hold in every state: it is added
// to INIT and, in both current and next form, to TRANS. The formula may
// refer only to state variables.
func (m *Model) AddInvar(f *expr.Expr) error {
	if err := m.AddInit(f); err != nil {
		return err
	}
	if err := m.AddTrans(f); err != nil {
		return err
	}
	return m.AddTrans(m.Next(f))
}

// InitConstraints returns the init constraints in insertion order.
func (m *Model) InitConstraints() []*expr.Expr {
	out := make([]*expr.Expr, len(m.init))
	copy(out, m.init)
	return out
}

// InitConstraint returns the conjunction of all init constraints.
func (m *Model) InitConstraint() *expr.Expr { return m.env.And(m.init...) }

// TransConstraints returns the trans constraints in insertion order.
func (m *Model) TransConstraints() []*expr.Expr {
	out := make([]*expr.Expr, len(m.trans))
	copy(out, m.trans)
	return out
}

// TransConstraint returns the conjunction of all trans constraints.
func (m *Model) TransConstraint() *expr.Expr { return m.env.And(m.trans...) }

// Next wraps the formula in the next-step operator.
func (m *Model) Next(f *expr.Expr) *expr.Expr { return m.env.Next(f) }

func (m *Model) checkProperty(kind PropKind, f *expr.Expr) error {
	if !kind.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPropertyType, int(kind))
	}
	if !f.Type().IsBool() {
		return fmt.Errorf("%w: property has type %s", ErrTypeMismatch, f.Type())
	}
	if !kind.allowsLTL() && m.env.HasLTL(f) {
		return fmt.Errorf("%w: %s properties cannot contain LTL", ErrUnexpectedLtl, kind)
	}
	return m.checkDeclared(f)
}

// AddProperty adds a property at the smallest unused index and returns
// that index.
func (m *Model) AddProperty(kind PropKind, f *expr.Expr) (int, error) {
	if err := m.checkProperty(kind, f); err != nil {
		return 0, err
	}
	for {
		if _, taken := m.props[m.nextPropIdx]; !taken {
			break
		}
		m.nextPropIdx++
	}
	idx := m.nextPropIdx
	m.nextPropIdx++
	m.props[idx] = Property{Kind: kind, Formula: f}
	return idx, nil
}

// AddPropertyAt adds a property at an explicit index. The index must be
// non-negative and unused.
func (m *Model) AddPropertyAt(kind PropKind, f *expr.Expr, idx int) error {
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPropertyIdx, idx)
	}
	if _, taken := m.props[idx]; taken {
		return fmt.Errorf("%w: %d", ErrDuplicatePropertyIdx, idx)
	}
	if err := m.checkProperty(kind, f); err != nil {
		return err
	}
	m.props[idx] = Property{Kind: kind, Formula: f}
	return nil
}

// AddInvarProperty adds an invariant property at a fresh index.
func (m *Model) AddInvarProperty(f *expr.Expr) (int, error) { return m.AddProperty(Invar, f) }

// AddLiveProperty adds a liveness property at a fresh index.
func (m *Model) AddLiveProperty(f *expr.Expr) (int, error) { return m.AddProperty(Live, f) }

// AddLtlProperty adds an LTL property at a fresh index.
func (m *Model) AddLtlProperty(f *expr.Expr) (int, error) { return m.AddProperty(Ltl, f) }

// AddLtlfProperty adds a finite-trace LTL property at a fresh index.
func (m *Model) AddLtlfProperty(f *expr.Expr) (int, error) { return m.AddProperty(Ltlf, f) }

// Property returns the property at the given index.
func (m *Model) Property(idx int) (Property, error) {
	p, ok := m.props[idx]
	if !ok {
		return Property{}, fmt.Errorf("%w: %d", ErrPropertyNotFound, idx)
	}
	return p, nil
}

// PropertyIndexes returns all property indexes in ascending order.
func (m *Model) PropertyIndexes() []int {
	out := make([]int, 0, len(m.props))
	for idx := range m.props {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// AllProperties returns a copy of the property table.
func (m *Model) AllProperties() map[int]Property {
	out := make(map[int]Property, len(m.props))
	for idx, p := range m.props {
		out[idx] = p
	}
	return out
}

func (m *Model) propertiesOfKind(kind PropKind) map[int]Property {
	out := map[int]Property{}
	for idx, p := range m.props {
		if p.Kind == kind {
			out[idx] = p
		}
	}
	return out
}

// InvarProperties returns the invariant properties by index.
func (m *Model) InvarProperties() map[int]Property { return m.propertiesOfKind(Invar) }

// LiveProperties returns the liveness properties by index.
func (m *Model) LiveProperties() map[int]Property { return m.propertiesOfKind(Live) }

// LtlProperties returns the LTL properties by index.
func (m *Model) LtlProperties() map[int]Property { return m.propertiesOfKind(Ltl) }

// LtlfProperties returns the finite-trace LTL properties by index.
func (m *Model) LtlfProperties() map[int]Property { return m.propertiesOfKind(Ltlf) }

// String renders the model in a human-readable form for debugging.
func (m *Model) String() string {
	var b strings.Builder
	b.WriteString("--- State variables ---\n")
	for _, v := range m.stateVars {
		fmt.Fprintf(&b, "%s %s, next(%s) = %s\n", v.Type(), v, v, m.env.Next(v))
	}
	b.WriteString("\n--- Input variables ---\n")
	for _, v := range m.inputVars {
		fmt.Fprintf(&b, "%s %s\n", v.Type(), v)
	}
	b.WriteString("\n--- Init constraints ---\n")
	for _, f := range m.init {
		fmt.Fprintf(&b, "%s\n", f)
	}
	b.WriteString("\n--- Trans constraints ---\n")
	for _, f := range m.trans {
		fmt.Fprintf(&b, "%s\n", f)
	}
	b.WriteString("\n--- Properties ---\n")
	for _, idx := range m.PropertyIndexes() {
		fmt.Fprintf(&b, "%d) %s\n", idx, m.props[idx])
	}
	return b.String()
}
