// Package encode compiles temporal properties into fair transition
// systems. Four encoders are provided: the classical tableau encoding
// (LTL), the circuit monitor encoding (Circuit), the finite-trace
// encoding (LTLf) and the safety fragment encoding (SafetyLTL). Each
// returns a fresh model containing the variables and constraints of
// the input plus the tableau machinery, with exactly one new property
// at index 0; the input model is never mutated.
package encode

import (
	"errors"
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

var (
	// ErrNotSafety indicates a property outside the safety-LTL fragment
	// handed to the safety encoder.
	ErrNotSafety = errors.New("encode: formula is not in the safety LTL fragment")
	// ErrUnsupportedOperator indicates an operator that should have been
	// eliminated by the basis rewriters; seeing it is a pipeline bug.
	ErrUnsupportedOperator = errors.New("encode: unsupported operator")
)

func checkProperty(m *model.Model, f *expr.Expr) error {
	if !f.Type().IsBool() {
		return fmt.Errorf("%w: property has type %s", model.ErrTypeMismatch, f.Type())
	}
	for _, v := range m.Env().FreeVars(f) {
		if !m.IsStateVar(v) && !m.IsInputVar(v) {
			return fmt.Errorf("%w: %s", model.ErrUndeclaredSymbol, v.Name())
		}
	}
	return nil
}

// copyModel clones variables, INIT and TRANS of the input, dropping
// its properties.
func copyModel(m *model.Model) (*model.Model, error) {
	out := model.New(m.Env())
	for _, sv := range m.StateVars() {
		if err := out.AddStateVar(sv); err != nil {
			return nil, err
		}
	}
	for _, in := range m.InputVars() {
		if err := out.AddInputVar(in); err != nil {
			return nil, err
		}
	}
	for _, f := range m.InitConstraints() {
		if err := out.AddInit(f); err != nil {
			return nil, err
		}
	}
	for _, f := range m.TransConstraints() {
		if err := out.AddTrans(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}
