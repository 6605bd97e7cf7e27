// Package compose implements synchronous composition of transition
// models sharing an environment.
package compose

import (
	"errors"
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/model"
)

// ErrMismatchedEnvironment indicates an attempt to compose models from
// different environments.
var ErrMismatchedEnvironment = errors.New("compose: models belong to different environments")

// Compose builds the synchronous product of two models: the union of
// their variables, the concatenation of their INIT and TRANS
// constraints, and the union of their properties. An input of one side
// that is a state variable of the other becomes a shared observed
// state variable. Property indexes must not overlap.
func Compose(a, b *model.Model) (*model.Model, error) {
	if a.Env() != b.Env() {
		return nil, ErrMismatchedEnvironment
	}
	out := model.New(a.Env())

	for _, m := range []*model.Model{a, b} {
		for _, sv := range m.StateVars() {
			if out.IsStateVar(sv) {
				continue
			}
			if err := out.AddStateVar(sv); err != nil {
				return nil, err
			}
		}
	}
	for _, m := range []*model.Model{a, b} {
		for _, in := range m.InputVars() {
			if out.IsStateVar(in) || out.IsInputVar(in) {
				continue
			}
			if err := out.AddInputVar(in); err != nil {
				return nil, err
			}
		}
	}

	for _, m := range []*model.Model{a, b} {
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
		for _, idx := range m.PropertyIndexes() {
			p, err := m.Property(idx)
			if err != nil {
				return nil, err
			}
			if err := out.AddPropertyAt(p.Kind, p.Formula, idx); err != nil {
				return nil, fmt.Errorf("composing property %d: %w", idx, err)
			}
		}
	}
	return out, nil
}
