// Package rename changes the names of every variable in a model,
// rewriting all constraints and properties with a capture-avoiding
// substitution. Quantifier-bound names are preserved.
package rename

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

// ErrIncorrectSymbolName indicates a strict prefix or suffix
// replacement applied to a symbol missing that prefix or suffix.
var ErrIncorrectSymbolName = errors.New("rename: incorrect symbol name")

// Callback maps an old variable name to its new name.
type Callback func(string) string

// Rename builds a copy of the model with every state and input
// variable renamed through the callback. Types are preserved.
func Rename(m *model.Model, cb Callback) (*model.Model, error) {
	return rename(m, func(name string) (string, error) { return cb(name), nil })
}

// AddPrefix renames the model by prepending a prefix to every
// variable name.
func AddPrefix(m *model.Model, prefix string) (*model.Model, error) {
	return ReplacePrefix(m, "", prefix, true)
}

// ReplacePrefix renames the model by replacing the given name prefix.
// When strict is set, a variable without the prefix is an error.
func ReplacePrefix(m *model.Model, prefix, replacement string, strict bool) (*model.Model, error) {
	return rename(m, func(name string) (string, error) {
		if strings.HasPrefix(name, prefix) {
			return replacement + strings.TrimPrefix(name, prefix), nil
		}
		if strict {
			return "", fmt.Errorf("%w: symbol %s does not have prefix %q", ErrIncorrectSymbolName, name, prefix)
		}
		return name, nil
	})
}

// AddSuffix renames the model by appending a suffix to every variable
// name.
func AddSuffix(m *model.Model, suffix string) (*model.Model, error) {
	return ReplaceSuffix(m, "", suffix, true)
}

// ReplaceSuffix renames the model by replacing the given name suffix.
// When strict is set, a variable without the suffix is an error.
func ReplaceSuffix(m *model.Model, suffix, replacement string, strict bool) (*model.Model, error) {
	return rename(m, func(name string) (string, error) {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix) + replacement, nil
		}
		if strict {
			return "", fmt.Errorf("%w: symbol %s does not have suffix %q", ErrIncorrectSymbolName, name, suffix)
		}
		return name, nil
	})
}

func rename(m *model.Model, cb func(string) (string, error)) (*model.Model, error) {
	env := m.Env()
	out := model.New(env)
	subs := map[*expr.Expr]*expr.Expr{}

	renameSym := func(sym *expr.Expr) (*expr.Expr, error) {
		newName, err := cb(sym.Name())
		if err != nil {
			return nil, err
		}
		return env.TrySymbol(newName, sym.Type())
	}

	for _, sv := range m.StateVars() {
		newVar, err := renameSym(sv)
		if err != nil {
			return nil, err
		}
		subs[sv] = newVar
		if err := out.AddStateVar(newVar); err != nil {
			return nil, err
		}
	}
	for _, in := range m.InputVars() {
		newVar, err := renameSym(in)
		if err != nil {
			return nil, err
		}
		subs[in] = newVar
		if err := out.AddInputVar(newVar); err != nil {
			return nil, err
		}
	}

	for _, f := range m.InitConstraints() {
		if err := out.AddInit(env.Substitute(f, subs)); err != nil {
			return nil, err
		}
	}
	for _, f := range m.TransConstraints() {
		if err := out.AddTrans(env.Substitute(f, subs)); err != nil {
			return nil, err
		}
	}
	for _, idx := range m.PropertyIndexes() {
		p, err := m.Property(idx)
		if err != nil {
			return nil, err
		}
		if err := out.AddPropertyAt(p.Kind, env.Substitute(p.Formula, subs), idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}
