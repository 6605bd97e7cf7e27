package vmtlib

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

// Read parses a VMT-LIB script into a model. Symbols carrying a :next
// annotation become state variables and their partner symbols leave
// the free-symbol pool; every remaining declared symbol becomes an
// input. Formulae annotated :init and :trans must carry the literal
// value true and join the respective constraint lists with partner
// symbols folded back into next-state operators; property annotations
// create typed properties at their annotated index.
func Read(r io.Reader, env *expr.Env) (*model.Model, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	parser := NewParser(string(input), env)
	scr, err := parser.parseScript()
	if err != nil {
		return nil, err
	}

	m := model.New(env)

	free := map[*expr.Expr]bool{}
	for _, sym := range scr.declared {
		free[sym] = true
	}

	// next annotations declare the state variables
	nextSubs := map[*expr.Expr]*expr.Expr{}
	for _, ann := range scr.annotated(AnnotNext) {
		if !ann.formula.IsSymbol() {
			return nil, fmt.Errorf("%w: :next annotation on %s", model.ErrNotSymbol, ann.formula)
		}
		nextVar, ok := env.LookupSymbol(ann.value)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUndeclaredSymbol, ann.value)
		}
		if err := m.AddStateVar(ann.formula); err != nil {
			return nil, err
		}
		delete(free, ann.formula)
		delete(free, nextVar)
		nextSubs[nextVar] = env.Next(ann.formula)
	}

	// remaining declarations are inputs, in declaration order
	for _, sym := range scr.declared {
		if free[sym] {
			if err := m.AddInputVar(sym); err != nil {
				return nil, err
			}
		}
	}

	for _, ann := range scr.annotated(AnnotInit) {
		if ann.value != "true" {
			return nil, fmt.Errorf("%w: init annotations can only evaluate to true, got %q",
				ErrInvalidAnnotationValue, ann.value)
		}
		if err := m.AddInit(env.Substitute(ann.formula, nextSubs)); err != nil {
			return nil, err
		}
	}
	for _, ann := range scr.annotated(AnnotTrans) {
		if ann.value != "true" {
			return nil, fmt.Errorf("%w: trans annotations can only evaluate to true, got %q",
				ErrInvalidAnnotationValue, ann.value)
		}
		if err := m.AddTrans(env.Substitute(ann.formula, nextSubs)); err != nil {
			return nil, err
		}
	}

	for _, annot := range []string{AnnotInvarProperty, AnnotLiveProperty, AnnotLtlProperty, AnnotLtlfProperty} {
		kind := annotToPropKind[annot]
		for _, ann := range scr.annotated(annot) {
			idx, err := strconv.Atoi(ann.value)
			if err != nil {
				return nil, fmt.Errorf("%w: annotation value %q is not a valid property index",
					model.ErrInvalidPropertyIdx, ann.value)
			}
			f := env.Substitute(ann.formula, nextSubs)
			if err := m.AddPropertyAt(kind, f, idx); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
