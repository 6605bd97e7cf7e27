package vmtlib

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/rewrite"
)

// Serialize writes the model as a VMT-LIB script: declarations for
// every variable and its next-state partner, the conjoined INIT and
// TRANS constraints as annotated definitions, one annotated definition
// per property, and a closing (assert true).
func Serialize(w io.Writer, m *model.Model) error {
	return SerializeProperties(w, m, m.AllProperties())
}

// SerializeProperties serializes the model with an explicit property
// table in place of the model's own, which lets solver wrappers submit
// a single property at a time.
func SerializeProperties(w io.Writer, m *model.Model, props map[int]model.Property) error {
	env := m.Env()

	// allocate a next-state partner for every state variable
	nextSubs := map[*expr.Expr]*expr.Expr{}
	stateVars := m.StateVars()
	nextVars := make([]*expr.Expr, len(stateVars))
	for i, sv := range stateVars {
		template := strings.ReplaceAll(sv.Name(), "%", "%%") + ".__next%d"
		ns := env.FreshSymbol(sv.Type(), template)
		nextVars[i] = ns
		nextSubs[env.Next(sv)] = ns
	}

	defCounters := map[string]int{}
	writeDef := func(f *expr.Expr, annot, value string) error {
		prepared, err := prepareForVmt(env, f, nextSubs)
		if err != nil {
			return err
		}
		term, err := PrintTerm(prepared)
		if err != nil {
			return err
		}
		n := defCounters[annot]
		defCounters[annot]++
		_, err = fmt.Fprintf(w, "(define-fun %s%d () %s (! %s :%s %s))\n",
			annot, n, prepared.Type(), term, annot, value)
		return err
	}

	for _, in := range m.InputVars() {
		if _, err := fmt.Fprintf(w, "(declare-fun %s () %s)\n", symbolName(in), in.Type()); err != nil {
			return err
		}
	}
	for i, sv := range stateVars {
		if _, err := fmt.Fprintf(w, "(declare-fun %s () %s)\n", symbolName(sv), sv.Type()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "(declare-fun %s () %s)\n", symbolName(nextVars[i]), nextVars[i].Type()); err != nil {
			return err
		}
		if err := writeDef(sv, AnnotNext, symbolName(nextVars[i])); err != nil {
			return err
		}
	}

	if err := writeDef(m.InitConstraint(), AnnotInit, "true"); err != nil {
		return err
	}
	if err := writeDef(m.TransConstraint(), AnnotTrans, "true"); err != nil {
		return err
	}

	idxs := make([]int, 0, len(props))
	for idx := range props {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	for _, idx := range idxs {
		p := props[idx]
		if err := checkDeclared(m, p.Formula); err != nil {
			return err
		}
		annot, ok := propKindToAnnot[p.Kind]
		if !ok {
			return fmt.Errorf("%w: %d", model.ErrInvalidPropertyType, int(p.Kind))
		}
		if err := writeDef(p.Formula, annot, fmt.Sprintf("%d", idx)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "(assert true)")
	return err
}

// prepareForVmt pushes next operators down to symbol leaves, replaces
// each next-wrapped state variable with its dedicated partner symbol,
// and rewrites the R operator which has no VMT-LIB spelling.
func prepareForVmt(env *expr.Env, f *expr.Expr, nextSubs map[*expr.Expr]*expr.Expr) (*expr.Expr, error) {
	pushed, err := rewrite.PushNext(env, f)
	if err != nil {
		return nil, err
	}
	replaced := env.Substitute(pushed, nextSubs)
	return rewriteReleases(env, replaced), nil
}

// rewriteReleases eliminates R as !( !a U !b ).
func rewriteReleases(env *expr.Env, f *expr.Expr) *expr.Expr {
	memo := map[*expr.Expr]*expr.Expr{}
	var walk func(g *expr.Expr) *expr.Expr
	walk = func(g *expr.Expr) *expr.Expr {
		if r, ok := memo[g]; ok {
			return r
		}
		var res *expr.Expr
		if g.Arity() == 0 {
			res = g
		} else {
			args := make([]*expr.Expr, g.Arity())
			for i, a := range g.Args() {
				args[i] = walk(a)
			}
			if g.Kind() == expr.KindLtlR {
				res = env.Not(env.U(env.Not(args[0]), env.Not(args[1])))
			} else {
				res = env.Rebuild(g, args)
			}
		}
		memo[g] = res
		return res
	}
	return walk(f)
}

func symbolName(sym *expr.Expr) string {
	var b strings.Builder
	printSymbolName(&b, sym.Name())
	return b.String()
}

func checkDeclared(m *model.Model, f *expr.Expr) error {
	for _, v := range m.Env().FreeVars(f) {
		if !m.IsStateVar(v) && !m.IsInputVar(v) {
			return fmt.Errorf("%w: %s", model.ErrUndeclaredSymbol, v.Name())
		}
	}
	return nil
}
