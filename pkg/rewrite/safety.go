package rewrite

import "github.com/pyvmt/pyvmt/pkg/expr"

// IsSafetyLTL reports whether a formula in negation normal form lies
// in the safety fragment of LTL: no positive occurrence of U or F.
// Under NNF every occurrence is positive, so the check reduces to the
// absence of U and F; every other operator preserves safety when all
// its children do.
func IsSafetyLTL(f *expr.Expr) bool {
	seen := map[*expr.Expr]bool{}
	var walk func(g *expr.Expr) bool
	walk = func(g *expr.Expr) bool {
		if seen[g] {
			return true
		}
		seen[g] = true
		switch g.Kind() {
		case expr.KindLtlU, expr.KindLtlF:
			return false
		}
		for _, a := range g.Args() {
			if !walk(a) {
				return false
			}
		}
		return true
	}
	return walk(f)
}
