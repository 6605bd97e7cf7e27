package encode

import "github.com/pyvmt/pyvmt/pkg/expr"

// justiceFlattening is the result of collapsing a set of justice
// constraints into a single acceptance condition.
type justiceFlattening struct {
	accept *expr.Expr
	stVars []*expr.Expr
	init   []*expr.Expr
	trans  []*expr.Expr
}

// makeSingleJustice flattens a list of justice constraints into one.
// One state variable per justice is allocated, initially false, set
// once its justice has been observed, and reset when every justice has
// been; accept is the conjunction of the justice variables, so a fair
// run satisfies accept infinitely often exactly when every justice
// holds infinitely often.
func makeSingleJustice(env *expr.Env, justices []*expr.Expr) justiceFlattening {
	res := justiceFlattening{}
	for range justices {
		jv := env.FreshSymbol(expr.BoolType(), "J_%d")
		res.stVars = append(res.stVars, jv)
		res.init = append(res.init, env.Iff(jv, env.FALSE()))
	}
	res.accept = env.And(res.stVars...)
	for i, just := range justices {
		jv := res.stVars[i]
		res.trans = append(res.trans, env.Iff(
			env.Next(jv),
			env.Ite(res.accept, just, env.Or(just, jv)),
		))
	}
	return res
}
