package rewrite

import "github.com/pyvmt/pyvmt/pkg/expr"

// ToXU normalises a formula to the {X, U, Y, S, Not} operator basis
// used by the classical tableau encoder:
//
//	F f       -> true U f
//	G f       -> !(true U !f)
//	f R g     -> !(!f U !g)
//	N f       -> !X!f
//	O f       -> true S f
//	H f       -> !(true S !f)
//	f T g     -> !(!f S !g)
//	Z f       -> !Y!f
func ToXU(env *expr.Env, f *expr.Expr) *expr.Expr {
	return rewriteOps(env, f, func(g *expr.Expr, args []*expr.Expr) *expr.Expr {
		switch g.Kind() {
		case expr.KindLtlF:
			return env.U(env.TRUE(), args[0])
		case expr.KindLtlG:
			return env.Not(env.U(env.TRUE(), env.Not(args[0])))
		case expr.KindLtlR:
			return env.Not(env.U(env.Not(args[0]), env.Not(args[1])))
		case expr.KindLtlN:
			return env.Not(env.X(env.Not(args[0])))
		case expr.KindLtlO:
			return env.S(env.TRUE(), args[0])
		case expr.KindLtlH:
			return env.Not(env.S(env.TRUE(), env.Not(args[0])))
		case expr.KindLtlT:
			return env.Not(env.S(env.Not(args[0]), env.Not(args[1])))
		case expr.KindLtlZ:
			return env.Not(env.Y(env.Not(args[0])))
		}
		return nil
	})
}

// ToLtlfBasis normalises a formula to the {X, N, U, R, Y, S, Not}
// basis used by the finite-trace encoder. Strong and weak next are
// both kept; only the derived operators are eliminated:
//
//	F f       -> true U f
//	G f       -> !(true U !f)
//	O f       -> true S f
//	H f       -> !(true S !f)
//	f T g     -> !(!f S !g)
//	Z f       -> !Y!f
//
// A later NNF pass reintroduces R, Z and T as duals where negations
// demand them.
func ToLtlfBasis(env *expr.Env, f *expr.Expr) *expr.Expr {
	return rewriteOps(env, f, func(g *expr.Expr, args []*expr.Expr) *expr.Expr {
		switch g.Kind() {
		case expr.KindLtlF:
			return env.U(env.TRUE(), args[0])
		case expr.KindLtlG:
			return env.Not(env.U(env.TRUE(), env.Not(args[0])))
		case expr.KindLtlO:
			return env.S(env.TRUE(), args[0])
		case expr.KindLtlH:
			return env.Not(env.S(env.TRUE(), env.Not(args[0])))
		case expr.KindLtlT:
			return env.Not(env.S(env.Not(args[0]), env.Not(args[1])))
		case expr.KindLtlZ:
			return env.Not(env.Y(env.Not(args[0])))
		}
		return nil
	})
}

// WeakenX replaces every strong next X with the weak next N. Over
// finite traces this weakens the formula (the last state satisfies
// N f vacuously); infinite-trace semantics is unchanged.
func WeakenX(env *expr.Env, f *expr.Expr) *expr.Expr {
	return rewriteOps(env, f, func(g *expr.Expr, args []*expr.Expr) *expr.Expr {
		if g.Kind() == expr.KindLtlX {
			return env.N(args[0])
		}
		return nil
	})
}

// rewriteOps runs a bottom-up identity walk, letting the callback
// replace a node rebuilt over already-rewritten children. A nil return
// keeps the node.
func rewriteOps(env *expr.Env, f *expr.Expr,
	replace func(g *expr.Expr, args []*expr.Expr) *expr.Expr) *expr.Expr {
	memo := map[*expr.Expr]*expr.Expr{}
	var walk func(g *expr.Expr) *expr.Expr
	walk = func(g *expr.Expr) *expr.Expr {
		if r, ok := memo[g]; ok {
			return r
		}
		var res *expr.Expr
		if g.Arity() == 0 {
			if res = replace(g, nil); res == nil {
				res = g
			}
		} else {
			args := make([]*expr.Expr, g.Arity())
			for i, a := range g.Args() {
				args[i] = walk(a)
			}
			if res = replace(g, args); res == nil {
				res = env.Rebuild(g, args)
			}
		}
		memo[g] = res
		return res
	}
	return walk(f)
}
