package rewrite

import "github.com/pyvmt/pyvmt/pkg/expr"

// NNF pushes negations down to the atoms. Implications and
// biconditionals are expanded, quantifiers and LTL operators are
// dualised (X/N, F/G, U/R, Y/Z, O/H, S/T), and a negation on a Next
// moves below it. Theory atoms keep their negation.
func NNF(env *expr.Env, f *expr.Expr) *expr.Expr {
	c := &nnfizer{env: env, memo: map[nnfKey]*expr.Expr{}}
	return c.walk(f, false)
}

type nnfKey struct {
	f   *expr.Expr
	neg bool
}

type nnfizer struct {
	env  *expr.Env
	memo map[nnfKey]*expr.Expr
}

func (c *nnfizer) walk(f *expr.Expr, neg bool) *expr.Expr {
	key := nnfKey{f, neg}
	if r, ok := c.memo[key]; ok {
		return r
	}
	env := c.env
	var res *expr.Expr
	switch f.Kind() {
	case expr.KindNot:
		res = c.walk(f.Arg(0), !neg)
	case expr.KindAnd:
		args := c.walkAll(f.Args(), neg)
		if neg {
			res = env.Or(args...)
		} else {
			res = env.And(args...)
		}
	case expr.KindOr:
		args := c.walkAll(f.Args(), neg)
		if neg {
			res = env.And(args...)
		} else {
			res = env.Or(args...)
		}
	case expr.KindImplies:
		a, b := f.Arg(0), f.Arg(1)
		if neg {
			res = env.And(c.walk(a, false), c.walk(b, true))
		} else {
			res = env.Or(c.walk(a, true), c.walk(b, false))
		}
	case expr.KindIff:
		a, b := f.Arg(0), f.Arg(1)
		if neg {
			res = env.Or(
				env.And(c.walk(a, false), c.walk(b, true)),
				env.And(c.walk(a, true), c.walk(b, false)))
		} else {
			res = env.And(
				env.Or(c.walk(a, true), c.walk(b, false)),
				env.Or(c.walk(a, false), c.walk(b, true)))
		}
	case expr.KindForall:
		body := c.walk(f.Arg(0), neg)
		if neg {
			res = env.Exists(f.QuantVars(), body)
		} else {
			res = env.Forall(f.QuantVars(), body)
		}
	case expr.KindExists:
		body := c.walk(f.Arg(0), neg)
		if neg {
			res = env.Forall(f.QuantVars(), body)
		} else {
			res = env.Exists(f.QuantVars(), body)
		}
	case expr.KindLtlX:
		if neg {
			res = env.N(c.walk(f.Arg(0), true))
		} else {
			res = env.X(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlN:
		if neg {
			res = env.X(c.walk(f.Arg(0), true))
		} else {
			res = env.N(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlF:
		if neg {
			res = env.G(c.walk(f.Arg(0), true))
		} else {
			res = env.F(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlG:
		if neg {
			res = env.F(c.walk(f.Arg(0), true))
		} else {
			res = env.G(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlU:
		a, b := c.walk(f.Arg(0), neg), c.walk(f.Arg(1), neg)
		if neg {
			res = env.R(a, b)
		} else {
			res = env.U(a, b)
		}
	case expr.KindLtlR:
		a, b := c.walk(f.Arg(0), neg), c.walk(f.Arg(1), neg)
		if neg {
			res = env.U(a, b)
		} else {
			res = env.R(a, b)
		}
	case expr.KindLtlY:
		if neg {
			res = env.Z(c.walk(f.Arg(0), true))
		} else {
			res = env.Y(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlZ:
		if neg {
			res = env.Y(c.walk(f.Arg(0), true))
		} else {
			res = env.Z(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlO:
		if neg {
			res = env.H(c.walk(f.Arg(0), true))
		} else {
			res = env.O(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlH:
		if neg {
			res = env.O(c.walk(f.Arg(0), true))
		} else {
			res = env.H(c.walk(f.Arg(0), false))
		}
	case expr.KindLtlS:
		a, b := c.walk(f.Arg(0), neg), c.walk(f.Arg(1), neg)
		if neg {
			res = env.T(a, b)
		} else {
			res = env.S(a, b)
		}
	case expr.KindLtlT:
		a, b := c.walk(f.Arg(0), neg), c.walk(f.Arg(1), neg)
		if neg {
			res = env.S(a, b)
		} else {
			res = env.T(a, b)
		}
	case expr.KindNext:
		res = env.Next(c.walk(f.Arg(0), neg))
	case expr.KindBoolConst:
		res = env.Bool(f.BoolValue() != neg)
	default:
		// theory atom: the negation stops here
		if neg {
			res = env.Not(f)
		} else {
			res = f
		}
	}
	c.memo[key] = res
	return res
}

func (c *nnfizer) walkAll(args []*expr.Expr, neg bool) []*expr.Expr {
	out := make([]*expr.Expr, len(args))
	for i, a := range args {
		out[i] = c.walk(a, neg)
	}
	return out
}
