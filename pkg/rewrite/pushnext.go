// Package rewrite contains the formula rewriters: the Next-pusher, the
// negation-normal-form converter, the LTL operator-basis rewriters, the
// safety-fragment detector and the strong-next weakener. All rewrites
// are pure: they return a new interned formula and leave the input
// untouched.
package rewrite

import (
	"github.com/pyvmt/pyvmt/pkg/expr"
)

// PushNext rewrites the formula so that every Next operator wraps a
// symbol leaf directly. Next distributes over every operator; a Next on
// a constant disappears, and a Next on a quantifier-bound symbol is
// stripped, since binding overrides the temporal step. Nested Next
// operators report expr.ErrNestedNext.
//
// The rewrite is idempotent: PushNext(PushNext(f)) == PushNext(f).
func PushNext(env *expr.Env, f *expr.Expr) (*expr.Expr, error) {
	p := &nextPusher{env: env, memo: map[*expr.Expr]*expr.Expr{},
		underMemo: map[*expr.Expr]*expr.Expr{}}
	return p.walk(f)
}

type nextPusher struct {
	env       *expr.Env
	bound     map[*expr.Expr]bool
	memo      map[*expr.Expr]*expr.Expr
	underMemo map[*expr.Expr]*expr.Expr
}

func (p *nextPusher) sub(vars []*expr.Expr) *nextPusher {
	inner := make(map[*expr.Expr]bool, len(p.bound)+len(vars))
	for k := range p.bound {
		inner[k] = true
	}
	for _, v := range vars {
		inner[v] = true
	}
	return &nextPusher{env: p.env, bound: inner,
		memo: map[*expr.Expr]*expr.Expr{}, underMemo: map[*expr.Expr]*expr.Expr{}}
}

func (p *nextPusher) walk(f *expr.Expr) (*expr.Expr, error) {
	if r, ok := p.memo[f]; ok {
		return r, nil
	}
	var res *expr.Expr
	var err error
	switch {
	case f.Kind() == expr.KindNext:
		res, err = p.under(f.Arg(0))
	case f.Kind().IsQuantifier():
		var body *expr.Expr
		body, err = p.sub(f.QuantVars()).walk(f.Arg(0))
		if err == nil {
			res = p.env.Rebuild(f, []*expr.Expr{body})
		}
	case f.Arity() == 0:
		res = f
	default:
		args := make([]*expr.Expr, f.Arity())
		for i, a := range f.Args() {
			if args[i], err = p.walk(a); err != nil {
				return nil, err
			}
		}
		res = p.env.Rebuild(f, args)
	}
	if err != nil {
		return nil, err
	}
	p.memo[f] = res
	return res, nil
}

// under rewrites a formula occurring below a Next operator.
func (p *nextPusher) under(f *expr.Expr) (*expr.Expr, error) {
	if r, ok := p.underMemo[f]; ok {
		return r, nil
	}
	var res *expr.Expr
	var err error
	switch {
	case f.Kind() == expr.KindNext:
		return nil, expr.ErrNestedNext
	case f.IsSymbol():
		if p.bound[f] {
			res = f
		} else {
			res = p.env.Next(f)
		}
	case f.Arity() == 0:
		res = f
	case f.Kind().IsQuantifier():
		var body *expr.Expr
		body, err = p.sub(f.QuantVars()).under(f.Arg(0))
		if err == nil {
			res = p.env.Rebuild(f, []*expr.Expr{body})
		}
	default:
		args := make([]*expr.Expr, f.Arity())
		for i, a := range f.Args() {
			if args[i], err = p.under(a); err != nil {
				return nil, err
			}
		}
		res = p.env.Rebuild(f, args)
	}
	if err != nil {
		return nil, err
	}
	p.underMemo[f] = res
	return res, nil
}
