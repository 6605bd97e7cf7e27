package expr

// Substitute replaces subformulae according to subs, most-general
// first: whenever a node is a key of subs it is replaced wholesale,
// otherwise its children are rewritten. The substitution is
// capture-avoiding: symbols bound by an enclosing quantifier are never
// replaced, and bound names are preserved.
func (e *Env) Substitute(f *Expr, subs map[*Expr]*Expr) *Expr {
	s := &substituter{env: e, subs: subs, memo: map[*Expr]*Expr{}}
	return s.walk(f)
}

type substituter struct {
	env   *Env
	subs  map[*Expr]*Expr
	bound map[*Expr]bool
	memo  map[*Expr]*Expr
}

func (s *substituter) walk(f *Expr) *Expr {
	if r, ok := s.memo[f]; ok {
		return r
	}
	var res *Expr
	switch {
	case f.IsSymbol() && s.bound[f]:
		res = f
	case s.subs[f] != nil:
		res = s.subs[f]
	case f.kind.IsQuantifier():
		inner := &substituter{env: s.env, subs: s.subs, memo: map[*Expr]*Expr{},
			bound: unionBound(s.bound, f.vars)}
		res = s.env.Rebuild(f, []*Expr{inner.walk(f.args[0])})
	case len(f.args) == 0:
		res = f
	default:
		args := make([]*Expr, len(f.args))
		for i, a := range f.args {
			args[i] = s.walk(a)
		}
		res = s.env.Rebuild(f, args)
	}
	s.memo[f] = res
	return res
}

func unionBound(bound map[*Expr]bool, vars []*Expr) map[*Expr]bool {
	out := make(map[*Expr]bool, len(bound)+len(vars))
	for k := range bound {
		out[k] = true
	}
	for _, v := range vars {
		out[v] = true
	}
	return out
}
