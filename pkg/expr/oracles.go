package expr

// Oracles: memoised bottom-up analyses over the DAG. Results are
// cached in the environment; since nodes are interned per Env the
// caches never go stale.

// HasLTL reports whether the formula contains any LTL operator.
func (e *Env) HasLTL(f *Expr) bool {
	if v, ok := e.hasLTLCache[f]; ok {
		return v
	}
	v := false
	if f.kind.IsLTL() {
		v = true
	} else {
		for _, a := range f.args {
			if e.HasLTL(a) {
				v = true
				break
			}
		}
	}
	e.hasLTLCache[f] = v
	return v
}

// HasNext reports whether the formula contains the Next operator.
func (e *Env) HasNext(f *Expr) bool {
	if v, ok := e.hasNextCache[f]; ok {
		return v
	}
	v := false
	if f.kind == KindNext {
		v = true
	} else {
		for _, a := range f.args {
			if e.HasNext(a) {
				v = true
				break
			}
		}
	}
	e.hasNextCache[f] = v
	return v
}

// FreeVars returns the free symbols of the formula in first-occurrence
// order. The returned slice is cached and must be treated as
// read-only.
func (e *Env) FreeVars(f *Expr) []*Expr {
	if v, ok := e.freeVarCache[f]; ok {
		return v
	}
	var out []*Expr
	seen := map[*Expr]bool{}
	var walk func(x *Expr, bound map[*Expr]bool)
	walk = func(x *Expr, bound map[*Expr]bool) {
		switch {
		case x.IsSymbol():
			if !bound[x] && !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		case x.kind.IsQuantifier():
			inner := make(map[*Expr]bool, len(bound)+len(x.vars))
			for k := range bound {
				inner[k] = true
			}
			for _, v := range x.vars {
				inner[v] = true
			}
			walk(x.args[0], inner)
		default:
			for _, a := range x.args {
				walk(a, bound)
			}
		}
	}
	walk(f, map[*Expr]bool{})
	e.freeVarCache[f] = out
	return out
}
