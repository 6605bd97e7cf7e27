package encode

import (
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/rewrite"
)

// labelledSubformula pairs an activator variable with the subformula
// it labels; the subformula is rebuilt over the labels of its own
// children, so every pair describes one small monitor.
type labelledSubformula struct {
	activator *expr.Expr
	formula   *expr.Expr
}

// circuitWalker extracts the labelled subformulae of a formula in
// negation normal form, leaves first.
type circuitWalker struct {
	env   *expr.Env
	memo  map[*expr.Expr]*expr.Expr
	pairs []labelledSubformula
}

func (w *circuitWalker) label(f *expr.Expr) *expr.Expr {
	if r, ok := w.memo[f]; ok {
		return r
	}
	var res *expr.Expr
	if f.Arity() == 0 {
		res = f
	} else {
		args := make([]*expr.Expr, f.Arity())
		for i, a := range f.Args() {
			args[i] = w.label(a)
		}
		rebuilt := w.env.Rebuild(f, args)
		switch f.Kind() {
		case expr.KindAnd, expr.KindOr,
			expr.KindLtlX, expr.KindLtlN, expr.KindLtlF, expr.KindLtlG,
			expr.KindLtlU, expr.KindLtlR, expr.KindLtlY, expr.KindLtlZ,
			expr.KindLtlO, expr.KindLtlH, expr.KindLtlS, expr.KindLtlT:
			z := w.env.FreshSymbol(expr.BoolType(), "LTL.Z.%d")
			w.pairs = append(w.pairs, labelledSubformula{activator: z, formula: rebuilt})
			res = z
		default:
			res = rebuilt
		}
	}
	w.memo[f] = res
	return res
}

// monitor is the local machine generated for one labelled subformula.
type monitor struct {
	stVars  []*expr.Expr
	init    []*expr.Expr
	trans   []*expr.Expr
	accept  *expr.Expr
	failed  *expr.Expr
	pending *expr.Expr
}

// makeMonitor builds the machine for one labelled subformula. isInit
// is true exactly in the first step; z is the activator of the
// monitor.
func makeMonitor(env *expr.Env, isInit, z, f *expr.Expr) (monitor, error) {
	mon := monitor{accept: env.TRUE(), failed: env.FALSE(), pending: env.FALSE()}
	switch f.Kind() {
	case expr.KindAnd, expr.KindOr:
		mon.failed = env.And(z, env.Not(f))
	case expr.KindLtlX, expr.KindLtlN:
		// over infinite runs the weak next coincides with X
		yz := env.FreshSymbol(expr.BoolType(), "LTL.X.YZ.%d")
		mon.stVars = append(mon.stVars, yz)
		mon.pending = z
		mon.failed = env.And(yz, env.Not(f.Arg(0)))
		mon.init = append(mon.init, env.Not(yz))
		mon.trans = append(mon.trans, env.Iff(env.Next(yz), z))
	case expr.KindLtlG:
		yp := env.FreshSymbol(expr.BoolType(), "LTL.G.YP.%d")
		mon.stVars = append(mon.stVars, yp)
		mon.pending = env.Or(yp, z)
		mon.failed = env.And(mon.pending, env.Not(f.Arg(0)))
		mon.init = append(mon.init, env.Not(yp))
		mon.trans = append(mon.trans, env.Iff(env.Next(yp), mon.pending))
	case expr.KindLtlF:
		yp := env.FreshSymbol(expr.BoolType(), "LTL.F.YP.%d")
		mon.stVars = append(mon.stVars, yp)
		mon.pending = env.And(env.Or(z, yp), env.Not(f.Arg(0)))
		mon.accept = env.Not(mon.pending)
		mon.init = append(mon.init, env.Not(yp))
		mon.trans = append(mon.trans, env.Iff(env.Next(yp), mon.pending))
	case expr.KindLtlU:
		yp := env.FreshSymbol(expr.BoolType(), "LTL.U.YP.%d")
		mon.stVars = append(mon.stVars, yp)
		mon.pending = env.And(env.Or(z, yp), env.Not(f.Arg(1)))
		mon.accept = env.Not(mon.pending)
		mon.failed = env.And(mon.pending, env.Not(f.Arg(0)))
		mon.init = append(mon.init, env.Not(yp))
		mon.trans = append(mon.trans, env.Iff(env.Next(yp), mon.pending))
	case expr.KindLtlR:
		yp := env.FreshSymbol(expr.BoolType(), "LTL.R.YP.%d")
		mon.stVars = append(mon.stVars, yp)
		mon.pending = env.And(env.Or(z, yp), env.Not(f.Arg(0)))
		mon.accept = env.Not(mon.pending)
		mon.failed = env.And(mon.pending, env.Not(f.Arg(1)))
		mon.init = append(mon.init, env.Not(yp))
		mon.trans = append(mon.trans, env.Iff(env.Next(yp), mon.pending))
	case expr.KindLtlY:
		ya := env.FreshSymbol(expr.BoolType(), "LTL.Y.YA.%d")
		mon.stVars = append(mon.stVars, ya)
		mon.failed = env.And(z, env.Not(ya))
		mon.init = append(mon.init, env.Not(ya))
		mon.trans = append(mon.trans, env.Iff(env.Next(ya), f.Arg(0)))
	case expr.KindLtlZ:
		za := env.FreshSymbol(expr.BoolType(), "LTL.Z.ZA.%d")
		mon.stVars = append(mon.stVars, za)
		mon.failed = env.And(z, env.Not(za))
		mon.init = append(mon.init, za)
		mon.trans = append(mon.trans, env.Iff(env.Next(za), f.Arg(0)))
	case expr.KindLtlH:
		ynt := env.FreshSymbol(expr.BoolType(), "LTL.H.YNT.%d")
		mon.stVars = append(mon.stVars, ynt)
		nt := env.Or(ynt, env.Not(f.Arg(0)))
		mon.failed = env.And(z, nt)
		mon.init = append(mon.init, env.Not(ynt))
		mon.trans = append(mon.trans, env.Iff(env.Next(ynt), nt))
	case expr.KindLtlO:
		yt := env.FreshSymbol(expr.BoolType(), "LTL.O.YT.%d")
		mon.stVars = append(mon.stVars, yt)
		t := env.Or(yt, f.Arg(0))
		mon.failed = env.And(z, env.Not(t))
		mon.init = append(mon.init, env.Not(yt))
		mon.trans = append(mon.trans, env.Iff(env.Next(yt), t))
	case expr.KindLtlS:
		yt := env.FreshSymbol(expr.BoolType(), "LTL.S.YT.%d")
		mon.stVars = append(mon.stVars, yt)
		t := env.Or(f.Arg(1), env.And(yt, f.Arg(0)))
		mon.failed = env.And(z, env.Not(t))
		mon.init = append(mon.init, env.Not(yt))
		mon.trans = append(mon.trans, env.Iff(env.Next(yt), t))
	case expr.KindLtlT:
		ynt := env.FreshSymbol(expr.BoolType(), "LTL.T.YNT.%d")
		mon.stVars = append(mon.stVars, ynt)
		nt := env.Or(env.Not(f.Arg(1)), env.And(ynt, env.Not(f.Arg(0))))
		mon.failed = env.And(z, nt)
		mon.init = append(mon.init, env.Not(ynt))
		mon.trans = append(mon.trans, env.Iff(env.Next(ynt), nt))
	default:
		return mon, fmt.Errorf("%w: cannot create monitor for %s", ErrUnsupportedOperator, f.Kind())
	}
	return mon, nil
}

// Circuit encodes an LTL property by attaching one monitor circuit per
// labelled subformula of the negated property in negation normal form.
// A sticky has_failed latch records any monitor failure; the justice
// set requires every monitor to accept infinitely often without a
// failure, flattened into a single liveness property at index 0.
func Circuit(m *model.Model, f *expr.Expr) (*model.Model, error) {
	if err := checkProperty(m, f); err != nil {
		return nil, err
	}
	out, err := copyModel(m)
	if err != nil {
		return nil, err
	}
	env := m.Env()
	g := rewrite.NNF(env, env.Not(f))

	w := &circuitWalker{env: env, memo: map[*expr.Expr]*expr.Expr{}}
	root := w.label(g)
	if len(w.pairs) == 0 {
		// no LTL or boolean structure at all: wrap the formula so there
		// is at least one monitor
		z := env.FreshSymbol(expr.BoolType(), "LTL.Z.%d")
		w.pairs = append(w.pairs, labelledSubformula{
			activator: z,
			formula:   env.And(root, env.TRUE()),
		})
	}

	isInit := env.FreshSymbol(expr.BoolType(), "is_init.%d")
	// the root monitor fires once, at the very first step
	w.pairs[len(w.pairs)-1].activator = isInit

	for _, p := range w.pairs {
		if err := out.AddStateVar(p.activator); err != nil {
			return nil, err
		}
	}
	if err := out.AddInit(isInit); err != nil {
		return nil, err
	}
	if err := out.AddTrans(env.Iff(env.Next(isInit), env.FALSE())); err != nil {
		return nil, err
	}

	var allAccept, allFailed []*expr.Expr
	for _, p := range w.pairs {
		mon, err := makeMonitor(env, isInit, p.activator, p.formula)
		if err != nil {
			return nil, err
		}
		for _, sv := range mon.stVars {
			if err := out.AddStateVar(sv); err != nil {
				return nil, err
			}
		}
		for _, c := range mon.init {
			if err := out.AddInit(c); err != nil {
				return nil, err
			}
		}
		for _, c := range mon.trans {
			if err := out.AddTrans(c); err != nil {
				return nil, err
			}
		}
		allAccept = append(allAccept, mon.accept)
		allFailed = append(allFailed, mon.failed)
	}

	hasFailed := env.FreshSymbol(expr.BoolType(), "has_failed.%d")
	if err := out.AddStateVar(hasFailed); err != nil {
		return nil, err
	}
	if err := out.AddInit(env.Not(hasFailed)); err != nil {
		return nil, err
	}
	sticky := append(append([]*expr.Expr{}, allFailed...), hasFailed)
	if err := out.AddTrans(env.Iff(env.Next(hasFailed), env.Or(sticky...))); err != nil {
		return nil, err
	}

	justices := make([]*expr.Expr, len(allAccept))
	for i, acc := range allAccept {
		justices[i] = env.And(acc, env.Not(hasFailed))
	}
	jf := makeSingleJustice(env, justices)
	for _, sv := range jf.stVars {
		if err := out.AddStateVar(sv); err != nil {
			return nil, err
		}
	}
	for _, c := range jf.init {
		if err := out.AddInit(c); err != nil {
			return nil, err
		}
	}
	for _, c := range jf.trans {
		if err := out.AddTrans(c); err != nil {
			return nil, err
		}
	}
	if err := out.AddPropertyAt(model.Live, env.Not(jf.accept), 0); err != nil {
		return nil, err
	}
	return out, nil
}
