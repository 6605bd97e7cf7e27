package encode

import (
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/rewrite"
)

// elWalker identifies the elementary subformulae of a property
// rewritten to the {X, U, Y, S, Not} basis and computes their sat
// values. Each temporal subformula gets a fresh tableau state
// variable; allocation order is the walk order, which keeps the
// encoding deterministic.
type elWalker struct {
	env     *expr.Env
	satMemo map[*expr.Expr]*expr.Expr
	elMap   map[*expr.Expr]*expr.Expr
	elOrder []*expr.Expr
}

func newElWalker(env *expr.Env) *elWalker {
	return &elWalker{
		env:     env,
		satMemo: map[*expr.Expr]*expr.Expr{},
		elMap:   map[*expr.Expr]*expr.Expr{},
	}
}

func (w *elWalker) elVar(elem *expr.Expr, template string) *expr.Expr {
	if v, ok := w.elMap[elem]; ok {
		return v
	}
	v := w.env.FreshSymbol(expr.BoolType(), template)
	w.elMap[elem] = v
	w.elOrder = append(w.elOrder, elem)
	return v
}

// sat returns the boolean skeleton of the formula, with every
// elementary subformula replaced by its tableau variable:
//
//	sat(X f)   = el(X f)
//	sat(f U g) = sat(g) | (sat(f) & el(X(f U g)))
//	sat(Y f)   = el(Y f)
//	sat(f S g) = sat(g) | (sat(f) & el(Y(f S g)))
func (w *elWalker) sat(f *expr.Expr) (*expr.Expr, error) {
	if r, ok := w.satMemo[f]; ok {
		return r, nil
	}
	env := w.env
	var res *expr.Expr
	switch f.Kind() {
	case expr.KindLtlX:
		if _, err := w.sat(f.Arg(0)); err != nil {
			return nil, err
		}
		res = w.elVar(f, "el_x_%d")
	case expr.KindLtlU:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.X(f), "el_u_%d")
		res = env.Or(sb, env.And(sa, v))
	case expr.KindLtlY:
		if _, err := w.sat(f.Arg(0)); err != nil {
			return nil, err
		}
		res = w.elVar(f, "el_y_%d")
	case expr.KindLtlS:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.Y(f), "el_s_%d")
		res = env.Or(sb, env.And(sa, v))
	case expr.KindLtlN, expr.KindLtlF, expr.KindLtlG, expr.KindLtlR,
		expr.KindLtlZ, expr.KindLtlO, expr.KindLtlH, expr.KindLtlT:
		return nil, fmt.Errorf("%w: %s must be rewritten before tableau encoding",
			ErrUnsupportedOperator, f.Kind())
	default:
		if !env.HasLTL(f) {
			res = f
		} else {
			args := make([]*expr.Expr, f.Arity())
			for i, a := range f.Args() {
				s, err := w.sat(a)
				if err != nil {
					return nil, err
				}
				args[i] = s
			}
			res = env.Rebuild(f, args)
		}
	}
	w.satMemo[f] = res
	return res, nil
}

// LTL encodes an LTL property into the model with the classical
// tableau construction. The property is negated, rewritten to the
// {X, U, Y, S, Not} basis, and its elementary subformulae become fresh
// tableau state variables wired by TRANS biconditionals; one justice
// constraint per Until is flattened into a single liveness property at
// index 0.
func LTL(m *model.Model, f *expr.Expr) (*model.Model, error) {
	if err := checkProperty(m, f); err != nil {
		return nil, err
	}
	env := m.Env()
	g := rewrite.ToXU(env, env.Not(f))

	w := newElWalker(env)
	initSat, err := w.sat(g)
	if err != nil {
		return nil, err
	}

	out, err := copyModel(m)
	if err != nil {
		return nil, err
	}

	var justices []*expr.Expr
	for _, elem := range w.elOrder {
		v := w.elMap[elem]
		if err := out.AddStateVar(v); err != nil {
			return nil, err
		}
		child := elem.Arg(0)
		satChild, err := w.sat(child)
		if err != nil {
			return nil, err
		}
		switch elem.Kind() {
		case expr.KindLtlX:
			// v holds now iff the child holds in the next step
			if err := out.AddTrans(env.Iff(v, env.Next(satChild))); err != nil {
				return nil, err
			}
			if child.Kind() == expr.KindLtlU {
				satB, err := w.sat(child.Arg(1))
				if err != nil {
					return nil, err
				}
				justices = append(justices, env.Or(env.Not(satChild), satB))
			}
		case expr.KindLtlY:
			// v holds next iff the child holds now
			if err := out.AddTrans(env.Iff(env.Next(v), satChild)); err != nil {
				return nil, err
			}
		}
	}

	if err := out.AddInit(initSat); err != nil {
		return nil, err
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
