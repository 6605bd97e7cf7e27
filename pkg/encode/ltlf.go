package encode

import (
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/rewrite"
)

// ltlfWalker identifies elementary subformulae for the finite-trace
// encoding. The property is in negation normal form over the
// {X, N, U, R, Y, Z, S, T} operators. Strong obligations (X and U)
// get X-wrapped elementary variables, weak ones (N and R) N-wrapped,
// and the past operators their Y/Z counterparts:
//
//	sat(X f)   = el(X f)            strong
//	sat(N f)   = el(N f)            weak
//	sat(f U g) = sat(g) | (sat(f) & el(X(f U g)))
//	sat(f R g) = sat(g) & (sat(f) | el(N(f R g)))
//	sat(Y f)   = el(Y f)
//	sat(Z f)   = el(Z f)
//	sat(f S g) = sat(g) | (sat(f) & el(Y(f S g)))
//	sat(f T g) = sat(g) & (sat(f) | el(Z(f T g)))
type ltlfWalker struct {
	env        *expr.Env
	satMemo    map[*expr.Expr]*expr.Expr
	elMap      map[*expr.Expr]*expr.Expr
	elOrder    []*expr.Expr
	strongVars []*expr.Expr
}

func newLtlfWalker(env *expr.Env) *ltlfWalker {
	return &ltlfWalker{
		env:     env,
		satMemo: map[*expr.Expr]*expr.Expr{},
		elMap:   map[*expr.Expr]*expr.Expr{},
	}
}

func (w *ltlfWalker) elVar(elem *expr.Expr, template string, strong bool) *expr.Expr {
	if v, ok := w.elMap[elem]; ok {
		return v
	}
	v := w.env.FreshSymbol(expr.BoolType(), template)
	w.elMap[elem] = v
	w.elOrder = append(w.elOrder, elem)
	if strong {
		w.strongVars = append(w.strongVars, v)
	}
	return v
}

func (w *ltlfWalker) sat(f *expr.Expr) (*expr.Expr, error) {
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
		res = w.elVar(f, "el_x_%d", true)
	case expr.KindLtlN:
		if _, err := w.sat(f.Arg(0)); err != nil {
			return nil, err
		}
		res = w.elVar(f, "el_n_%d", false)
	case expr.KindLtlU:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.X(f), "el_u_%d", true)
		res = env.Or(sb, env.And(sa, v))
	case expr.KindLtlR:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.N(f), "el_r_%d", false)
		res = env.And(sb, env.Or(sa, v))
	case expr.KindLtlY:
		if _, err := w.sat(f.Arg(0)); err != nil {
			return nil, err
		}
		res = w.elVar(f, "el_y_%d", false)
	case expr.KindLtlZ:
		if _, err := w.sat(f.Arg(0)); err != nil {
			return nil, err
		}
		res = w.elVar(f, "el_z_%d", false)
	case expr.KindLtlS:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.Y(f), "el_s_%d", false)
		res = env.Or(sb, env.And(sa, v))
	case expr.KindLtlT:
		sa, err := w.sat(f.Arg(0))
		if err != nil {
			return nil, err
		}
		sb, err := w.sat(f.Arg(1))
		if err != nil {
			return nil, err
		}
		v := w.elVar(env.Z(f), "el_t_%d", false)
		res = env.And(sb, env.Or(sa, v))
	case expr.KindLtlF, expr.KindLtlG, expr.KindLtlO, expr.KindLtlH:
		return nil, fmt.Errorf("%w: %s must be rewritten before LTLf encoding",
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

// LTLf encodes a finite-trace LTL property. The negated property is
// rewritten to the {X, N, U, R, Y, S, Not} basis and NNF-ized; future
// elementary variables become proof obligations discharged through
// TRANS implications, past ones are recorded through biconditionals.
// The emitted property is an invariant: the disjunction of the strong
// obligation variables. A counterexample to it is a finite state
// sequence whose last state owes no strong obligation, i.e. a finite
// model of the negated property.
func LTLf(m *model.Model, f *expr.Expr) (*model.Model, error) {
	if err := checkProperty(m, f); err != nil {
		return nil, err
	}
	env := m.Env()
	g := rewrite.NNF(env, rewrite.ToLtlfBasis(env, env.Not(f)))

	w := newLtlfWalker(env)
	initSat, err := w.sat(g)
	if err != nil {
		return nil, err
	}

	out, err := copyModel(m)
	if err != nil {
		return nil, err
	}

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
		case expr.KindLtlX, expr.KindLtlN:
			// a claimed future obligation constrains the next step
			if err := out.AddTrans(env.Implies(v, env.Next(satChild))); err != nil {
				return nil, err
			}
		case expr.KindLtlY, expr.KindLtlZ:
			// past variables record what held in the previous step
			if err := out.AddTrans(env.Iff(env.Next(v), satChild)); err != nil {
				return nil, err
			}
		}
	}

	if err := out.AddInit(initSat); err != nil {
		return nil, err
	}
	if err := out.AddPropertyAt(model.Invar, env.Or(w.strongVars...), 0); err != nil {
		return nil, err
	}
	return out, nil
}

// SafetyLTL encodes a property from the safety fragment of LTL as an
// invariant, by weakening every strong next and delegating to the
// finite-trace encoder. Properties outside the fragment are rejected
// with ErrNotSafety.
func SafetyLTL(m *model.Model, f *expr.Expr) (*model.Model, error) {
	if err := checkProperty(m, f); err != nil {
		return nil, err
	}
	env := m.Env()
	g := rewrite.NNF(env, f)
	if !rewrite.IsSafetyLTL(g) {
		return nil, fmt.Errorf("%w: %s", ErrNotSafety, f)
	}
	return LTLf(m, rewrite.WeakenX(env, g))
}
