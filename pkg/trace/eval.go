package trace

import (
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
)

// eval folds a next-pushed formula into a constant node using the
// step's assignments. Constants are interned, so equality of evaluated
// values is pointer equality.
func (s *Step) eval(f *expr.Expr) (*expr.Expr, error) {
	env := s.trace.env
	switch f.Kind() {
	case expr.KindSymbol:
		return s.Assignment(f)
	case expr.KindNext:
		sym := f.Arg(0)
		next, err := s.NextStep()
		if err != nil {
			return nil, fmt.Errorf("%w: no step after %d", ErrUnexpectedNext, s.idx)
		}
		v, ok := next.assignments[sym]
		if !ok {
			return nil, fmt.Errorf("%w: %s not assigned in the next step", ErrUnexpectedNext, sym)
		}
		return v, nil
	case expr.KindBoolConst, expr.KindIntConst, expr.KindRealConst, expr.KindBVConst:
		return f, nil
	}

	args := make([]*expr.Expr, f.Arity())
	for i, a := range f.Args() {
		v, err := s.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return foldConstant(env, f, args)
}

func foldConstant(env *expr.Env, f *expr.Expr, args []*expr.Expr) (*expr.Expr, error) {
	switch f.Kind() {
	case expr.KindAnd:
		for _, a := range args {
			if a.IsFalse() {
				return env.FALSE(), nil
			}
		}
		return env.TRUE(), nil
	case expr.KindOr:
		for _, a := range args {
			if a.IsTrue() {
				return env.TRUE(), nil
			}
		}
		return env.FALSE(), nil
	case expr.KindNot:
		return env.Bool(args[0].IsFalse()), nil
	case expr.KindImplies:
		return env.Bool(args[0].IsFalse() || args[1].IsTrue()), nil
	case expr.KindIff, expr.KindEquals:
		return env.Bool(args[0] == args[1]), nil
	case expr.KindIte:
		if args[0].IsTrue() {
			return args[1], nil
		}
		return args[2], nil
	}

	if f.Type().IsBool() || f.Type().IsInt() {
		if v, ok := foldArith(env, f.Kind(), args); ok {
			return v, nil
		}
	}
	if args[0].Type().IsBV() {
		if v, ok := foldBV(env, f, args); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCannotEvaluate, f.Kind())
}

func foldArith(env *expr.Env, kind expr.Kind, args []*expr.Expr) (*expr.Expr, bool) {
	for _, a := range args {
		if a.Kind() != expr.KindIntConst {
			return nil, false
		}
	}
	switch kind {
	case expr.KindLT:
		return env.Bool(args[0].IntValue() < args[1].IntValue()), true
	case expr.KindLE:
		return env.Bool(args[0].IntValue() <= args[1].IntValue()), true
	case expr.KindPlus:
		var sum int64
		for _, a := range args {
			sum += a.IntValue()
		}
		return env.Int(sum), true
	case expr.KindMinus:
		return env.Int(args[0].IntValue() - args[1].IntValue()), true
	case expr.KindTimes:
		prod := int64(1)
		for _, a := range args {
			prod *= a.IntValue()
		}
		return env.Int(prod), true
	case expr.KindDiv:
		if args[1].IntValue() == 0 {
			return nil, false
		}
		return env.Int(args[0].IntValue() / args[1].IntValue()), true
	}
	return nil, false
}

func foldBV(env *expr.Env, f *expr.Expr, args []*expr.Expr) (*expr.Expr, bool) {
	for _, a := range args {
		if a.Kind() != expr.KindBVConst {
			return nil, false
		}
	}
	width := args[0].Type().Width()
	mask := ^uint64(0)
	if width < 64 {
		mask = (uint64(1) << uint(width)) - 1
	}
	bv := func(v uint64) (*expr.Expr, bool) { return env.BV(v&mask, width), true }
	a := args[0].BVValue()
	var b uint64
	if len(args) > 1 {
		b = args[1].BVValue()
	}
	switch f.Kind() {
	case expr.KindBVAdd:
		return bv(a + b)
	case expr.KindBVSub:
		return bv(a - b)
	case expr.KindBVMul:
		return bv(a * b)
	case expr.KindBVAnd:
		return bv(a & b)
	case expr.KindBVOr:
		return bv(a | b)
	case expr.KindBVXor:
		return bv(a ^ b)
	case expr.KindBVNot:
		return bv(^a)
	case expr.KindBVShl:
		if b >= uint64(width) {
			return bv(0)
		}
		return bv(a << b)
	case expr.KindBVLshr:
		if b >= uint64(width) {
			return bv(0)
		}
		return bv(a >> b)
	case expr.KindBVULT:
		return env.Bool(a < b), true
	case expr.KindBVULE:
		return env.Bool(a <= b), true
	case expr.KindBVConcat:
		wb := args[1].Type().Width()
		return env.BV(a<<uint(wb)|b, width+wb), true
	case expr.KindBVExtract:
		lo, hi := f.ExtractBounds()
		w := hi - lo + 1
		m := ^uint64(0)
		if w < 64 {
			m = (uint64(1) << uint(w)) - 1
		}
		return env.BV((a>>uint(lo))&m, w), true
	}
	return nil, false
}
