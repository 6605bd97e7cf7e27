package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

// exampleTrace builds a four-step finite trace over an int and a bool
// state variable, with an optional loopback at step 1.
func exampleTrace(t *testing.T, withLoopback bool) (*model.Model, *Trace) {
	t.Helper()
	env := expr.NewEnv()
	m := model.New(env)
	x, err := m.CreateStateVar("x", expr.IntType())
	require.NoError(t, err)
	y, err := m.CreateStateVar("y", expr.BoolType())
	require.NoError(t, err)

	tr := New("counterexample", m.StateVars(), env)
	tr.CreateStep(map[*expr.Expr]*expr.Expr{x: env.Int(0), y: env.TRUE()})
	if withLoopback {
		_, err = tr.CreateLoopbackStep(map[*expr.Expr]*expr.Expr{x: env.Int(1), y: env.FALSE()})
		require.NoError(t, err)
	} else {
		tr.CreateStep(map[*expr.Expr]*expr.Expr{x: env.Int(1), y: env.FALSE()})
	}
	tr.CreateStep(map[*expr.Expr]*expr.Expr{x: env.Int(2), y: env.FALSE()})
	tr.CreateStep(map[*expr.Expr]*expr.Expr{x: env.Int(3), y: env.TRUE()})
	return m, tr
}

func TestLoopbackStep(t *testing.T) {
	_, tr := exampleTrace(t, true)
	env := tr.Env()

	require.True(t, tr.HasLoopbackStep())
	idx, err := tr.LoopbackStepIdx()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	lb, err := tr.LoopbackStep()
	require.NoError(t, err)
	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	assert.Equal(t, env.Int(1), lb.Assignments()[x])
	assert.Equal(t, env.FALSE(), lb.Assignments()[y])

	_, err = tr.CreateLoopbackStep(nil)
	require.ErrorIs(t, err, ErrDuplicateLoopbackStep)

	_, tr = exampleTrace(t, false)
	require.False(t, tr.HasLoopbackStep())
	_, err = tr.LoopbackStep()
	require.ErrorIs(t, err, ErrMissingLoopbackStep)
}

func TestStepsCount(t *testing.T) {
	_, tr := exampleTrace(t, true)
	assert.Equal(t, 4, tr.StepsCount())
	assert.Len(t, tr.Steps(), 4)
}

func TestDifferentVariables(t *testing.T) {
	_, tr := exampleTrace(t, true)
	env := tr.Env()
	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	steps := tr.Steps()

	assert.Equal(t, []*expr.Expr{x}, steps[1].DifferentVariables(steps[2]))
	assert.Equal(t, []*expr.Expr{x, y}, steps[0].DifferentVariables(steps[2]))

	changing, err := steps[1].ChangingVariables()
	require.NoError(t, err)
	assert.Equal(t, []*expr.Expr{x}, changing)

	changed, err := steps[1].ChangedVariables()
	require.NoError(t, err)
	assert.Equal(t, []*expr.Expr{x, y}, changed)
}

func TestAdjacentSteps(t *testing.T) {
	_, tr := exampleTrace(t, true)
	steps := tr.Steps()

	for _, step := range steps {
		assert.True(t, step.HasNextStep())
	}
	assert.False(t, steps[0].HasPrevStep())
	for _, step := range steps[1:] {
		assert.True(t, step.HasPrevStep())
	}

	// the loopback edge closes the lasso
	next, err := steps[3].NextStep()
	require.NoError(t, err)
	assert.Same(t, steps[1], next)
	prev, err := steps[3].PrevStep()
	require.NoError(t, err)
	assert.Same(t, steps[2], prev)

	_, tr = exampleTrace(t, false)
	steps = tr.Steps()
	assert.False(t, steps[3].HasNextStep())
	_, err = steps[3].NextStep()
	require.ErrorIs(t, err, ErrStepNotFound)
	_, err = steps[0].PrevStep()
	require.ErrorIs(t, err, ErrStepNotFound)
}

func TestAssignments(t *testing.T) {
	_, tr := exampleTrace(t, true)
	env := tr.Env()
	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	steps := tr.Steps()

	assert.Equal(t, map[*expr.Expr]*expr.Expr{x: env.Int(0), y: env.TRUE()},
		steps[0].Assignments())
	v, err := steps[1].Assignment(x)
	require.NoError(t, err)
	assert.Same(t, env.Int(1), v)

	ghost := env.Symbol("ghost", expr.BoolType())
	_, err = steps[1].Assignment(ghost)
	require.ErrorIs(t, err, ErrNotAssigned)
}

func TestEvaluateFormula(t *testing.T) {
	m, tr := exampleTrace(t, true)
	env := tr.Env()
	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	steps := tr.Steps()

	// x + x' on step 1: 1 + 2
	got, err := steps[1].EvaluateFormula(env.Plus(x, m.Next(x)))
	require.NoError(t, err)
	assert.Same(t, env.Int(3), got)

	// on the last step, next follows the loopback to step 1
	got, err = steps[3].EvaluateFormula(env.And(y, env.Equals(m.Next(x), env.Int(1))))
	require.NoError(t, err)
	assert.Same(t, env.TRUE(), got)

	extra := env.Symbol("extra_symbol", expr.BoolType())
	_, err = steps[1].EvaluateFormula(m.Next(extra))
	require.ErrorIs(t, err, ErrUnexpectedNext)
}

func TestStepFormula(t *testing.T) {
	_, tr := exampleTrace(t, true)
	env := tr.Env()
	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	steps := tr.Steps()

	assert.Same(t, env.And(env.Equals(x, env.Int(0)), y), steps[0].Formula())
	assert.Same(t, env.And(env.Equals(x, env.Int(1)), env.Not(y)), steps[1].Formula())

	s0, err := steps[0].SerializeToString()
	require.NoError(t, err)
	assert.Equal(t, "(define-fun step-0 () Bool (and (= x 0) y))", s0)
	s1, err := steps[1].SerializeToString()
	require.NoError(t, err)
	assert.Equal(t, "(define-fun loopback-step-1 () Bool (and (= x 1) (not y)))", s1)
}
