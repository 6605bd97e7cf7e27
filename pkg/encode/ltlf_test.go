package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

func TestLTLfInvariantShape(t *testing.T) {
	env := expr.NewEnv()
	m, vars := boolModel(t, env, "a")
	a := vars[0]

	// (G X a) <-> (G a)
	f := env.Iff(env.G(env.X(a)), env.G(a))
	enc, err := LTLf(m, f)
	require.NoError(t, err)
	assertKeepsOriginal(t, m, enc)

	vX, ok := env.LookupSymbol("el_x_0")
	require.True(t, ok)
	vU0, ok := env.LookupSymbol("el_u_0")
	require.True(t, ok)
	vU1, ok := env.LookupSymbol("el_u_1")
	require.True(t, ok)

	// the invariant is the disjunction of the strong obligations: the
	// positive X and the two Us that survive the rewriting of G
	p, err := enc.Property(0)
	require.NoError(t, err)
	assert.Equal(t, model.Invar, p.Kind)
	assert.Same(t, env.Or(vX, vU0, vU1), p.Formula)

	// six elementary variables, each with one trans implication
	trans := enc.TransConstraints()
	require.Len(t, trans, 6)
	for _, c := range trans {
		assert.Equal(t, expr.KindImplies, c.Kind())
		assert.True(t, c.Arg(0).IsSymbol())
		assert.Equal(t, expr.KindNext, c.Arg(1).Kind())
	}
}

func TestLTLfStrongVsWeakNext(t *testing.T) {
	env := expr.NewEnv()
	m, vars := boolModel(t, env, "a")
	a := vars[0]

	// the encoder negates: !(N a) becomes the strong obligation X !a
	enc, err := LTLf(m, env.N(a))
	require.NoError(t, err)
	vX, ok := env.LookupSymbol("el_x_0")
	require.True(t, ok)
	p, err := enc.Property(0)
	require.NoError(t, err)
	assert.Same(t, vX, p.Formula)
	assert.Contains(t, enc.TransConstraints(), env.Implies(vX, env.Next(env.Not(a))))
	assert.Contains(t, enc.InitConstraints(), vX)
}

func TestLTLfWeakObligationsExcluded(t *testing.T) {
	env := expr.NewEnv()
	m, vars := boolModel(t, env, "a")
	a := vars[0]

	// !(X a) = N !a: only a weak variable, so the invariant is empty
	enc, err := LTLf(m, env.X(a))
	require.NoError(t, err)

	vN, ok := env.LookupSymbol("el_n_0")
	require.True(t, ok)
	require.True(t, enc.IsStateVar(vN))

	p, err := enc.Property(0)
	require.NoError(t, err)
	assert.Equal(t, model.Invar, p.Kind)
	assert.Same(t, env.FALSE(), p.Formula)
}

func TestLTLfPastOperators(t *testing.T) {
	env := expr.NewEnv()
	m, vars := boolModel(t, env, "a", "b")
	a, b := vars[0], vars[1]

	// !(a T b) = !a S !b survives as a since over the past
	enc, err := LTLf(m, env.T(a, b))
	require.NoError(t, err)

	vS, ok := env.LookupSymbol("el_s_0")
	require.True(t, ok)
	satS := env.Or(env.Not(b), env.And(env.Not(a), vS))
	assert.Contains(t, enc.TransConstraints(), env.Iff(env.Next(vS), satS))
}

func TestSafetyLTLEncoder(t *testing.T) {
	env := expr.NewEnv()
	m, vars := boolModel(t, env, "a", "b")
	a, b := vars[0], vars[1]

	// liveness is rejected
	_, err := SafetyLTL(m, env.F(a))
	require.ErrorIs(t, err, ErrNotSafety)
	_, err = SafetyLTL(m, env.G(env.Or(a, env.F(b))))
	require.ErrorIs(t, err, ErrNotSafety)

	// a safety property encodes as an invariant
	enc, err := SafetyLTL(m, env.G(env.Implies(a, env.X(b))))
	require.NoError(t, err)
	p, err := enc.Property(0)
	require.NoError(t, err)
	assert.Equal(t, model.Invar, p.Kind)
	assertKeepsOriginal(t, m, enc)
}
