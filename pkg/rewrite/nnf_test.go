package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
)

// opKinds collects the LTL operator kinds occurring in a formula.
func opKinds(f *expr.Expr) map[expr.Kind]bool {
	out := map[expr.Kind]bool{}
	var walk func(g *expr.Expr)
	walk = func(g *expr.Expr) {
		if g.Kind().IsLTL() {
			out[g.Kind()] = true
		}
		for _, a := range g.Args() {
			walk(a)
		}
	}
	walk(f)
	return out
}

func TestNNFDualities(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	cases := []struct {
		in, want *expr.Expr
	}{
		{env.Not(env.X(a)), env.N(env.Not(a))},
		{env.Not(env.N(a)), env.X(env.Not(a))},
		{env.Not(env.G(a)), env.F(env.Not(a))},
		{env.Not(env.F(a)), env.G(env.Not(a))},
		{env.Not(env.U(a, b)), env.R(env.Not(a), env.Not(b))},
		{env.Not(env.R(a, b)), env.U(env.Not(a), env.Not(b))},
		{env.Not(env.Y(a)), env.Z(env.Not(a))},
		{env.Not(env.Z(a)), env.Y(env.Not(a))},
		{env.Not(env.H(a)), env.O(env.Not(a))},
		{env.Not(env.O(a)), env.H(env.Not(a))},
		{env.Not(env.S(a, b)), env.T(env.Not(a), env.Not(b))},
		{env.Not(env.T(a, b)), env.S(env.Not(a), env.Not(b))},
		{env.Not(env.Next(a)), env.Next(env.Not(a))},
	}
	for _, c := range cases {
		require.Same(t, c.want, NNF(env, c.in))
	}
}

func TestNNFBooleanStructure(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	require.Same(t, env.Or(env.Not(a), env.Not(b)),
		NNF(env, env.Not(env.And(a, b))))
	require.Same(t, env.Or(env.Not(a), b),
		NNF(env, env.Implies(a, b)))
	require.Same(t, env.And(a, env.Not(b)),
		NNF(env, env.Not(env.Implies(a, b))))
}

func TestNNFDoubleNegation(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	f := env.Implies(env.G(a), env.U(a, b))
	require.Same(t, NNF(env, f), NNF(env, env.Not(env.Not(f))))
}

func TestNNFQuantifiers(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	x := env.Symbol("x", expr.IntType())

	f := env.Not(env.Forall([]*expr.Expr{x}, env.Or(a, env.LT(x, env.Int(0)))))
	want := env.Exists([]*expr.Expr{x},
		env.And(env.Not(a), env.Not(env.LT(x, env.Int(0)))))
	require.Same(t, want, NNF(env, f))
}

func TestToXUBasis(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	require.Same(t, env.U(env.TRUE(), a), ToXU(env, env.F(a)))
	require.Same(t, env.Not(env.U(env.TRUE(), env.Not(a))), ToXU(env, env.G(a)))
	require.Same(t, env.Not(env.U(env.Not(a), env.Not(b))), ToXU(env, env.R(a, b)))
	require.Same(t, env.Not(env.X(env.Not(a))), ToXU(env, env.N(a)))
	require.Same(t, env.S(env.TRUE(), a), ToXU(env, env.O(a)))

	f := env.And(
		env.G(env.Implies(a, env.F(b))),
		env.H(env.R(a, b)),
		env.T(a, env.Z(b)),
	)
	kinds := opKinds(ToXU(env, f))
	for k := range kinds {
		assert.Contains(t, []expr.Kind{expr.KindLtlX, expr.KindLtlU, expr.KindLtlY, expr.KindLtlS}, k)
	}
}

func TestToLtlfBasis(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	f := env.And(
		env.G(env.X(a)),
		env.F(env.N(b)),
		env.O(env.H(a)),
		env.T(a, b),
		env.R(a, b),
	)
	allowed := []expr.Kind{
		expr.KindLtlX, expr.KindLtlN, expr.KindLtlU, expr.KindLtlR,
		expr.KindLtlY, expr.KindLtlS,
	}
	for k := range opKinds(ToLtlfBasis(env, f)) {
		assert.Contains(t, allowed, k)
	}

	// after NNF the duals may reappear, but nothing outside the
	// NNF-LTLf basis
	allowedNNF := append(allowed, expr.KindLtlZ, expr.KindLtlT)
	for k := range opKinds(NNF(env, env.Not(ToLtlfBasis(env, f)))) {
		assert.Contains(t, allowedNNF, k)
	}
}

func TestWeakenX(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	f := env.And(env.X(a), env.U(env.X(b), a))
	want := env.And(env.N(a), env.U(env.N(b), a))
	require.Same(t, want, WeakenX(env, f))
}

func TestIsSafetyLTL(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	b := env.Symbol("b", expr.BoolType())

	assert.True(t, IsSafetyLTL(NNF(env, env.G(a))))
	assert.False(t, IsSafetyLTL(NNF(env, env.F(a))))
	assert.False(t, IsSafetyLTL(NNF(env, env.G(env.Or(a, env.F(b))))))
	assert.True(t, IsSafetyLTL(NNF(env, env.G(env.Implies(a, env.X(b))))))
	assert.True(t, IsSafetyLTL(NNF(env, env.R(a, b))))
	assert.False(t, IsSafetyLTL(NNF(env, env.U(a, b))))
	// a negated G turns into a positive F
	assert.False(t, IsSafetyLTL(NNF(env, env.Not(env.G(a)))))
}
