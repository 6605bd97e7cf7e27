package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterning(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())

	require.Same(t, a, env.Symbol("a", BoolType()))
	require.Same(t, env.And(a, b), env.And(a, b))
	require.Same(t, env.U(a, b), env.U(a, b))
	require.NotSame(t, env.And(a, b), env.And(b, a))
	require.Same(t, env.Int(42), env.Int(42))
	require.NotSame(t, env.Int(42), env.Int(43))
}

func TestSymbolRedeclaration(t *testing.T) {
	env := NewEnv()
	env.Symbol("x", BoolType())

	_, err := env.TrySymbol("x", IntType())
	require.ErrorIs(t, err, ErrDuplicateDeclaration)

	require.Panics(t, func() { env.Symbol("x", IntType()) })
}

func TestFreshSymbol(t *testing.T) {
	env := NewEnv()
	v0 := env.FreshSymbol(BoolType(), "el_x_%d")
	v1 := env.FreshSymbol(BoolType(), "el_x_%d")
	require.Equal(t, "el_x_0", v0.Name())
	require.Equal(t, "el_x_1", v1.Name())

	// a taken name is skipped
	env.Symbol("J_0", BoolType())
	j := env.FreshSymbol(BoolType(), "J_%d")
	require.Equal(t, "J_1", j.Name())
}

func TestTypeChecking(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	x := env.Symbol("x", IntType())

	require.Panics(t, func() { env.And(a, x) })
	require.Panics(t, func() { env.Not(x) })
	require.Panics(t, func() { env.X(x) })
	require.Panics(t, func() { env.U(a, x) })
	require.Panics(t, func() { env.Plus(a, a) })
	require.Panics(t, func() { env.Equals(a, a) })
	require.Panics(t, func() { env.Ite(a, a, x) })
	require.Panics(t, func() { env.LT(a, a) })

	// the panic value unwraps to the sentinel
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrTypeMismatch)
	}()
	env.And(a, x)
}

func TestNaryArities(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())

	require.Same(t, env.TRUE(), env.And())
	require.Same(t, env.FALSE(), env.Or())
	require.Same(t, a, env.And(a))
	require.Same(t, b, env.Or(b))
	require.Equal(t, KindAnd, env.And(a, b).Kind())
}

func TestDoubleNegationCollapses(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	require.Same(t, a, env.Not(env.Not(a)))
}

func TestNestedNext(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())

	f := env.Next(a)
	require.Panics(t, func() { env.Next(f) })
	require.Panics(t, func() { env.Next(env.And(f, b)) })
}

func TestNextTypePropagation(t *testing.T) {
	env := NewEnv()
	x := env.Symbol("x", IntType())
	v := env.Symbol("v", BVType(32))

	require.Equal(t, IntType(), env.Next(x).Type())
	require.Equal(t, BVType(32), env.Next(v).Type())
	require.Equal(t, 32, env.Next(v).Type().Width())

	// width propagates through Next into extraction
	ext := env.BVExtract(env.Next(v), 12, 14)
	require.Equal(t, BVType(3), ext.Type())
}

func TestHasLTL(t *testing.T) {
	env := NewEnv()
	x := env.Symbol("x", BoolType())
	y := env.Symbol("y", BoolType())

	assert.False(t, env.HasLTL(env.Iff(x, y)))
	assert.False(t, env.HasLTL(x))
	assert.True(t, env.HasLTL(env.X(x)))
	assert.True(t, env.HasLTL(env.G(x)))
	assert.True(t, env.HasLTL(env.F(x)))
	assert.True(t, env.HasLTL(env.R(x, y)))
	assert.True(t, env.HasLTL(env.U(x, y)))
	assert.True(t, env.HasLTL(env.Iff(x, env.And(y, env.U(x, y)))))
	assert.False(t, env.HasLTL(env.Next(x)))
}

func TestHasNext(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())
	x := env.Symbol("x", IntType())

	assert.True(t, env.HasNext(env.Next(a)))
	assert.True(t, env.HasNext(env.And(env.Next(a), b)))
	assert.False(t, env.HasNext(env.And(a, b)))
	assert.True(t, env.HasNext(env.Exists([]*Expr{x},
		env.And(env.Next(a), b, env.Equals(x, env.Int(1))))))
	assert.False(t, env.HasNext(env.Exists([]*Expr{x},
		env.And(a, b, env.Equals(x, env.Int(1))))))
}

func TestFreeVars(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())
	x := env.Symbol("x", IntType())

	require.Equal(t, []*Expr{a, b}, env.FreeVars(env.And(a, b, a)))

	// quantified variables are not free
	f := env.Exists([]*Expr{x}, env.And(a, env.Equals(x, env.Int(0))))
	require.Equal(t, []*Expr{a}, env.FreeVars(f))

	// but the same symbol outside the binder is
	g := env.And(f, env.LT(x, env.Int(5)))
	require.Equal(t, []*Expr{a, x}, env.FreeVars(g))
}

func TestSubstitute(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())
	c := env.Symbol("c", BoolType())

	f := env.And(a, env.Or(a, b))
	got := env.Substitute(f, map[*Expr]*Expr{a: c})
	require.Same(t, env.And(c, env.Or(c, b)), got)

	// whole-subformula keys replace most-general first
	got = env.Substitute(f, map[*Expr]*Expr{env.Or(a, b): c})
	require.Same(t, env.And(a, c), got)
}

func TestSubstituteCaptureAvoiding(t *testing.T) {
	env := NewEnv()
	a := env.Symbol("a", BoolType())
	b := env.Symbol("b", BoolType())
	x := env.Symbol("x", IntType())

	f := env.Exists([]*Expr{x}, env.And(a, env.Equals(x, env.Int(0))))
	got := env.Substitute(f, map[*Expr]*Expr{a: b, x: env.Int(7)})
	want := env.Exists([]*Expr{x}, env.And(b, env.Equals(x, env.Int(0))))
	require.Same(t, want, got)
}

func TestHRPrinting(t *testing.T) {
	env := NewEnv()
	x := env.Symbol("x", BoolType())
	y := env.Symbol("y", BoolType())

	assert.Equal(t, "(X x)", env.X(x).String())
	assert.Equal(t, "(F x)", env.F(x).String())
	assert.Equal(t, "(G x)", env.G(x).String())
	assert.Equal(t, "(x U y)", env.U(x, y).String())
	assert.Equal(t, "(x R y)", env.R(x, y).String())
	assert.Equal(t, "x'", env.Next(x).String())
	assert.Equal(t, "(x & y)", env.And(x, y).String())
	assert.Equal(t, "(! x)", env.Not(x).String())
}

func TestErrorUnwrapping(t *testing.T) {
	e := &Error{err: ErrNestedNext, msg: "boom"}
	require.True(t, errors.Is(e, ErrNestedNext))
	require.Equal(t, "boom", e.Error())
}
