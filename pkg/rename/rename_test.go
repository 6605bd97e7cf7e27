package rename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

func exampleModel(t *testing.T, env *expr.Env) *model.Model {
	t.Helper()
	m := model.New(env)
	x, err := m.CreateStateVar("x", expr.BoolType())
	require.NoError(t, err)
	_, err = m.CreateInputVar("in", expr.BoolType())
	require.NoError(t, err)
	require.NoError(t, m.AddInit(x))
	require.NoError(t, m.AddTrans(env.Iff(env.Next(x), env.Not(x))))
	_, err = m.AddInvarProperty(x)
	require.NoError(t, err)
	return m
}

func TestAddPrefix(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	got, err := AddPrefix(m, "sub.")
	require.NoError(t, err)

	x := env.Symbol("sub.x", expr.BoolType())
	in := env.Symbol("sub.in", expr.BoolType())
	assert.Equal(t, []*expr.Expr{x}, got.StateVars())
	assert.Equal(t, []*expr.Expr{in}, got.InputVars())
	assert.Equal(t, []*expr.Expr{x}, got.InitConstraints())
	assert.Equal(t, []*expr.Expr{env.Iff(env.Next(x), env.Not(x))}, got.TransConstraints())

	p, err := got.Property(0)
	require.NoError(t, err)
	assert.Same(t, x, p.Formula)
	assert.Equal(t, model.Invar, p.Kind)
}

func TestAddSuffix(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	got, err := AddSuffix(m, ".old")
	require.NoError(t, err)
	assert.Equal(t, "x.old", got.StateVars()[0].Name())
	assert.Equal(t, "in.old", got.InputVars()[0].Name())
}

func TestReplacePrefixStrict(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	_, err := ReplacePrefix(m, "missing.", "other.", true)
	require.ErrorIs(t, err, ErrIncorrectSymbolName)

	// non-strict leaves unmatched names alone
	got, err := ReplacePrefix(m, "missing.", "other.", false)
	require.NoError(t, err)
	assert.Equal(t, "x", got.StateVars()[0].Name())
}

func TestReplacePrefix(t *testing.T) {
	env := expr.NewEnv()
	m := model.New(env)
	_, err := m.CreateStateVar("old.x", expr.BoolType())
	require.NoError(t, err)

	got, err := ReplacePrefix(m, "old.", "new.", true)
	require.NoError(t, err)
	assert.Equal(t, "new.x", got.StateVars()[0].Name())
}

func TestRenameCallback(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	got, err := Rename(m, strings.ToUpper)
	require.NoError(t, err)
	assert.Equal(t, "X", got.StateVars()[0].Name())
	assert.Equal(t, "IN", got.InputVars()[0].Name())
}

func TestRenamePreservesBoundNames(t *testing.T) {
	env := expr.NewEnv()
	m := model.New(env)
	x, err := m.CreateStateVar("x", expr.IntType())
	require.NoError(t, err)
	k := env.Symbol("k", expr.IntType())
	require.NoError(t, m.AddInit(env.Exists([]*expr.Expr{k},
		env.Equals(x, k))))

	got, err := AddPrefix(m, "p.")
	require.NoError(t, err)

	px := env.Symbol("p.x", expr.IntType())
	want := env.Exists([]*expr.Expr{k}, env.Equals(px, k))
	assert.Equal(t, []*expr.Expr{want}, got.InitConstraints())
}
