package solver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

func TestOptionsToArray(t *testing.T) {
	o := NewOptions()
	o.Set("n", "0")
	o.Set("k", "5")
	o.SetFlag("w")
	o.SetFlag("w")
	o.Set("n", "3")

	assert.Equal(t, []string{"-n", "3", "-k", "5", "-w"}, o.ToArray())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solvers.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("ic3ia: /opt/ic3ia\nnuxmv: /opt/nuXmv\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ic3ia", cfg.Ic3ia)
	assert.Equal(t, "/opt/nuXmv", cfg.Nuxmv)

	require.NoError(t, os.WriteFile(path, []byte(":\nnot yaml ["), 0o644))
	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestFindExecutable(t *testing.T) {
	t.Setenv(Ic3iaEnvVar, "")

	_, err := findExecutable("ic3ia", Ic3iaEnvVar, nil)
	require.ErrorIs(t, err, ErrSolverNotConfigured)

	_, err = findExecutable("ic3ia", Ic3iaEnvVar, &Config{Ic3ia: "/does/not/exist"})
	require.ErrorIs(t, err, ErrSolverNotFound)

	bin := filepath.Join(t.TempDir(), "ic3ia")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
	got, err := findExecutable("ic3ia", Ic3iaEnvVar, &Config{Ic3ia: bin})
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	// the environment variable wins over the configuration
	t.Setenv(Ic3iaEnvVar, bin)
	got, err = findExecutable("ic3ia", Ic3iaEnvVar, &Config{Ic3ia: "/does/not/exist"})
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}

func exampleModel(t *testing.T, env *expr.Env) *model.Model {
	t.Helper()
	m := model.New(env)
	x, err := m.CreateStateVar("x", expr.IntType())
	require.NoError(t, err)
	y, err := m.CreateStateVar("y", expr.BoolType())
	require.NoError(t, err)
	require.NoError(t, m.AddInit(env.Equals(x, env.Int(0))))
	require.NoError(t, m.AddInit(y))
	return m
}

func TestIc3iaReadResultSafe(t *testing.T) {
	env := expr.NewEnv()
	s := &Ic3ia{model: exampleModel(t, env), Options: NewOptions()}

	res, err := s.readResult("invariant\ntrue\nsafe\n")
	require.NoError(t, err)
	assert.True(t, res.IsSafe())
	assert.False(t, res.HasTrace())
}

func TestIc3iaReadResultCounterexample(t *testing.T) {
	env := expr.NewEnv()
	s := &Ic3ia{model: exampleModel(t, env), Options: NewOptions()}

	out := "counterexample\n" +
		";; step 0\n(and (= x 0) y)\n\n" +
		";; step 1\n(and (= x 1) (not y))\n\n" +
		"unsafe\n"
	res, err := s.readResult(out)
	require.NoError(t, err)
	assert.True(t, res.IsUnsafe())
	require.True(t, res.HasTrace())

	tr, err := res.Trace()
	require.NoError(t, err)
	require.Equal(t, 2, tr.StepsCount())

	x, _ := env.LookupSymbol("x")
	y, _ := env.LookupSymbol("y")
	steps := tr.Steps()
	v, err := steps[0].Assignment(x)
	require.NoError(t, err)
	assert.Same(t, env.Int(0), v)
	v, err = steps[1].Assignment(y)
	require.NoError(t, err)
	assert.Same(t, env.FALSE(), v)
}

func TestIc3iaReadResultUnknown(t *testing.T) {
	env := expr.NewEnv()
	s := &Ic3ia{model: exampleModel(t, env), Options: NewOptions()}

	_, err := s.readResult("whatever\n")
	require.ErrorIs(t, err, ErrUnknownSolverAnswer)
	_, err = s.readResult("invariant\nmaybe\n")
	require.ErrorIs(t, err, ErrUnknownSolverAnswer)
}

func TestParseNuxmvOutput(t *testing.T) {
	res, err := parseNuxmvOutput("*** nuXmv ***\n-- invariant (<= c 10) is true\n")
	require.NoError(t, err)
	assert.True(t, res.IsSafe())

	res, err = parseNuxmvOutput("-- specification F G p is false\n-- trace follows\n")
	require.NoError(t, err)
	assert.True(t, res.IsUnsafe())

	_, err = parseNuxmvOutput("no verdict here\n")
	require.ErrorIs(t, err, ErrUnknownSolverAnswer)
}
