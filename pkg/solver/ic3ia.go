package solver

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/trace"
	"github.com/pyvmt/pyvmt/pkg/vmtlib"
)

// Ic3iaEnvVar names the environment variable holding the path of the
// ic3ia executable.
const Ic3iaEnvVar = "PYVMT_IC3IA_PATH"

// Ic3ia wraps the ic3ia model checker.
type Ic3ia struct {
	model   *model.Model
	path    string
	Options *Options
}

// NewIc3ia creates a wrapper for the model, resolving the executable
// through Ic3iaEnvVar or the solver configuration.
func NewIc3ia(m *model.Model, cfg *Config) (*Ic3ia, error) {
	path, err := findExecutable("ic3ia", Ic3iaEnvVar, cfg)
	if err != nil {
		return nil, err
	}
	return &Ic3ia{model: m, path: path, Options: NewOptions()}, nil
}

// CheckProperties checks every property of the model.
func (s *Ic3ia) CheckProperties() (map[int]Result, error) {
	return checkAll(s, s.model)
}

// CheckPropertyIdx checks the model property at the given index.
func (s *Ic3ia) CheckPropertyIdx(idx int) (Result, error) {
	p, err := s.model.Property(idx)
	if err != nil {
		return Result{}, err
	}
	return s.CheckProperty(p)
}

// CheckProperty serialises the model with the property at index 0,
// runs ic3ia and parses the verdict.
func (s *Ic3ia) CheckProperty(p model.Property) (Result, error) {
	s.Options.Set("n", "0")
	s.Options.SetFlag("w")

	var script strings.Builder
	err := vmtlib.SerializeProperties(&script, s.model, map[int]model.Property{0: p})
	if err != nil {
		return Result{}, err
	}

	cmd := exec.Command(s.path, s.Options.ToArray()...)
	cmd.Stdin = strings.NewReader(script.String())
	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownSolverAnswer, err)
	}
	return s.readResult(string(out))
}

var ic3iaStepRe = regexp.MustCompile(`^;; step (\d+)$`)

func (s *Ic3ia) readResult(out string) (Result, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("%w: empty output", ErrUnknownSolverAnswer)
	}
	witness := strings.TrimSpace(lines[0])
	var cex *trace.Trace
	var err error
	switch witness {
	case "counterexample":
		cex, err = s.readCounterexample(lines[1:])
		if err != nil {
			return Result{}, err
		}
	case "invariant", "ERROR computing witness":
		// no trace to read
	default:
		return Result{}, fmt.Errorf("%w: expected witness type, %q found", ErrUnknownSolverAnswer, witness)
	}

	verdict := strings.TrimSpace(lines[len(lines)-1])
	switch verdict {
	case "safe":
		return NewResult(true, cex), nil
	case "unsafe":
		return NewResult(false, cex), nil
	}
	return Result{}, fmt.Errorf("%w: solver returned %q", ErrUnknownSolverAnswer, verdict)
}

func (s *Ic3ia) readCounterexample(lines []string) (*trace.Trace, error) {
	env := s.model.Env()
	cex := trace.New("counterexample", s.model.StateVars(), env)

	i := 0
	for i < len(lines) && ic3iaStepRe.MatchString(lines[i]) {
		i++
		var chunk []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			chunk = append(chunk, lines[i])
			i++
		}
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		f, err := vmtlib.ParseTerm(strings.Join(chunk, "\n"), env)
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable counterexample step: %s", ErrUnknownSolverAnswer, err)
		}
		assignments, err := splitAssignments(env, f)
		if err != nil {
			return nil, err
		}
		cex.CreateStep(assignments)
	}
	return cex, nil
}

// splitAssignments decomposes a step conjunction into symbol values:
// asserted symbols, negated symbols and symbol/constant equalities.
func splitAssignments(env *expr.Env, f *expr.Expr) (map[*expr.Expr]*expr.Expr, error) {
	conjuncts := []*expr.Expr{f}
	if f.Kind() == expr.KindAnd {
		conjuncts = f.Args()
	}
	out := map[*expr.Expr]*expr.Expr{}
	for _, c := range conjuncts {
		switch {
		case c.IsSymbol():
			out[c] = env.TRUE()
		case c.Kind() == expr.KindNot && c.Arg(0).IsSymbol():
			out[c.Arg(0)] = env.FALSE()
		case c.Kind() == expr.KindEquals && c.Arg(0).IsSymbol():
			out[c.Arg(0)] = c.Arg(1)
		case c.Kind() == expr.KindIff && c.Arg(0).IsSymbol():
			out[c.Arg(0)] = c.Arg(1)
		default:
			return nil, fmt.Errorf("%w: counterexample assignment %s not recognized",
				ErrUnknownSolverAnswer, c)
		}
	}
	return out, nil
}
