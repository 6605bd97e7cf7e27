package solver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/vmtlib"
)

// NuxmvEnvVar names the environment variable holding the path of the
// nuXmv executable.
const NuxmvEnvVar = "PYVMT_NUXMV_PATH"

// Nuxmv wraps the nuXmv model checker in batch mode. Counterexample
// traces are not parsed; the wrapper only reports the verdict.
type Nuxmv struct {
	model *model.Model
	path  string
}

// NewNuxmv creates a wrapper for the model, resolving the executable
// through NuxmvEnvVar or the solver configuration.
func NewNuxmv(m *model.Model, cfg *Config) (*Nuxmv, error) {
	path, err := findExecutable("nuxmv", NuxmvEnvVar, cfg)
	if err != nil {
		return nil, err
	}
	return &Nuxmv{model: m, path: path}, nil
}

// CheckProperties checks every property of the model.
func (s *Nuxmv) CheckProperties() (map[int]Result, error) {
	return checkAll(s, s.model)
}

// CheckPropertyIdx checks the model property at the given index.
func (s *Nuxmv) CheckPropertyIdx(idx int) (Result, error) {
	p, err := s.model.Property(idx)
	if err != nil {
		return Result{}, err
	}
	return s.CheckProperty(p)
}

// CheckProperty writes the model to a temporary VMT file, drives nuXmv
// with a batch command script and parses the specification verdict.
func (s *Nuxmv) CheckProperty(p model.Property) (Result, error) {
	dir, err := os.MkdirTemp("", "vmt-nuxmv-")
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.vmt")
	var script strings.Builder
	if err := vmtlib.SerializeProperties(&script, s.model, map[int]model.Property{0: p}); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(modelPath, []byte(script.String()), 0o644); err != nil {
		return Result{}, err
	}

	check := "check_property_as_invar_ic3"
	if p.Kind == model.Live || p.Kind == model.Ltl {
		check = "check_ltlspec_ic3"
	}
	commands := strings.Join([]string{
		"read_vmt_model -i " + modelPath,
		"flatten_hierarchy",
		"encode_variables",
		"build_boolean_model",
		check,
		"quit",
	}, "\n")
	cmdPath := filepath.Join(dir, "commands")
	if err := os.WriteFile(cmdPath, []byte(commands+"\n"), 0o644); err != nil {
		return Result{}, err
	}

	cmd := exec.Command(s.path, "-source", cmdPath)
	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownSolverAnswer, err)
	}
	return parseNuxmvOutput(string(out))
}

func parseNuxmvOutput(out string) (Result, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-- ") {
			continue
		}
		switch {
		case strings.HasSuffix(line, "is true"):
			return NewResult(true, nil), nil
		case strings.HasSuffix(line, "is false"):
			return NewResult(false, nil), nil
		}
	}
	return Result{}, fmt.Errorf("%w: no specification verdict in output", ErrUnknownSolverAnswer)
}
