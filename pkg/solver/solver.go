// Package solver wraps external VMT model checkers. The wrappers
// serialise a model with a single property, run the solver binary and
// parse its verdict, including counterexample traces where the solver
// produces them.
package solver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pyvmt/pyvmt/pkg/model"
	"github.com/pyvmt/pyvmt/pkg/trace"
)

var (
	// ErrUnknownSolverAnswer indicates solver output outside its
	// documented protocol.
	ErrUnknownSolverAnswer = errors.New("solver: unknown solver answer")
	// ErrSolverNotConfigured indicates a solver whose binary path is
	// neither in the environment nor in the configuration file.
	ErrSolverNotConfigured = errors.New("solver: solver not configured")
	// ErrSolverNotFound indicates a configured path with no executable
	// behind it.
	ErrSolverNotFound = errors.New("solver: solver executable not found")
	// ErrInvalidOption indicates an unsupported option or option value.
	ErrInvalidOption = errors.New("solver: invalid option")
)

// Result is the verdict of one property check.
type Result struct {
	safe bool
	cex  *trace.Trace
}

// NewResult builds a result; cex may be nil.
func NewResult(safe bool, cex *trace.Trace) Result {
	return Result{safe: safe, cex: cex}
}

// IsSafe reports whether the property holds.
func (r Result) IsSafe() bool { return r.safe }

// IsUnsafe reports whether the property is violated.
func (r Result) IsUnsafe() bool { return !r.safe }

// HasTrace reports whether the result carries a counterexample trace.
func (r Result) HasTrace() bool { return r.cex != nil }

// Trace returns the counterexample trace, or an error when the result
// has none.
func (r Result) Trace() (*trace.Trace, error) {
	if r.cex == nil {
		return nil, fmt.Errorf("%w: result has no trace", ErrUnknownSolverAnswer)
	}
	return r.cex, nil
}

// Solver checks the properties of one model.
type Solver interface {
	// CheckProperty checks a single property against the model.
	CheckProperty(p model.Property) (Result, error)
	// CheckPropertyIdx checks the model property at the given index.
	CheckPropertyIdx(idx int) (Result, error)
	// CheckProperties checks every property of the model, keyed by
	// index.
	CheckProperties() (map[int]Result, error)
}

// checkAll runs a solver over every property of a model in index
// order.
func checkAll(s Solver, m *model.Model) (map[int]Result, error) {
	out := map[int]Result{}
	idxs := m.PropertyIndexes()
	sort.Ints(idxs)
	for _, idx := range idxs {
		res, err := s.CheckPropertyIdx(idx)
		if err != nil {
			return nil, err
		}
		out[idx] = res
	}
	return out, nil
}

// Options accumulates command-line options and flags for a solver
// invocation.
type Options struct {
	options map[string]string
	order   []string
	flags   []string
}

// NewOptions creates an empty option set.
func NewOptions() *Options {
	return &Options{options: map[string]string{}}
}

// Set stores an option with a value.
func (o *Options) Set(name, value string) {
	if _, ok := o.options[name]; !ok {
		o.order = append(o.order, name)
	}
	o.options[name] = value
}

// SetFlag stores a bare flag.
func (o *Options) SetFlag(name string) {
	for _, f := range o.flags {
		if f == name {
			return
		}
	}
	o.flags = append(o.flags, name)
}

// ToArray renders the options as an argument array.
func (o *Options) ToArray() []string {
	var out []string
	for _, name := range o.order {
		out = append(out, "-"+name, o.options[name])
	}
	for _, f := range o.flags {
		out = append(out, "-"+f)
	}
	return out
}
