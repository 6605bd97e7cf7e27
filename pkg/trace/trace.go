// Package trace implements counterexample traces: ordered sequences of
// variable assignments with an optional loopback step for lasso-shaped
// witnesses, plus formula evaluation against a step.
package trace

import (
	"errors"

	"github.com/pyvmt/pyvmt/pkg/expr"
)

var (
	// ErrDuplicateLoopbackStep indicates a second loopback step.
	ErrDuplicateLoopbackStep = errors.New("trace: trace already has a loopback step")
	// ErrMissingLoopbackStep indicates a loopback lookup on a trace
	// without one.
	ErrMissingLoopbackStep = errors.New("trace: trace has no loopback step")
	// ErrStepNotFound indicates a step lookup past the trace bounds,
	// e.g. the successor of the final step of a loop-free trace.
	ErrStepNotFound = errors.New("trace: step not found")
	// ErrNotAssigned indicates a symbol with no value in a step.
	ErrNotAssigned = errors.New("trace: symbol not assigned in step")
	// ErrUnexpectedNext indicates a next-state lookup that cannot be
	// resolved against the following step.
	ErrUnexpectedNext = errors.New("trace: cannot evaluate next operator")
	// ErrCannotEvaluate indicates a formula outside the evaluatable
	// constant fragment.
	ErrCannotEvaluate = errors.New("trace: cannot evaluate formula")
)

// Trace is an ordered sequence of steps over a fixed set of state
// variables. At most one step may be the loopback target, making the
// trace denote an infinite lasso-shaped execution.
type Trace struct {
	description string
	stateVars   []*expr.Expr
	env         *expr.Env
	steps       []*Step
	loopback    int
}

// New creates an empty trace over the given state variables.
func New(description string, stateVars []*expr.Expr, env *expr.Env) *Trace {
	vars := make([]*expr.Expr, len(stateVars))
	copy(vars, stateVars)
	return &Trace{description: description, stateVars: vars, env: env, loopback: -1}
}

// Description returns the trace description.
func (t *Trace) Description() string { return t.description }

// Env returns the environment of the trace.
func (t *Trace) Env() *expr.Env { return t.env }

// StateVars returns the state variables of the trace.
func (t *Trace) StateVars() []*expr.Expr {
	out := make([]*expr.Expr, len(t.stateVars))
	copy(out, t.stateVars)
	return out
}

func (t *Trace) addStep(assignments map[*expr.Expr]*expr.Expr) *Step {
	cp := make(map[*expr.Expr]*expr.Expr, len(assignments))
	for k, v := range assignments {
		cp[k] = v
	}
	s := &Step{trace: t, idx: len(t.steps), assignments: cp}
	t.steps = append(t.steps, s)
	return s
}

// CreateStep appends a step holding the given assignments.
func (t *Trace) CreateStep(assignments map[*expr.Expr]*expr.Expr) *Step {
	return t.addStep(assignments)
}

// CreateLoopbackStep appends a step and marks it as the loopback
// target of the trace.
func (t *Trace) CreateLoopbackStep(assignments map[*expr.Expr]*expr.Expr) (*Step, error) {
	if t.loopback >= 0 {
		return nil, ErrDuplicateLoopbackStep
	}
	s := t.addStep(assignments)
	t.loopback = s.idx
	return s, nil
}

// Steps returns the steps in order.
func (t *Trace) Steps() []*Step {
	out := make([]*Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// StepsCount returns the number of steps.
func (t *Trace) StepsCount() int { return len(t.steps) }

// Step returns the step at the given index.
func (t *Trace) Step(idx int) (*Step, error) {
	if idx < 0 || idx >= len(t.steps) {
		return nil, ErrStepNotFound
	}
	return t.steps[idx], nil
}

// HasLoopbackStep reports whether the trace has a loopback step.
func (t *Trace) HasLoopbackStep() bool { return t.loopback >= 0 }

// LoopbackStepIdx returns the index of the loopback step.
func (t *Trace) LoopbackStepIdx() (int, error) {
	if t.loopback < 0 {
		return 0, ErrMissingLoopbackStep
	}
	return t.loopback, nil
}

// LoopbackStep returns the loopback step.
func (t *Trace) LoopbackStep() (*Step, error) {
	if t.loopback < 0 {
		return nil, ErrMissingLoopbackStep
	}
	return t.steps[t.loopback], nil
}
