package trace

import (
	"fmt"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/rewrite"
	"github.com/pyvmt/pyvmt/pkg/vmtlib"
)

// Step is one point of a trace, holding a constant assignment for the
// trace variables.
type Step struct {
	trace       *Trace
	idx         int
	assignments map[*expr.Expr]*expr.Expr
}

// Index returns the position of the step in its trace.
func (s *Step) Index() int { return s.idx }

// IsLoopback reports whether the step is the loopback target.
func (s *Step) IsLoopback() bool { return s.trace.loopback == s.idx }

// Assignments returns a copy of the step's assignment map.
func (s *Step) Assignments() map[*expr.Expr]*expr.Expr {
	out := make(map[*expr.Expr]*expr.Expr, len(s.assignments))
	for k, v := range s.assignments {
		out[k] = v
	}
	return out
}

// Assignment returns the value of a symbol in this step.
func (s *Step) Assignment(sym *expr.Expr) (*expr.Expr, error) {
	v, ok := s.assignments[sym]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAssigned, sym)
	}
	return v, nil
}

// HasNextStep reports whether the step has a successor, following the
// loopback edge from the final step.
func (s *Step) HasNextStep() bool {
	return s.idx+1 < len(s.trace.steps) || s.trace.loopback >= 0
}

// NextStep returns the successor step. The successor of the final step
// is the loopback step when the trace has one.
func (s *Step) NextStep() (*Step, error) {
	if s.idx+1 < len(s.trace.steps) {
		return s.trace.steps[s.idx+1], nil
	}
	if s.trace.loopback >= 0 {
		return s.trace.steps[s.trace.loopback], nil
	}
	return nil, ErrStepNotFound
}

// HasPrevStep reports whether the step has a predecessor.
func (s *Step) HasPrevStep() bool { return s.idx > 0 }

// PrevStep returns the predecessor step.
func (s *Step) PrevStep() (*Step, error) {
	if s.idx == 0 {
		return nil, ErrStepNotFound
	}
	return s.trace.steps[s.idx-1], nil
}

// DifferentVariables returns the trace variables whose values differ
// between the two steps, in state-variable order.
func (s *Step) DifferentVariables(other *Step) []*expr.Expr {
	var out []*expr.Expr
	for _, v := range s.trace.stateVars {
		if s.assignments[v] != other.assignments[v] {
			out = append(out, v)
		}
	}
	return out
}

// ChangingVariables returns the variables that change between this
// step and its successor.
func (s *Step) ChangingVariables() ([]*expr.Expr, error) {
	next, err := s.NextStep()
	if err != nil {
		return nil, err
	}
	return s.DifferentVariables(next), nil
}

// ChangedVariables returns the variables that changed between the
// predecessor and this step.
func (s *Step) ChangedVariables() ([]*expr.Expr, error) {
	prev, err := s.PrevStep()
	if err != nil {
		return nil, err
	}
	return s.DifferentVariables(prev), nil
}

// EvaluateFormula evaluates a formula on this step, taking plain
// symbols from this step's assignment and next-wrapped symbols from
// the successor step. The result is a constant node.
func (s *Step) EvaluateFormula(f *expr.Expr) (*expr.Expr, error) {
	pushed, err := rewrite.PushNext(s.trace.env, f)
	if err != nil {
		return nil, err
	}
	return s.eval(pushed)
}

// Formula returns the conjunction of the step's assignments over the
// trace variables: boolean variables appear asserted or negated, the
// others as equalities.
func (s *Step) Formula() *expr.Expr {
	env := s.trace.env
	var parts []*expr.Expr
	for _, v := range s.trace.stateVars {
		val, ok := s.assignments[v]
		if !ok {
			continue
		}
		switch {
		case val.IsTrue():
			parts = append(parts, v)
		case val.IsFalse():
			parts = append(parts, env.Not(v))
		default:
			parts = append(parts, env.Equals(v, val))
		}
	}
	return env.And(parts...)
}

// SerializeToString renders the step as an SMT-LIB definition named
// step-N, or loopback-step-N for the loopback target.
func (s *Step) SerializeToString() (string, error) {
	term, err := vmtlib.PrintTerm(s.Formula())
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("step-%d", s.idx)
	if s.IsLoopback() {
		name = fmt.Sprintf("loopback-step-%d", s.idx)
	}
	return fmt.Sprintf("(define-fun %s () Bool %s)", name, term), nil
}
