package vmtlib

import "errors"

var (
	// ErrParse indicates malformed VMT-LIB input.
	ErrParse = errors.New("vmtlib: parse error")
	// ErrInvalidAnnotationValue indicates an :init or :trans annotation
	// carrying a value other than true.
	ErrInvalidAnnotationValue = errors.New("vmtlib: invalid annotation value")
	// ErrUnsupportedOp indicates an operator with no VMT-LIB spelling:
	// a bare next operator, or ltl.T which the rewriters eliminate.
	ErrUnsupportedOp = errors.New("vmtlib: operator not supported in VMT-LIB")
)
