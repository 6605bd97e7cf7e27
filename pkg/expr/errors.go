package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSymbol indicates a non-leaf node was supplied where a symbol
	// was required.
	ErrNotSymbol = errors.New("expr: not a symbol")
	// ErrDuplicateDeclaration indicates a symbol name was declared twice
	// with different types.
	ErrDuplicateDeclaration = errors.New("expr: duplicate declaration")
	// ErrTypeMismatch indicates an ill-typed construction.
	ErrTypeMismatch = errors.New("expr: type mismatch")
	// ErrNestedNext indicates a Next operator applied to a formula that
	// already contains one.
	ErrNestedNext = errors.New("expr: nested next operator")
)

// Error carries a sentinel plus construction context. Builders panic
// with *Error on programmer errors; boundaries that consume external
// input validate first and return errors instead.
type Error struct {
	err error
	msg string
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the sentinel for errors.Is.
func (e *Error) Unwrap() error { return e.err }

func fail(sentinel error, format string, a ...any) {
	panic(&Error{err: sentinel, msg: fmt.Sprintf(format, a...)})
}
