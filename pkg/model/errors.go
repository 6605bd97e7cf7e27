package model

import "errors"

var (
	// ErrNotSymbol indicates a non-symbol formula supplied where a
	// variable was required.
	ErrNotSymbol = errors.New("model: variables must be symbols")
	// ErrDuplicateDeclaration indicates a variable declared twice,
	// whether as state, input, or both.
	ErrDuplicateDeclaration = errors.New("model: duplicate variable declaration")
	// ErrUndeclaredSymbol indicates a constraint or property referring to
	// a symbol that is neither a state variable nor an input.
	ErrUndeclaredSymbol = errors.New("model: undeclared symbol")
	// ErrTypeMismatch indicates a non-Bool formula supplied as a
	// constraint or property.
	ErrTypeMismatch = errors.New("model: formula must be of type Bool")
	// ErrUnexpectedLtl indicates an LTL operator in a context that
	// forbids it (INIT, TRANS, non-LTL properties).
	ErrUnexpectedLtl = errors.New("model: unexpected LTL operator")
	// ErrUnexpectedNext indicates a Next operator in an INIT constraint.
	ErrUnexpectedNext = errors.New("model: unexpected next operator")
	// ErrInvalidPropertyIdx indicates a negative or non-integer property
	// index.
	ErrInvalidPropertyIdx = errors.New("model: invalid property index")
	// ErrDuplicatePropertyIdx indicates a property index already in use.
	ErrDuplicatePropertyIdx = errors.New("model: duplicate property index")
	// ErrPropertyNotFound indicates a lookup of a nonexistent property.
	ErrPropertyNotFound = errors.New("model: property not found")
	// ErrInvalidPropertyType indicates a property kind outside the
	// closed set.
	ErrInvalidPropertyType = errors.New("model: invalid property type")
)
