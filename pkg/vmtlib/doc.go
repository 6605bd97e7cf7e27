// Package vmtlib reads and writes the VMT-LIB textual model format, an
// SMT-LIB dialect where the transition-system structure is carried by
// term annotations: :next links a state variable to its next-state
// partner, :init and :trans mark the constraint definitions, and the
// property annotations (:invar-property, :live-property,
// :ltl-property, :ltlf-property) attach indexed properties.
//
// The package provides an s-expression lexer and parser that build
// formulae directly in an expr.Env, a term printer, a model serializer
// and a model reader.
package vmtlib
