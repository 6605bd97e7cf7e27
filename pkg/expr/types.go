package expr

import "fmt"

type typeKind int

const (
	typeBool typeKind = iota
	typeInt
	typeReal
	typeBV
)

// Type is the sort of a formula node: Bool, Int, Real, or a fixed-width
// bitvector. Types are small value objects and compare with ==.
type Type struct {
	kind  typeKind
	width int
}

// BoolType returns the Bool sort.
func BoolType() Type { return Type{kind: typeBool} }

// IntType returns the Int sort.
func IntType() Type { return Type{kind: typeInt} }

// RealType returns the Real sort.
func RealType() Type { return Type{kind: typeReal} }

// BVType returns the bitvector sort of the given width.
func BVType(width int) Type {
	if width <= 0 {
		fail(ErrTypeMismatch, "bitvector width must be positive, got %d", width)
	}
	return Type{kind: typeBV, width: width}
}

// IsBool reports whether the type is Bool.
func (t Type) IsBool() bool { return t.kind == typeBool }

// IsInt reports whether the type is Int.
func (t Type) IsInt() bool { return t.kind == typeInt }

// IsReal reports whether the type is Real.
func (t Type) IsReal() bool { return t.kind == typeReal }

// IsBV reports whether the type is a bitvector type.
func (t Type) IsBV() bool { return t.kind == typeBV }

// Width returns the bitvector width, or 0 for non-bitvector types.
func (t Type) Width() int { return t.width }

// String prints the SMT-LIB spelling of the sort.
func (t Type) String() string {
	switch t.kind {
	case typeBool:
		return "Bool"
	case typeInt:
		return "Int"
	case typeReal:
		return "Real"
	case typeBV:
		return fmt.Sprintf("(_ BitVec %d)", t.width)
	}
	return "?"
}
