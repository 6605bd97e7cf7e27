package expr

// Kind identifies the operator or leaf variety of a formula node.
type Kind int

const (
	KindSymbol Kind = iota
	KindBoolConst
	KindIntConst
	KindRealConst
	KindBVConst

	KindAnd
	KindOr
	KindNot
	KindImplies
	KindIff
	KindIte

	KindEquals
	KindLT
	KindLE
	KindPlus
	KindMinus
	KindTimes
	KindDiv

	KindBVAdd
	KindBVSub
	KindBVMul
	KindBVAnd
	KindBVOr
	KindBVXor
	KindBVNot
	KindBVConcat
	KindBVExtract
	KindBVULT
	KindBVULE
	KindBVShl
	KindBVLshr

	KindForall
	KindExists

	// Future LTL
	KindLtlX
	KindLtlN
	KindLtlF
	KindLtlG
	KindLtlU
	KindLtlR

	// Past LTL
	KindLtlY
	KindLtlZ
	KindLtlO
	KindLtlH
	KindLtlS
	KindLtlT

	// Next selects the value of its argument in the successor step.
	KindNext
)

var kindNames = map[Kind]string{
	KindSymbol:    "symbol",
	KindBoolConst: "bool",
	KindIntConst:  "int",
	KindRealConst: "real",
	KindBVConst:   "bv",
	KindAnd:       "and",
	KindOr:        "or",
	KindNot:       "not",
	KindImplies:   "=>",
	KindIff:       "<->",
	KindIte:       "ite",
	KindEquals:    "=",
	KindLT:        "<",
	KindLE:        "<=",
	KindPlus:      "+",
	KindMinus:     "-",
	KindTimes:     "*",
	KindDiv:       "/",
	KindBVAdd:     "bvadd",
	KindBVSub:     "bvsub",
	KindBVMul:     "bvmul",
	KindBVAnd:     "bvand",
	KindBVOr:      "bvor",
	KindBVXor:     "bvxor",
	KindBVNot:     "bvnot",
	KindBVConcat:  "concat",
	KindBVExtract: "extract",
	KindBVULT:     "bvult",
	KindBVULE:     "bvule",
	KindBVShl:     "bvshl",
	KindBVLshr:    "bvlshr",
	KindForall:    "forall",
	KindExists:    "exists",
	KindLtlX:      "X",
	KindLtlN:      "N",
	KindLtlF:      "F",
	KindLtlG:      "G",
	KindLtlU:      "U",
	KindLtlR:      "R",
	KindLtlY:      "Y",
	KindLtlZ:      "Z",
	KindLtlO:      "O",
	KindLtlH:      "H",
	KindLtlS:      "S",
	KindLtlT:      "T",
	KindNext:      "next",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

// IsLTL reports whether the kind is one of the twelve LTL operators.
// Next is not an LTL operator.
func (k Kind) IsLTL() bool {
	return k >= KindLtlX && k <= KindLtlT
}

// IsFutureLTL reports whether the kind is a future-time LTL operator.
func (k Kind) IsFutureLTL() bool {
	return k >= KindLtlX && k <= KindLtlR
}

// IsPastLTL reports whether the kind is a past-time LTL operator.
func (k Kind) IsPastLTL() bool {
	return k >= KindLtlY && k <= KindLtlT
}

// IsQuantifier reports whether the kind is Forall or Exists.
func (k Kind) IsQuantifier() bool {
	return k == KindForall || k == KindExists
}
