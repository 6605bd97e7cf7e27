package expr

import (
	"strconv"
	"strings"
)

// String renders the node in the human-readable infix style used for
// debugging: `(a & b)`, `(! a)`, `(x U y)`, `x'` for Next.
func (x *Expr) String() string {
	var b strings.Builder
	hrPrint(&b, x)
	return b.String()
}

func hrInfix(b *strings.Builder, x *Expr, op string) {
	b.WriteByte('(')
	for i, a := range x.args {
		if i > 0 {
			b.WriteString(op)
		}
		hrPrint(b, a)
	}
	b.WriteByte(')')
}

func hrPrefix(b *strings.Builder, x *Expr, op string) {
	b.WriteByte('(')
	b.WriteString(op)
	for _, a := range x.args {
		b.WriteByte(' ')
		hrPrint(b, a)
	}
	b.WriteByte(')')
}

func hrPrint(b *strings.Builder, x *Expr) {
	switch x.kind {
	case KindSymbol:
		b.WriteString(x.name)
	case KindBoolConst:
		if x.bval {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case KindIntConst:
		b.WriteString(strconv.FormatInt(x.ival, 10))
	case KindRealConst:
		b.WriteString(x.rval)
	case KindBVConst:
		b.WriteString(strconv.FormatUint(x.bvval, 10))
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(x.typ.Width()))
	case KindAnd:
		hrInfix(b, x, " & ")
	case KindOr:
		hrInfix(b, x, " | ")
	case KindNot:
		hrPrefix(b, x, "!")
	case KindImplies:
		hrInfix(b, x, " -> ")
	case KindIff:
		hrInfix(b, x, " <-> ")
	case KindIte:
		hrPrefix(b, x, "ite")
	case KindEquals:
		hrInfix(b, x, " = ")
	case KindLT:
		hrInfix(b, x, " < ")
	case KindLE:
		hrInfix(b, x, " <= ")
	case KindPlus:
		hrInfix(b, x, " + ")
	case KindMinus:
		hrInfix(b, x, " - ")
	case KindTimes:
		hrInfix(b, x, " * ")
	case KindDiv:
		hrInfix(b, x, " / ")
	case KindBVAdd, KindBVSub, KindBVMul, KindBVAnd, KindBVOr, KindBVXor,
		KindBVNot, KindBVConcat, KindBVULT, KindBVULE, KindBVShl, KindBVLshr:
		hrPrefix(b, x, x.kind.String())
	case KindBVExtract:
		b.WriteString("((_ extract ")
		b.WriteString(strconv.Itoa(x.hi))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(x.lo))
		b.WriteString(") ")
		hrPrint(b, x.args[0])
		b.WriteByte(')')
	case KindForall, KindExists:
		b.WriteByte('(')
		b.WriteString(x.kind.String())
		b.WriteByte(' ')
		for i, v := range x.vars {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v.name)
		}
		b.WriteString(" . ")
		hrPrint(b, x.args[0])
		b.WriteByte(')')
	case KindLtlU, KindLtlR, KindLtlS, KindLtlT:
		b.WriteByte('(')
		hrPrint(b, x.args[0])
		b.WriteByte(' ')
		b.WriteString(x.kind.String())
		b.WriteByte(' ')
		hrPrint(b, x.args[1])
		b.WriteByte(')')
	case KindLtlX, KindLtlN, KindLtlF, KindLtlG, KindLtlY, KindLtlZ, KindLtlO, KindLtlH:
		hrPrefix(b, x, x.kind.String())
	case KindNext:
		hrPrint(b, x.args[0])
		b.WriteByte('\'')
	default:
		b.WriteString("?")
	}
}
