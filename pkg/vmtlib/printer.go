package vmtlib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pyvmt/pyvmt/pkg/expr"
)

// smtOpNames maps node kinds to their VMT-LIB spelling. Kinds that are
// absent have dedicated printing logic or no spelling at all.
var smtOpNames = map[expr.Kind]string{
	expr.KindAnd:      "and",
	expr.KindOr:       "or",
	expr.KindNot:      "not",
	expr.KindImplies:  "=>",
	expr.KindIff:      "=",
	expr.KindIte:      "ite",
	expr.KindEquals:   "=",
	expr.KindLT:       "<",
	expr.KindLE:       "<=",
	expr.KindPlus:     "+",
	expr.KindMinus:    "-",
	expr.KindTimes:    "*",
	expr.KindDiv:      "/",
	expr.KindBVAdd:    "bvadd",
	expr.KindBVSub:    "bvsub",
	expr.KindBVMul:    "bvmul",
	expr.KindBVAnd:    "bvand",
	expr.KindBVOr:     "bvor",
	expr.KindBVXor:    "bvxor",
	expr.KindBVNot:    "bvnot",
	expr.KindBVConcat: "concat",
	expr.KindBVULT:    "bvult",
	expr.KindBVULE:    "bvule",
	expr.KindBVShl:    "bvshl",
	expr.KindBVLshr:   "bvlshr",
	expr.KindLtlX:     "ltl.X",
	expr.KindLtlN:     "ltl.N",
	expr.KindLtlF:     "ltl.F",
	expr.KindLtlG:     "ltl.G",
	expr.KindLtlU:     "ltl.U",
	expr.KindLtlR:     "ltl.R",
	expr.KindLtlY:     "ltl.Y",
	expr.KindLtlZ:     "ltl.Z",
	expr.KindLtlO:     "ltl.O",
	expr.KindLtlH:     "ltl.H",
	expr.KindLtlS:     "ltl.S",
}

// PrintTerm renders a formula as a VMT-LIB term. The next operator and
// ltl.T have no VMT-LIB spelling and yield ErrUnsupportedOp. The
// serializer replaces next-wrapped state variables by their partner
// symbols before printing; it does not rewrite ltl.T.
func PrintTerm(f *expr.Expr) (string, error) {
	var b strings.Builder
	if err := printTerm(&b, f); err != nil {
		return "", err
	}
	return b.String(), nil
}

func printSymbolName(b *strings.Builder, name string) {
	for i := 0; i < len(name); i++ {
		if !isSymbolChar(name[i]) {
			b.WriteByte('|')
			b.WriteString(name)
			b.WriteByte('|')
			return
		}
	}
	b.WriteString(name)
}

func printTerm(b *strings.Builder, f *expr.Expr) error {
	switch f.Kind() {
	case expr.KindSymbol:
		printSymbolName(b, f.Name())
	case expr.KindBoolConst:
		b.WriteString(strconv.FormatBool(f.BoolValue()))
	case expr.KindIntConst:
		if f.IntValue() < 0 {
			fmt.Fprintf(b, "(- %d)", -f.IntValue())
		} else {
			b.WriteString(strconv.FormatInt(f.IntValue(), 10))
		}
	case expr.KindRealConst:
		b.WriteString(f.RealValue())
	case expr.KindBVConst:
		fmt.Fprintf(b, "(_ bv%d %d)", f.BVValue(), f.Type().Width())
	case expr.KindBVExtract:
		lo, hi := f.ExtractBounds()
		fmt.Fprintf(b, "((_ extract %d %d) ", hi, lo)
		if err := printTerm(b, f.Arg(0)); err != nil {
			return err
		}
		b.WriteByte(')')
	case expr.KindForall, expr.KindExists:
		b.WriteByte('(')
		b.WriteString(f.Kind().String())
		b.WriteString(" (")
		for i, v := range f.QuantVars() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('(')
			printSymbolName(b, v.Name())
			b.WriteByte(' ')
			b.WriteString(v.Type().String())
			b.WriteByte(')')
		}
		b.WriteString(") ")
		if err := printTerm(b, f.Arg(0)); err != nil {
			return err
		}
		b.WriteByte(')')
	case expr.KindNext, expr.KindLtlT:
		return fmt.Errorf("%w: %s", ErrUnsupportedOp, f.Kind())
	default:
		name, ok := smtOpNames[f.Kind()]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedOp, f.Kind())
		}
		b.WriteByte('(')
		b.WriteString(name)
		for _, a := range f.Args() {
			b.WriteByte(' ')
			if err := printTerm(b, a); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	}
	return nil
}
