package expr

// Builder methods. All builders intern their result. Ill-typed
// construction is a programmer error and panics with *Error; see Error.

// TRUE returns the boolean constant true.
func (e *Env) TRUE() *Expr { return e.trueNode }

// FALSE returns the boolean constant false.
func (e *Env) FALSE() *Expr { return e.falseNode }

// Bool returns the boolean constant for v.
func (e *Env) Bool(v bool) *Expr {
	if v {
		return e.trueNode
	}
	return e.falseNode
}

// Int returns the integer constant for v.
func (e *Env) Int(v int64) *Expr {
	return e.intern(&Expr{kind: KindIntConst, typ: IntType(), ival: v})
}

// Real returns the real constant with the given decimal spelling.
func (e *Env) Real(decimal string) *Expr {
	return e.intern(&Expr{kind: KindRealConst, typ: RealType(), rval: decimal})
}

// BV returns the bitvector constant of the given width.
func (e *Env) BV(v uint64, width int) *Expr {
	t := BVType(width)
	if width < 64 && v>>uint(width) != 0 {
		fail(ErrTypeMismatch, "bitvector constant %d does not fit in %d bits", v, width)
	}
	return e.intern(&Expr{kind: KindBVConst, typ: t, bvval: v})
}

func (e *Env) requireBool(op string, args ...*Expr) {
	for _, a := range args {
		if !a.typ.IsBool() {
			fail(ErrTypeMismatch, "%s requires Bool arguments, got %s", op, a.typ)
		}
	}
}

func (e *Env) node(kind Kind, t Type, args ...*Expr) *Expr {
	return e.intern(&Expr{kind: kind, typ: t, args: args})
}

// And builds the n-ary conjunction. Zero arguments yield true, a
// single argument is returned unchanged.
func (e *Env) And(args ...*Expr) *Expr {
	e.requireBool("and", args...)
	switch len(args) {
	case 0:
		return e.trueNode
	case 1:
		return args[0]
	}
	cp := make([]*Expr, len(args))
	copy(cp, args)
	return e.node(KindAnd, BoolType(), cp...)
}

// Or builds the n-ary disjunction. Zero arguments yield false, a
// single argument is returned unchanged.
func (e *Env) Or(args ...*Expr) *Expr {
	e.requireBool("or", args...)
	switch len(args) {
	case 0:
		return e.falseNode
	case 1:
		return args[0]
	}
	cp := make([]*Expr, len(args))
	copy(cp, args)
	return e.node(KindOr, BoolType(), cp...)
}

// Not builds the negation, collapsing double negations.
func (e *Env) Not(a *Expr) *Expr {
	e.requireBool("not", a)
	if a.kind == KindNot {
		return a.args[0]
	}
	return e.node(KindNot, BoolType(), a)
}

// Implies builds a => b.
func (e *Env) Implies(a, b *Expr) *Expr {
	e.requireBool("=>", a, b)
	return e.node(KindImplies, BoolType(), a, b)
}

// Iff builds a <-> b.
func (e *Env) Iff(a, b *Expr) *Expr {
	e.requireBool("<->", a, b)
	return e.node(KindIff, BoolType(), a, b)
}

// Ite builds if-then-else; both branches must share a type, which
// becomes the type of the node.
func (e *Env) Ite(c, t, f *Expr) *Expr {
	e.requireBool("ite condition", c)
	if t.typ != f.typ {
		fail(ErrTypeMismatch, "ite branches have different types %s and %s", t.typ, f.typ)
	}
	return e.node(KindIte, t.typ, c, t, f)
}

// Equals builds equality between two non-Bool terms of the same type.
func (e *Env) Equals(a, b *Expr) *Expr {
	if a.typ != b.typ {
		fail(ErrTypeMismatch, "= requires equal types, got %s and %s", a.typ, b.typ)
	}
	if a.typ.IsBool() {
		fail(ErrTypeMismatch, "= is not defined on Bool, use Iff")
	}
	return e.node(KindEquals, BoolType(), a, b)
}

// EqualsOrIff builds Iff for Bool operands and Equals otherwise.
func (e *Env) EqualsOrIff(a, b *Expr) *Expr {
	if a.typ.IsBool() && b.typ.IsBool() {
		return e.Iff(a, b)
	}
	return e.Equals(a, b)
}

func (e *Env) requireArith(op string, args ...*Expr) Type {
	t := args[0].typ
	if !t.IsInt() && !t.IsReal() {
		fail(ErrTypeMismatch, "%s requires Int or Real arguments, got %s", op, t)
	}
	for _, a := range args[1:] {
		if a.typ != t {
			fail(ErrTypeMismatch, "%s requires uniform argument types, got %s and %s", op, t, a.typ)
		}
	}
	return t
}

// Plus builds the n-ary sum over Int or Real terms.
func (e *Env) Plus(args ...*Expr) *Expr {
	if len(args) == 0 {
		fail(ErrTypeMismatch, "+ requires at least one argument")
	}
	t := e.requireArith("+", args...)
	if len(args) == 1 {
		return args[0]
	}
	cp := make([]*Expr, len(args))
	copy(cp, args)
	return e.node(KindPlus, t, cp...)
}

// Minus builds a - b.
func (e *Env) Minus(a, b *Expr) *Expr {
	t := e.requireArith("-", a, b)
	return e.node(KindMinus, t, a, b)
}

// Times builds the n-ary product over Int or Real terms.
func (e *Env) Times(args ...*Expr) *Expr {
	if len(args) == 0 {
		fail(ErrTypeMismatch, "* requires at least one argument")
	}
	t := e.requireArith("*", args...)
	if len(args) == 1 {
		return args[0]
	}
	cp := make([]*Expr, len(args))
	copy(cp, args)
	return e.node(KindTimes, t, cp...)
}

// Div builds a / b.
func (e *Env) Div(a, b *Expr) *Expr {
	t := e.requireArith("/", a, b)
	return e.node(KindDiv, t, a, b)
}

// LT builds a < b.
func (e *Env) LT(a, b *Expr) *Expr {
	e.requireArith("<", a, b)
	return e.node(KindLT, BoolType(), a, b)
}

// LE builds a <= b.
func (e *Env) LE(a, b *Expr) *Expr {
	e.requireArith("<=", a, b)
	return e.node(KindLE, BoolType(), a, b)
}

// GT builds a > b, normalised to b < a.
func (e *Env) GT(a, b *Expr) *Expr { return e.LT(b, a) }

// GE builds a >= b, normalised to b <= a.
func (e *Env) GE(a, b *Expr) *Expr { return e.LE(b, a) }

func (e *Env) requireBV(op string, args ...*Expr) Type {
	t := args[0].typ
	if !t.IsBV() {
		fail(ErrTypeMismatch, "%s requires bitvector arguments, got %s", op, t)
	}
	for _, a := range args[1:] {
		if a.typ != t {
			fail(ErrTypeMismatch, "%s requires uniform widths, got %s and %s", op, t, a.typ)
		}
	}
	return t
}

// BVAdd builds bitvector addition.
func (e *Env) BVAdd(a, b *Expr) *Expr { return e.node(KindBVAdd, e.requireBV("bvadd", a, b), a, b) }

// BVSub builds bitvector subtraction.
func (e *Env) BVSub(a, b *Expr) *Expr { return e.node(KindBVSub, e.requireBV("bvsub", a, b), a, b) }

// BVMul builds bitvector multiplication.
func (e *Env) BVMul(a, b *Expr) *Expr { return e.node(KindBVMul, e.requireBV("bvmul", a, b), a, b) }

// BVAnd builds bitwise and.
func (e *Env) BVAnd(a, b *Expr) *Expr { return e.node(KindBVAnd, e.requireBV("bvand", a, b), a, b) }

// BVOr builds bitwise or.
func (e *Env) BVOr(a, b *Expr) *Expr { return e.node(KindBVOr, e.requireBV("bvor", a, b), a, b) }

// BVXor builds bitwise xor.
func (e *Env) BVXor(a, b *Expr) *Expr { return e.node(KindBVXor, e.requireBV("bvxor", a, b), a, b) }

// BVNot builds bitwise complement.
func (e *Env) BVNot(a *Expr) *Expr { return e.node(KindBVNot, e.requireBV("bvnot", a), a) }

// BVShl builds logical shift left.
func (e *Env) BVShl(a, b *Expr) *Expr { return e.node(KindBVShl, e.requireBV("bvshl", a, b), a, b) }

// BVLshr builds logical shift right.
func (e *Env) BVLshr(a, b *Expr) *Expr {
	return e.node(KindBVLshr, e.requireBV("bvlshr", a, b), a, b)
}

// BVULT builds unsigned less-than.
func (e *Env) BVULT(a, b *Expr) *Expr {
	e.requireBV("bvult", a, b)
	return e.node(KindBVULT, BoolType(), a, b)
}

// BVULE builds unsigned less-or-equal.
func (e *Env) BVULE(a, b *Expr) *Expr {
	e.requireBV("bvule", a, b)
	return e.node(KindBVULE, BoolType(), a, b)
}

// BVConcat builds bitvector concatenation; the width is the sum of the
// argument widths.
func (e *Env) BVConcat(a, b *Expr) *Expr {
	if !a.typ.IsBV() || !b.typ.IsBV() {
		fail(ErrTypeMismatch, "concat requires bitvector arguments")
	}
	return e.node(KindBVConcat, BVType(a.typ.Width()+b.typ.Width()), a, b)
}

// BVExtract builds the extraction of bits lo..hi (inclusive).
func (e *Env) BVExtract(a *Expr, lo, hi int) *Expr {
	if !a.typ.IsBV() {
		fail(ErrTypeMismatch, "extract requires a bitvector argument, got %s", a.typ)
	}
	if lo < 0 || hi < lo || hi >= a.typ.Width() {
		fail(ErrTypeMismatch, "extract bounds [%d:%d] invalid for width %d", lo, hi, a.typ.Width())
	}
	n := &Expr{kind: KindBVExtract, typ: BVType(hi - lo + 1), args: []*Expr{a}, lo: lo, hi: hi}
	return e.intern(n)
}

func (e *Env) quantifier(kind Kind, vars []*Expr, body *Expr) *Expr {
	for _, v := range vars {
		if !v.IsSymbol() {
			fail(ErrNotSymbol, "quantified variables must be symbols, got %s", v.kind)
		}
	}
	e.requireBool(kind.String(), body)
	cp := make([]*Expr, len(vars))
	copy(cp, vars)
	n := &Expr{kind: kind, typ: BoolType(), args: []*Expr{body}, vars: cp}
	return e.intern(n)
}

// Forall builds a universally quantified formula.
func (e *Env) Forall(vars []*Expr, body *Expr) *Expr {
	return e.quantifier(KindForall, vars, body)
}

// Exists builds an existentially quantified formula.
func (e *Env) Exists(vars []*Expr, body *Expr) *Expr {
	return e.quantifier(KindExists, vars, body)
}

func (e *Env) ltlUnary(kind Kind, a *Expr) *Expr {
	e.requireBool(kind.String(), a)
	return e.node(kind, BoolType(), a)
}

func (e *Env) ltlBinary(kind Kind, a, b *Expr) *Expr {
	e.requireBool(kind.String(), a, b)
	return e.node(kind, BoolType(), a, b)
}

// X builds strong next.
func (e *Env) X(a *Expr) *Expr { return e.ltlUnary(KindLtlX, a) }

// N builds weak next.
func (e *Env) N(a *Expr) *Expr { return e.ltlUnary(KindLtlN, a) }

// F builds eventually.
func (e *Env) F(a *Expr) *Expr { return e.ltlUnary(KindLtlF, a) }

// G builds globally.
func (e *Env) G(a *Expr) *Expr { return e.ltlUnary(KindLtlG, a) }

// U builds until.
func (e *Env) U(a, b *Expr) *Expr { return e.ltlBinary(KindLtlU, a, b) }

// R builds releases.
func (e *Env) R(a, b *Expr) *Expr { return e.ltlBinary(KindLtlR, a, b) }

// Y builds yesterday.
func (e *Env) Y(a *Expr) *Expr { return e.ltlUnary(KindLtlY, a) }

// Z builds the weak dual of yesterday.
func (e *Env) Z(a *Expr) *Expr { return e.ltlUnary(KindLtlZ, a) }

// O builds once.
func (e *Env) O(a *Expr) *Expr { return e.ltlUnary(KindLtlO, a) }

// H builds historically.
func (e *Env) H(a *Expr) *Expr { return e.ltlUnary(KindLtlH, a) }

// S builds since.
func (e *Env) S(a, b *Expr) *Expr { return e.ltlBinary(KindLtlS, a, b) }

// T builds triggered.
func (e *Env) T(a, b *Expr) *Expr { return e.ltlBinary(KindLtlT, a, b) }

// Next builds the successor-step marker. The argument must not already
// contain a Next operator; the node has the type of its argument.
func (e *Env) Next(a *Expr) *Expr {
	if e.HasNext(a) {
		fail(ErrNestedNext, "next operator cannot contain a nested next operator")
	}
	return e.node(KindNext, a.typ, a)
}

// Rebuild reconstructs a node of the same kind and payload over new
// children, re-running the builder checks. Leaves are returned
// unchanged.
func (e *Env) Rebuild(f *Expr, args []*Expr) *Expr {
	switch f.kind {
	case KindSymbol, KindBoolConst, KindIntConst, KindRealConst, KindBVConst:
		return f
	case KindAnd:
		return e.And(args...)
	case KindOr:
		return e.Or(args...)
	case KindNot:
		return e.Not(args[0])
	case KindImplies:
		return e.Implies(args[0], args[1])
	case KindIff:
		return e.Iff(args[0], args[1])
	case KindIte:
		return e.Ite(args[0], args[1], args[2])
	case KindEquals:
		return e.Equals(args[0], args[1])
	case KindLT:
		return e.LT(args[0], args[1])
	case KindLE:
		return e.LE(args[0], args[1])
	case KindPlus:
		return e.Plus(args...)
	case KindMinus:
		return e.Minus(args[0], args[1])
	case KindTimes:
		return e.Times(args...)
	case KindDiv:
		return e.Div(args[0], args[1])
	case KindBVAdd:
		return e.BVAdd(args[0], args[1])
	case KindBVSub:
		return e.BVSub(args[0], args[1])
	case KindBVMul:
		return e.BVMul(args[0], args[1])
	case KindBVAnd:
		return e.BVAnd(args[0], args[1])
	case KindBVOr:
		return e.BVOr(args[0], args[1])
	case KindBVXor:
		return e.BVXor(args[0], args[1])
	case KindBVNot:
		return e.BVNot(args[0])
	case KindBVConcat:
		return e.BVConcat(args[0], args[1])
	case KindBVExtract:
		return e.BVExtract(args[0], f.lo, f.hi)
	case KindBVShl:
		return e.BVShl(args[0], args[1])
	case KindBVLshr:
		return e.BVLshr(args[0], args[1])
	case KindForall:
		return e.Forall(f.vars, args[0])
	case KindExists:
		return e.Exists(f.vars, args[0])
	case KindLtlX:
		return e.X(args[0])
	case KindLtlN:
		return e.N(args[0])
	case KindLtlF:
		return e.F(args[0])
	case KindLtlG:
		return e.G(args[0])
	case KindLtlU:
		return e.U(args[0], args[1])
	case KindLtlR:
		return e.R(args[0], args[1])
	case KindLtlY:
		return e.Y(args[0])
	case KindLtlZ:
		return e.Z(args[0])
	case KindLtlO:
		return e.O(args[0])
	case KindLtlH:
		return e.H(args[0])
	case KindLtlS:
		return e.S(args[0], args[1])
	case KindLtlT:
		return e.T(args[0], args[1])
	case KindNext:
		return e.Next(args[0])
	}
	fail(ErrTypeMismatch, "cannot rebuild node of kind %s", f.kind)
	return nil
}
