package vmtlib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

func TestLexer(t *testing.T) {
	lx := NewLexer("(define-fun next0 () Bool (! x :next |x.y z|)) ; comment\n#b0101 #xF 42 4.2")
	var toks []Token
	for {
		tok := lx.NextToken()
		if tok.Type == TokenEOF {
			break
		}
		toks = append(toks, tok)
	}
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{
		TokenLParen, TokenSymbol, TokenSymbol, TokenLParen, TokenRParen,
		TokenSymbol, TokenLParen, TokenSymbol, TokenSymbol, TokenKeyword,
		TokenSymbol, TokenRParen, TokenRParen,
		TokenBinary, TokenHex, TokenNumeral, TokenDecimal,
	}, types)
	assert.Equal(t, "next", toks[9].Literal)
	assert.Equal(t, "x.y z", toks[10].Literal)
	assert.Equal(t, "0101", toks[13].Literal)
}

func TestPrintTerm(t *testing.T) {
	env := expr.NewEnv()
	x := env.Symbol("x", expr.BoolType())
	y := env.Symbol("y", expr.BoolType())
	n := env.Symbol("n", expr.IntType())

	cases := []struct {
		f    *expr.Expr
		want string
	}{
		{env.X(x), "(ltl.X x)"},
		{env.F(x), "(ltl.F x)"},
		{env.G(x), "(ltl.G x)"},
		{env.U(x, y), "(ltl.U x y)"},
		{env.N(x), "(ltl.N x)"},
		{env.S(x, y), "(ltl.S x y)"},
		{env.And(x, y), "(and x y)"},
		{env.Iff(x, y), "(= x y)"},
		{env.Equals(n, env.Int(3)), "(= n 3)"},
		{env.Int(-7), "(- 7)"},
		{env.BV(5, 8), "(_ bv5 8)"},
		{env.Ite(x, env.Int(1), env.Int(0)), "(ite x 1 0)"},
	}
	for _, c := range cases {
		got, err := PrintTerm(c.f)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	// operators without a VMT-LIB spelling are reported
	_, err := PrintTerm(env.Next(x))
	require.ErrorIs(t, err, ErrUnsupportedOp)
	_, err = PrintTerm(env.T(x, y))
	require.ErrorIs(t, err, ErrUnsupportedOp)
}

func exampleModel(t *testing.T, env *expr.Env) *model.Model {
	t.Helper()
	m := model.New(env)
	x, err := m.CreateStateVar("x", expr.BoolType())
	require.NoError(t, err)
	c, err := m.CreateStateVar("c", expr.IntType())
	require.NoError(t, err)
	in, err := m.CreateInputVar("in", expr.BoolType())
	require.NoError(t, err)
	require.NoError(t, m.AddInit(env.Not(x)))
	require.NoError(t, m.AddInit(env.Equals(c, env.Int(0))))
	require.NoError(t, m.AddTrans(env.Iff(env.Next(x), env.And(env.Not(x), in))))
	require.NoError(t, m.AddTrans(env.Equals(env.Next(c), env.Plus(c, env.Int(1)))))
	_, err = m.AddInvarProperty(env.LE(c, env.Int(10)))
	require.NoError(t, err)
	_, err = m.AddLiveProperty(x)
	require.NoError(t, err)
	_, err = m.AddLtlProperty(env.G(env.F(x)))
	require.NoError(t, err)
	return m
}

func TestSerializeShape(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	var b strings.Builder
	require.NoError(t, Serialize(&b, m))
	out := b.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	assert.Contains(t, out, "(declare-fun x () Bool)\n")
	assert.Contains(t, out, "(declare-fun x.__next0 () Bool)\n")
	assert.Contains(t, out, "(define-fun next0 () Bool (! x :next x.__next0))\n")
	assert.Contains(t, out, "(declare-fun c () Int)\n")
	assert.Contains(t, out, "(declare-fun c.__next0 () Int)\n")
	assert.Contains(t, out, "(define-fun next1 () Int (! c :next c.__next0))\n")
	assert.Contains(t, out, "(declare-fun in () Bool)\n")
	assert.Contains(t, out, ":init true")
	assert.Contains(t, out, ":trans true")
	assert.Contains(t, out, ":invar-property 0")
	assert.Contains(t, out, ":live-property 1")
	assert.Contains(t, out, ":ltl-property 2")
	assert.Equal(t, "(assert true)", lines[len(lines)-1])

	// next operators are pushed onto the partner symbols
	assert.Contains(t, out, "(= x.__next0 (and (not x) in))")
	assert.Contains(t, out, "(= c.__next0 (+ c 1))")
}

func TestRoundTrip(t *testing.T) {
	env := expr.NewEnv()
	m := exampleModel(t, env)

	var b strings.Builder
	require.NoError(t, Serialize(&b, m))

	env2 := expr.NewEnv()
	got, err := Read(strings.NewReader(b.String()), env2)
	require.NoError(t, err)

	requireSameNames := func(a, b []*expr.Expr) {
		require.Len(t, b, len(a))
		for i := range a {
			assert.Equal(t, a[i].Name(), b[i].Name())
			assert.Equal(t, a[i].Type(), b[i].Type())
		}
	}
	requireSameNames(m.StateVars(), got.StateVars())
	requireSameNames(m.InputVars(), got.InputVars())

	// constraints are conjoined on the way out, so compare the
	// conjunctions in their human-readable rendering
	assert.Equal(t, m.InitConstraint().String(), got.InitConstraint().String())
	assert.Equal(t, m.TransConstraint().String(), got.TransConstraint().String())

	require.Equal(t, m.PropertyIndexes(), got.PropertyIndexes())
	for _, idx := range m.PropertyIndexes() {
		want, err := m.Property(idx)
		require.NoError(t, err)
		p, err := got.Property(idx)
		require.NoError(t, err)
		assert.Equal(t, want.Kind, p.Kind)
		assert.Equal(t, want.Formula.String(), p.Formula.String())
	}
}

func TestReadLtlfProperty(t *testing.T) {
	script := `
(declare-fun a () Bool)
(declare-fun a.next () Bool)
(define-fun sv0 () Bool (! a :next a.next))
(define-fun p0 () Bool (! (ltl.N a) :ltlf-property 0))
(assert true)
`
	env := expr.NewEnv()
	m, err := Read(strings.NewReader(script), env)
	require.NoError(t, err)
	p, err := m.Property(0)
	require.NoError(t, err)
	assert.Equal(t, model.Ltlf, p.Kind)
	a, _ := env.LookupSymbol("a")
	assert.Same(t, env.N(a), p.Formula)
}

func TestReadInvalidAnnotationValue(t *testing.T) {
	script := `
(declare-fun a () Bool)
(define-fun i0 () Bool (! a :init false))
`
	_, err := Read(strings.NewReader(script), expr.NewEnv())
	require.ErrorIs(t, err, ErrInvalidAnnotationValue)
}

func TestReadInvalidPropertyIdx(t *testing.T) {
	script := `
(declare-fun a () Bool)
(define-fun p0 () Bool (! a :invar-property zero))
`
	_, err := Read(strings.NewReader(script), expr.NewEnv())
	require.ErrorIs(t, err, model.ErrInvalidPropertyIdx)
}

func TestReadUndeclaredSymbol(t *testing.T) {
	script := `
(declare-fun a () Bool)
(define-fun i0 () Bool (! (and a ghost) :init true))
`
	_, err := Read(strings.NewReader(script), expr.NewEnv())
	require.ErrorIs(t, err, model.ErrUndeclaredSymbol)
}

func TestReadInputClassification(t *testing.T) {
	script := `
(declare-fun s () Bool)
(declare-fun s.n () Bool)
(declare-fun free1 () Int)
(define-fun sv0 () Bool (! s :next s.n))
(define-fun t0 () Bool (! (= s.n (and s true)) :trans true))
(assert true)
`
	env := expr.NewEnv()
	m, err := Read(strings.NewReader(script), env)
	require.NoError(t, err)

	s, _ := env.LookupSymbol("s")
	free1, _ := env.LookupSymbol("free1")
	assert.Equal(t, []*expr.Expr{s}, m.StateVars())
	assert.Equal(t, []*expr.Expr{free1}, m.InputVars())

	// the partner symbol folds back into a next operator
	assert.Equal(t, []*expr.Expr{env.Iff(env.Next(s), env.And(s, env.TRUE()))},
		m.TransConstraints())
}

func TestParseTerm(t *testing.T) {
	env := expr.NewEnv()
	a := env.Symbol("a", expr.BoolType())
	n := env.Symbol("n", expr.IntType())

	got, err := ParseTerm("(and a (not a) (= n 3))", env)
	require.NoError(t, err)
	require.Same(t, env.And(a, env.Not(a), env.Equals(n, env.Int(3))), got)

	_, err = ParseTerm("(and a ghost)", env)
	require.ErrorIs(t, err, model.ErrUndeclaredSymbol)

	_, err = ParseTerm("(frobnicate a)", env)
	require.ErrorIs(t, err, ErrParse)
}
