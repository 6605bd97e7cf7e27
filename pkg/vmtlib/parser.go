package vmtlib

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pyvmt/pyvmt/pkg/expr"
	"github.com/pyvmt/pyvmt/pkg/model"
)

// annotation records one (! term :key value) occurrence, in script
// order.
type annotation struct {
	formula *expr.Expr
	key     string
	value   string
}

// script is the parsed form of a VMT-LIB file: the declared symbols
// and every annotation, both in order of appearance.
type script struct {
	declared    []*expr.Expr
	annotations []annotation
}

func (s *script) annotated(key string) []annotation {
	var out []annotation
	for _, a := range s.annotations {
		if a.key == key {
			out = append(out, a)
		}
	}
	return out
}

// Parser parses VMT-LIB scripts and terms against an environment.
// define-fun names act as macros and are expanded during parsing.
type Parser struct {
	lex    *Lexer
	env    *expr.Env
	tok    Token
	macros map[string]*expr.Expr
}

// ParseTerm parses a single term, resolving symbols against the
// environment. Used by solver wrappers to read counterexample
// assignments.
func ParseTerm(input string, env *expr.Env) (*expr.Expr, error) {
	p := NewParser(input, env)
	term, err := p.parseTerm(&script{}, nil)
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, p.errf("trailing input after term")
	}
	return term, nil
}

// NewParser creates a parser over the input, interning formulae in
// env.
func NewParser(input string, env *expr.Env) *Parser {
	p := &Parser{lex: NewLexer(input), env: env, macros: map[string]*expr.Expr{}}
	p.next()
	return p
}

func (p *Parser) next() { p.tok = p.lex.NextToken() }

func (p *Parser) errf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return fmt.Errorf("%w: line %d: %s", ErrParse, p.tok.Line, msg)
}

func (p *Parser) expect(t TokenType) (Token, error) {
	if p.tok.Type != t {
		return Token{}, p.errf("expected %s, got %s %q", t, p.tok.Type, p.tok.Literal)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

// parseScript parses the whole input.
func (p *Parser) parseScript() (*script, error) {
	s := &script{}
	for p.tok.Type != TokenEOF {
		if err := p.parseCommand(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *Parser) parseCommand(s *script) error {
	if _, err := p.expect(TokenLParen); err != nil {
		return err
	}
	cmd, err := p.expect(TokenSymbol)
	if err != nil {
		return err
	}
	switch cmd.Literal {
	case "declare-fun":
		return p.parseDeclareFun(s)
	case "define-fun":
		return p.parseDefineFun(s)
	case "assert":
		if _, err := p.parseTerm(s, nil); err != nil {
			return err
		}
		_, err := p.expect(TokenRParen)
		return err
	case "set-logic", "set-option", "set-info", "declare-sort":
		return p.skipToClose(1)
	default:
		return p.errf("unsupported command %q", cmd.Literal)
	}
}

// skipToClose consumes tokens until depth parentheses are closed.
func (p *Parser) skipToClose(depth int) error {
	for depth > 0 {
		switch p.tok.Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenEOF:
			return p.errf("unexpected end of input")
		}
		p.next()
	}
	return nil
}

func (p *Parser) parseDeclareFun(s *script) error {
	name, err := p.expect(TokenSymbol)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return err
	}
	if p.tok.Type != TokenRParen {
		return p.errf("only zero-arity declarations are supported")
	}
	p.next()
	sort, err := p.parseSort()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return err
	}
	sym, err := p.env.TrySymbol(name.Literal, sort)
	if err != nil {
		return err
	}
	s.declared = append(s.declared, sym)
	return nil
}

func (p *Parser) parseDefineFun(s *script) error {
	name, err := p.expect(TokenSymbol)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return err
	}
	if p.tok.Type != TokenRParen {
		return p.errf("only zero-arity definitions are supported")
	}
	p.next()
	sort, err := p.parseSort()
	if err != nil {
		return err
	}
	body, err := p.parseTerm(s, nil)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return err
	}
	if body.Type() != sort {
		return p.errf("definition %s declared %s but body has type %s",
			name.Literal, sort, body.Type())
	}
	p.macros[name.Literal] = body
	return nil
}

func (p *Parser) parseSort() (expr.Type, error) {
	switch p.tok.Type {
	case TokenSymbol:
		name := p.tok.Literal
		p.next()
		switch name {
		case "Bool":
			return expr.BoolType(), nil
		case "Int":
			return expr.IntType(), nil
		case "Real":
			return expr.RealType(), nil
		}
		return expr.Type{}, p.errf("unknown sort %q", name)
	case TokenLParen:
		p.next()
		if p.tok.Type != TokenSymbol || p.tok.Literal != "_" {
			return expr.Type{}, p.errf("expected indexed sort")
		}
		p.next()
		head, err := p.expect(TokenSymbol)
		if err != nil {
			return expr.Type{}, err
		}
		if head.Literal != "BitVec" {
			return expr.Type{}, p.errf("unknown sort (_ %s ...)", head.Literal)
		}
		width, err := p.expect(TokenNumeral)
		if err != nil {
			return expr.Type{}, err
		}
		w, err := strconv.Atoi(width.Literal)
		if err != nil || w <= 0 {
			return expr.Type{}, p.errf("invalid bitvector width %q", width.Literal)
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return expr.Type{}, err
		}
		return expr.BVType(w), nil
	}
	return expr.Type{}, p.errf("expected sort, got %q", p.tok.Literal)
}

// parseTerm parses one term. scope holds quantifier-bound symbols by
// name.
func (p *Parser) parseTerm(s *script, scope map[string]*expr.Expr) (*expr.Expr, error) {
	switch p.tok.Type {
	case TokenSymbol:
		name := p.tok.Literal
		p.next()
		return p.resolve(name, scope)
	case TokenNumeral:
		v, err := strconv.ParseInt(p.tok.Literal, 10, 64)
		if err != nil {
			return nil, p.errf("invalid numeral %q", p.tok.Literal)
		}
		p.next()
		return p.env.Int(v), nil
	case TokenDecimal:
		lit := p.tok.Literal
		p.next()
		return p.env.Real(lit), nil
	case TokenBinary:
		lit := p.tok.Literal
		v, err := strconv.ParseUint(lit, 2, 64)
		if err != nil {
			return nil, p.errf("invalid binary literal #b%s", lit)
		}
		p.next()
		return p.env.BV(v, len(lit)), nil
	case TokenHex:
		lit := p.tok.Literal
		v, err := strconv.ParseUint(lit, 16, 64)
		if err != nil {
			return nil, p.errf("invalid hex literal #x%s", lit)
		}
		p.next()
		return p.env.BV(v, 4*len(lit)), nil
	case TokenLParen:
		p.next()
		return p.parseApplication(s, scope)
	}
	return nil, p.errf("expected term, got %s %q", p.tok.Type, p.tok.Literal)
}

func (p *Parser) resolve(name string, scope map[string]*expr.Expr) (*expr.Expr, error) {
	switch name {
	case "true":
		return p.env.TRUE(), nil
	case "false":
		return p.env.FALSE(), nil
	}
	if sym, ok := scope[name]; ok {
		return sym, nil
	}
	if body, ok := p.macros[name]; ok {
		return body, nil
	}
	if sym, ok := p.env.LookupSymbol(name); ok {
		return sym, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUndeclaredSymbol, name)
}

func (p *Parser) parseArgs(s *script, scope map[string]*expr.Expr) ([]*expr.Expr, error) {
	var args []*expr.Expr
	for p.tok.Type != TokenRParen {
		if p.tok.Type == TokenEOF {
			return nil, p.errf("unexpected end of input")
		}
		a, err := p.parseTerm(s, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next()
	return args, nil
}

func (p *Parser) parseApplication(s *script, scope map[string]*expr.Expr) (*expr.Expr, error) {
	switch p.tok.Type {
	case TokenLParen:
		// indexed operator head, e.g. ((_ extract 14 12) x)
		p.next()
		return p.parseIndexedApplication(s, scope)
	case TokenSymbol:
		// handled below
	default:
		return nil, p.errf("expected operator, got %q", p.tok.Literal)
	}
	op := p.tok.Literal
	p.next()

	switch op {
	case "!":
		return p.parseAnnotatedTerm(s, scope)
	case "forall", "exists":
		return p.parseQuantifier(s, scope, op)
	case "_":
		// indexed constant, e.g. (_ bv5 32)
		return p.parseIndexedConstant()
	}

	args, err := p.parseArgs(s, scope)
	if err != nil {
		return nil, err
	}
	return p.apply(op, args)
}

func (p *Parser) parseIndexedApplication(s *script, scope map[string]*expr.Expr) (*expr.Expr, error) {
	if p.tok.Type != TokenSymbol || p.tok.Literal != "_" {
		return nil, p.errf("expected indexed operator")
	}
	p.next()
	head, err := p.expect(TokenSymbol)
	if err != nil {
		return nil, err
	}
	if head.Literal != "extract" {
		return nil, p.errf("unsupported indexed operator %q", head.Literal)
	}
	hiTok, err := p.expect(TokenNumeral)
	if err != nil {
		return nil, err
	}
	loTok, err := p.expect(TokenNumeral)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	hi, _ := strconv.Atoi(hiTok.Literal)
	lo, _ := strconv.Atoi(loTok.Literal)
	args, err := p.parseArgs(s, scope)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, p.errf("extract takes exactly one argument")
	}
	return p.build(func() *expr.Expr { return p.env.BVExtract(args[0], lo, hi) })
}

func (p *Parser) parseIndexedConstant() (*expr.Expr, error) {
	head, err := p.expect(TokenSymbol)
	if err != nil {
		return nil, err
	}
	if len(head.Literal) < 3 || head.Literal[:2] != "bv" {
		return nil, p.errf("unsupported indexed constant %q", head.Literal)
	}
	v, err := strconv.ParseUint(head.Literal[2:], 10, 64)
	if err != nil {
		return nil, p.errf("invalid bitvector constant %q", head.Literal)
	}
	width, err := p.expect(TokenNumeral)
	if err != nil {
		return nil, err
	}
	w, err := strconv.Atoi(width.Literal)
	if err != nil || w <= 0 {
		return nil, p.errf("invalid bitvector width %q", width.Literal)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return p.build(func() *expr.Expr { return p.env.BV(v, w) })
}

// parseAnnotatedTerm parses (! term :key value ...), recording each
// annotation against the inner term.
func (p *Parser) parseAnnotatedTerm(s *script, scope map[string]*expr.Expr) (*expr.Expr, error) {
	term, err := p.parseTerm(s, scope)
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenKeyword {
		key := p.tok.Literal
		p.next()
		switch p.tok.Type {
		case TokenSymbol, TokenNumeral, TokenDecimal:
			s.annotations = append(s.annotations,
				annotation{formula: term, key: key, value: p.tok.Literal})
			p.next()
		default:
			return nil, p.errf("unsupported annotation value %q", p.tok.Literal)
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return term, nil
}

func (p *Parser) parseQuantifier(s *script, scope map[string]*expr.Expr, op string) (*expr.Expr, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	inner := map[string]*expr.Expr{}
	for name, sym := range scope {
		inner[name] = sym
	}
	var vars []*expr.Expr
	for p.tok.Type == TokenLParen {
		p.next()
		name, err := p.expect(TokenSymbol)
		if err != nil {
			return nil, err
		}
		sort, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		sym, err := p.env.TrySymbol(name.Literal, sort)
		if err != nil {
			return nil, err
		}
		inner[name.Literal] = sym
		vars = append(vars, sym)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseTerm(s, inner)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	if op == "forall" {
		return p.build(func() *expr.Expr { return p.env.Forall(vars, body) })
	}
	return p.build(func() *expr.Expr { return p.env.Exists(vars, body) })
}

// build runs a kernel builder, converting its panics on ill-typed
// input into parse errors.
func (p *Parser) build(f func() *expr.Expr) (res *expr.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				if errors.Is(e, ErrParse) {
					err = e
				} else {
					err = fmt.Errorf("%w: %s", ErrParse, e)
				}
				return
			}
			panic(r)
		}
	}()
	return f(), nil
}

func (p *Parser) apply(op string, args []*expr.Expr) (*expr.Expr, error) {
	env := p.env
	arity := func(n int) error {
		if len(args) != n {
			return p.errf("%s takes %d arguments, got %d", op, n, len(args))
		}
		return nil
	}
	atLeast := func(n int) error {
		if len(args) < n {
			return p.errf("%s takes at least %d arguments, got %d", op, n, len(args))
		}
		return nil
	}
	return p.build(func() *expr.Expr {
		switch op {
		case "and":
			return env.And(args...)
		case "or":
			return env.Or(args...)
		case "not":
			must(arity(1))
			return env.Not(args[0])
		case "=>":
			must(arity(2))
			return env.Implies(args[0], args[1])
		case "=":
			must(arity(2))
			return env.EqualsOrIff(args[0], args[1])
		case "ite":
			must(arity(3))
			return env.Ite(args[0], args[1], args[2])
		case "<":
			must(arity(2))
			return env.LT(args[0], args[1])
		case "<=":
			must(arity(2))
			return env.LE(args[0], args[1])
		case ">":
			must(arity(2))
			return env.GT(args[0], args[1])
		case ">=":
			must(arity(2))
			return env.GE(args[0], args[1])
		case "+":
			must(atLeast(1))
			return env.Plus(args...)
		case "-":
			if len(args) == 1 {
				return env.Minus(env.Int(0), args[0])
			}
			must(arity(2))
			return env.Minus(args[0], args[1])
		case "*":
			must(atLeast(1))
			return env.Times(args...)
		case "/":
			must(arity(2))
			return env.Div(args[0], args[1])
		case "bvadd":
			must(arity(2))
			return env.BVAdd(args[0], args[1])
		case "bvsub":
			must(arity(2))
			return env.BVSub(args[0], args[1])
		case "bvmul":
			must(arity(2))
			return env.BVMul(args[0], args[1])
		case "bvand":
			must(arity(2))
			return env.BVAnd(args[0], args[1])
		case "bvor":
			must(arity(2))
			return env.BVOr(args[0], args[1])
		case "bvxor":
			must(arity(2))
			return env.BVXor(args[0], args[1])
		case "bvnot":
			must(arity(1))
			return env.BVNot(args[0])
		case "concat":
			must(arity(2))
			return env.BVConcat(args[0], args[1])
		case "bvult":
			must(arity(2))
			return env.BVULT(args[0], args[1])
		case "bvule":
			must(arity(2))
			return env.BVULE(args[0], args[1])
		case "bvshl":
			must(arity(2))
			return env.BVShl(args[0], args[1])
		case "bvlshr":
			must(arity(2))
			return env.BVLshr(args[0], args[1])
		case "ltl.X":
			must(arity(1))
			return env.X(args[0])
		case "ltl.N":
			must(arity(1))
			return env.N(args[0])
		case "ltl.F":
			must(arity(1))
			return env.F(args[0])
		case "ltl.G":
			must(arity(1))
			return env.G(args[0])
		case "ltl.U":
			must(arity(2))
			return env.U(args[0], args[1])
		case "ltl.R":
			must(arity(2))
			return env.R(args[0], args[1])
		case "ltl.Y":
			must(arity(1))
			return env.Y(args[0])
		case "ltl.Z":
			must(arity(1))
			return env.Z(args[0])
		case "ltl.O":
			must(arity(1))
			return env.O(args[0])
		case "ltl.H":
			must(arity(1))
			return env.H(args[0])
		case "ltl.S":
			must(arity(2))
			return env.S(args[0], args[1])
		}
		must(p.errf("unknown operator %q", op))
		return nil
	})
}

// must converts an error into a panic unwound by build.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
