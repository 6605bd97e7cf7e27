package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Env owns the interning table, the symbol table, the fresh-name
// counters and the oracle caches. Every formula belongs to exactly one
// Env; formulae from different environments must never be mixed. An Env
// is not safe for concurrent mutation and is intended to be owned by a
// single goroutine.
type Env struct {
	interned map[string]*Expr
	symbols  map[string]*Expr
	fresh    map[string]int
	nextID   int

	hasLTLCache  map[*Expr]bool
	hasNextCache map[*Expr]bool
	freeVarCache map[*Expr][]*Expr

	trueNode  *Expr
	falseNode *Expr
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	e := &Env{
		interned:     map[string]*Expr{},
		symbols:      map[string]*Expr{},
		fresh:        map[string]int{},
		hasLTLCache:  map[*Expr]bool{},
		hasNextCache: map[*Expr]bool{},
		freeVarCache: map[*Expr][]*Expr{},
	}
	e.trueNode = e.intern(&Expr{kind: KindBoolConst, typ: BoolType(), bval: true})
	e.falseNode = e.intern(&Expr{kind: KindBoolConst, typ: BoolType(), bval: false})
	return e
}

func (e *Env) intern(n *Expr) *Expr {
	key := internKey(n)
	if old, ok := e.interned[key]; ok {
		return old
	}
	n.id = e.nextID
	e.nextID++
	e.interned[key] = n
	return n
}

func internKey(n *Expr) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(n.kind)))
	b.WriteByte('|')
	b.WriteString(n.typ.String())
	b.WriteByte('|')
	switch n.kind {
	case KindSymbol:
		b.WriteString(n.name)
	case KindBoolConst:
		b.WriteString(strconv.FormatBool(n.bval))
	case KindIntConst:
		b.WriteString(strconv.FormatInt(n.ival, 10))
	case KindRealConst:
		b.WriteString(n.rval)
	case KindBVConst:
		b.WriteString(strconv.FormatUint(n.bvval, 10))
	case KindBVExtract:
		b.WriteString(strconv.Itoa(n.lo))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n.hi))
	case KindForall, KindExists:
		for _, v := range n.vars {
			b.WriteByte('v')
			b.WriteString(strconv.Itoa(v.id))
		}
	}
	for _, a := range n.args {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(a.id))
	}
	return b.String()
}

// Symbol returns the symbol with the given name and type, creating it
// on first use. Redeclaring a name with a different type panics with
// ErrDuplicateDeclaration.
func (e *Env) Symbol(name string, t Type) *Expr {
	s, err := e.TrySymbol(name, t)
	if err != nil {
		panic(err)
	}
	return s
}

// TrySymbol is the checked variant of Symbol for boundaries that
// consume external input.
func (e *Env) TrySymbol(name string, t Type) (*Expr, error) {
	if s, ok := e.symbols[name]; ok {
		if s.typ != t {
			return nil, &Error{err: ErrDuplicateDeclaration,
				msg: fmt.Sprintf("symbol %s already declared with type %s", name, s.typ)}
		}
		return s, nil
	}
	s := e.intern(&Expr{kind: KindSymbol, typ: t, name: name})
	e.symbols[name] = s
	return s, nil
}

// LookupSymbol returns the symbol with the given name, if declared.
func (e *Env) LookupSymbol(name string) (*Expr, bool) {
	s, ok := e.symbols[name]
	return s, ok
}

// FreshSymbol creates a symbol whose name is guaranteed unused,
// instantiating the printf-style template with a per-template counter.
func (e *Env) FreshSymbol(t Type, template string) *Expr {
	for {
		n := e.fresh[template]
		e.fresh[template] = n + 1
		name := fmt.Sprintf(template, n)
		if _, taken := e.symbols[name]; !taken {
			return e.Symbol(name, t)
		}
	}
}
