package ast

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is an integer-symbolic expression over Const, Symbol, Sum, Product,
// Max and Min. Expr is total (every construction succeeds) and has no side
// effects.
type Expr interface {
	isExpr()
	String() string
}

// Const is an integer literal.
type Const struct {
	Val *big.Int
}

func (*Const) isExpr() {}
func (c *Const) String() string {
	return c.Val.String()
}

// NewConst builds a Const from a plain int64, the common case in tests and
// in closed-form summation results for small literal increments.
func NewConst(v int64) *Const { return &Const{Val: big.NewInt(v)} }

// NewConstBig builds a Const from an arbitrary-precision integer.
func NewConstBig(v *big.Int) *Const { return &Const{Val: new(big.Int).Set(v)} }

func isConst(e Expr) (*Const, bool) {
	c, ok := e.(*Const)
	return c, ok
}

func isZero(e Expr) bool {
	c, ok := isConst(e)
	return ok && c.Val.Sign() == 0
}

func isOne(e Expr) bool {
	c, ok := isConst(e)
	return ok && c.Val.Cmp(big.NewInt(1)) == 0
}

// Sym wraps a Symbol as an Expr (a free variable: a summation index, a
// substituted constant, or an accumulator read in a context where reads are
// permitted, e.g. the loop index itself inside the loop body).
type Sym struct {
	Symbol Symbol
}

func (*Sym) isExpr() {}
func (s *Sym) String() string { return s.Symbol.Name }

// NewSym builds a Sym expression for the given symbol.
func NewSym(s Symbol) *Sym { return &Sym{Symbol: s} }

// Sum is an n-ary commutative addition. Construction always flattens nested
// Sums and folds constant terms, so every expression reaching the resolver
// is already in a normal form with at most one constant term.
type Sum struct {
	Terms []Expr
}

func (*Sum) isExpr() {}
func (s *Sum) String() string {
	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Add builds a flattened, constant-folded sum of the given expressions.
func Add(exprs ...Expr) Expr {
	var terms []Expr
	total := big.NewInt(0)

	var flatten func(e Expr)
	flatten = func(e Expr) {
		switch v := e.(type) {
		case *Sum:
			for _, t := range v.Terms {
				flatten(t)
			}
		case *Const:
			total.Add(total, v.Val)
		default:
			terms = append(terms, e)
		}
	}
	for _, e := range exprs {
		flatten(e)
	}

	if total.Sign() != 0 || len(terms) == 0 {
		terms = append(terms, &Const{Val: total})
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Sum{Terms: terms}
}

// Product is an n-ary commutative multiplication, flattened and folded the
// same way as Sum.
type Product struct {
	Factors []Expr
}

func (*Product) isExpr() {}
func (p *Product) String() string {
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, " * ") + ")"
}

// Mul builds a flattened, constant-folded product of the given expressions.
// A zero factor collapses the whole product to zero; a factor of one is
// dropped.
func Mul(exprs ...Expr) Expr {
	var factors []Expr
	total := big.NewInt(1)

	var flatten func(e Expr)
	flatten = func(e Expr) {
		switch v := e.(type) {
		case *Product:
			for _, f := range v.Factors {
				flatten(f)
			}
		case *Const:
			total.Mul(total, v.Val)
		default:
			factors = append(factors, e)
		}
	}
	for _, e := range exprs {
		flatten(e)
	}

	if total.Sign() == 0 {
		return &Const{Val: big.NewInt(0)}
	}
	if total.Cmp(big.NewInt(1)) != 0 || len(factors) == 0 {
		factors = append(factors, &Const{Val: total})
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return &Product{Factors: factors}
}

// Neg returns -e.
func Neg(e Expr) Expr { return Mul(NewConst(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// MaxExpr and MinExpr are kept as two distinct exported types rather than one
// struct with a boolean flag, so the splitter and printer can dispatch on
// them with an ordinary type switch.
type MaxExpr struct{ Args []Expr }
type MinExpr struct{ Args []Expr }

func (*MaxExpr) isExpr() {}
func (*MinExpr) isExpr() {}

func (m *MaxExpr) String() string { return funcString("max", m.Args) }
func (m *MinExpr) String() string { return funcString("min", m.Args) }

func funcString(name string, args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Max builds a max() expression, flattening nested max() calls so that
// Max(Max(a,b),c) becomes Max(a,b,c), folding all constant arguments into the
// single largest one, and returning a lone remaining argument unwrapped.
func Max(args ...Expr) Expr { return buildExtremum(true, args) }

// Min builds a min() expression, dual to Max.
func Min(args ...Expr) Expr { return buildExtremum(false, args) }

func buildExtremum(isMax bool, args []Expr) Expr {
	var flat []Expr
	var flatten func(e Expr)
	flatten = func(e Expr) {
		if isMax {
			if m, ok := e.(*MaxExpr); ok {
				for _, a := range m.Args {
					flatten(a)
				}
				return
			}
		} else {
			if m, ok := e.(*MinExpr); ok {
				for _, a := range m.Args {
					flatten(a)
				}
				return
			}
		}
		flat = append(flat, e)
	}
	for _, a := range args {
		flatten(a)
	}

	// Fold together constant arguments, keeping symbolic ones untouched.
	var consts []*big.Int
	var rest []Expr
	for _, a := range flat {
		if c, ok := isConst(a); ok {
			consts = append(consts, c.Val)
		} else {
			rest = append(rest, a)
		}
	}
	if len(consts) > 0 {
		best := new(big.Int).Set(consts[0])
		for _, c := range consts[1:] {
			if (isMax && c.Cmp(best) > 0) || (!isMax && c.Cmp(best) < 0) {
				best = c
			}
		}
		rest = append(rest, &Const{Val: best})
	}

	if len(rest) == 1 {
		return rest[0]
	}
	if isMax {
		return &MaxExpr{Args: rest}
	}
	return &MinExpr{Args: rest}
}

// Div is an exact integer division by a constant denominator. It only ever
// appears as the output of closed-form summation (the Gauss-sum and
// sum-of-squares identities divide by 2 and 6, both of which evenly divide
// the numerator whenever the numerator came from summing a real integer
// range) — the algebra never constructs a Div whose exactness it hasn't
// already guaranteed, so there is no runtime remainder check.
type Div struct {
	Num Expr
	Den *big.Int
}

func (*Div) isExpr() {}
func (d *Div) String() string {
	return "(" + d.Num.String() + " / " + d.Den.String() + ")"
}

// NewDiv builds a Div, folding away the trivial denominator 1 and constant
// numerators.
func NewDiv(num Expr, den int64) Expr {
	if den == 1 {
		return num
	}
	if c, ok := isConst(num); ok {
		q, r := new(big.Int).QuoRem(c.Val, big.NewInt(den), new(big.Int))
		if r.Sign() == 0 {
			return &Const{Val: q}
		}
	}
	return &Div{Num: num, Den: big.NewInt(den)}
}

// StructurallyEqual is a syntactic (not symbolic) equality test used as the
// decision procedure backing sibling-guard merging and CSE key comparison.
// It never reports "unknown": two Exprs that are equal up to reassociation
// and argument order compare equal, anything that would require deeper
// algebraic reasoning compares unequal — the same conservative bias a true
// three-valued unknown result would get treated with downstream, collapsed
// into a plain bool.
func StructurallyEqual(a, b Expr) bool {
	return canonicalKey(a) == canonicalKey(b)
}

// CanonicalKey exposes canonicalKey for callers outside this package that
// need a stable, order-insensitive identity for an Expr — the Max/Min
// splitter's memoization cache keys on it.
func CanonicalKey(e Expr) string { return canonicalKey(e) }

// canonicalKey renders an Expr into a string that is identical for two Exprs
// related only by commutative reordering, by sorting the canonical keys of
// Sum/Product/Max/Min children before joining them.
func canonicalKey(e Expr) string {
	switch v := e.(type) {
	case *Const:
		return "c:" + v.Val.String()
	case *Sym:
		return "s:" + v.Symbol.Name
	case *Sum:
		return "add:" + joinSortedKeys(v.Terms)
	case *Product:
		return "mul:" + joinSortedKeys(v.Factors)
	case *MaxExpr:
		return "max:" + joinSortedKeys(v.Args)
	case *MinExpr:
		return "min:" + joinSortedKeys(v.Args)
	case *Div:
		return "div:" + canonicalKey(v.Num) + ":" + v.Den.String()
	default:
		return fmt.Sprintf("?:%v", e)
	}
}

func joinSortedKeys(exprs []Expr) string {
	keys := make([]string, len(exprs))
	for i, e := range exprs {
		keys[i] = canonicalKey(e)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// Substitute returns e with every free occurrence of a symbol in subs
// replaced by its mapped Expr, used to fold constant assignments into later
// statements that reference them.
func Substitute(e Expr, subs map[Symbol]Expr) Expr {
	switch v := e.(type) {
	case *Const:
		return v
	case *Sym:
		if repl, ok := subs[v.Symbol]; ok {
			return repl
		}
		return v
	case *Sum:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Substitute(t, subs)
		}
		return Add(terms...)
	case *Product:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = Substitute(f, subs)
		}
		return Mul(factors...)
	case *MaxExpr:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, subs)
		}
		return Max(args...)
	case *MinExpr:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, subs)
		}
		return Min(args...)
	case *Div:
		return NewDiv(Substitute(v.Num, subs), v.Den.Int64())
	default:
		return e
	}
}

// Walk calls visit on e and, recursively, on every sub-expression in
// post-order — the traversal behind HasSymbol and the symbol scans of the
// role checker and the resolver.
func Walk(e Expr, visit func(Expr)) {
	switch v := e.(type) {
	case *Sum:
		for _, t := range v.Terms {
			Walk(t, visit)
		}
	case *Product:
		for _, f := range v.Factors {
			Walk(f, visit)
		}
	case *MaxExpr:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *MinExpr:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *Div:
		Walk(v.Num, visit)
	}
	visit(e)
}

// HasSymbol reports whether e mentions any symbol in the given set.
func HasSymbol(e Expr, symbols map[Symbol]bool) bool {
	found := false
	Walk(e, func(sub Expr) {
		if s, ok := sub.(*Sym); ok && symbols[s.Symbol] {
			found = true
		}
	})
	return found
}
