package ast

import "strings"

// CompareOp is one of the five relational operators the front-end grammar
// accepts in a condition.
type CompareOp int

const (
	OpLT CompareOp = iota
	OpLE
	OpGT
	OpGE
	OpEQ
)

func (op CompareOp) String() string {
	switch op {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpEQ:
		return "=="
	default:
		return "?"
	}
}

// Inequality is a single relational atom Lhs Op Rhs.
type Inequality struct {
	Op  CompareOp
	Lhs Expr
	Rhs Expr
}

// NewInequality builds an Inequality.
func NewInequality(op CompareOp, lhs, rhs Expr) *Inequality {
	return &Inequality{Op: op, Lhs: lhs, Rhs: rhs}
}

func (in *Inequality) String() string {
	return in.Lhs.String() + " " + in.Op.String() + " " + in.Rhs.String()
}

// Negate returns the logical negation of in as a single Inequality. Every
// ordering operator negates to another ordering operator; equality has no
// single-Inequality negation (its negation is a disjunction of < and >), so
// ok is false for OpEQ and callers must fall back to wrapping the atom in a
// BNot instead.
func (in *Inequality) Negate() (neg *Inequality, ok bool) {
	switch in.Op {
	case OpLT:
		return &Inequality{Op: OpGE, Lhs: in.Lhs, Rhs: in.Rhs}, true
	case OpLE:
		return &Inequality{Op: OpGT, Lhs: in.Lhs, Rhs: in.Rhs}, true
	case OpGT:
		return &Inequality{Op: OpLE, Lhs: in.Lhs, Rhs: in.Rhs}, true
	case OpGE:
		return &Inequality{Op: OpLT, Lhs: in.Lhs, Rhs: in.Rhs}, true
	default:
		return nil, false
	}
}

func (in *Inequality) isAtom() {}

// Atom is an indivisible boolean fact: a relational Inequality, or a bare
// boolean-valued symbol possibly negated.
type Atom interface {
	isAtom()
	String() string
}

// SymbolAtom is a boolean variable reference, optionally negated.
type SymbolAtom struct {
	Sym     Symbol
	Negated bool
}

func (*SymbolAtom) isAtom() {}
func (s *SymbolAtom) String() string {
	if s.Negated {
		return "!" + s.Sym.Name
	}
	return s.Sym.Name
}

// BoolExpr is a boolean-valued condition: a literal, an atom, or a boolean
// combination built with And/Or/Not.
type BoolExpr interface {
	isBool()
	String() string
}

// BConst is a literal true/false.
type BConst struct{ Value bool }

func (*BConst) isBool() {}
func (b *BConst) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// BAtomExpr lifts a single Atom into a BoolExpr.
type BAtomExpr struct{ A Atom }

func (*BAtomExpr) isBool() {}
func (b *BAtomExpr) String() string { return b.A.String() }

// BAnd is an n-ary conjunction.
type BAnd struct{ Xs []BoolExpr }

func (*BAnd) isBool() {}
func (b *BAnd) String() string { return joinBool(b.Xs, " && ") }

// BOr is an n-ary disjunction.
type BOr struct{ Xs []BoolExpr }

func (*BOr) isBool() {}
func (b *BOr) String() string { return joinBool(b.Xs, " || ") }

// BNot is a negation that could not be pushed down onto its operand — only
// reachable for the negation of an equality atom, since every other atom and
// every And/Or is negated in place by Not.
type BNot struct{ X BoolExpr }

func (*BNot) isBool() {}
func (b *BNot) String() string { return "!(" + b.X.String() + ")" }

func joinBool(xs []BoolExpr, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// BoolFromInequality lifts an Inequality into a BoolExpr.
func BoolFromInequality(in *Inequality) BoolExpr { return &BAtomExpr{A: in} }

// BoolFromSymbol lifts a boolean symbol reference into a BoolExpr.
func BoolFromSymbol(s Symbol) BoolExpr { return &BAtomExpr{A: &SymbolAtom{Sym: s}} }

// True and False are the two boolean constants, reused rather than
// reallocated so StructurallyEqual-style key comparisons stay cheap.
var (
	True  BoolExpr = &BConst{Value: true}
	False BoolExpr = &BConst{Value: false}
)

func isBConst(x BoolExpr) (*BConst, bool) {
	b, ok := x.(*BConst)
	return b, ok
}

// And builds a flattened conjunction: nested BAnds are flattened, literal
// true members are dropped, and the whole conjunction short-circuits to
// False if any member is literal false.
func And(xs ...BoolExpr) BoolExpr {
	var flat []BoolExpr
	var flatten func(x BoolExpr) bool // returns false to short-circuit
	flatten = func(x BoolExpr) bool {
		switch v := x.(type) {
		case *BAnd:
			for _, sub := range v.Xs {
				if !flatten(sub) {
					return false
				}
			}
			return true
		case *BConst:
			if !v.Value {
				return false
			}
			return true
		default:
			flat = append(flat, x)
			return true
		}
	}
	for _, x := range xs {
		if !flatten(x) {
			return False
		}
	}
	if len(flat) == 0 {
		return True
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &BAnd{Xs: flat}
}

// Or builds a flattened disjunction, dual to And: nested BOrs flatten,
// literal false members drop, any literal true member short-circuits to
// True.
func Or(xs ...BoolExpr) BoolExpr {
	var flat []BoolExpr
	var flatten func(x BoolExpr) bool
	flatten = func(x BoolExpr) bool {
		switch v := x.(type) {
		case *BOr:
			for _, sub := range v.Xs {
				if !flatten(sub) {
					return false
				}
			}
			return true
		case *BConst:
			if v.Value {
				return false
			}
			return true
		default:
			flat = append(flat, x)
			return true
		}
	}
	for _, x := range xs {
		if !flatten(x) {
			return True
		}
	}
	if len(flat) == 0 {
		return False
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &BOr{Xs: flat}
}

// Not builds the negation of x, pushing the negation as far down as
// possible (De Morgan's laws for And/Or, double-negation elimination for
// BNot, Negate() for Inequality atoms, bit-flip for SymbolAtom). A BNot node
// only survives construction when x is an equality Inequality, since a
// negated equality has no single-Inequality or single-SymbolAtom form.
func Not(x BoolExpr) BoolExpr {
	switch v := x.(type) {
	case *BConst:
		return boolConst(!v.Value)
	case *BNot:
		return v.X
	case *BAnd:
		negated := make([]BoolExpr, len(v.Xs))
		for i, sub := range v.Xs {
			negated[i] = Not(sub)
		}
		return Or(negated...)
	case *BOr:
		negated := make([]BoolExpr, len(v.Xs))
		for i, sub := range v.Xs {
			negated[i] = Not(sub)
		}
		return And(negated...)
	case *BAtomExpr:
		switch a := v.A.(type) {
		case *Inequality:
			if neg, ok := a.Negate(); ok {
				return &BAtomExpr{A: neg}
			}
			return &BNot{X: x}
		case *SymbolAtom:
			return &BAtomExpr{A: &SymbolAtom{Sym: a.Sym, Negated: !a.Negated}}
		}
	}
	return &BNot{X: x}
}

func boolConst(v bool) BoolExpr {
	if v {
		return True
	}
	return False
}

// ToDNF rewrites x into disjunctive normal form: an Or of Ands of atoms (or
// negated-atom BNots for un-negatable equalities). Not is assumed to have
// already pushed every negation down to a leaf, the invariant And/Or/Not
// maintain by construction, so ToDNF only needs to distribute And over Or.
func ToDNF(x BoolExpr) BoolExpr {
	switch v := x.(type) {
	case *BAnd:
		disjuncts := [][]BoolExpr{{}}
		for _, sub := range v.Xs {
			subDNF := ToDNF(sub)
			subDisjuncts := disjunctsOf(subDNF)
			var next [][]BoolExpr
			for _, prefix := range disjuncts {
				for _, d := range subDisjuncts {
					combined := append(append([]BoolExpr{}, prefix...), d...)
					next = append(next, combined)
				}
			}
			disjuncts = next
		}
		var terms []BoolExpr
		for _, conj := range disjuncts {
			terms = append(terms, And(conj...))
		}
		return Or(terms...)
	case *BOr:
		var terms []BoolExpr
		for _, sub := range v.Xs {
			terms = append(terms, ToDNF(sub))
		}
		return Or(terms...)
	default:
		return x
	}
}

// disjunctsOf returns the list of conjunction-term-lists that make up a DNF
// expression, treating a non-Or expression as a single disjunct of one
// conjunction whose members are its own And-operands (or itself, if it is
// already an atom).
func disjunctsOf(x BoolExpr) [][]BoolExpr {
	switch v := x.(type) {
	case *BOr:
		var out [][]BoolExpr
		for _, sub := range v.Xs {
			out = append(out, conjunctsOf(sub))
		}
		return out
	default:
		return [][]BoolExpr{conjunctsOf(x)}
	}
}

func conjunctsOf(x BoolExpr) []BoolExpr {
	if a, ok := x.(*BAnd); ok {
		return a.Xs
	}
	return []BoolExpr{x}
}

// StructurallyEqualBool is the BoolExpr counterpart to StructurallyEqual: a
// definite, syntactic (order-insensitive over And/Or members) comparison
// used to decide whether two sibling If guards are interchangeable.
func StructurallyEqualBool(a, b BoolExpr) bool {
	return canonicalBoolKey(a) == canonicalBoolKey(b)
}

func canonicalBoolKey(x BoolExpr) string {
	switch v := x.(type) {
	case *BConst:
		if v.Value {
			return "t"
		}
		return "f"
	case *BAtomExpr:
		return "a:" + canonicalAtomKey(v.A)
	case *BNot:
		return "not:" + canonicalBoolKey(v.X)
	case *BAnd:
		return "and:" + joinSortedBoolKeys(v.Xs)
	case *BOr:
		return "or:" + joinSortedBoolKeys(v.Xs)
	default:
		return "?"
	}
}

func canonicalAtomKey(a Atom) string {
	switch v := a.(type) {
	case *Inequality:
		return "ineq:" + v.Op.String() + ":" + canonicalKey(v.Lhs) + ":" + canonicalKey(v.Rhs)
	case *SymbolAtom:
		if v.Negated {
			return "sym:!" + v.Sym.Name
		}
		return "sym:" + v.Sym.Name
	default:
		return "?"
	}
}

func joinSortedBoolKeys(xs []BoolExpr) string {
	keys := make([]string, len(xs))
	for i, x := range xs {
		keys[i] = canonicalBoolKey(x)
	}
	// Insertion sort is fine here: guard lists are small (a handful of
	// conjuncts/disjuncts per statement) and this keeps the dependency
	// surface of this file to the stdlib strings package only.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return strings.Join(keys, ",")
}
