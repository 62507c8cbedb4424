// Package ir holds the resolved, loop-free representation of a program: the
// output of the resolver (ResolvedBlock), the output of common-subexpression
// extraction (CSEBlock), and the shared Guard/ResolvedIncrement shapes both stages
// build on. Nothing in this package still contains a For loop or a nested
// If — those are eliminated on the way in from internal/ast.
package ir

import (
	"strings"

	"closedform/internal/ast"
)

// Guard is a conjunction of Atoms — the resolved, already-DNF-flattened
// condition under which a ResolvedIncrement fires. An empty Guard is always
// true.
type Guard struct {
	Atoms []ast.Atom
}

// TrueGuard is the always-true guard (no atoms).
func TrueGuard() Guard { return Guard{} }

func (g Guard) String() string {
	if len(g.Atoms) == 0 {
		return "true"
	}
	parts := make([]string, len(g.Atoms))
	for i, a := range g.Atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " && ")
}

// BoolExpr renders the guard back into an ast.BoolExpr, the form sibling
// merging's guard comparison and the two printer backends consume.
func (g Guard) BoolExpr() ast.BoolExpr {
	if len(g.Atoms) == 0 {
		return ast.True
	}
	parts := make([]ast.BoolExpr, len(g.Atoms))
	for i, a := range g.Atoms {
		parts[i] = &ast.BAtomExpr{A: a}
	}
	return ast.And(parts...)
}

// Conjoin returns a new Guard with extra appended, without mutating g.
func (g Guard) Conjoin(extra ...ast.Atom) Guard {
	atoms := make([]ast.Atom, 0, len(g.Atoms)+len(extra))
	atoms = append(atoms, g.Atoms...)
	atoms = append(atoms, extra...)
	return Guard{Atoms: atoms}
}

// ResolvedIncrement is a flat, loop-free accumulation: add Value to Target,
// once, whenever Guard holds. Every For loop the resolver eliminates turns
// into a closed-form rewrite of Value in terms of the loop's bound
// expressions rather than a repeated ResolvedIncrement.
type ResolvedIncrement struct {
	Target Symbol
	Value  ast.Expr
	Guard  Guard
}

// Symbol re-exports ast.Symbol so callers of this package rarely need to
// import internal/ast directly just to name a target.
type Symbol = ast.Symbol

// ResolvedBlock is the flat output of the resolver: every nested For/If
// structure has been eliminated in favor of a single list of guarded
// increments, order-independent because every target symbol in a program
// this pipeline accepts is written by addition only, and addition is
// commutative and associative regardless of the order increments appear in.
type ResolvedBlock struct {
	Increments []ResolvedIncrement
}

// Targets returns the distinct set of symbols this block increments, in
// first-seen order.
func (b *ResolvedBlock) Targets() []Symbol {
	seen := map[Symbol]bool{}
	var out []Symbol
	for _, inc := range b.Increments {
		if !seen[inc.Target] {
			seen[inc.Target] = true
			out = append(out, inc.Target)
		}
	}
	return out
}

// HelperAssignment is a single `helperN = expr` binding produced by CSE,
// hoisting a repeated subexpression out of the guarded increments that use
// it.
type HelperAssignment struct {
	Name  string
	Value ast.Expr
}

// CSEBlock is the final, emission-ready program: zero-initializers for every
// accumulator, a list of extracted helper assignments, and the rebuilt
// guarded increments referencing them.
type CSEBlock struct {
	ZeroInit   []Symbol
	Helpers    []HelperAssignment
	Increments []ResolvedIncrement
}
