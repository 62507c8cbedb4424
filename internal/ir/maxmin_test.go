package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/ast"
)

func TestSplitLeavesExpressionWithoutTargetUntouched(t *testing.T) {
	splitter := NewSplitter()
	other := ast.NewSymbol("q")
	expr := ast.Max(ast.NewSym(other), ast.NewConst(3))

	cases := splitter.Split(expr, map[ast.Symbol]bool{ast.NewSymbol("i"): true})
	require.Len(t, cases, 1)
	assert.True(t, ast.StructurallyEqual(cases[0].Expr, expr))
	assert.Empty(t, cases[0].Guard.Atoms)
}

func TestSplitMaxOverTargetProducesTwoExhaustiveCases(t *testing.T) {
	splitter := NewSplitter()
	idx := ast.NewSymbol("i")
	expr := ast.Max(ast.NewSym(idx), ast.NewConst(10))

	cases := splitter.Split(expr, map[ast.Symbol]bool{idx: true})
	require.Len(t, cases, 2)

	// First case: i wins, guarded by i >= 10 (tie goes to the symbol-bearing
	// argument since it's tried first in priority order).
	assert.Equal(t, "i", cases[0].Expr.String())
	require.Len(t, cases[0].Guard.Atoms, 1)
	assert.Equal(t, "i >= 10", cases[0].Guard.Atoms[0].String())

	// Second case: the constant wins, guarded by it strictly beating i.
	assert.Equal(t, "10", cases[1].Expr.String())
	require.Len(t, cases[1].Guard.Atoms, 1)
	assert.Equal(t, "10 > i", cases[1].Guard.Atoms[0].String())
}

func TestSplitSumDistributesOverNestedMax(t *testing.T) {
	splitter := NewSplitter()
	idx := ast.NewSymbol("i")
	expr := ast.Add(ast.NewSym(idx), ast.Max(ast.NewSym(idx), ast.NewConst(0)))

	cases := splitter.Split(expr, map[ast.Symbol]bool{idx: true})
	require.Len(t, cases, 2)
	for _, c := range cases {
		assert.NotEmpty(t, c.Guard.Atoms)
	}
}

func TestSplitAtomLeavesBareComparisonUntouched(t *testing.T) {
	splitter := NewSplitter()
	idx := ast.NewSymbol("i")
	c := ast.NewSymbol("c")
	atom := ast.NewInequality(ast.OpLT, ast.NewSym(c), ast.NewSym(idx))

	cases := splitter.SplitAtom(atom, map[ast.Symbol]bool{idx: true})
	require.Len(t, cases, 1)
	assert.Equal(t, "c < i", cases[0].Atom.String())
	assert.Empty(t, cases[0].Guard.Atoms)
}

func TestSplitAtomEliminatesMaxFromInequalityOperand(t *testing.T) {
	splitter := NewSplitter()
	idx := ast.NewSymbol("i")
	c := ast.NewSymbol("c")
	atom := ast.NewInequality(ast.OpLT, ast.NewSym(c), ast.Max(ast.NewSym(idx), ast.NewConst(5)))

	cases := splitter.SplitAtom(atom, map[ast.Symbol]bool{idx: true})
	require.Len(t, cases, 2)
	for _, cs := range cases {
		assert.NotContains(t, cs.Atom.String(), "max(",
			"every case's rewritten atom must be free of the max it replaced")
		assert.NotEmpty(t, cs.Guard.Atoms, "each case must be guarded by which side of the max won")
	}
}

func TestSplitCachesIdenticalRequests(t *testing.T) {
	splitter := NewSplitter()
	idx := ast.NewSymbol("i")
	expr := ast.Max(ast.NewSym(idx), ast.NewConst(1))
	targets := map[ast.Symbol]bool{idx: true}

	first := splitter.Split(expr, targets)
	second := splitter.Split(expr, targets)
	require.Equal(t, len(first), len(second))
	assert.Equal(t, first[0].Expr.String(), second[0].Expr.String())
}
