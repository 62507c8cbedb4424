package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/ast"
)

func TestMergeSiblingsCombinesAdjacentSameTargetSameGuard(t *testing.T) {
	total := ast.NewSymbol("total")
	guard := Guard{Atoms: []ast.Atom{ast.NewInequality(ast.OpGT, ast.NewSym(total), ast.NewConst(0))}}

	block := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: total, Value: ast.NewConst(1), Guard: guard},
		{Target: total, Value: ast.NewConst(2), Guard: guard},
	}}
	MergeSiblings(block)

	require.Len(t, block.Increments, 1)
	assert.Equal(t, "3", block.Increments[0].Value.String())
}

func TestMergeSiblingsLeavesDifferentTargetsSeparate(t *testing.T) {
	a := ast.NewSymbol("a")
	b := ast.NewSymbol("b")
	block := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: a, Value: ast.NewConst(1), Guard: TrueGuard()},
		{Target: b, Value: ast.NewConst(2), Guard: TrueGuard()},
	}}
	MergeSiblings(block)
	require.Len(t, block.Increments, 2)
}

func TestMergeSiblingsDoesNotMergeAcrossNonAdjacentMatch(t *testing.T) {
	a := ast.NewSymbol("a")
	b := ast.NewSymbol("b")
	block := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: a, Value: ast.NewConst(1), Guard: TrueGuard()},
		{Target: b, Value: ast.NewConst(2), Guard: TrueGuard()},
		{Target: a, Value: ast.NewConst(3), Guard: TrueGuard()},
	}}
	MergeSiblings(block)
	require.Len(t, block.Increments, 3)
}

func TestCSEExtractsRepeatedSubexpressionOnce(t *testing.T) {
	total := ast.NewSymbol("total")
	other := ast.NewSymbol("other")
	x := ast.NewSymbol("x")
	y := ast.NewSymbol("y")
	shared := ast.Add(ast.NewSym(x), ast.NewSym(y))

	block := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: total, Value: ast.Mul(shared, ast.NewConst(2)), Guard: TrueGuard()},
		{Target: other, Value: ast.Mul(shared, ast.NewConst(3)), Guard: TrueGuard()},
	}}

	result := CSE(block)
	require.Len(t, result.Helpers, 1)
	assert.Equal(t, "(x + y)", result.Helpers[0].Value.String())
	assert.Contains(t, result.Increments[0].Value.String(), result.Helpers[0].Name)
	assert.Contains(t, result.Increments[1].Value.String(), result.Helpers[0].Name)
}

func TestCSELeavesNonRepeatedSubexpressionsInline(t *testing.T) {
	total := ast.NewSymbol("total")
	x := ast.NewSymbol("x")
	block := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: total, Value: ast.Add(ast.NewSym(x), ast.NewConst(1)), Guard: TrueGuard()},
	}}

	result := CSE(block)
	assert.Empty(t, result.Helpers)
	assert.Equal(t, "(x + 1)", result.Increments[0].Value.String())
}
