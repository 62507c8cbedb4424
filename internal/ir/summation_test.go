package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/ast"
)

func TestReduceInequalitiesCombinesBoundsWithMaxMin(t *testing.T) {
	idx := ast.NewSymbol("i")
	base := Range{Start: ast.NewConst(0), End: ast.NewSym(ast.NewSymbol("n"))}

	rng, err := ReduceInequalities(idx, base, []*ast.Inequality{
		ast.NewInequality(ast.OpGE, ast.NewSym(idx), ast.NewConst(3)),
		ast.NewInequality(ast.OpLT, ast.NewSym(idx), ast.NewConst(10)),
	})
	require.NoError(t, err)

	assert.Equal(t, "3", rng.Start.String())
	assert.Equal(t, "min(n, 10)", rng.End.String())
}

func TestReduceInequalitiesFlipsBoundOnRightHandIndex(t *testing.T) {
	idx := ast.NewSymbol("i")
	base := Range{Start: ast.NewConst(0), End: ast.NewConst(100)}

	rng, err := ReduceInequalities(idx, base, []*ast.Inequality{
		ast.NewInequality(ast.OpGT, ast.NewConst(5), ast.NewSym(idx)),
	})
	require.NoError(t, err)

	// "5 > i" normalizes to "i < 5"; both bounds are constant so Min folds
	// them together into the single winning value.
	assert.Equal(t, "5", rng.End.String())
}

func TestReduceInequalitiesRejectsBoundNotIsolatingIndex(t *testing.T) {
	idx := ast.NewSymbol("i")
	base := Range{Start: ast.NewConst(0), End: ast.NewConst(100)}

	_, err := ReduceInequalities(idx, base, []*ast.Inequality{
		ast.NewInequality(ast.OpLT, ast.NewConst(1), ast.NewConst(2)),
	})
	assert.Error(t, err)
}

func TestSummationConstantDegree(t *testing.T) {
	idx := ast.NewSymbol("i")
	total, err := Summation(ast.NewConst(5), idx, Range{Start: ast.NewConst(0), End: ast.NewSym(ast.NewSymbol("n"))})
	require.NoError(t, err)
	assert.Equal(t, "(n * 5)", total.String())
}

func TestSummationLinearGaussSum(t *testing.T) {
	idx := ast.NewSymbol("i")
	// sum_{i=0}^{n-1} i == n*(n-1)/2
	total, err := Summation(ast.NewSym(idx), idx, Range{Start: ast.NewConst(0), End: ast.NewSym(ast.NewSymbol("n"))})
	require.NoError(t, err)
	assert.Contains(t, total.String(), "/ 2")
}

func TestSummationOverSmallConcreteRangeMatchesBruteForce(t *testing.T) {
	idx := ast.NewSymbol("i")
	// sum over i in [2, 6) of i*i == 4 + 9 + 16 + 25 == 54
	total, err := Summation(ast.Mul(ast.NewSym(idx), ast.NewSym(idx)), idx, Range{Start: ast.NewConst(2), End: ast.NewConst(6)})
	require.NoError(t, err)
	assert.Equal(t, "54", total.String())
}

func TestSummationRejectsDegreeAboveTwo(t *testing.T) {
	idx := ast.NewSymbol("i")
	cube := ast.Mul(ast.NewSym(idx), ast.NewSym(idx), ast.NewSym(idx))
	_, err := Summation(cube, idx, Range{Start: ast.NewConst(0), End: ast.NewConst(10)})
	assert.Error(t, err)
}
