package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"closedform/internal/ast"
)

func TestGuardStringAndBoolExprRoundTrip(t *testing.T) {
	g := TrueGuard()
	assert.Equal(t, "true", g.String())
	assert.Equal(t, "true", g.BoolExpr().String())

	idx := ast.NewSymbol("i")
	g = g.Conjoin(ast.NewInequality(ast.OpLT, ast.NewSym(idx), ast.NewConst(10)))
	assert.Equal(t, "i < 10", g.String())
}

func TestResolvedBlockTargetsDeduplicatesInFirstSeenOrder(t *testing.T) {
	total := ast.NewSymbol("total")
	count := ast.NewSymbol("count")
	b := &ResolvedBlock{Increments: []ResolvedIncrement{
		{Target: total, Value: ast.NewConst(1)},
		{Target: count, Value: ast.NewConst(1)},
		{Target: total, Value: ast.NewConst(2)},
	}}

	assert.Equal(t, []Symbol{total, count}, b.Targets())
}
