package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/ast"
)

func TestSubstituteConstantsInlinesAndDropsAssignment(t *testing.T) {
	// k = 7; for i in [0, n): total += i * k
	block := ast.StatementBlock{
		&ast.Increment{Target: sym("k"), Value: ast.NewConst(7)},
		&ast.For{
			Index: sym("i"),
			Start: ast.NewConst(0),
			Count: ast.NewSym(sym("n")),
			Body: ast.StatementBlock{
				&ast.Increment{
					Target:     sym("total"),
					Value:      ast.Mul(ast.NewSym(sym("i")), ast.NewSym(sym("k"))),
					Accumulate: true,
				},
			},
		},
	}

	out, diags := SubstituteConstants(block)
	require.Empty(t, diags)
	require.Len(t, out, 1)

	forStmt, ok := out[0].(*ast.For)
	require.True(t, ok)
	require.Len(t, forStmt.Body, 1)

	inc, ok := forStmt.Body[0].(*ast.Increment)
	require.True(t, ok)
	assert.Equal(t, "(i * 7)", inc.Value.String())
}

func TestSubstituteConstantsSubstitutesIntoGuardsAndBounds(t *testing.T) {
	// limit = 10; for i in [0, limit): if i < limit: total += i
	block := ast.StatementBlock{
		&ast.Increment{Target: sym("limit"), Value: ast.NewConst(10)},
		&ast.For{
			Index: sym("i"),
			Start: ast.NewConst(0),
			Count: ast.NewSym(sym("limit")),
			Body: ast.StatementBlock{
				&ast.If{
					Cond: ast.BoolFromInequality(ast.NewInequality(ast.OpLT, ast.NewSym(sym("i")), ast.NewSym(sym("limit")))),
					Body: ast.StatementBlock{
						&ast.Increment{Target: sym("total"), Value: ast.NewSym(sym("i")), Accumulate: true},
					},
				},
			},
		},
	}

	out, diags := SubstituteConstants(block)
	require.Empty(t, diags)
	require.Len(t, out, 1)

	forStmt := out[0].(*ast.For)
	assert.Equal(t, "10", forStmt.Count.String())

	ifStmt := forStmt.Body[0].(*ast.If)
	assert.Equal(t, "i < 10", ifStmt.Cond.String())
}

func TestSubstituteConstantsFlagsReassignment(t *testing.T) {
	block := ast.StatementBlock{
		&ast.Increment{Target: sym("k"), Value: ast.NewConst(1)},
		&ast.Increment{Target: sym("k"), Value: ast.NewConst(2)},
	}

	out, diags := SubstituteConstants(block)
	assert.Empty(t, out)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0006", diags[0].Code)
}

func TestSubstituteConstantsDropsAllAssignmentsWhenNoAccumulator(t *testing.T) {
	block := ast.StatementBlock{
		&ast.Increment{Target: sym("k"), Value: ast.NewConst(5)},
	}

	out, diags := SubstituteConstants(block)
	assert.Empty(t, diags)
	assert.Empty(t, out)
}
