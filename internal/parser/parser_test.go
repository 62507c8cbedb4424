package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/ast"
)

func TestParseStringLowersAndSubstitutesConstant(t *testing.T) {
	src := `
k = 7;
for i in range(0, n) {
    total += i * k;
}
`
	block, diags := ParseString("prog.cf", src)
	require.Empty(t, diags)
	require.Len(t, block, 1)

	forStmt, ok := block[0].(*ast.For)
	require.True(t, ok)
	require.Len(t, forStmt.Body, 1)

	inc, ok := forStmt.Body[0].(*ast.Increment)
	require.True(t, ok)
	assert.True(t, inc.Accumulate)
	assert.Equal(t, "(i * 7)", inc.Value.String())
}

func TestParseStringReportsSyntaxError(t *testing.T) {
	_, diags := ParseString("bad.cf", `total = ;`)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0100", diags[0].Code)
}

func TestParseStringReportsRoleConflict(t *testing.T) {
	src := `
for i in range(0, 10) {
    i += 1;
}
`
	_, diags := ParseString("conflict.cf", src)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == "E0002" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseStringDesugarsIfElse(t *testing.T) {
	src := `
if x > 0 {
    total += 1;
} else {
    total += 2;
}
`
	block, diags := ParseString("ifelse.cf", src)
	require.Empty(t, diags)
	require.Len(t, block, 2)

	first, ok := block[0].(*ast.If)
	require.True(t, ok)
	assert.Equal(t, "x > 0", first.Cond.String())

	second, ok := block[1].(*ast.If)
	require.True(t, ok)
	// Not() of a strict ordering atom negates directly into its flipped
	// Inequality rather than wrapping in a BNot.
	assert.Equal(t, "x <= 0", second.Cond.String())
}

func TestParseStringHandlesNotEqual(t *testing.T) {
	src := `
if x != 0 {
    total += 1;
}
`
	block, diags := ParseString("neq.cf", src)
	require.Empty(t, diags)
	require.Len(t, block, 1)

	ifStmt := block[0].(*ast.If)
	assert.Equal(t, "!(x == 0)", ifStmt.Cond.String())
}
