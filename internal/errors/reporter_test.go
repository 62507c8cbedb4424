package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"closedform/internal/ast"
)

func TestErrorReporterFormatsCaretAndSuggestion(t *testing.T) {
	source := "total = total + x\nfor i in range(0, n):\n    total += max(i, c)\n"

	reporter := NewErrorReporter("loop.cf", source)

	err := NewCompilerError(ErrorUndefinedSymbol, "symbol x is read before any statement assigns it a role", ast.Position{Line: 1, Column: 17}).
		WithLength(1).
		WithSuggestion("assign x a role before reading it").
		Build()

	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedSymbol+"]")
	assert.Contains(t, formatted, "symbol x is read before any statement assigns it a role")
	assert.Contains(t, formatted, "loop.cf:1:17")
	assert.Contains(t, formatted, "assign x a role before reading it")
}

func TestCompilerErrorBuilderAccumulatesNotesAndHelp(t *testing.T) {
	err := NewCompilerWarning(ErrorUnsummableExpression, "expression has degree 3 in the loop index", ast.Position{Line: 4, Column: 9}).
		WithNote("closed forms only cover degree <= 2").
		WithHelp("split the loop or precompute the cubic term separately").
		Build()

	assert.Equal(t, Warning, err.Level)
	assert.Equal(t, []string{"closed forms only cover degree <= 2"}, err.Notes)
	assert.Equal(t, "split the loop or precompute the cubic term separately", err.HelpText)
}
