package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"closedform/grammar"
)

func TestParseIncrementAndFor(t *testing.T) {
	src := `total = 0;
for i in range(0, n) {
    total += max(i, c);
}
`
	program, err := grammar.Parse("loop.cf", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	assert.Len(t, program.Statements, 2)

	assign := program.Statements[0].Increment
	assert.NotNil(t, assign)
	assert.Equal(t, "total", assign.Target)
	assert.Equal(t, "=", assign.Operator)

	forStmt := program.Statements[1].For
	assert.NotNil(t, forStmt)
	assert.Equal(t, "i", forStmt.Index)
	assert.Len(t, forStmt.Body, 1)

	body := forStmt.Body[0].Increment
	assert.NotNil(t, body)
	assert.Equal(t, "total", body.Target)
	assert.Equal(t, "+=", body.Operator)
	assert.NotNil(t, body.Value.Left.Left.Call)
	assert.Equal(t, "max", body.Value.Left.Left.Call.Kind)
}

func TestParseIfElse(t *testing.T) {
	src := `if x > 0 && y <= 10 {
    acc = acc + x;
} else {
    acc = acc - 1;
}
`
	program, err := grammar.Parse("loop.cf", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	assert.Len(t, program.Statements, 1)
	ifStmt := program.Statements[0].If
	assert.NotNil(t, ifStmt)
	assert.Len(t, ifStmt.Body, 1)
	assert.Len(t, ifStmt.Else, 1)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := grammar.Parse("loop.cf", `total = ;`)
	assert.Error(t, err)
}
