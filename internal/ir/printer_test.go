package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"closedform/internal/ast"
)

func sampleCSEBlock() *CSEBlock {
	total := ast.NewSymbol("total")
	n := ast.NewSymbol("n")
	return &CSEBlock{
		ZeroInit: []Symbol{total},
		Increments: []ResolvedIncrement{
			{
				Target: total,
				Value:  ast.NewSym(n),
				Guard:  Guard{Atoms: []ast.Atom{ast.NewInequality(ast.OpGT, ast.NewSym(n), ast.NewConst(0))}},
			},
		},
	}
}

func TestDumpPythonRendersZeroInitAndGuardedIncrement(t *testing.T) {
	out := DumpPython(sampleCSEBlock())
	assert.Contains(t, out, "total = 0")
	assert.Contains(t, out, "if n > 0:")
	assert.Contains(t, out, "total += n")
}

func TestDumpCPPRendersDeclarationAndBraceGuard(t *testing.T) {
	out := DumpCPP(sampleCSEBlock(), CasingAsWritten, "long long")
	assert.Contains(t, out, "long long total = 0;")
	assert.Contains(t, out, "if (n > 0) {")
	assert.Contains(t, out, "total += n;")
	assert.Contains(t, out, "}")
}

func TestDumpCPPAppliesSnakeCasing(t *testing.T) {
	loopTotal := ast.NewSymbol("loopTotal")
	b := &CSEBlock{
		ZeroInit: []Symbol{loopTotal},
		Increments: []ResolvedIncrement{
			{Target: loopTotal, Value: ast.NewConst(1), Guard: TrueGuard()},
		},
	}

	out := DumpCPP(b, CasingSnake, "int")
	assert.Contains(t, out, "int loop_total = 0;")
	assert.Contains(t, out, "loop_total += 1;")
}

func TestGroupByGuardMergesAdjacentEqualGuards(t *testing.T) {
	total := ast.NewSymbol("total")
	other := ast.NewSymbol("other")
	guard := Guard{Atoms: []ast.Atom{ast.NewInequality(ast.OpLT, ast.NewSym(total), ast.NewConst(5))}}

	incs := []ResolvedIncrement{
		{Target: total, Value: ast.NewConst(1), Guard: guard},
		{Target: other, Value: ast.NewConst(2), Guard: guard},
		{Target: total, Value: ast.NewConst(3), Guard: TrueGuard()},
	}

	groups := groupByGuard(incs)
	assert.Len(t, groups, 2)
	assert.Len(t, groups[0].increments, 2)
	assert.Len(t, groups[1].increments, 1)
}
