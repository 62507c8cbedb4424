package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closedform/internal/logging"
	"closedform/internal/parser"
)

// goldenProgram is the nested for/if/max/inner-for/constant-assignment
// program that this repo's language-of-origin used as its own smoke test,
// translated into this grammar's brace-and-semicolon syntax rather than
// copied verbatim.
const goldenProgram = `
for x in range(a + 1, b + 1) {
    if c < x {
        r += 2;
    }
    if c < x {
        r2 += 2 + x;
        r += 3 * x + 7;
        if c < y {
            k = y * 7;
            r += max(k, x + 1);
            r += k;
            for z in range(q + 1, max(500, x + 1)) {
                r += 5;
            }
        }
    } else {
        r2 += x * 10;
    }
    r += x * 2;
}
`

func TestGoldenProgramResolvesAndEmitsBothSurfaces(t *testing.T) {
	block, diags := parser.ParseString("golden.cf", goldenProgram)
	require.Empty(t, diags)
	require.NotNil(t, block)

	result, err := Transform(block, Options{
		MergeSiblingIncrements:       true,
		EvaluateCommonSubexpressions: true,
	}, logging.Discard())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"r", "r2"}, sortedTargetNames(result.ZeroInit))

	python := DumpPython(result)
	assert.Contains(t, python, "r = 0")
	assert.Contains(t, python, "r2 = 0")
	assert.NotContains(t, python, "k = ", "the constant k must be fully substituted away, never emitted")

	cpp := DumpCPP(result, CasingSnake, "long long")
	assert.True(t, strings.HasPrefix(cpp, "long long r = 0;") || strings.Contains(cpp, "long long r = 0;"))
	assert.Contains(t, cpp, "long long r2 = 0;")

	// Every remaining increment guard and value is stated purely in terms
	// of the program's free symbols (a, b, c, q, y) and the index x — no
	// trace of the eliminated loop index z or the substituted constant k.
	for _, surface := range []string{python, cpp} {
		assert.NotContains(t, surface, " z ")
		assert.NotContains(t, surface, "k")
	}
}

func TestGoldenProgramWithoutOptionalPassesStillResolves(t *testing.T) {
	block, diags := parser.ParseString("golden.cf", goldenProgram)
	require.Empty(t, diags)

	result, err := Transform(block, Options{}, logging.Discard())
	require.NoError(t, err)
	assert.Empty(t, result.Helpers)
	assert.NotEmpty(t, result.Increments)
}

func TestSimpleGaussSumClosesToPolynomial(t *testing.T) {
	src := `
for i in range(0, n) {
    total += i;
}
`
	block, diags := parser.ParseString("gauss.cf", src)
	require.Empty(t, diags)

	result, err := Transform(block, Options{EvaluateCommonSubexpressions: true}, logging.Discard())
	require.NoError(t, err)
	require.Len(t, result.Increments, 1)

	python := DumpPython(result)
	assert.Contains(t, python, "total = 0")
	assert.NotContains(t, python, "for ", "the resolver must eliminate every loop before emission")
}

func TestDisjunctiveIfGuardsAreMutuallyExclusive(t *testing.T) {
	src := `
if a > 0 || b > 0 {
    r += 1;
}
`
	block, diags := parser.ParseString("disjunction.cf", src)
	require.Empty(t, diags)

	resolver := NewResolver(logging.Discard())
	resolved, err := resolver.Resolve(block)
	require.NoError(t, err)
	require.Len(t, resolved.Increments, 2, "one guarded increment per DNF disjunct")

	first := resolved.Increments[0].Guard.String()
	second := resolved.Increments[1].Guard.String()
	assert.Equal(t, "a > 0", first)
	assert.Contains(t, second, "b > 0")
	assert.Contains(t, second, "a <= 0",
		"the second disjunct must exclude the first or a>0 && b>0 would add 1 twice instead of once")
}

func TestDisjunctiveIfWithThreeDisjunctsChainsExclusions(t *testing.T) {
	src := `
if a > 0 || b > 0 || c > 0 {
    r += 1;
}
`
	block, diags := parser.ParseString("triple-disjunction.cf", src)
	require.Empty(t, diags)

	resolver := NewResolver(logging.Discard())
	resolved, err := resolver.Resolve(block)
	require.NoError(t, err)
	require.Len(t, resolved.Increments, 3)

	third := resolved.Increments[2].Guard.String()
	assert.Contains(t, third, "c > 0")
	assert.Contains(t, third, "a <= 0")
	assert.Contains(t, third, "b <= 0")
}

func TestIfGuardWithMaxOfLoopIndexIsCaseSplit(t *testing.T) {
	src := `
for i in range(0, n) {
    if c < max(i, 5) {
        r += 1;
    }
}
`
	block, diags := parser.ParseString("guard-maxmin.cf", src)
	require.Empty(t, diags)

	result, err := Transform(block, Options{}, logging.Discard())
	require.NoError(t, err, "a guard containing max/min of the loop index must be case-split, not rejected")
	require.NotEmpty(t, result.Increments)

	for _, inc := range result.Increments {
		assert.NotContains(t, inc.Guard.String(), "max(",
			"every surviving guard atom must be free of max/min after case-splitting")
	}
}
