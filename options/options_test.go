package options

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrips(t *testing.T) {
	o := Options{
		MergeSiblingIncrementStatements: true,
		EvaluateCommonSubexpressions:    true,
		Verbose:                         true,
	}

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, Save(path, o))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, o, loaded)
}

func TestToIRProjectsOnlyIRFields(t *testing.T) {
	o := Options{
		MergeSiblingIncrementStatements: true,
		ConjoinSiblingIfStatements:      true,
		EvaluateCommonSubexpressions:    true,
		SimplifyIncrements:              true,
		SimplifyConditions:              true,
		SimplifyDNF:                     true,
		Verbose:                         true,
	}

	ir := o.ToIR()
	assert.True(t, ir.MergeSiblingIncrements)
	assert.True(t, ir.ConjoinSiblingIfs)
	assert.True(t, ir.EvaluateCommonSubexpressions)
	assert.True(t, ir.SimplifyIncrements)
}
