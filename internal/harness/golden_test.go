package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalTrace_OmitsEmptyFields(t *testing.T) {
	result := NewResult()
	result.AddTrace(TraceEvent{Step: 0, Op: OpCanonicalToVendor, Input: "+x$!(+y)", Outcome: OutcomeNoMapping})

	data, err := MarshalTrace("omit", result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"output"`)
	assert.NotContains(t, string(data), `"error"`)
	assert.Contains(t, string(data), `"outcome": "no_mapping"`)
}
