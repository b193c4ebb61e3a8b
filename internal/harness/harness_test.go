package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeedScenarios drives the real reconciliation pipeline through
// every seed scenario named in the specification's testable
// properties section (head slice, tail slice, non-overlap, and the
// three full-state cases) and checks the resulting change set against
// each scenario's expect clause.
func TestSeedScenarios(t *testing.T) {
	scenarios := []string{
		"delta_head_slice",
		"delta_tail_slice",
		"delta_non_overlap",
		"full_state_unchanged",
		"full_state_value_change",
		"full_state_tombstone",
	}

	for _, name := range scenarios {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("testdata", "scenarios", name+".yaml")
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "diffs: %v", result.Diffs)
		})
	}
}

// TestRunDeltaEmptyUpdatesYieldsEmptyOutputs exercises the round-trip
// property that delta mode with no updates touches nothing.
func TestRunDeltaEmptyUpdatesYieldsEmptyOutputs(t *testing.T) {
	scenario := &Scenario{
		Name:       "delta_empty_updates",
		Mode:       "delta",
		SystemTime: "2024-03-01T12:00:00Z",
		Schema: SchemaSpec{
			IDColumns:    []string{"id"},
			ValueColumns: []string{"val"},
			ValueTypes:   []string{"string"},
		},
		Current: []RowSpec{
			{Identity: map[string]any{"id": "1"}, Values: map[string]any{"val": "A"}, EffectiveFrom: "2024-01-01"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "diffs: %v", result.Diffs)
}

// TestRunReportsMismatch checks that a wrong expectation surfaces as a
// diff rather than a silent pass.
func TestRunReportsMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:       "wrong_expectation",
		Mode:       "delta",
		SystemTime: "2024-03-01T12:00:00Z",
		Schema: SchemaSpec{
			IDColumns:    []string{"id"},
			ValueColumns: []string{"val"},
			ValueTypes:   []string{"string"},
		},
		Current: []RowSpec{
			{Identity: map[string]any{"id": "1"}, Values: map[string]any{"val": "A"}, EffectiveFrom: "2024-01-01"},
		},
		Updates: []RowSpec{
			{Identity: map[string]any{"id": "1"}, Values: map[string]any{"val": "B"}, EffectiveFrom: "2024-01-01", EffectiveTo: "2024-02-01"},
		},
		Expect: ExpectSpec{
			ToExpire: nil,
			ToInsert: nil,
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.NotEmpty(t, result.Diffs)
}
