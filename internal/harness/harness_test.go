package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedev/pipedev/internal/ir"
)

func TestRun_MinimalScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Decision.Runs, 1)
	assert.Equal(t, "77", result.Decision.Runs[0].GroupKey)
	assert.Equal(t, "test-pass-default", result.Decision.PassID)
	assert.NotEmpty(t, result.Report)
}

func TestRun_FailedAssertionsAreCollected(t *testing.T) {
	scenario, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	scenario.Assertions = []Assertion{
		{Type: AssertRunCount, Count: 2},
		{Type: AssertRun, Name: "nope"},
		{Type: AssertRejected, Reason: string(ir.ReasonMetaType)},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Expected: 2 run(s)")
	assert.Contains(t, result.Errors[1], `run "nope"`)
	assert.Contains(t, result.Errors[2], "reason META_TYPE")
}

func TestRun_ScheduledLineagesAreSkipped(t *testing.T) {
	scenario, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	scenario.Scheduled = [][]string{{"/data/a.fastq.gz"}}
	scenario.Assertions = []Assertion{
		{Type: AssertRunCount, Count: 0},
		{Type: AssertRejected, Reason: string(ir.ReasonAlreadyScheduled), Group: "77"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors:\n%s", strings.Join(result.Errors, "\n"))
		})
	}
}
