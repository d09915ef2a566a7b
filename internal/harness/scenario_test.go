package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedev/pipedev/internal/grouping"
)

const minimalScenario = `
name: minimal
description: "one file, one run"
config:
  workflow: bwa
  group_by: donor
records:
  - path: /data/a.fastq.gz
    meta_type: chemical/seq-na-fastq-gzip
    status: completed
    header:
      Parent Sample SWID: ["77"]
assertions:
  - type: run_count
    count: 1
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "minimal", scenario.Name)
	assert.Equal(t, "bwa", scenario.Config.Workflow)
	assert.Equal(t, grouping.DimensionDonor, scenario.Config.GroupBy)
	require.Len(t, scenario.Records, 1)
	assert.Equal(t, "/data/a.fastq.gz", scenario.Records[0].Path)
	assert.Equal(t, []string{"77"}, scenario.Records[0].Header["Parent Sample SWID"])
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertRunCount, scenario.Assertions[0].Type)
	assert.Equal(t, 1, scenario.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    minimalScenario + "assertion: []\n",
			wantErr: "field assertion not found",
		},
		{
			name: "missing name",
			yaml: `
description: d
config: {workflow: bwa}
assertions: [{type: run_count}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing workflow",
			yaml: `
name: n
description: d
config: {group_by: donor}
assertions: [{type: run_count}]
`,
			wantErr: "config.workflow is required",
		},
		{
			name: "no assertions",
			yaml: `
name: n
description: d
config: {workflow: bwa}
`,
			wantErr: "assertions list is required",
		},
		{
			name: "record without path",
			yaml: `
name: n
description: d
config: {workflow: bwa}
records: [{status: completed}]
assertions: [{type: run_count}]
`,
			wantErr: "records[0]: path is required",
		},
		{
			name: "empty scheduled set",
			yaml: `
name: n
description: d
config: {workflow: bwa}
scheduled: [[]]
assertions: [{type: run_count}]
`,
			wantErr: "scheduled[0]",
		},
		{
			name: "unknown assertion type",
			yaml: `
name: n
description: d
config: {workflow: bwa}
assertions: [{type: trace_contains}]
`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name: "run without name",
			yaml: `
name: n
description: d
config: {workflow: bwa}
assertions: [{type: run}]
`,
			wantErr: "name is required for run",
		},
		{
			name: "rejected without reason",
			yaml: `
name: n
description: d
config: {workflow: bwa}
assertions: [{type: rejected, path: /a}]
`,
			wantErr: "reason is required for rejected",
		},
		{
			name: "warning without contains",
			yaml: `
name: n
description: d
config: {workflow: bwa}
assertions: [{type: warning, name: r}]
`,
			wantErr: "name and contains are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
