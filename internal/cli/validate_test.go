package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decider.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate_Valid(t *testing.T) {
	path := writeConfig(t, `decider: {workflow: "bwa", group_by: "lane", files_per_group: 2}`)

	out, _, err := executeCommand(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "workflow bwa")
	assert.Contains(t, out, "group_by=lane group_mode=exact input_source=prefer_file")
	assert.Contains(t, out, "files_per_group=2")
}

func TestValidate_JSONShowsDefaults(t *testing.T) {
	path := writeConfig(t, `decider: workflow: "bwa"`)

	out, _, err := executeCommand(t, "validate", "--format", "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Valid  bool           `json:"valid"`
			Config map[string]any `json:"config"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "file", resp.Data.Config["group_by"])
	assert.Equal(t, "exact", resp.Data.Config["group_mode"])
	assert.Equal(t, "prefer_file", resp.Data.Config["input_source"])
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"schema violation", `decider: {workflow: "bwa", group_mode: "loose"}`},
		{"inverted window", `decider: {workflow: "bwa", after_date: "2024-06-01", before_date: "2024-01-01"}`},
		{"unknown field", `decider: {workflow: "bwa", threads: 4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "validate", writeConfig(t, tt.config))
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
		})
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `decider: {workflow: "bwa", launch_max: -1}`)

	out, _, err := executeCommand(t, "validate", "--format", "json", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
}

func TestValidate_NotFound(t *testing.T) {
	_, _, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
