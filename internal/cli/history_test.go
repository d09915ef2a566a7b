package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_MissingDatabaseFlag(t *testing.T) {
	_, _, err := executeCommand(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestHistory_NonExistentDatabase(t *testing.T) {
	_, _, err := executeCommand(t, "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_AfterDecide(t *testing.T) {
	dir := t.TempDir()
	input := writeRecords(t, dir, mateRecords())
	db := filepath.Join(dir, "ledger.db")

	_, _, err := executeCommand(t, decideArgs("--db", db, input)...)
	require.NoError(t, err)

	out, _, err := executeCommand(t, "history", "--db", db, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "1 pass(es), 1 run(s)")
	assert.Contains(t, out, runName)
	assert.Contains(t, out, "/data/ABCD_0001_R2_001.fastq.gz")

	out, _, err = executeCommand(t, "history", "--db", db, "--workflow", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestHistory_JSON(t *testing.T) {
	dir := t.TempDir()
	input := writeRecords(t, dir, mateRecords())
	db := filepath.Join(dir, "ledger.db")

	_, _, err := executeCommand(t, decideArgs("--db", db, input)...)
	require.NoError(t, err)

	out, _, err := executeCommand(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	require.Len(t, resp.Data.Passes, 1)
	assert.Equal(t, "bwa", resp.Data.Runs[0].Workflow)
	assert.Equal(t, resp.Data.Passes[0].ID, resp.Data.Runs[0].PassID)
	assert.Equal(t, 1, resp.Data.Passes[0].Runs)
}
