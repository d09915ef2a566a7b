package store

import (
	"path/filepath"
	"testing"

	"github.com/pipedev/pipedev/internal/ir"
)

// createTestStore creates a fresh ledger in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a validated run over the given files.
func createTestRun(workflow, name string, paths ...string) ir.ValidatedRun {
	files := make([]ir.FileRecord, len(paths))
	for i, p := range paths {
		files[i] = ir.FileRecord{Path: p, Status: ir.StatusCompleted}
	}
	return ir.ValidatedRun{
		Name:            name,
		GroupKey:        name,
		Files:           files,
		Parameters:      map[string]string{"output_prefix": "./"},
		InputAccessions: []string{},
		InputSource:     ir.InputSourceFile,
		LineageHash:     ir.MustLineageHash(workflow, paths),
	}
}

// createTestDecision creates a decision with the given pass id and runs.
func createTestDecision(passID, workflow string, runs ...ir.ValidatedRun) *ir.Decision {
	if runs == nil {
		runs = []ir.ValidatedRun{}
	}
	return &ir.Decision{
		PassID:     passID,
		Workflow:   workflow,
		Runs:       runs,
		Rejections: []ir.RejectionRecord{},
	}
}
