package store

import (
	"context"
	"testing"

	"github.com/pipedev/pipedev/internal/ir"
)

func TestLineages_Empty(t *testing.T) {
	s := createTestStore(t)

	hashes, err := s.Lineages(context.Background(), "wf")
	if err != nil {
		t.Fatalf("Lineages() failed: %v", err)
	}
	if hashes == nil {
		t.Error("Lineages() returned nil, want empty slice")
	}
	if len(hashes) != 0 {
		t.Errorf("len(hashes) = %d, want 0", len(hashes))
	}
}

func TestLineages_PerWorkflowInRecordOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestRun("wf", "Z", "/z.fastq.gz")
	second := createTestRun("wf", "A", "/a.fastq.gz")
	other := createTestRun("other", "A", "/a.fastq.gz")

	if _, err := s.RecordDecision(ctx, createTestDecision("pass-1", "wf", first, second)); err != nil {
		t.Fatalf("RecordDecision() failed: %v", err)
	}
	if _, err := s.RecordDecision(ctx, createTestDecision("pass-2", "other", other)); err != nil {
		t.Fatalf("RecordDecision() failed: %v", err)
	}

	hashes, err := s.Lineages(ctx, "wf")
	if err != nil {
		t.Fatalf("Lineages() failed: %v", err)
	}
	want := []string{first.LineageHash, second.LineageHash}
	if len(hashes) != len(want) {
		t.Fatalf("len(hashes) = %d, want %d", len(hashes), len(want))
	}
	for i := range want {
		if hashes[i] != want[i] {
			t.Errorf("hashes[%d] = %q, want %q", i, hashes[i], want[i])
		}
	}
}

func TestRuns_RoundTripsColumns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("wf", "ABCD_0001_Ly", "/a_R1.fastq.gz", "/a_R2.fastq.gz")
	run.InputAccessions = []string{"12", "34"}
	run.InputSource = ir.InputSourceParent
	run.Parameters = map[string]string{"output_dir": "seqware-results", "output_prefix": "./"}

	if _, err := s.RecordDecision(ctx, createTestDecision("pass-1", "wf", run)); err != nil {
		t.Fatalf("RecordDecision() failed: %v", err)
	}

	runs, err := s.Runs(ctx, "wf")
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.Seq != 1 || got.Name != "ABCD_0001_Ly" || got.PassID != "pass-1" {
		t.Errorf("unexpected run row: %+v", got)
	}
	if got.InputSource != ir.InputSourceParent {
		t.Errorf("InputSource = %q, want parent", got.InputSource)
	}
	if len(got.Files) != 2 || got.Files[0] != "/a_R1.fastq.gz" || got.Files[1] != "/a_R2.fastq.gz" {
		t.Errorf("Files = %v", got.Files)
	}
	if len(got.InputAccessions) != 2 || got.InputAccessions[0] != "12" {
		t.Errorf("InputAccessions = %v", got.InputAccessions)
	}
	if got.Parameters["output_dir"] != "seqware-results" {
		t.Errorf("Parameters = %v", got.Parameters)
	}
}

func TestRuns_AllWorkflows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.RecordDecision(ctx, createTestDecision("pass-1", "wf", createTestRun("wf", "A", "/a"))); err != nil {
		t.Fatalf("RecordDecision() failed: %v", err)
	}
	if _, err := s.RecordDecision(ctx, createTestDecision("pass-2", "other", createTestRun("other", "B", "/b"))); err != nil {
		t.Fatalf("RecordDecision() failed: %v", err)
	}

	runs, err := s.Runs(ctx, "")
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Workflow != "wf" || runs[1].Workflow != "other" {
		t.Errorf("runs out of seq order: %s, %s", runs[0].Workflow, runs[1].Workflow)
	}
}

func TestPasses_Empty(t *testing.T) {
	s := createTestStore(t)

	passes, err := s.Passes(context.Background())
	if err != nil {
		t.Fatalf("Passes() failed: %v", err)
	}
	if passes == nil || len(passes) != 0 {
		t.Errorf("Passes() = %v, want empty slice", passes)
	}
}
