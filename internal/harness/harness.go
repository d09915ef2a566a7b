package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/pipedev/pipedev/internal/decider"
	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/store"
	"github.com/pipedev/pipedev/internal/testutil"
)

// seedPassID is the pass the Scheduled lineages are recorded under.
const seedPassID = "harness-seed"

// Harness runs a scenario against one in-memory ledger.
type Harness struct {
	store    *store.Store
	files    *testutil.FileSet
	passGen  decider.PassIDGenerator
	logger   *slog.Logger
	scenario *Scenario
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory ledger and record the scheduled lineages
// 2. Decide over the records with a ledger snapshot
// 3. Evaluate assertions
// 4. Decide over the reversed records and compare reports
// 5. Record the decision, decide again and check nothing is rescheduled
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		files:    testutil.NewFileSet(scenario.ExistingFiles...),
		passGen:  testutil.NewFixedPassIDGenerator(scenario.PassID),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		scenario: scenario,
	}

	ctx := context.Background()

	if err := h.seedLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed ledger: %w", err)
	}

	d, err := h.newDecider(ctx)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	// Derivation failures are part of the decision and asserted on.
	result.Decision, _ = d.Decide(scenario.Records)
	result.Report, err = result.Decision.CanonicalReport()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	for _, err := range EvaluateAssertions(result.Decision, scenario.Assertions) {
		result.AddError(err.Error())
	}

	if err := h.checkOrderIndependence(d, result); err != nil {
		return nil, err
	}
	if err := h.checkRerun(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// seedLedger records the scenario's Scheduled lineages.
func (h *Harness) seedLedger(ctx context.Context) error {
	if len(h.scenario.Scheduled) == 0 {
		return nil
	}
	workflow := h.scenario.Config.Workflow
	seed := &ir.Decision{
		PassID:     seedPassID,
		Workflow:   workflow,
		Runs:       make([]ir.ValidatedRun, 0, len(h.scenario.Scheduled)),
		Rejections: []ir.RejectionRecord{},
	}
	for i, inputs := range h.scenario.Scheduled {
		seed.Runs = append(seed.Runs, ir.ValidatedRun{
			Name:        fmt.Sprintf("scheduled-%d", i),
			LineageHash: ir.MustLineageHash(workflow, inputs),
			InputSource: ir.InputSourceFile,
		})
	}
	_, err := h.store.RecordDecision(ctx, seed)
	return err
}

// newDecider builds a decider over the ledger as it stands now.
func (h *Harness) newDecider(ctx context.Context) (*decider.Decider, error) {
	hashes, err := h.store.Lineages(ctx, h.scenario.Config.Workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	d, err := decider.New(h.scenario.Config,
		decider.WithLedger(decider.NewSnapshot(hashes...)),
		decider.WithExists(h.files.Exists),
		decider.WithLogger(h.logger),
		decider.WithPassIDGenerator(h.passGen),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decider: %w", err)
	}
	return d, nil
}

// checkOrderIndependence decides over the reversed records and compares
// order-insensitive reports.
func (h *Harness) checkOrderIndependence(d *decider.Decider, result *Result) error {
	reversed := slices.Clone(h.scenario.Records)
	slices.Reverse(reversed)
	other, _ := d.Decide(reversed)

	want, err := result.Decision.OrderInsensitiveReport()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	got, err := other.OrderInsensitiveReport()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if !bytes.Equal(want, got) {
		result.AddError(fmt.Sprintf("decision depends on input order:\n  input:    %s\n  reversed: %s", want, got))
	}
	return nil
}

// checkRerun records the decision and decides again. None of the recorded
// runs may be scheduled a second time.
func (h *Harness) checkRerun(ctx context.Context, result *Result) error {
	if _, err := h.store.RecordDecision(ctx, result.Decision); err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	d, err := h.newDecider(ctx)
	if err != nil {
		return err
	}
	rerun, _ := d.Decide(h.scenario.Records)

	for _, run := range rerun.Runs {
		for _, prev := range result.Decision.Runs {
			if run.LineageHash == prev.LineageHash {
				result.AddError(fmt.Sprintf("run %q was scheduled again after being recorded", run.Name))
			}
		}
	}
	return nil
}
