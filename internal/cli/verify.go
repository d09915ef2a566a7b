package cli

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/decider"
	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/provenance"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	DeciderFlags

	Database string
}

// VerifyOrder is the outcome of one pass over one ordering of the input.
type VerifyOrder struct {
	Order        string `json:"order"`
	ReportDigest string `json:"report_digest"`
	Matches      bool   `json:"matches"`
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	Records       int           `json:"records"`
	Orders        []VerifyOrder `json:"orders"`
	Deterministic bool          `json:"deterministic"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <provenance-file>...",
		Short: "Verify a decision pass does not depend on input order",
		Long: `Run the decision pass over the input as given, reversed and sorted by
path, and compare the canonical decision reports.

The ledger, when given with --db, is only read. Nothing is recorded.

Exit codes:
  0 - All orderings produce the same report
  1 - Reports differ (non-deterministic pass)
  2 - Command error (bad config, unreadable input, ledger error)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args, cmd)
		},
	}

	opts.DeciderFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (read only)")

	return cmd
}

func runVerify(opts *VerifyOptions, paths []string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.DeciderFlags.resolve(cmd)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	records, err := provenance.LoadAll(ctx, paths)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeInput, "failed to load provenance records", err)
	}

	ledger := decider.Snapshot{}
	if opts.Database != "" {
		st, snapshot, err := openLedger(ctx, opts.Database, cfg.Workflow, true)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to open ledger", err)
		}
		st.Close()
		ledger = snapshot
	}

	d, err := decider.New(cfg, decider.WithLedger(ledger), decider.WithExists(fileExists))
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeConfig, "invalid decider configuration", err)
	}

	result, err := verifyOrders(d, records)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeGeneric, "failed to render report", err)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Deterministic {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeDeterminism, Message: "determinism verification failed"}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		outputVerifyText(cmd, result)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// verifyOrders decides over several orderings of records and compares
// their order-insensitive reports against the first.
func verifyOrders(d *decider.Decider, records []ir.FileRecord) (VerifyResult, error) {
	reversed := slices.Clone(records)
	slices.Reverse(reversed)
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b ir.FileRecord) int {
		return ir.CompareUTF16(a.Path, b.Path)
	})

	orders := []struct {
		name    string
		records []ir.FileRecord
	}{
		{"input", records},
		{"reversed", reversed},
		{"sorted", sorted},
	}

	result := VerifyResult{Records: len(records), Deterministic: true}
	var baseline []byte
	for i, o := range orders {
		// Derivation failures show up in the report and are compared too.
		decision, _ := d.Decide(o.records)
		report, err := decision.OrderInsensitiveReport()
		if err != nil {
			return result, fmt.Errorf("%s order: %w", o.name, err)
		}
		if i == 0 {
			baseline = report
		}
		matches := bytes.Equal(report, baseline)
		if !matches {
			result.Deterministic = false
		}
		result.Orders = append(result.Orders, VerifyOrder{
			Order:        o.name,
			ReportDigest: ir.ReportDigest(report),
			Matches:      matches,
		})
	}
	return result, nil
}

func outputVerifyText(cmd *cobra.Command, result VerifyResult) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Verify Summary: %d record(s), %d ordering(s)\n", result.Records, len(result.Orders))
	fmt.Fprintln(w)

	for _, o := range result.Orders {
		status := "✓"
		if !o.Matches {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %-8s %.16s\n", status, o.Order, o.ReportDigest)
	}
	fmt.Fprintln(w)

	if result.Deterministic {
		fmt.Fprintln(w, "✓ Decision verified deterministic")
		return
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
}
