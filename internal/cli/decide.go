package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/decider"
	"github.com/pipedev/pipedev/internal/ir"
	"github.com/pipedev/pipedev/internal/params"
	"github.com/pipedev/pipedev/internal/provenance"
	"github.com/pipedev/pipedev/internal/store"
)

// DecideOptions holds flags for the decide command.
type DecideOptions struct {
	*RootOptions
	DeciderFlags

	Database string
	DryRun   bool
	INIDir   string
	Report   string
}

// DecideResult is the JSON payload of the decide command.
type DecideResult struct {
	Workflow   string          `json:"workflow"`
	Runs       int             `json:"runs"`
	Rejections int             `json:"rejections"`
	Failures   int             `json:"failures"`
	Recorded   int             `json:"recorded"`
	DryRun     bool            `json:"dry_run"`
	INIFiles   []string        `json:"ini_files,omitempty"`
	Report     json.RawMessage `json:"report"`
}

// NewDecideCommand creates the decide command.
func NewDecideCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecideOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decide <provenance-file>...",
		Short: "Run one decision pass over provenance records",
		Long: `Run one decision pass over provenance records.

Records are read from YAML record files or tab-separated file provenance
reports (optionally gzip-compressed). The pass groups them into candidate
runs, rejects what cannot be launched and derives parameters for the rest.

With --db, lineages already in the ledger are rejected as ALREADY_SCHEDULED
and the new runs are recorded afterwards, unless --dry-run is given.

Exit codes:
  0 - Pass completed
  1 - One or more runs failed parameter derivation
  2 - Command error (bad config, unreadable input, ledger error)

Examples:
  decider decide --config decider.cue provenance.tsv.gz
  decider decide --workflow BamQC --group-by lane --files-per-group 2 --db ledger.db records.yaml
  decider decide -c decider.cue --ini-dir ./ini --dry-run --format json report.tsv`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(opts, args, cmd)
		},
	}

	opts.DeciderFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "do not record runs in the ledger")
	cmd.Flags().StringVar(&opts.INIDir, "ini-dir", "", "write one <run-name>.ini per validated run")
	cmd.Flags().StringVar(&opts.Report, "report", "", "write the canonical decision report to this file")

	return cmd
}

func runDecide(opts *DecideOptions, paths []string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Loaded %d record(s) from %d file(s)", len(records), len(paths))

	var st *store.Store
	ledger := decider.Snapshot{}
	if opts.Database != "" {
		st, ledger, err = openLedger(ctx, opts.Database, cfg.Workflow, opts.DryRun)
		switch {
		case opts.DryRun && errors.Is(err, os.ErrNotExist):
			// A dry run against a ledger that does not exist yet sees nothing scheduled.
			ledger = decider.Snapshot{}
			formatter.VerboseLog("Ledger %s does not exist yet", opts.Database)
		case err != nil:
			return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to open ledger", err)
		default:
			defer func() {
				if closeErr := st.Close(); closeErr != nil {
					slog.Error("error closing ledger", "error", closeErr)
				}
			}()
			formatter.VerboseLog("Ledger %s holds %d lineage(s) for %q", opts.Database, len(ledger), cfg.Workflow)
		}
	}

	d, err := decider.New(cfg, decider.WithLedger(ledger), decider.WithExists(fileExists))
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeConfig, "invalid decider configuration", err)
	}

	decision, decideErr := d.Decide(records)

	report, err := decision.CanonicalReport()
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeGeneric, "failed to render report", err)
	}
	if opts.Report != "" {
		if err := os.WriteFile(opts.Report, append(report, '\n'), 0o644); err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, "failed to write report", err)
		}
	}

	result := DecideResult{
		Workflow: decision.Workflow,
		DryRun:   opts.DryRun,
		Report:   report,
	}
	result.Runs, result.Rejections, result.Failures = decision.Counts()

	if opts.INIDir != "" {
		result.INIFiles, err = writeINIFiles(opts.INIDir, decision.Runs)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, "failed to write INI files", err)
		}
	}

	if st != nil && !opts.DryRun {
		result.Recorded, err = st.RecordDecision(ctx, decision)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to record decision", err)
		}
		slog.Info("decision recorded", "pass", decision.PassID, "recorded", result.Recorded)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result, PassID: decision.PassID}
		if decideErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeDerivation, Message: decideErr.Error()}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		outputDecisionText(cmd.OutOrStdout(), decision, result, opts.Database, opts.Verbose)
	}

	if decideErr != nil {
		return WrapExitError(ExitFailure, "parameter derivation failed", decideErr)
	}
	return nil
}

// openLedger opens the ledger and snapshots the lineages recorded for
// workflow. A read-only open never creates the ledger.
func openLedger(ctx context.Context, path, workflow string, readOnly bool) (*store.Store, decider.Snapshot, error) {
	open := store.Open
	if readOnly {
		open = store.OpenReadOnly
	}
	st, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	hashes, err := st.Lineages(ctx, workflow)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, decider.NewSnapshot(hashes...), nil
}

// writeINIFiles writes one INI file per run, named after the run. Runs that
// share a name get the lineage hash prefix appended.
func writeINIFiles(dir string, runs []ir.ValidatedRun) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(runs))
	used := make(map[string]bool, len(runs))
	for _, run := range runs {
		name := run.Name
		if name == "" || used[name] {
			name = fmt.Sprintf("%s_%.12s", run.Name, run.LineageHash)
		}
		used[name] = true

		path := filepath.Join(dir, name+".ini")
		if err := writeINI(path, run.Parameters); err != nil {
			return written, fmt.Errorf("run %q: %w", run.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeINI(path string, parameters map[string]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return params.RenderINI(f, parameters)
}

func outputDecisionText(w io.Writer, d *ir.Decision, result DecideResult, db string, verbose bool) {
	fmt.Fprintf(w, "Pass %s: workflow %s\n", d.PassID, d.Workflow)
	fmt.Fprintf(w, "  %d run(s), %d rejection(s), %d failure(s)\n", result.Runs, result.Rejections, result.Failures)
	fmt.Fprintln(w)

	for _, run := range d.Runs {
		fmt.Fprintf(w, "✓ %s [%s] (%d file(s))\n", run.Name, run.GroupKey, len(run.Files))
		if verbose {
			for _, p := range run.Paths() {
				fmt.Fprintf(w, "    %s\n", p)
			}
		}
		for _, warning := range run.Warnings {
			fmt.Fprintf(w, "  Warning: %s\n", warning)
		}
	}
	for _, f := range d.Failures {
		fmt.Fprintf(w, "✗ %s [%s]: %s\n", f.Name, f.GroupKey, f.Message)
	}
	if verbose {
		for _, rj := range d.Rejections {
			fmt.Fprintf(w, "- %s %s %v\n", rj.Scope, rj.Reason, rj.Paths)
		}
	}
	for _, path := range result.INIFiles {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}

	switch {
	case db == "":
	case result.DryRun:
		fmt.Fprintf(w, "Dry run: ledger %s not updated\n", db)
	default:
		fmt.Fprintf(w, "Recorded %d new lineage(s) in %s\n", result.Recorded, db)
	}
}

// reportError prints the error in the configured format and returns the
// matching ExitError.
func reportError(f *OutputFormatter, exitCode int, code, message string, err error) error {
	details := any(nil)
	var cfgErr *decider.ConfigError
	if errors.As(err, &cfgErr) {
		details = map[string]string{"field": cfgErr.Field, "value": cfgErr.Value}
	}
	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	}
	return WrapExitError(exitCode, message, err)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
