package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Workflow string // optional - one workflow only
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Passes []store.PassEntry `json:"passes"`
	Runs   []store.RunEntry  `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the runs recorded in the ledger",
		Long: `List the passes and scheduled runs recorded in the SQLite ledger,
oldest first.

Examples:
  decider history --db ledger.db
  decider history --db ledger.db --workflow BamQC --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Workflow, "workflow", "", "list one workflow only")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.OpenReadOnly(opts.Database)
	if errors.Is(err, os.ErrNotExist) {
		return reportError(formatter, ExitCommandError, ErrCodeLedger, "ledger not found", err)
	}
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to open ledger", err)
	}
	defer st.Close()

	passes, err := st.Passes(ctx)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to read passes", err)
	}
	runs, err := st.Runs(ctx, opts.Workflow)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeLedger, "failed to read runs", err)
	}

	if opts.Workflow != "" {
		filtered := passes[:0]
		for _, p := range passes {
			if p.Workflow == opts.Workflow {
				filtered = append(filtered, p)
			}
		}
		passes = filtered
	}

	if opts.Format == "json" {
		return formatter.Success(HistoryResult{Passes: passes, Runs: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded in ledger.")
		return nil
	}

	fmt.Fprintf(w, "History: %d pass(es), %d run(s)\n", len(passes), len(runs))
	fmt.Fprintln(w)
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %-12s %-32s %.16s  %s\n", r.Seq, r.Workflow, r.Name, r.LineageHash, r.PassID)
		if opts.Verbose {
			for _, f := range r.Files {
				fmt.Fprintf(w, "      %s\n", f)
			}
		}
	}
	return nil
}
