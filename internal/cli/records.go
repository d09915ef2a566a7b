package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/provenance"
)

// RecordsOptions holds flags for the records command.
type RecordsOptions struct {
	*RootOptions
	Output string
}

// NewRecordsCommand creates the records command.
func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "records <provenance-file>...",
		Short: "Convert provenance input to a YAML record file",
		Long: `Load provenance records the way decide does and write them as one YAML
record file. Useful for trimming a large file provenance report down to a
reviewable fixture.

Examples:
  decider records provenance.tsv.gz > records.yaml
  decider records -o records.yaml a.tsv b.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write YAML to this file instead of stdout")

	return cmd
}

func runRecords(opts *RecordsOptions, paths []string, cmd *cobra.Command) (err error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	records, err := provenance.LoadAll(commandContext(cmd), paths)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeInput, "failed to load provenance records", err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %d file(s)", len(records), len(paths))

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, "failed to create output", err)
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = WrapExitError(ExitCommandError, "failed to close output", closeErr)
			}
		}()
		w = f
	}

	if err := provenance.WriteYAML(w, records); err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, "failed to write records", err)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.GetErrWriter(), "Wrote %d record(s) to %s\n", len(records), opts.Output)
	}
	return nil
}
