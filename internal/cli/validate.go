package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/config"
	"github.com/pipedev/pipedev/internal/decider"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Config *decider.Config `json:"config,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a decider config without running a pass",
		Long: `Validate a CUE decider config file or directory.

The config is checked against the embedded schema and then against the
rules a decision pass enforces at start-up (date window, enums, counts).
The effective config, defaults applied, is printed on success.

Exit codes:
  0 - Config is valid
  1 - Config is invalid
  2 - Command error (config not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) && cfgErr.Field == "path" {
			return reportError(formatter, ExitCommandError, ErrCodeConfig, "config not found", err)
		}
		return reportError(formatter, ExitFailure, ErrCodeConfig, "config invalid", err)
	}
	formatter.VerboseLog("Loaded config for workflow %q from %s", cfg.Workflow, path)

	d, err := decider.New(cfg)
	if err != nil {
		return reportError(formatter, ExitFailure, ErrCodeConfig, "config invalid", err)
	}

	effective := d.Config()
	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Config: &effective})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s: workflow %s\n", path, effective.Workflow)
	fmt.Fprintf(w, "  group_by=%s group_mode=%s input_source=%s\n",
		effective.GroupBy, effective.GroupMode, effective.InputSource)
	if effective.FilesPerGroup > 0 {
		fmt.Fprintf(w, "  files_per_group=%d\n", effective.FilesPerGroup)
	}
	if effective.LaunchMax > 0 {
		fmt.Fprintf(w, "  launch_max=%d\n", effective.LaunchMax)
	}
	return nil
}
