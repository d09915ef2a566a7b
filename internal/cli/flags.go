package cli

import (
	"maps"

	"github.com/spf13/cobra"

	"github.com/pipedev/pipedev/internal/config"
	"github.com/pipedev/pipedev/internal/decider"
	"github.com/pipedev/pipedev/internal/grouping"
	"github.com/pipedev/pipedev/internal/ir"
)

// DeciderFlags are the decision settings shared by decide and verify.
// A --config file is loaded first; flags given on the command line
// override its values.
type DeciderFlags struct {
	Config string

	Workflow        string
	GroupBy         string
	GroupMode       string
	FilesPerGroup   int
	MetaTypes       []string
	AfterDate       string
	BeforeDate      string
	CheckFileExists bool
	SkipStatusCheck bool
	OutputPath      string
	OutputFolder    string
	InputSource     string
	LaunchMax       int
	Defaults        map[string]string
}

func (f *DeciderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.Config, "config", "c", "", "CUE config file or directory")
	fs.StringVar(&f.Workflow, "workflow", "", "downstream workflow name")
	fs.StringVar(&f.GroupBy, "group-by", "", "grouping dimension (file|barcode|lane|library|donor|experiment|study|sequencer_run)")
	fs.StringVar(&f.GroupMode, "group-mode", "", "grouping mode (exact|collapse)")
	fs.IntVar(&f.FilesPerGroup, "files-per-group", 0, "exact number of files per run (0 = any)")
	fs.StringSliceVar(&f.MetaTypes, "meta-type", nil, "accepted meta-types (repeatable)")
	fs.StringVar(&f.AfterDate, "after-date", "", "only files processed after YYYY-MM-DD")
	fs.StringVar(&f.BeforeDate, "before-date", "", "only files processed before YYYY-MM-DD")
	fs.BoolVar(&f.CheckFileExists, "check-file-exists", false, "reject files missing from the filesystem")
	fs.BoolVar(&f.SkipStatusCheck, "skip-status-check", false, "do not reject files whose sibling status attributes are failed")
	fs.StringVar(&f.OutputPath, "output-path", "", "output_prefix parameter")
	fs.StringVar(&f.OutputFolder, "output-folder", "", "output_dir parameter")
	fs.StringVar(&f.InputSource, "input-source", "", "input accession source (file|parent|prefer_file)")
	fs.IntVar(&f.LaunchMax, "launch-max", 0, "maximum runs per pass (0 = no limit)")
	fs.StringToStringVar(&f.Defaults, "param", nil, "default run parameter key=value (repeatable)")
}

// resolve loads the config file, if any, and applies flag overrides.
func (f *DeciderFlags) resolve(cmd *cobra.Command) (decider.Config, error) {
	var cfg decider.Config
	if f.Config != "" {
		loaded, err := config.Load(f.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("workflow") {
		cfg.Workflow = f.Workflow
	}
	if changed("group-by") {
		cfg.GroupBy = grouping.Dimension(f.GroupBy)
	}
	if changed("group-mode") {
		cfg.GroupMode = grouping.Mode(f.GroupMode)
	}
	if changed("files-per-group") {
		cfg.FilesPerGroup = f.FilesPerGroup
	}
	if changed("meta-type") {
		cfg.MetaTypes = f.MetaTypes
	}
	if changed("after-date") {
		cfg.AfterDate = f.AfterDate
	}
	if changed("before-date") {
		cfg.BeforeDate = f.BeforeDate
	}
	if changed("check-file-exists") {
		cfg.CheckFileExists = f.CheckFileExists
	}
	if changed("skip-status-check") {
		cfg.SkipStatusCheck = f.SkipStatusCheck
	}
	if changed("output-path") {
		cfg.OutputPath = f.OutputPath
	}
	if changed("output-folder") {
		cfg.OutputFolder = f.OutputFolder
	}
	if changed("input-source") {
		cfg.InputSource = ir.InputSource(f.InputSource)
	}
	if changed("launch-max") {
		cfg.LaunchMax = f.LaunchMax
	}
	if changed("param") {
		merged := make(map[string]string, len(cfg.Defaults)+len(f.Defaults))
		maps.Copy(merged, cfg.Defaults)
		maps.Copy(merged, f.Defaults)
		cfg.Defaults = merged
	}
	return cfg, nil
}
