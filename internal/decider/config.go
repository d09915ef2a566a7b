package decider

import (
	"github.com/pipedev/pipedev/internal/grouping"
	"github.com/pipedev/pipedev/internal/ir"
)

// Config holds the decision settings for one workflow.
type Config struct {
	// Workflow names the downstream workflow. It scopes lineage hashes.
	Workflow string `json:"workflow" yaml:"workflow"`

	GroupBy   grouping.Dimension `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	GroupMode grouping.Mode      `json:"group_mode,omitempty" yaml:"group_mode,omitempty"`

	// FilesPerGroup, when positive, is the exact number of files a run needs.
	FilesPerGroup int `json:"files_per_group,omitempty" yaml:"files_per_group,omitempty"`

	MetaTypes []string `json:"meta_types,omitempty" yaml:"meta_types,omitempty"`

	// AfterDate and BeforeDate (YYYY-MM-DD) bound the processing date,
	// both exclusive.
	AfterDate  string `json:"after_date,omitempty" yaml:"after_date,omitempty"`
	BeforeDate string `json:"before_date,omitempty" yaml:"before_date,omitempty"`

	CheckFileExists bool `json:"check_file_exists,omitempty" yaml:"check_file_exists,omitempty"`
	SkipStatusCheck bool `json:"skip_status_check,omitempty" yaml:"skip_status_check,omitempty"`

	OutputPath   string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	OutputFolder string `json:"output_folder,omitempty" yaml:"output_folder,omitempty"`

	InputSource ir.InputSource `json:"input_source,omitempty" yaml:"input_source,omitempty"`

	// LaunchMax caps the runs emitted per pass. Zero means no cap.
	LaunchMax int `json:"launch_max,omitempty" yaml:"launch_max,omitempty"`

	// Defaults are the base run parameters.
	Defaults map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// Default values applied by New when a field is empty.
const (
	DefaultGroupBy     = grouping.DimensionFile
	DefaultGroupMode   = grouping.ModeExact
	DefaultInputSource = ir.InputSourcePreferFile
)

// withDefaults returns a copy of c with empty enum fields defaulted.
func (c Config) withDefaults() Config {
	if c.GroupBy == "" {
		c.GroupBy = DefaultGroupBy
	}
	if c.GroupMode == "" {
		c.GroupMode = DefaultGroupMode
	}
	if c.InputSource == "" {
		c.InputSource = DefaultInputSource
	}
	return c
}
