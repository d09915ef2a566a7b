// Package params derives the execution parameters of a validated run.
//
// Parameters are layered: caller defaults first, then the standard output
// entries, then an optional Extension. A layer only adds keys that are not
// already set; a later layer never overwrites an earlier one.
package params

import (
	"fmt"
	"maps"
	"strings"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
)

// Standard parameter keys and their defaults.
const (
	KeyOutputPrefix = "output_prefix"
	KeyOutputDir    = "output_dir"

	DefaultOutputPrefix = "./"
	DefaultOutputDir    = "seqware-results"
)

// Run is what a Deriver and an Extension see of a validated run.
type Run struct {
	Name            string
	GroupKey        string
	Files           []attribute.View
	InputAccessions []string
}

// Extension adds workflow-specific parameters. A non-nil error aborts the
// run's derivation.
type Extension interface {
	DeriveExtra(run Run) (map[string]string, error)
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(run Run) (map[string]string, error)

// DeriveExtra implements Extension.
func (f ExtensionFunc) DeriveExtra(run Run) (map[string]string, error) {
	return f(run)
}

// Options configures a Deriver.
type Options struct {
	// Defaults are the caller's base parameters.
	Defaults map[string]string

	// OutputPath and OutputFolder feed output_prefix and output_dir.
	// Empty values select the defaults.
	OutputPath   string
	OutputFolder string

	Extension Extension
}

// Deriver builds parameter maps. It is immutable and safe for concurrent use.
type Deriver struct {
	defaults  map[string]string
	standard  map[string]string
	extension Extension
}

// New creates a Deriver.
func New(opts Options) *Deriver {
	return &Deriver{
		defaults:  maps.Clone(opts.Defaults),
		standard:  StandardEntries(opts.OutputPath, opts.OutputFolder),
		extension: opts.Extension,
	}
}

// StandardEntries returns output_prefix and output_dir. The prefix always
// ends with "/".
func StandardEntries(outputPath, outputFolder string) map[string]string {
	prefix := outputPath
	switch {
	case prefix == "":
		prefix = DefaultOutputPrefix
	case !strings.HasSuffix(prefix, "/"):
		prefix += "/"
	}
	dir := outputFolder
	if dir == "" {
		dir = DefaultOutputDir
	}
	return map[string]string{
		KeyOutputPrefix: prefix,
		KeyOutputDir:    dir,
	}
}

// Derive returns the parameters for run and the warnings raised while
// layering. An extension failure is returned as an error and no parameters.
func (d *Deriver) Derive(run Run) (map[string]string, []string, error) {
	out := make(map[string]string, len(d.defaults)+len(d.standard))
	maps.Copy(out, d.defaults)

	var warnings []string
	for _, k := range ir.SortedKeys(d.standard) {
		if cur, ok := out[k]; ok {
			if cur != d.standard[k] {
				warnings = append(warnings, fmt.Sprintf("%s: keeping default %q over %q", k, cur, d.standard[k]))
			}
			continue
		}
		out[k] = d.standard[k]
	}

	if d.extension == nil {
		return out, warnings, nil
	}
	extra, err := d.extension.DeriveExtra(run)
	if err != nil {
		return nil, warnings, fmt.Errorf("extension failed for %s: %w", run.Name, err)
	}
	for _, k := range ir.SortedKeys(extra) {
		if cur, ok := out[k]; ok {
			if cur != extra[k] {
				warnings = append(warnings, fmt.Sprintf("%s: extension value %q ignored, already set to %q", k, extra[k], cur))
			}
			continue
		}
		out[k] = extra[k]
	}
	return out, warnings, nil
}
