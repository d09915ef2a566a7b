// Package grouping computes the key that decides which files share a run.
package grouping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
)

// Dimension is a level of the grouping hierarchy.
type Dimension string

// Dimensions from finest to broadest.
const (
	DimensionFile         Dimension = "file"
	DimensionBarcode      Dimension = "barcode"
	DimensionLane         Dimension = "lane"
	DimensionLibrary      Dimension = "library"
	DimensionDonor        Dimension = "donor"
	DimensionExperiment   Dimension = "experiment"
	DimensionStudy        Dimension = "study"
	DimensionSequencerRun Dimension = "sequencer_run"
)

// Dimensions lists every dimension in hierarchy order.
var Dimensions = []Dimension{
	DimensionFile, DimensionBarcode, DimensionLane, DimensionLibrary,
	DimensionDonor, DimensionExperiment, DimensionStudy, DimensionSequencerRun,
}

// Mode selects between accession and name keys.
type Mode string

const (
	// ModeExact groups by the dimension's unique accession.
	ModeExact Mode = "exact"
	// ModeCollapse groups by the dimension's human-readable name, merging
	// distinct entities that share a name.
	ModeCollapse Mode = "collapse"
)

// DonorSeparator separates lineage qualifiers in composite donor identifiers.
const DonorSeparator = ":"

type columns struct {
	exact    ir.HeaderKey
	collapse ir.HeaderKey
}

var table = map[Dimension]columns{
	DimensionFile:         {ir.HeaderFilePath, ir.HeaderFilePath},
	DimensionBarcode:      {ir.HeaderIUSSWID, ir.HeaderIUSTag},
	DimensionLane:         {ir.HeaderLaneSWID, ir.HeaderLaneName},
	DimensionLibrary:      {ir.HeaderSampleSWID, ir.HeaderSampleName},
	DimensionDonor:        {ir.HeaderParentSampleSWID, ir.HeaderRootSampleName},
	DimensionExperiment:   {ir.HeaderExperimentSWID, ir.HeaderExperimentName},
	DimensionStudy:        {ir.HeaderStudySWID, ir.HeaderStudyTitle},
	DimensionSequencerRun: {ir.HeaderSequencerRunSWID, ir.HeaderSequencerRunName},
}

// ParseDimension parses a dimension name. "sequencer-run" is accepted as an
// alias of "sequencer_run".
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := table[d]; !ok {
		return "", fmt.Errorf("unknown grouping dimension %q", s)
	}
	return d, nil
}

// ParseMode parses a grouping mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeExact, ModeCollapse:
		return m, nil
	}
	return "", fmt.Errorf("unknown grouping mode %q", s)
}

// Column returns the header column that keys dimension d in mode m.
func Column(d Dimension, m Mode) (ir.HeaderKey, error) {
	cols, ok := table[d]
	if !ok {
		return "", fmt.Errorf("unknown grouping dimension %q", d)
	}
	switch m {
	case ModeExact:
		return cols.exact, nil
	case ModeCollapse:
		return cols.collapse, nil
	}
	return "", fmt.Errorf("unknown grouping mode %q", m)
}

// KeyOf returns the group key for v. The key is a pure function of the
// attribute values: a multi-valued column yields its sorted set joined with
// attribute.ValueSeparator. For the donor dimension only the trailing
// DonorSeparator component of each value is kept.
func KeyOf(v attribute.View, d Dimension, m Mode) (string, error) {
	col, err := Column(d, m)
	if err != nil {
		return "", err
	}
	vals, err := v.All(col)
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		return "", &MissingAttributeError{Dimension: d, Mode: m, Column: col, Path: v.Path()}
	}
	if d == DimensionDonor {
		for i, val := range vals {
			vals[i] = TrailingComponent(val)
		}
		vals = ir.SortedSet(vals...)
	}
	return strings.Join(vals, attribute.ValueSeparator), nil
}

// TrailingComponent strips lineage qualifiers from a composite identifier:
// "PCSI:PCSI_0001" becomes "PCSI_0001".
func TrailingComponent(id string) string {
	if i := strings.LastIndex(id, DonorSeparator); i >= 0 {
		return id[i+len(DonorSeparator):]
	}
	return id
}

// MissingAttributeError reports a file whose grouping column is absent.
type MissingAttributeError struct {
	Dimension Dimension
	Mode      Mode
	Column    ir.HeaderKey
	Path      string
}

// Error implements the error interface.
func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %q is not set for %s/%s grouping (path=%s)",
		ir.ReasonMissingGroupingKey, e.Column, e.Dimension, e.Mode, e.Path)
}

// IsMissingAttribute reports whether err is a MissingAttributeError.
func IsMissingAttribute(err error) bool {
	var me *MissingAttributeError
	return errors.As(err, &me)
}
