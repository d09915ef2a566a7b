package provenance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pipedev/pipedev/internal/ir"
)

// Report layout constants.
const (
	// ValueSeparator separates the members of a multi-valued cell.
	ValueSeparator = ";"

	// Attribute columns hold "<prefix><name>=<value>" entries separated by
	// ValueSeparator. Their entries become LIMS attributes.
	SampleAttributesColumn       = "Sample Attributes"
	ParentSampleAttributesColumn = "Parent Sample Attributes"
	SampleAttributePrefix        = "sample."
	ParentSampleAttributePrefix  = "parent_sample."

	// ParentAccessionColumn holds the accession of the processing event
	// that produced the file.
	ParentAccessionColumn = "Processing SWID"
)

// ReadReport parses a tab-separated file provenance report. The first line
// holds column titles. Cells are split on ValueSeparator; empty cells are
// absent attributes.
//
// LIMS attributes come from the sample attribute column first; the parent
// sample attribute column only fills names the sample does not set.
func ReadReport(r io.Reader) ([]ir.FileRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []ir.FileRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if !containsColumn(header, string(ir.HeaderFilePath)) {
		return nil, fmt.Errorf("report has no %q column", ir.HeaderFilePath)
	}

	records := []ir.FileRecord{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(header, row []string) (ir.FileRecord, error) {
	rec := ir.FileRecord{
		Header: map[string][]string{},
		Lims:   map[string][]string{},
	}
	cells := make(map[string]string, len(header))
	for i, title := range header {
		cells[title] = strings.TrimSpace(row[i])
	}

	for title, cell := range cells {
		if cell == "" {
			continue
		}
		switch ir.HeaderKey(title) {
		case ir.HeaderFilePath:
			rec.Path = cell
		case ir.HeaderFileMetaType:
			rec.MetaType = cell
		case ir.HeaderFileSWID:
			rec.Accession = cell
		case ir.HeaderWorkflowRunStatus:
			rec.Status = cell
		case ir.HeaderLastModified:
			rec.ProcessedAt = cell
		case ir.HeaderSkip:
			rec.Skip = strings.EqualFold(cell, "true")
		default:
			if title == SampleAttributesColumn || title == ParentSampleAttributesColumn {
				continue
			}
			rec.Header[title] = splitCell(cell)
		}
	}
	if rec.Path == "" {
		return rec, fmt.Errorf("empty %q", ir.HeaderFilePath)
	}
	if parents := cells[ParentAccessionColumn]; parents != "" {
		rec.ParentAccessions = splitCell(parents)
	}

	if err := mergeAttributes(rec.Lims, cells[SampleAttributesColumn], SampleAttributePrefix, true); err != nil {
		return rec, err
	}
	if err := mergeAttributes(rec.Lims, cells[ParentSampleAttributesColumn], ParentSampleAttributePrefix, false); err != nil {
		return rec, err
	}
	return rec, nil
}

// mergeAttributes adds the entries of an attribute cell to lims. With
// override false, names already present are left alone.
func mergeAttributes(lims map[string][]string, cell, prefix string, override bool) error {
	if cell == "" {
		return nil
	}
	parsed := map[string][]string{}
	for _, entry := range splitCell(cell) {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("malformed attribute %q: want name=value", entry)
		}
		name = strings.TrimPrefix(name, prefix)
		parsed[name] = append(parsed[name], value)
	}
	for name, values := range parsed {
		if _, exists := lims[name]; exists && !override {
			continue
		}
		lims[name] = values
	}
	return nil
}

func splitCell(cell string) []string {
	parts := strings.Split(cell, ValueSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsColumn(header []string, title string) bool {
	for _, h := range header {
		if h == title {
			return true
		}
	}
	return false
}
