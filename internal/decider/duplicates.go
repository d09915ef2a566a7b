package decider

import (
	"slices"
	"strings"

	"github.com/pipedev/pipedev/internal/ir"
)

// mergeDuplicates folds records sharing a path into one record per path.
//
// Copies that agree on every typed field are merged: their header, LIMS and
// parent accession sets are unioned. Copies that disagree are rejected as a
// whole with ir.ReasonConflictingDuplicate, so no copy wins by position.
// The merged record keeps the position of the path's first occurrence.
func mergeDuplicates(records []ir.FileRecord) ([]ir.FileRecord, []ir.RejectionRecord) {
	byPath := make(map[string][]ir.FileRecord, len(records))
	var order []string
	for _, rec := range records {
		if _, ok := byPath[rec.Path]; !ok {
			order = append(order, rec.Path)
		}
		byPath[rec.Path] = append(byPath[rec.Path], rec)
	}
	if len(order) == len(records) {
		return records, nil
	}

	merged := make([]ir.FileRecord, 0, len(order))
	var rejections []ir.RejectionRecord
	for _, path := range order {
		copies := byPath[path]
		if len(copies) == 1 {
			merged = append(merged, copies[0])
			continue
		}
		if fields := conflictingFields(copies); len(fields) > 0 {
			ids := make([]string, len(copies))
			for i, c := range copies {
				ids[i] = c.Identity()
			}
			rejections = append(rejections, ir.RejectionRecord{
				Scope:      ir.ScopeFile,
				Reason:     ir.ReasonConflictingDuplicate,
				Paths:      []string{path},
				Accessions: ir.SortedSet(ids...),
				Message:    "duplicate records disagree on " + strings.Join(fields, ", "),
			})
			continue
		}
		merged = append(merged, unionRecords(copies))
	}
	return merged, rejections
}

// conflictingFields names the typed fields on which copies differ, in a
// fixed order.
func conflictingFields(copies []ir.FileRecord) []string {
	first := copies[0]
	differs := map[string]func(ir.FileRecord) bool{
		"meta_type":    func(r ir.FileRecord) bool { return r.MetaType != first.MetaType },
		"accession":    func(r ir.FileRecord) bool { return r.Accession != first.Accession },
		"status":       func(r ir.FileRecord) bool { return r.Status != first.Status },
		"processed_at": func(r ir.FileRecord) bool { return r.ProcessedAt != first.ProcessedAt },
		"skip":         func(r ir.FileRecord) bool { return r.Skip != first.Skip },
	}
	var fields []string
	for _, name := range []string{"meta_type", "accession", "status", "processed_at", "skip"} {
		if slices.ContainsFunc(copies[1:], differs[name]) {
			fields = append(fields, name)
		}
	}
	return fields
}

func unionRecords(copies []ir.FileRecord) ir.FileRecord {
	out := copies[0]
	out.Header = nil
	out.Lims = nil
	var parents []string
	for _, c := range copies {
		parents = append(parents, c.ParentAccessions...)
		out.Header = unionAttributes(out.Header, c.Header)
		out.Lims = unionAttributes(out.Lims, c.Lims)
	}
	out.ParentAccessions = nil
	if len(parents) > 0 {
		out.ParentAccessions = ir.SortedSet(parents...)
	}
	return out
}

// unionAttributes merges src into dst as sorted value sets.
func unionAttributes(dst, src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for k, vals := range src {
		dst[k] = ir.SortedSet(append(slices.Clone(dst[k]), vals...)...)
	}
	return dst
}
