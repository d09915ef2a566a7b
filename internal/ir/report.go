package ir

import "slices"

// CanonicalReport renders the decision as canonical JSON.
//
// The pass id is left out: it differs between passes by construction, and
// the report is what determinism checks and golden files compare.
func (d *Decision) CanonicalReport() ([]byte, error) {
	return MarshalCanonical(d.toCanonicalMap())
}

// OrderInsensitiveReport is CanonicalReport with each run's files sorted by
// path. Passes over permutations of the same input agree on it even where
// mate order could not be resolved and input order was kept.
func (d *Decision) OrderInsensitiveReport() ([]byte, error) {
	sorted := *d
	sorted.Runs = make([]ValidatedRun, len(d.Runs))
	for i, r := range d.Runs {
		r.Files = slices.Clone(r.Files)
		slices.SortStableFunc(r.Files, func(a, b FileRecord) int {
			return CompareUTF16(a.Path, b.Path)
		})
		sorted.Runs[i] = r
	}
	return sorted.CanonicalReport()
}

// toCanonicalMap converts a Decision to map[string]any for MarshalCanonical,
// which only handles primitives, string slices and maps.
func (d *Decision) toCanonicalMap() map[string]any {
	runs := make([]any, len(d.Runs))
	for i, r := range d.Runs {
		run := map[string]any{
			"name":             r.Name,
			"group_key":        r.GroupKey,
			"files":            r.Paths(),
			"parameters":       nonNilMap(r.Parameters),
			"input_accessions": nonNilSlice(r.InputAccessions),
			"input_source":     string(r.InputSource),
			"lineage_hash":     r.LineageHash,
		}
		if len(r.Warnings) > 0 {
			run["warnings"] = r.Warnings
		}
		runs[i] = run
	}

	rejections := make([]any, len(d.Rejections))
	for i, rj := range d.Rejections {
		rec := map[string]any{
			"scope":  string(rj.Scope),
			"reason": string(rj.Reason),
			"paths":  nonNilSlice(rj.Paths),
		}
		if rj.GroupKey != "" {
			rec["group_key"] = rj.GroupKey
		}
		if len(rj.Accessions) > 0 {
			rec["accessions"] = rj.Accessions
		}
		if rj.Message != "" {
			rec["message"] = rj.Message
		}
		rejections[i] = rec
	}

	out := map[string]any{
		"version":    ReportVersion,
		"workflow":   d.Workflow,
		"runs":       runs,
		"rejections": rejections,
	}
	if len(d.Failures) > 0 {
		failures := make([]any, len(d.Failures))
		for i, f := range d.Failures {
			failures[i] = map[string]any{
				"name":      f.Name,
				"group_key": f.GroupKey,
				"paths":     nonNilSlice(f.Paths),
				"message":   f.Message,
			}
		}
		out["failures"] = failures
	}
	return out
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
