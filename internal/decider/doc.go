// Package decider runs one decision pass over a collection of provenance
// records.
//
// A pass is a pure function of its inputs: the records, the Config, and the
// collaborators injected as Options (existence check, user predicate, final
// check, parameter extension, ledger snapshot). It performs no I/O of its
// own. Each call to Decide starts from fresh state, so passes never share
// candidate runs.
//
// Pipeline:
//
//	records → attribute.View → filter.Chain → grouping.KeyOf
//	        → assembly.Assembler → ledger / launch limit → params.Deriver
//
// Outcomes:
//   - per-file and per-group problems become ir.RejectionRecords
//   - configuration problems fail New with a ConfigError
//   - extension failures become ir.DerivationFailures and are returned,
//     joined, as DerivationErrors alongside the Decision
package decider
