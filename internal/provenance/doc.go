// Package provenance reads file provenance records from disk.
//
// Two formats are supported:
//   - YAML record documents (a top-level "records" list of ir.FileRecord)
//   - tab-separated file provenance reports with one titled column per
//     attribute, optionally gzip-compressed
//
// LoadAll reads several sources concurrently and returns a fully
// materialized slice; the decider never sees a partially loaded input.
package provenance
