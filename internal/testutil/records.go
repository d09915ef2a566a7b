package testutil

import "github.com/pipedev/pipedev/internal/ir"

// FastqMetaType is the meta-type given to records built by Record.
const FastqMetaType = "chemical/seq-na-fastq-gzip"

// RecordOption customizes a FileRecord built by Record.
type RecordOption func(*ir.FileRecord)

// Record builds a completed fastq FileRecord at path.
//
//	rec := testutil.Record("/data/a_R1_001.fastq.gz",
//		testutil.WithDonor("ABCD_0001"),
//		testutil.WithLims(ir.LimsTissueOrigin, "Ly"))
func Record(path string, opts ...RecordOption) ir.FileRecord {
	rec := ir.FileRecord{
		Path:     path,
		MetaType: FastqMetaType,
		Status:   ir.StatusCompleted,
		Header:   map[string][]string{},
		Lims:     map[string][]string{},
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithAccession sets the file accession.
func WithAccession(acc string) RecordOption {
	return func(r *ir.FileRecord) { r.Accession = acc }
}

// WithStatus sets the workflow run status.
func WithStatus(status string) RecordOption {
	return func(r *ir.FileRecord) { r.Status = status }
}

// WithMetaType sets the file meta-type.
func WithMetaType(mt string) RecordOption {
	return func(r *ir.FileRecord) { r.MetaType = mt }
}

// WithDate sets the processing date.
func WithDate(date string) RecordOption {
	return func(r *ir.FileRecord) { r.ProcessedAt = date }
}

// WithSkip flags the record as skipped.
func WithSkip() RecordOption {
	return func(r *ir.FileRecord) { r.Skip = true }
}

// WithParents sets the upstream parent accessions.
func WithParents(accs ...string) RecordOption {
	return func(r *ir.FileRecord) { r.ParentAccessions = accs }
}

// WithHeader sets a header column.
func WithHeader(key ir.HeaderKey, values ...string) RecordOption {
	return func(r *ir.FileRecord) { r.Header[string(key)] = values }
}

// WithLims sets a LIMS attribute.
func WithLims(key ir.LimsKey, values ...string) RecordOption {
	return func(r *ir.FileRecord) { r.Lims[string(key)] = values }
}

// WithDonor sets the donor in both grouping modes: the root sample name and
// the parent sample accession.
func WithDonor(name string) RecordOption {
	return func(r *ir.FileRecord) {
		r.Header[string(ir.HeaderRootSampleName)] = []string{name}
		r.Header[string(ir.HeaderParentSampleSWID)] = []string{name}
	}
}

// WithIUS sets the IUS accession and barcode tag.
func WithIUS(swid, tag string) RecordOption {
	return func(r *ir.FileRecord) {
		r.Header[string(ir.HeaderIUSSWID)] = []string{swid}
		r.Header[string(ir.HeaderIUSTag)] = []string{tag}
	}
}
