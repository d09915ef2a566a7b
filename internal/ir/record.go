package ir

// Workflow run status values seen on provenance records.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusPending   = "pending"
	StatusRunning   = "running"
)

// FileRecord is one file's provenance snapshot.
//
// The well-known fields (path, meta-type, accession, status, processing date)
// are typed; everything else is carried in Header (report columns keyed by
// HeaderKey title) and Lims (sample metadata keyed by attribute name).
// The core only reads a FileRecord, it never mutates one.
type FileRecord struct {
	Path        string `json:"path" yaml:"path"`
	MetaType    string `json:"meta_type" yaml:"meta_type"`
	Accession   string `json:"accession,omitempty" yaml:"accession,omitempty"`
	Status      string `json:"status" yaml:"status"`
	ProcessedAt string `json:"processed_at,omitempty" yaml:"processed_at,omitempty"`
	Skip        bool   `json:"skip,omitempty" yaml:"skip,omitempty"`

	// ParentAccessions are the accessions of the upstream processing events
	// that produced this file.
	ParentAccessions []string `json:"parent_accessions,omitempty" yaml:"parent_accessions,omitempty"`

	// Header holds the remaining report columns. Values are a set; order
	// carries no meaning.
	Header map[string][]string `json:"header,omitempty" yaml:"header,omitempty"`

	// Lims holds sample and library attributes (geo_tissue_origin, ...).
	Lims map[string][]string `json:"lims,omitempty" yaml:"lims,omitempty"`
}

// Identity returns the value used to identify the file in lineage hashes:
// the accession when present, otherwise the path.
func (r FileRecord) Identity() string {
	if r.Accession != "" {
		return r.Accession
	}
	return r.Path
}
