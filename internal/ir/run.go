package ir

// Reason is the code carried by a RejectionRecord.
type Reason string

// Per-file rejection reasons.
const (
	ReasonMetaType           Reason = "META_TYPE"
	ReasonFileNotFound       Reason = "FILE_NOT_FOUND"
	ReasonStatusNotCompleted Reason = "STATUS_NOT_COMPLETED"
	ReasonSkipped            Reason = "SKIPPED"
	ReasonSiblingFailed      Reason = "SIBLING_FAILED"
	ReasonUnparseableDate    Reason = "UNPARSEABLE_DATE"
	ReasonNotAfterWindow     Reason = "NOT_AFTER_WINDOW"
	ReasonNotBeforeWindow    Reason = "NOT_BEFORE_WINDOW"
	ReasonUserPredicate      Reason = "USER_PREDICATE"
	ReasonMissingGroupingKey Reason = "MISSING_GROUPING_ATTRIBUTE"

	// ReasonConflictingDuplicate rejects a path whose records disagree.
	ReasonConflictingDuplicate Reason = "CONFLICTING_DUPLICATE"
)

// Per-group rejection reasons.
const (
	ReasonInvalidFileCount Reason = "INVALID_FILE_COUNT"
	ReasonFinalCheck       Reason = "FINAL_CHECK"
	ReasonAlreadyScheduled Reason = "ALREADY_SCHEDULED"
	ReasonLaunchLimit      Reason = "LAUNCH_LIMIT"
)

// Scope tells whether a rejection concerns one file or a whole group.
type Scope string

const (
	ScopeFile  Scope = "file"
	ScopeGroup Scope = "group"
)

// RejectionRecord explains why a file or a candidate run was not scheduled.
type RejectionRecord struct {
	Scope      Scope    `json:"scope"`
	Reason     Reason   `json:"reason"`
	GroupKey   string   `json:"group_key,omitempty"`
	Paths      []string `json:"paths"`
	Accessions []string `json:"accessions,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// InputSource selects where a run's input accessions come from.
type InputSource string

const (
	// InputSourceFile uses the accessions of the input files only.
	InputSourceFile InputSource = "file"
	// InputSourceParent uses the upstream parent accessions only.
	InputSourceParent InputSource = "parent"
	// InputSourcePreferFile uses file accessions and falls back to parent
	// accessions when no input file carries an accession.
	InputSourcePreferFile InputSource = "prefer_file"
)

// ValidInputSources defines allowed input source policies.
var ValidInputSources = map[InputSource]bool{
	InputSourceFile:       true,
	InputSourceParent:     true,
	InputSourcePreferFile: true,
}

// ValidatedRun is a candidate run that passed every check and whose
// parameters were derived. It is immutable once produced.
type ValidatedRun struct {
	Name     string `json:"name"`
	GroupKey string `json:"group_key"`

	// Files are in launch order (mate 1 before mate 2 when resolvable).
	Files []FileRecord `json:"files"`

	Parameters map[string]string `json:"parameters"`

	InputAccessions []string    `json:"input_accessions"`
	InputSource     InputSource `json:"input_source"`

	// LineageHash identifies the (workflow, input set) pair; see LineageHash.
	LineageHash string `json:"lineage_hash"`

	Warnings []string `json:"warnings,omitempty"`
}

// Paths returns the run's file paths in launch order.
func (r ValidatedRun) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// DerivationFailure records a run whose parameter derivation aborted.
type DerivationFailure struct {
	Name     string   `json:"name"`
	GroupKey string   `json:"group_key"`
	Paths    []string `json:"paths"`
	Message  string   `json:"message"`
}

// Decision is the outcome of one decision pass.
type Decision struct {
	PassID     string              `json:"pass_id,omitempty"`
	Workflow   string              `json:"workflow"`
	Runs       []ValidatedRun      `json:"runs"`
	Rejections []RejectionRecord   `json:"rejections"`
	Failures   []DerivationFailure `json:"failures,omitempty"`
}

// Counts returns the number of runs, rejections and failures.
func (d *Decision) Counts() (runs, rejections, failures int) {
	return len(d.Runs), len(d.Rejections), len(d.Failures)
}
