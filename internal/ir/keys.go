package ir

// Key is a sealed sum type naming one attribute of a file.
// Only HeaderKey and LimsKey implement it; consumers resolve a Key with an
// exhaustive type switch and reject anything else.
type Key interface {
	Namespace() Namespace
	String() string
	attributeKey() // Sealed - only HeaderKey and LimsKey implement it
}

// Namespace identifies which key family an attribute belongs to.
type Namespace string

const (
	NamespaceHeader Namespace = "header"
	NamespaceLims   Namespace = "lims"
)

// HeaderKey names a file-provenance report column (file, lane, run and
// lineage identifiers). The value is the report column title.
type HeaderKey string

func (HeaderKey) attributeKey() {}

// Namespace implements Key.
func (HeaderKey) Namespace() Namespace { return NamespaceHeader }

func (k HeaderKey) String() string { return string(k) }

// Header keys. Titles match the file provenance report columns.
const (
	HeaderStudyTitle        HeaderKey = "Study Title"
	HeaderStudySWID         HeaderKey = "Study SWID"
	HeaderExperimentName    HeaderKey = "Experiment Name"
	HeaderExperimentSWID    HeaderKey = "Experiment SWID"
	HeaderRootSampleName    HeaderKey = "Root Sample Name"
	HeaderParentSampleName  HeaderKey = "Parent Sample Name"
	HeaderParentSampleSWID  HeaderKey = "Parent Sample SWID"
	HeaderSampleName        HeaderKey = "Sample Name"
	HeaderSampleSWID        HeaderKey = "Sample SWID"
	HeaderSequencerRunName  HeaderKey = "Sequencer Run Name"
	HeaderSequencerRunSWID  HeaderKey = "Sequencer Run SWID"
	HeaderLaneName          HeaderKey = "Lane Name"
	HeaderLaneNumber        HeaderKey = "Lane Number"
	HeaderLaneSWID          HeaderKey = "Lane SWID"
	HeaderIUSTag            HeaderKey = "IUS Tag"
	HeaderIUSSWID           HeaderKey = "IUS SWID"
	HeaderWorkflowName      HeaderKey = "Workflow Name"
	HeaderWorkflowRunName   HeaderKey = "Workflow Run Name"
	HeaderWorkflowRunSWID   HeaderKey = "Workflow Run SWID"
	HeaderWorkflowRunStatus HeaderKey = "Workflow Run Status"
	HeaderProcessingSWID    HeaderKey = "Processing SWID"
	HeaderProcessingStatus  HeaderKey = "Processing Status"
	HeaderFileMetaType      HeaderKey = "File Meta-Type"
	HeaderFileSWID          HeaderKey = "File SWID"
	HeaderFilePath          HeaderKey = "File Path"
	HeaderLastModified      HeaderKey = "Last Modified"
	HeaderSkip              HeaderKey = "Skip"
)

// HeaderKeys lists every known header key in report column order.
var HeaderKeys = []HeaderKey{
	HeaderLastModified,
	HeaderStudyTitle, HeaderStudySWID,
	HeaderExperimentName, HeaderExperimentSWID,
	HeaderRootSampleName,
	HeaderParentSampleName, HeaderParentSampleSWID,
	HeaderSampleName, HeaderSampleSWID,
	HeaderSequencerRunName, HeaderSequencerRunSWID,
	HeaderLaneName, HeaderLaneNumber, HeaderLaneSWID,
	HeaderIUSTag, HeaderIUSSWID,
	HeaderWorkflowName,
	HeaderWorkflowRunName, HeaderWorkflowRunSWID, HeaderWorkflowRunStatus,
	HeaderProcessingSWID, HeaderProcessingStatus,
	HeaderFileMetaType, HeaderFileSWID, HeaderFilePath,
	HeaderSkip,
}

var headerKeySet = func() map[string]HeaderKey {
	m := make(map[string]HeaderKey, len(HeaderKeys))
	for _, k := range HeaderKeys {
		m[string(k)] = k
	}
	return m
}()

// ParseHeaderKey returns the HeaderKey for a report column title.
func ParseHeaderKey(title string) (HeaderKey, bool) {
	k, ok := headerKeySet[title]
	return k, ok
}

// LimsKey names a LIMS sample or library attribute.
type LimsKey string

func (LimsKey) attributeKey() {}

// Namespace implements Key.
func (LimsKey) Namespace() Namespace { return NamespaceLims }

func (k LimsKey) String() string { return string(k) }

// LIMS keys.
const (
	LimsGroupID              LimsKey = "geo_group_id"
	LimsGroupIDDescription   LimsKey = "geo_group_id_description"
	LimsTissueOrigin         LimsKey = "geo_tissue_origin"
	LimsTissueType           LimsKey = "geo_tissue_type"
	LimsTissuePreparation    LimsKey = "geo_tissue_preparation"
	LimsTissueRegion         LimsKey = "geo_tissue_region"
	LimsLibraryType          LimsKey = "geo_library_type"
	LimsLibrarySize          LimsKey = "geo_library_size_code"
	LimsLibraryTemplateType  LimsKey = "geo_library_source_template_type"
	LimsTargetedResequencing LimsKey = "geo_targeted_resequencing"
	LimsExternalName         LimsKey = "geo_external_name"
	LimsOrganism             LimsKey = "geo_organism"
)

// LimsKeys lists every known LIMS key.
var LimsKeys = []LimsKey{
	LimsGroupID, LimsGroupIDDescription,
	LimsTissueOrigin, LimsTissueType, LimsTissuePreparation, LimsTissueRegion,
	LimsLibraryType, LimsLibrarySize, LimsLibraryTemplateType,
	LimsTargetedResequencing, LimsExternalName, LimsOrganism,
}
