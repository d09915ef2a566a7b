package ir

// Version constants for the report schema and the decider.
const (
	// ReportVersion is the decision report schema version.
	ReportVersion = "1"

	// DeciderVersion is the decider version recorded in the ledger.
	DeciderVersion = "0.1.0"
)
