package constants

// OutcomeKind is the per-document result recorded in the summary sheet.
type OutcomeKind string

const (
	OutcomeProcessed    OutcomeKind = "PROCESSED"
	OutcomeNoTableData  OutcomeKind = "NO_TABLE_DATA"
	OutcomeUnrecognized OutcomeKind = "UNRECOGNIZED_LAYOUT"
	OutcomeMissingFile  OutcomeKind = "MISSING_FILE"
	OutcomeError        OutcomeKind = "ERROR" // terminal failure for this document only
)
