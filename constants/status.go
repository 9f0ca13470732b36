package constants

// RunStatus is the canonical status for rows in extraction_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusCompleted RunStatus = "COMPLETED" // at least one period extracted
	RunStatusEmpty     RunStatus = "EMPTY"     // no matching documents in the source dir
)

// Defaults for the payslip layout observed in the source documents.
const (
	DefaultAnchor         = "Samuel Olago"
	DefaultMarker         = "PAYSLIP"
	DefaultFilenamePrefix = "Payslips"
	DefaultOutputPath     = "extracted_data.json"
)
