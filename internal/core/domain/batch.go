package domain

// BatchState is a step of the batch-print state machine.
type BatchState string

const (
	BatchValidated BatchState = "VALIDATED"
	BatchReserved  BatchState = "RESERVED"
	BatchRendered  BatchState = "RENDERED"
	BatchSubmitted BatchState = "SUBMITTED"
	BatchCommitted BatchState = "COMMITTED"
	BatchFailed    BatchState = "FAILED"
)

// BatchPrintRequest selects what a batch run prints against.
type BatchPrintRequest struct {
	BookID      string // empty means the active book
	TemplateID  string
	SignatureID string // empty means the configured default, then the first available
	UserID      string
}

// PrintResult is returned to the caller for every batch run.
type PrintResult struct {
	BatchID         string     `json:"batchID"`
	State           BatchState `json:"state"`
	BookID          string     `json:"bookID,omitempty"`
	SucceededCount  int        `json:"succeededCount"`
	AssignedNumbers []int64    `json:"assignedNumbers"`
	FailureReason   string     `json:"failureReason,omitempty"`
	Warning         error      `json:"-"`
}
