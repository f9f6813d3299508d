package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// Leaf allocation errors.
var (
	ErrBookNotFound       = fmt.Errorf("%w: cheque book", ErrNotFound)
	ErrBookExhausted      = errors.New("cheque book exhausted")
	ErrInsufficientLeaves = errors.New("insufficient leaves in cheque book")
	ErrNoActiveBook       = errors.New("no active cheque book selected")
)

// Print subsystem errors.
var (
	ErrNoPrintDevice    = errors.New("no print device available")
	ErrPrintCancelled   = errors.New("print job cancelled by operator")
	ErrPrintDeviceError = errors.New("print device reported failure")
)

// Batch errors.
var (
	ErrPartialCommit   = errors.New("printed but not all records updated")
	ErrBatchInProgress = errors.New("a batch print is already running for this cheque book")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConflictError wraps ErrConflict with a message.
func NewConflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// PartialCommitWarning is returned with a successful print when one or more
// post-print writes (purchase status, ledger, queue cleanup) failed. The
// printed cheques are real, so it must not be retried automatically.
type PartialCommitWarning struct {
	BatchID  string
	Failures []string
}

func (w *PartialCommitWarning) Error() string {
	return fmt.Sprintf("%s (batch %s): %s", ErrPartialCommit.Error(), w.BatchID, strings.Join(w.Failures, "; "))
}

// Is lets errors.Is(err, ErrPartialCommit) match a warning.
func (w *PartialCommitWarning) Is(target error) bool {
	return target == ErrPartialCommit
}

// Add records one failed post-print write.
func (w *PartialCommitWarning) Add(format string, args ...any) {
	w.Failures = append(w.Failures, fmt.Sprintf(format, args...))
}

// HasFailures reports whether anything was recorded.
func (w *PartialCommitWarning) HasFailures() bool {
	return w != nil && len(w.Failures) > 0
}
