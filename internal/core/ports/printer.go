package ports

import "context"

// PrintJob is one multi-page document sent to the device as a single job so
// feed and orientation settings apply to every cheque uniformly.
type PrintJob struct {
	BatchID  string
	Title    string
	Document []byte // PDF
	Pages    int
	WidthMM  float64
	HeightMM float64
}

// PrintSubmitter hands a job to a physical device or spool. Submit blocks until
// the device accepts or rejects the job. Failures wrap one of
// apperrors.ErrNoPrintDevice, apperrors.ErrPrintCancelled or
// apperrors.ErrPrintDeviceError.
type PrintSubmitter interface {
	Submit(ctx context.Context, job PrintJob) (string, error)
}
