package printing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	"github.com/SscSPs/cheque_printer/internal/middleware"
)

// SpoolSubmitter drops each job into a directory watched by an external print
// agent. The file appears atomically under its final name.
type SpoolSubmitter struct {
	dir string
}

// NewSpoolSubmitter returns a submitter writing into dir.
func NewSpoolSubmitter(dir string) *SpoolSubmitter {
	return &SpoolSubmitter{dir: dir}
}

var _ ports.PrintSubmitter = (*SpoolSubmitter)(nil)

// Submit writes <batchID>.pdf and returns its path.
func (s *SpoolSubmitter) Submit(ctx context.Context, job ports.PrintJob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrPrintCancelled, err)
	}
	if s.dir == "" {
		return "", fmt.Errorf("%w: spool directory not configured", apperrors.ErrNoPrintDevice)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNoPrintDevice, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".job-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrPrintDeviceError, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(job.Document); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", apperrors.ErrPrintDeviceError, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrPrintDeviceError, err)
	}

	final := filepath.Join(s.dir, job.BatchID+".pdf")
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrPrintDeviceError, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Print job spooled", slog.String("batch_id", job.BatchID), slog.String("path", final))
	return final, nil
}
