// Package printing submits rendered cheque documents to a print device.
package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	"github.com/SscSPs/cheque_printer/internal/middleware"
)

// runFunc executes a command with stdin and returns its output streams.
type runFunc func(ctx context.Context, name string, args []string, stdin []byte) (stdout, stderr []byte, err error)

func execRun(ctx context.Context, name string, args []string, stdin []byte) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LPSubmitter sends jobs to CUPS through the lp command.
type LPSubmitter struct {
	command string
	printer string
	run     runFunc
}

// NewLPSubmitter returns a submitter for printer (empty means the CUPS default).
func NewLPSubmitter(command, printer string) *LPSubmitter {
	if command == "" {
		command = "lp"
	}
	return &LPSubmitter{command: command, printer: printer, run: execRun}
}

var _ ports.PrintSubmitter = (*LPSubmitter)(nil)

// Submit pipes the document to lp with scaling disabled and the page size pinned.
func (s *LPSubmitter) Submit(ctx context.Context, job ports.PrintJob) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	args := s.args(job)
	logger.Info("Submitting print job", slog.String("batch_id", job.BatchID), slog.Int("pages", job.Pages), slog.String("printer", s.printer))

	stdout, stderr, err := s.run(ctx, s.command, args, job.Document)
	if err != nil {
		mapped := classify(ctx, err, string(stderr))
		logger.Error("Print job failed", slog.String("batch_id", job.BatchID), slog.String("error", mapped.Error()))
		return "", mapped
	}
	ref := strings.TrimSpace(string(stdout))
	logger.Info("Print job accepted", slog.String("batch_id", job.BatchID), slog.String("job", ref))
	return ref, nil
}

func (s *LPSubmitter) args(job ports.PrintJob) []string {
	args := []string{}
	if s.printer != "" {
		args = append(args, "-d", s.printer)
	}
	if job.Title != "" {
		args = append(args, "-t", job.Title)
	}
	args = append(args, "-o", "print-scaling=none", "-o", "fit-to-page=false")
	if job.WidthMM > 0 && job.HeightMM > 0 {
		args = append(args, "-o", fmt.Sprintf("media=Custom.%gx%gmm", job.WidthMM, job.HeightMM))
	}
	return append(args, "-")
}

func classify(ctx context.Context, err error, stderr string) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPrintCancelled, ctx.Err())
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", apperrors.ErrNoPrintDevice, err)
	}
	msg := strings.ToLower(stderr)
	switch {
	case strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "no default destination"),
		strings.Contains(msg, "scheduler is not running"):
		return fmt.Errorf("%w: %s", apperrors.ErrNoPrintDevice, strings.TrimSpace(stderr))
	case strings.Contains(msg, "cancel"):
		return fmt.Errorf("%w: %s", apperrors.ErrPrintCancelled, strings.TrimSpace(stderr))
	}
	return fmt.Errorf("%w: %v: %s", apperrors.ErrPrintDeviceError, err, strings.TrimSpace(stderr))
}
