package printing

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() ports.PrintJob {
	return ports.PrintJob{BatchID: "batch-1", Title: "cheques", Document: []byte("%PDF-1.3 test"), Pages: 2, WidthMM: 206, HeightMM: 98}
}

func TestLPSubmitter_Args(t *testing.T) {
	var gotName string
	var gotArgs []string
	var gotStdin []byte
	s := NewLPSubmitter("", "cheque-printer")
	s.run = func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, []byte, error) {
		gotName, gotArgs, gotStdin = name, args, stdin
		return []byte("request id is cheque-printer-42 (1 file(s))\n"), nil, nil
	}

	ref, err := s.Submit(context.Background(), testJob())
	require.NoError(t, err)

	assert.Equal(t, "lp", gotName)
	assert.Equal(t, []string{
		"-d", "cheque-printer", "-t", "cheques",
		"-o", "print-scaling=none", "-o", "fit-to-page=false",
		"-o", "media=Custom.206x98mm", "-",
	}, gotArgs)
	assert.Equal(t, testJob().Document, gotStdin)
	assert.Equal(t, "request id is cheque-printer-42 (1 file(s))", ref)
}

func TestLPSubmitter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		stderr string
		cancel bool
		want   error
	}{
		{name: "missing binary", err: exec.ErrNotFound, want: apperrors.ErrNoPrintDevice},
		{name: "unknown printer", err: errors.New("exit status 1"), stderr: "lp: The printer or class does not exist.", want: apperrors.ErrNoPrintDevice},
		{name: "no default", err: errors.New("exit status 1"), stderr: "lp: Error - No default destination.", want: apperrors.ErrNoPrintDevice},
		{name: "operator cancelled", err: errors.New("exit status 1"), stderr: "job canceled by user", want: apperrors.ErrPrintCancelled},
		{name: "context cancelled", err: errors.New("signal: killed"), cancel: true, want: apperrors.ErrPrintCancelled},
		{name: "device fault", err: errors.New("exit status 1"), stderr: "lp: paper jam", want: apperrors.ErrPrintDeviceError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}
			s := NewLPSubmitter("lp", "")
			s.run = func(context.Context, string, []string, []byte) ([]byte, []byte, error) {
				return nil, []byte(tt.stderr), tt.err
			}
			_, err := s.Submit(ctx, testJob())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSpoolSubmitter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	s := NewSpoolSubmitter(dir)

	path, err := s.Submit(context.Background(), testJob())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch-1.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testJob().Document, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestSpoolSubmitter_Failures(t *testing.T) {
	_, err := NewSpoolSubmitter("").Submit(context.Background(), testJob())
	assert.ErrorIs(t, err, apperrors.ErrNoPrintDevice)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSpoolSubmitter(t.TempDir()).Submit(ctx, testJob())
	assert.ErrorIs(t, err, apperrors.ErrPrintCancelled)
}
