package services_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/SscSPs/cheque_printer/internal/repositories/memory"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)

func seedBook(t *testing.T, store *memory.Store, id string, start, end, next int64, active bool) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveChequeBook(ctx, domain.ChequeBook{
		BookID:      id,
		BookName:    "Book " + id,
		BankName:    "State Bank",
		StartNumber: start,
		EndNumber:   end,
		NextNumber:  next,
		AuditFields: domain.AuditFields{CreatedAt: baseTime, CreatedBy: "seed", LastUpdatedAt: baseTime, LastUpdatedBy: "seed"},
	}))
	if active {
		require.NoError(t, store.ActivateChequeBook(ctx, id, "seed", baseTime))
	}
}

func seedTemplate(t *testing.T, store *memory.Store, id string) domain.ChequeTemplate {
	t.Helper()
	tpl := domain.ChequeTemplate{
		TemplateID:   id,
		BankName:     "State Bank",
		TemplateName: "CTS " + id,
		Fields: domain.FieldPositions{
			Date:         geometry.Point{X: 160, Y: 8},
			Payee:        geometry.Point{X: 20, Y: 22},
			AmountWords:  geometry.Point{X: 30, Y: 32},
			AmountDigits: geometry.Point{X: 160, Y: 40},
			Signature:    geometry.Point{X: 150, Y: 60},
		},
		FontFamily: "Helvetica",
		FontSize:   12,
		FontColor:  "#000000",
		MICR:       domain.MICRSettings{Enabled: true, Anchor: geometry.Point{X: 60, Y: 90}, Code: "400002000"},
	}
	require.NoError(t, store.SaveTemplate(context.Background(), tpl))
	return tpl
}

// seedQueue enqueues items one second apart so FIFO order is the argument order.
func seedQueue(t *testing.T, store *memory.Store, payees ...string) []domain.PrintQueueItem {
	t.Helper()
	items := make([]domain.PrintQueueItem, len(payees))
	for i, payee := range payees {
		items[i] = domain.PrintQueueItem{
			ItemID:     fmt.Sprintf("item-%02d", len(payees)-i), // ids deliberately sort against FIFO
			PayeeName:  payee,
			Amount:     decimal.NewFromInt(int64(1000 * (i + 1))),
			ChequeDate: baseTime,
			CreatedAt:  baseTime.Add(time.Duration(i) * time.Second),
			CreatedBy:  "seed",
		}
		require.NoError(t, store.EnqueueItem(context.Background(), items[i]))
	}
	return items
}

// fakeSubmitter records jobs and returns err. When block is set Submit waits
// on it, signalling started first.
type fakeSubmitter struct {
	mu      sync.Mutex
	jobs    []ports.PrintJob
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, job ports.PrintJob) (string, error) {
	if f.block != nil {
		close(f.started)
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.jobs = append(f.jobs, job)
	return fmt.Sprintf("job-%d", len(f.jobs)), nil
}

func (f *fakeSubmitter) Jobs() []ports.PrintJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.PrintJob(nil), f.jobs...)
}

// writerFunc captures laid-out pages and writes a stub document.
type writerFunc func(pages []render.Page)

func (f writerFunc) Write(w io.Writer, pages []render.Page) error {
	f(pages)
	_, err := w.Write([]byte("%PDF-stub"))
	return err
}
