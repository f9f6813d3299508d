package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/core/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintQueueService_EnqueueListRemove(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPrintQueueService(memory.NewStore())

	first, err := svc.Enqueue(ctx, dto.EnqueueChequeRequest{
		PayeeName: "Alpha", Amount: decimal.NewNullDecimal(decimal.RequireFromString("10.005")), ChequeDate: "2024-03-07",
	}, "clerk")
	require.NoError(t, err)
	assert.Equal(t, "10.01", first.Amount.StringFixed(2))
	assert.True(t, first.ChequeDate.Equal(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)))

	time.Sleep(time.Millisecond)
	second, err := svc.Enqueue(ctx, dto.EnqueueChequeRequest{
		PayeeName: "Beta", Amount: decimal.NewNullDecimal(decimal.NewFromInt(20)), ChequeDate: "2024-03-08", IsAcPayee: true,
	}, "clerk")
	require.NoError(t, err)

	items, err := svc.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ItemID, items[0].ItemID)
	assert.Equal(t, second.ItemID, items[1].ItemID)

	require.NoError(t, svc.RemoveItems(ctx, []string{first.ItemID}, "clerk"))
	items, err = svc.ListQueue(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	assert.ErrorIs(t, svc.RemoveItems(ctx, nil, "clerk"), apperrors.ErrValidation)
}

func TestPrintQueueService_EnqueueValidation(t *testing.T) {
	svc := services.NewPrintQueueService(memory.NewStore())

	_, err := svc.Enqueue(context.Background(), dto.EnqueueChequeRequest{
		PayeeName: "Alpha", Amount: decimal.NewNullDecimal(decimal.NewFromInt(-5)), ChequeDate: "2024-03-07",
	}, "clerk")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Enqueue(context.Background(), dto.EnqueueChequeRequest{
		PayeeName: "Alpha", Amount: decimal.NewNullDecimal(decimal.NewFromInt(5)), ChequeDate: "07/03/2024",
	}, "clerk")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// a zero amount is a valid cheque and prints as "Zero Rupees Only"
	zero, err := svc.Enqueue(context.Background(), dto.EnqueueChequeRequest{
		PayeeName: "Alpha", Amount: decimal.NewNullDecimal(decimal.Zero), ChequeDate: "2024-03-07",
	}, "clerk")
	require.NoError(t, err)
	assert.True(t, zero.Amount.IsZero())
}

func TestLedgerService_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	var entries []domain.LedgerEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, domain.LedgerEntry{
			EntryID:      string(rune('a' + i)),
			BookID:       "b1",
			ChequeNumber: int64(100 + i),
			PrintStatus:  domain.PrintSuccess,
			PrintedAt:    baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, store.AppendLedgerEntries(ctx, entries))
	svc := services.NewLedgerService(store, store)

	page, err := svc.ListLedger(ctx, dto.ListLedgerParams{BookID: "b1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, int64(104), page.Entries[0].ChequeNumber)
	assert.Equal(t, int64(103), page.Entries[1].ChequeNumber)
	require.NotEmpty(t, page.NextToken)

	page, err = svc.ListLedger(ctx, dto.ListLedgerParams{BookID: "b1", Limit: 2, NextToken: page.NextToken})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, int64(102), page.Entries[0].ChequeNumber)

	page, err = svc.ListLedger(ctx, dto.ListLedgerParams{BookID: "b1", Limit: 2, NextToken: page.NextToken})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Empty(t, page.NextToken)

	_, err = svc.ListLedger(ctx, dto.ListLedgerParams{NextToken: "%%%"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	voids, err := svc.ListVoidRanges(ctx, "b1")
	require.NoError(t, err)
	assert.NotNil(t, voids)
	assert.Empty(t, voids)
}
