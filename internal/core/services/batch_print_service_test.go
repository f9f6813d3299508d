package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/core/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/SscSPs/cheque_printer/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BatchPrintServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	submitter *fakeSubmitter
	service   *services.BatchPrintService
	tpl       domain.ChequeTemplate
}

func (suite *BatchPrintServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.submitter = &fakeSubmitter{}
	suite.tpl = seedTemplate(suite.T(), suite.store, "tpl-1")
	suite.service = suite.newService()
}

func (suite *BatchPrintServiceTestSuite) newService() *services.BatchPrintService {
	engine, err := render.NewEngine(render.Options{})
	suite.Require().NoError(err)
	return services.NewBatchPrintService(
		suite.store.Provider(),
		services.NewLeafAllocator(suite.store),
		services.Renderer{Engine: engine, Writer: render.PDFWriter{}},
		suite.submitter,
		services.WithClock(func() time.Time { return baseTime }),
	)
}

func (suite *BatchPrintServiceTestSuite) request() domain.BatchPrintRequest {
	return domain.BatchPrintRequest{TemplateID: suite.tpl.TemplateID, UserID: "operator"}
}

func (suite *BatchPrintServiceTestSuite) book(id string) *domain.ChequeBook {
	b, err := suite.store.FindChequeBookByID(context.Background(), id)
	suite.Require().NoError(err)
	return b
}

func (suite *BatchPrintServiceTestSuite) queueLen() int {
	q, err := suite.store.ListQueueFIFO(context.Background())
	suite.Require().NoError(err)
	return len(q)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_AssignsNumbersInFIFOOrder() {
	seedBook(suite.T(), suite.store, "b1", 500, 549, 500, true)
	seedQueue(suite.T(), suite.store, "Alpha Traders", "Beta Supplies", "Gamma Works")

	result, err := suite.service.PrintBatch(context.Background(), suite.request())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchCommitted, result.State)
	suite.Equal(3, result.SucceededCount)
	suite.Equal([]int64{500, 501, 502}, result.AssignedNumbers)
	suite.Nil(result.Warning)

	ledger := suite.store.Ledger()
	suite.Require().Len(ledger, 3)
	byPayee := map[string]int64{}
	for _, e := range ledger {
		suite.Equal(domain.PrintSuccess, e.PrintStatus)
		suite.Equal(result.BatchID, e.BatchID)
		suite.Equal("b1", e.BookID)
		suite.Equal(suite.tpl.TemplateID, e.TemplateID)
		suite.Require().NotNil(e.UserID)
		suite.Equal("operator", *e.UserID)
		byPayee[e.PayeeName] = e.ChequeNumber
	}
	suite.Equal(map[string]int64{"Alpha Traders": 500, "Beta Supplies": 501, "Gamma Works": 502}, byPayee)

	suite.Equal(int64(503), suite.book("b1").NextNumber)
	suite.Equal(0, suite.queueLen())

	jobs := suite.submitter.Jobs()
	suite.Require().Len(jobs, 1)
	suite.Equal(3, jobs[0].Pages)
	suite.True(bytes.HasPrefix(jobs[0].Document, []byte("%PDF")))
	suite.InDelta(206.0, jobs[0].WidthMM, 1e-9)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_MarksLinkedPurchasesPaid() {
	seedBook(suite.T(), suite.store, "b1", 100, 199, 100, true)
	purchaseID := "purchase-1"
	suite.store.AddPurchase(purchaseID)
	suite.Require().NoError(suite.store.EnqueueItem(context.Background(), domain.PrintQueueItem{
		ItemID: "only", PurchaseID: &purchaseID, PayeeName: "Vendor", Amount: decimal.NewFromInt(250),
		ChequeDate: baseTime, CreatedAt: baseTime,
	}))

	_, err := suite.service.PrintBatch(context.Background(), suite.request())
	suite.Require().NoError(err)

	p, ok := suite.store.Purchase(purchaseID)
	suite.Require().True(ok)
	suite.Equal(domain.PurchasePaid, p.Status)
	suite.Equal(int64(100), p.ChequeNumber)
	suite.True(p.ChequeDate.Equal(baseTime))
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_BatchBoundary() {
	seedBook(suite.T(), suite.store, "b1", 1, 5, 1, true)
	seedQueue(suite.T(), suite.store, "p1", "p2", "p3", "p4", "p5", "p6")

	result, err := suite.service.PrintBatch(context.Background(), suite.request())

	suite.ErrorIs(err, apperrors.ErrInsufficientLeaves)
	suite.Require().NotNil(result)
	suite.Equal(domain.BatchFailed, result.State)
	suite.Empty(result.AssignedNumbers)
	// nothing was touched
	suite.Equal(int64(1), suite.book("b1").NextNumber)
	suite.Equal(6, suite.queueLen())
	suite.Empty(suite.store.Ledger())
	suite.Empty(suite.submitter.Jobs())

	// removing one item makes the same batch fit exactly
	suite.Require().NoError(suite.store.RemoveQueueItems(context.Background(), []string{"item-01"}))
	result, err = suite.service.PrintBatch(context.Background(), suite.request())
	suite.Require().NoError(err)
	suite.Equal([]int64{1, 2, 3, 4, 5}, result.AssignedNumbers)
	suite.True(suite.book("b1").IsExhausted())
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_ValidationFailuresHaveNoSideEffects() {
	ctx := context.Background()

	_, err := suite.service.PrintBatch(ctx, suite.request())
	suite.ErrorIs(err, apperrors.ErrNoActiveBook)

	seedBook(suite.T(), suite.store, "b1", 1, 50, 1, true)
	seedBook(suite.T(), suite.store, "b2", 51, 100, 51, false)

	_, err = suite.service.PrintBatch(ctx, suite.request())
	suite.ErrorIs(err, apperrors.ErrValidation, "empty queue")

	seedQueue(suite.T(), suite.store, "p1")

	req := suite.request()
	req.BookID = "b2"
	_, err = suite.service.PrintBatch(ctx, req)
	suite.ErrorIs(err, apperrors.ErrValidation, "inactive book")

	req = suite.request()
	req.TemplateID = "missing"
	_, err = suite.service.PrintBatch(ctx, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	req = suite.request()
	req.SignatureID = "missing"
	_, err = suite.service.PrintBatch(ctx, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Equal(int64(1), suite.book("b1").NextNumber)
	suite.Equal(1, suite.queueLen())
	suite.Empty(suite.submitter.Jobs())
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_PrintFailureVoidsReservedNumbers() {
	for _, cause := range []error{apperrors.ErrPrintCancelled, apperrors.ErrNoPrintDevice, apperrors.ErrPrintDeviceError} {
		suite.Run(cause.Error(), func() {
			suite.SetupTest()
			seedBook(suite.T(), suite.store, "b1", 700, 799, 700, true)
			seedQueue(suite.T(), suite.store, "p1", "p2")
			suite.submitter.err = cause

			result, err := suite.service.PrintBatch(context.Background(), suite.request())

			suite.ErrorIs(err, cause)
			suite.Equal(domain.BatchFailed, result.State)
			suite.Equal([]int64{700, 701}, result.AssignedNumbers)
			suite.Equal(0, result.SucceededCount)

			// numbers stay consumed and are explained by a void range
			suite.Equal(int64(702), suite.book("b1").NextNumber)
			voids, err := suite.store.ListVoidRanges(context.Background(), "b1")
			suite.Require().NoError(err)
			suite.Require().Len(voids, 1)
			suite.Equal(int64(700), voids[0].FirstNumber)
			suite.Equal(2, voids[0].Count)
			suite.Equal(result.BatchID, voids[0].BatchID)

			for _, e := range suite.store.Ledger() {
				suite.Equal(domain.PrintFailed, e.PrintStatus)
			}
			suite.Len(suite.store.Ledger(), 2)

			// the queue is kept so a retry prints on fresh numbers
			suite.Equal(2, suite.queueLen())
			suite.submitter.err = nil
			retry, err := suite.service.PrintBatch(context.Background(), suite.request())
			suite.Require().NoError(err)
			suite.Equal([]int64{702, 703}, retry.AssignedNumbers)
		})
	}
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_PartialCommitWarning() {
	seedBook(suite.T(), suite.store, "b1", 1, 50, 1, true)
	seedQueue(suite.T(), suite.store, "p1", "p2")
	suite.store.FailLedgerAppend = errors.New("ledger table locked")

	result, err := suite.service.PrintBatch(context.Background(), suite.request())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchCommitted, result.State)
	suite.Equal(2, result.SucceededCount)
	suite.Require().Error(result.Warning)
	suite.ErrorIs(result.Warning, apperrors.ErrPartialCommit)

	var warning *apperrors.PartialCommitWarning
	suite.Require().ErrorAs(result.Warning, &warning)
	suite.Equal(result.BatchID, warning.BatchID)
	suite.Len(warning.Failures, 1)
	suite.Contains(warning.Failures[0], "ledger table locked")

	// queue cleanup still ran
	suite.Equal(0, suite.queueLen())
	suite.Len(suite.submitter.Jobs(), 1)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_PurchaseUpdateFailureIsWarning() {
	seedBook(suite.T(), suite.store, "b1", 100, 199, 100, true)
	purchaseID := "purchase-7"
	suite.store.AddPurchase(purchaseID)
	suite.Require().NoError(suite.store.EnqueueItem(context.Background(), domain.PrintQueueItem{
		ItemID: "only", PurchaseID: &purchaseID, PayeeName: "Vendor", Amount: decimal.NewFromInt(250),
		ChequeDate: baseTime, CreatedAt: baseTime,
	}))
	suite.store.FailMarkPaid = errors.New("purchases table locked")

	result, err := suite.service.PrintBatch(context.Background(), suite.request())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchCommitted, result.State)
	suite.Equal([]int64{100}, result.AssignedNumbers)
	suite.ErrorIs(result.Warning, apperrors.ErrPartialCommit)

	var warning *apperrors.PartialCommitWarning
	suite.Require().ErrorAs(result.Warning, &warning)
	suite.Require().Len(warning.Failures, 1)
	suite.Contains(warning.Failures[0], purchaseID)
	suite.Contains(warning.Failures[0], "purchases table locked")

	ledger := suite.store.Ledger()
	suite.Require().Len(ledger, 1)
	suite.Equal(domain.PrintSuccess, ledger[0].PrintStatus)
	suite.Equal(int64(100), ledger[0].ChequeNumber)
	suite.Equal(0, suite.queueLen())

	p, ok := suite.store.Purchase(purchaseID)
	suite.Require().True(ok)
	suite.Equal(domain.PurchasePending, p.Status)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_QueueCleanupFailureIsWarning() {
	seedBook(suite.T(), suite.store, "b1", 1, 50, 1, true)
	seedQueue(suite.T(), suite.store, "p1", "p2")
	suite.store.FailQueueRemove = errors.New("queue table locked")

	result, err := suite.service.PrintBatch(context.Background(), suite.request())

	suite.Require().NoError(err)
	suite.Equal(domain.BatchCommitted, result.State)
	suite.Equal(2, result.SucceededCount)
	suite.ErrorIs(result.Warning, apperrors.ErrPartialCommit)

	var warning *apperrors.PartialCommitWarning
	suite.Require().ErrorAs(result.Warning, &warning)
	suite.Require().Len(warning.Failures, 1)
	suite.Contains(warning.Failures[0], "queue items not removed")
	suite.Contains(warning.Failures[0], "queue table locked")

	suite.Len(suite.store.Ledger(), 2)
	suite.Equal(2, suite.queueLen())
	suite.Equal(int64(3), suite.book("b1").NextNumber)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_RejectsConcurrentBatch() {
	seedBook(suite.T(), suite.store, "b1", 1, 50, 1, true)
	seedQueue(suite.T(), suite.store, "p1")
	suite.submitter.block = make(chan struct{})
	suite.submitter.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := suite.service.PrintBatch(context.Background(), suite.request())
		done <- err
	}()
	<-suite.submitter.started

	result, err := suite.service.PrintBatch(context.Background(), suite.request())
	suite.ErrorIs(err, apperrors.ErrBatchInProgress)
	suite.Equal(domain.BatchFailed, result.State)

	close(suite.submitter.block)
	suite.Require().NoError(<-done)
	suite.Equal(int64(2), suite.book("b1").NextNumber)
}

func (suite *BatchPrintServiceTestSuite) TestPrintBatch_SwitchingActiveBookMidBatchPrintsOnce() {
	ctx := context.Background()
	seedBook(suite.T(), suite.store, "b1", 100, 199, 100, true)
	seedBook(suite.T(), suite.store, "b2", 500, 599, 500, false)
	purchaseID := "purchase-9"
	suite.store.AddPurchase(purchaseID)
	suite.Require().NoError(suite.store.EnqueueItem(ctx, domain.PrintQueueItem{
		ItemID: "only", PurchaseID: &purchaseID, PayeeName: "Vendor", Amount: decimal.NewFromInt(900),
		ChequeDate: baseTime, CreatedAt: baseTime,
	}))
	suite.submitter.block = make(chan struct{})
	suite.submitter.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := suite.service.PrintBatch(ctx, suite.request())
		done <- err
	}()
	<-suite.submitter.started

	// the operator switches books while the first batch is at the printer
	suite.Require().NoError(suite.store.ActivateChequeBook(ctx, "b2", "operator", baseTime))

	result, err := suite.service.PrintBatch(ctx, suite.request())
	suite.ErrorIs(err, apperrors.ErrBatchInProgress)
	suite.Equal(domain.BatchFailed, result.State)

	close(suite.submitter.block)
	suite.Require().NoError(<-done)

	suite.Len(suite.submitter.Jobs(), 1)
	suite.Len(suite.store.Ledger(), 1)
	suite.Equal(0, suite.queueLen())
	p, ok := suite.store.Purchase(purchaseID)
	suite.Require().True(ok)
	suite.Equal(int64(100), p.ChequeNumber)
	suite.Equal(int64(500), suite.book("b2").NextNumber)

	_, err = suite.service.PrintBatch(ctx, suite.request())
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Len(suite.submitter.Jobs(), 1)
}

func (suite *BatchPrintServiceTestSuite) TestPreview_HasNoSideEffects() {
	seedBook(suite.T(), suite.store, "b1", 1, 50, 1, true)
	seedQueue(suite.T(), suite.store, "p1")

	pdf, err := suite.service.Preview(context.Background(), dto.PreviewRequest{
		TemplateID: suite.tpl.TemplateID,
		PayeeName:  "Preview Payee",
		Amount:     decimal.RequireFromString("10500.50"),
		IsAcPayee:  true,
	})

	suite.Require().NoError(err)
	suite.True(bytes.HasPrefix(pdf, []byte("%PDF")))
	suite.Equal(int64(1), suite.book("b1").NextNumber)
	suite.Equal(1, suite.queueLen())
	suite.Empty(suite.store.Ledger())
	suite.Empty(suite.submitter.Jobs())

	_, err = suite.service.Preview(context.Background(), dto.PreviewRequest{TemplateID: "missing", PayeeName: "x"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestBatchPrintServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchPrintServiceTestSuite))
}
