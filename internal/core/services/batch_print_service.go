package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/core/ports"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/locks"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Renderer bundles what the batch printer needs to turn cheques into a document.
type Renderer struct {
	Engine *render.Engine
	Images *render.ImageProcessor
	Writer render.DocumentWriter
}

// BatchPrintService implements BatchPrintSvc and PreviewSvc.
type BatchPrintService struct {
	BaseService
	bookRepo      portsrepo.ChequeBookReader
	templateRepo  portsrepo.TemplateReader
	signatureRepo portsrepo.SignatureRepositoryFacade
	queueRepo     portsrepo.PrintQueueRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	voidRepo      portsrepo.VoidRangeRepositoryFacade
	purchaseRepo  portsrepo.PurchaseRepositoryFacade

	allocator portssvc.LeafAllocatorSvc
	renderer  Renderer
	submitter ports.PrintSubmitter

	activeSignatureID string
	running           *locks.TryLocks
	now               func() time.Time
}

// BatchOption is a functional option for configuring the batch printer
type BatchOption func(*BatchPrintService)

// WithActiveSignatureID sets the signature used when a request names none.
func WithActiveSignatureID(id string) BatchOption {
	return func(s *BatchPrintService) {
		s.activeSignatureID = id
	}
}

// WithClock overrides the time source used for ledger timestamps.
func WithClock(now func() time.Time) BatchOption {
	return func(s *BatchPrintService) {
		s.now = now
	}
}

// NewBatchPrintService wires the batch orchestrator.
func NewBatchPrintService(repos portsrepo.RepositoryProvider, allocator portssvc.LeafAllocatorSvc, renderer Renderer, submitter ports.PrintSubmitter, options ...BatchOption) *BatchPrintService {
	s := &BatchPrintService{
		bookRepo:      repos.ChequeBookRepo,
		templateRepo:  repos.TemplateRepo,
		signatureRepo: repos.SignatureRepo,
		queueRepo:     repos.QueueRepo,
		ledgerRepo:    repos.LedgerRepo,
		voidRepo:      repos.VoidRangeRepo,
		purchaseRepo:  repos.PurchaseRepo,
		allocator:     allocator,
		renderer:      renderer,
		submitter:     submitter,
		running:       &locks.TryLocks{},
		now:           time.Now,
	}
	if s.renderer.Writer == nil {
		s.renderer.Writer = render.PDFWriter{}
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// printQueueLockKey guards the single shared print queue.
const printQueueLockKey = "print-queue"

var (
	_ portssvc.BatchPrintSvc = (*BatchPrintService)(nil)
	_ portssvc.PreviewSvc    = (*BatchPrintService)(nil)
)

// batchRun carries one batch through the state machine.
type batchRun struct {
	req         domain.BatchPrintRequest
	result      *domain.PrintResult
	book        *domain.ChequeBook
	template    *domain.ChequeTemplate
	signature   *render.SignatureImage
	queue       []domain.PrintQueueItem
	reservation domain.LeafReservation
	document    []byte
}

func (s *BatchPrintService) PrintBatch(ctx context.Context, req domain.BatchPrintRequest) (*domain.PrintResult, error) {
	run := &batchRun{
		req:    req,
		result: &domain.PrintResult{BatchID: uuid.NewString(), AssignedNumbers: []int64{}},
	}
	logger := s.GetLogger(ctx).With(slog.String("batch_id", run.result.BatchID))
	ctx = middleware.WithLogger(ctx, logger)

	release, err := s.validate(ctx, run)
	if err != nil {
		return s.fail(ctx, run, err)
	}
	defer release()
	run.result.State = domain.BatchValidated

	res, err := s.allocator.Reserve(ctx, run.book.BookID, len(run.queue))
	if err != nil {
		return s.fail(ctx, run, err)
	}
	run.reservation = res
	run.result.AssignedNumbers = res.Numbers()
	run.result.State = domain.BatchReserved

	// Numbers are consumed from here on: every failure must leave a void record.
	if err := s.render(ctx, run); err != nil {
		return s.failReserved(ctx, run, err)
	}
	run.result.State = domain.BatchRendered

	jobID, err := s.submitter.Submit(ctx, ports.PrintJob{
		BatchID:  run.result.BatchID,
		Title:    fmt.Sprintf("Cheques %d-%d", res.FirstNumber, res.LastNumber()),
		Document: run.document,
		Pages:    len(run.queue),
		WidthMM:  s.renderer.Engine.PageSize().WidthMM,
		HeightMM: s.renderer.Engine.PageSize().HeightMM,
	})
	if err != nil {
		return s.failReserved(ctx, run, err)
	}
	run.result.State = domain.BatchSubmitted
	s.LogInfo(ctx, "Print job accepted", slog.String("job_id", jobID), slog.Int("pages", len(run.queue)))

	s.commit(ctx, run)
	return run.result, nil
}

// validate checks everything that can be checked before numbers are consumed.
// It returns the release for the print queue lock.
func (s *BatchPrintService) validate(ctx context.Context, run *batchRun) (func(), error) {
	if run.req.TemplateID == "" {
		return nil, fmt.Errorf("%w: a template must be selected", apperrors.ErrValidation)
	}

	// the queue is shared by every book, so one batch runs at a time
	release, ok := s.running.TryAcquire(printQueueLockKey)
	if !ok {
		return nil, apperrors.ErrBatchInProgress
	}
	validated := false
	defer func() {
		if !validated {
			release()
		}
	}()

	var book *domain.ChequeBook
	var err error
	if run.req.BookID == "" {
		book, err = s.bookRepo.FindActiveChequeBook(ctx)
	} else {
		book, err = s.bookRepo.FindChequeBookByID(ctx, run.req.BookID)
	}
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, fmt.Errorf("%w: cheque book %s is not the active book", apperrors.ErrValidation, book.BookID)
	}
	run.result.BookID = book.BookID

	tpl, err := s.templateRepo.FindTemplateByID(ctx, run.req.TemplateID)
	if err != nil {
		return nil, err
	}
	run.template = tpl

	queue, err := s.queueRepo.ListQueueFIFO(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read print queue: %w", err)
	}
	if len(queue) == 0 {
		return nil, fmt.Errorf("%w: print queue is empty", apperrors.ErrValidation)
	}
	// the book is re-read so the count and active flag are current
	if book, err = s.bookRepo.FindChequeBookByID(ctx, book.BookID); err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cheque book %s is no longer the active book", book.BookID))
	}
	run.book = book
	if remaining := book.RemainingLeaves(); int64(len(queue)) > remaining {
		return nil, fmt.Errorf("%w: %d cheques queued but book %s has %d leaves left",
			apperrors.ErrInsufficientLeaves, len(queue), book.BookID, remaining)
	}
	for _, item := range queue {
		if err := item.Request().Validate(); err != nil {
			return nil, fmt.Errorf("%w: queue item %s: %s", apperrors.ErrValidation, item.ItemID, err.Error())
		}
	}
	run.queue = queue

	sig, err := s.resolveSignature(ctx, run.req.SignatureID, tpl)
	if err != nil {
		return nil, err
	}
	run.signature = sig

	validated = true
	return release, nil
}

// resolveSignature picks the requested signature, then the configured one,
// then the first stored one, then the template's static image. A nil result
// means the cheque is printed unsigned.
func (s *BatchPrintService) resolveSignature(ctx context.Context, requestedID string, tpl *domain.ChequeTemplate) (*render.SignatureImage, error) {
	var asset *domain.SignatureAsset
	if requestedID != "" {
		sig, err := s.signatureRepo.FindSignatureByID(ctx, requestedID)
		if err != nil {
			return nil, err
		}
		asset = sig
	} else if s.activeSignatureID != "" {
		sig, err := s.signatureRepo.FindSignatureByID(ctx, s.activeSignatureID)
		switch {
		case err == nil:
			asset = sig
		case errors.Is(err, apperrors.ErrNotFound):
			s.LogWarn(ctx, "Configured signature not found, falling back", slog.String("signature_id", s.activeSignatureID))
		default:
			return nil, err
		}
	}
	if asset == nil {
		sigs, err := s.signatureRepo.ListSignatures(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list signatures: %w", err)
		}
		if len(sigs) > 0 {
			asset = &sigs[0]
		}
	}

	if s.renderer.Images == nil {
		return nil, nil
	}
	if asset != nil {
		img, err := s.renderer.Images.Signature(*asset)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %s: %s", apperrors.ErrValidation, asset.SignatureID, err.Error())
		}
		return img, nil
	}
	if tpl.Fields.SignatureImagePath != "" {
		img, err := s.renderer.Images.StaticSignature(tpl.Fields.SignatureImagePath)
		if err != nil {
			return nil, fmt.Errorf("%w: template signature: %s", apperrors.ErrValidation, err.Error())
		}
		return img, nil
	}
	return nil, nil
}

// render lays every cheque out in parallel and assembles one document.
func (s *BatchPrintService) render(ctx context.Context, run *batchRun) error {
	pages := make([]render.Page, len(run.queue))
	numbers := run.reservation.Numbers()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range run.queue {
		i := i
		g.Go(func() error {
			number := numbers[i]
			cheque := domain.RenderableCheque{ChequeRequest: run.queue[i].Request(), ChequeNumber: &number}
			page, err := s.renderer.Engine.Layout(cheque, *run.template, run.signature)
			if err != nil {
				return fmt.Errorf("layout cheque %d: %w", number, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.renderer.Writer.Write(&buf, pages); err != nil {
		return fmt.Errorf("assemble print document: %w", err)
	}
	run.document = buf.Bytes()
	return nil
}

// commit records a printed batch. Failures here cannot undo the paper, so
// they are collected into a warning instead of failing the batch.
func (s *BatchPrintService) commit(ctx context.Context, run *batchRun) {
	ctx = context.WithoutCancel(ctx)
	warning := &apperrors.PartialCommitWarning{BatchID: run.result.BatchID}
	numbers := run.reservation.Numbers()

	for i, item := range run.queue {
		if item.PurchaseID == nil {
			continue
		}
		if err := s.purchaseRepo.MarkPurchasePaid(ctx, *item.PurchaseID, numbers[i], item.ChequeDate); err != nil {
			warning.Add("purchase %s not marked paid for cheque %d: %v", *item.PurchaseID, numbers[i], err)
		}
	}

	if err := s.ledgerRepo.AppendLedgerEntries(ctx, s.ledgerEntries(run, domain.PrintSuccess, "")); err != nil {
		warning.Add("ledger entries not written: %v", err)
	}

	ids := make([]string, len(run.queue))
	for i, item := range run.queue {
		ids[i] = item.ItemID
	}
	if err := s.queueRepo.RemoveQueueItems(ctx, ids); err != nil {
		warning.Add("queue items not removed: %v", err)
	}

	run.result.State = domain.BatchCommitted
	run.result.SucceededCount = len(run.queue)
	if warning.HasFailures() {
		run.result.Warning = warning
		s.LogError(ctx, warning, "Batch printed with incomplete bookkeeping")
		return
	}
	s.LogInfo(ctx, "Batch committed",
		slog.String("book_id", run.book.BookID),
		slog.Int64("first_number", run.reservation.FirstNumber),
		slog.Int("count", run.reservation.Count))
}

// fail ends a batch that never consumed any numbers.
func (s *BatchPrintService) fail(ctx context.Context, run *batchRun, cause error) (*domain.PrintResult, error) {
	run.result.State = domain.BatchFailed
	run.result.FailureReason = cause.Error()
	run.result.AssignedNumbers = []int64{}
	s.LogInfo(ctx, "Batch rejected", slog.String("reason", cause.Error()))
	return run.result, cause
}

// failReserved ends a batch whose numbers were reserved but not printed. The
// numbers are voided rather than returned so the sequence never reissues a
// number that may have reached paper.
func (s *BatchPrintService) failReserved(ctx context.Context, run *batchRun, cause error) (*domain.PrintResult, error) {
	ctx = context.WithoutCancel(ctx)
	run.result.State = domain.BatchFailed
	run.result.FailureReason = cause.Error()
	s.LogError(ctx, cause, "Batch failed after reservation",
		slog.Int64("first_number", run.reservation.FirstNumber),
		slog.Int("count", run.reservation.Count))

	void := domain.VoidRange{
		VoidID:      uuid.NewString(),
		BookID:      run.book.BookID,
		BatchID:     run.result.BatchID,
		FirstNumber: run.reservation.FirstNumber,
		Count:       run.reservation.Count,
		Reason:      cause.Error(),
		CreatedAt:   s.now(),
		CreatedBy:   run.req.UserID,
	}
	if err := s.voidRepo.SaveVoidRange(ctx, void); err != nil {
		s.LogError(ctx, err, "Failed to record void range", slog.Int64("first_number", void.FirstNumber))
	}
	if err := s.ledgerRepo.AppendLedgerEntries(ctx, s.ledgerEntries(run, domain.PrintFailed, cause.Error())); err != nil {
		s.LogError(ctx, err, "Failed to record failed ledger entries")
	}
	return run.result, cause
}

func (s *BatchPrintService) ledgerEntries(run *batchRun, status domain.PrintStatus, remarks string) []domain.LedgerEntry {
	var userID *string
	if run.req.UserID != "" {
		id := run.req.UserID
		userID = &id
	}
	now := s.now()
	numbers := run.reservation.Numbers()
	entries := make([]domain.LedgerEntry, len(run.queue))
	for i, item := range run.queue {
		entries[i] = domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			UserID:       userID,
			BatchID:      run.result.BatchID,
			BookID:       run.book.BookID,
			TemplateID:   run.template.TemplateID,
			PayeeName:    item.PayeeName,
			Amount:       item.Amount,
			ChequeNumber: numbers[i],
			PrintStatus:  status,
			Remarks:      remarks,
			PrintedAt:    now,
		}
	}
	return entries
}

// Preview renders one unnumbered cheque over the template background.
func (s *BatchPrintService) Preview(ctx context.Context, req dto.PreviewRequest) ([]byte, error) {
	tpl, err := s.templateRepo.FindTemplateByID(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	date, err := dto.ParseChequeDate(req.ChequeDate, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cheque date: %s", apperrors.ErrValidation, err.Error())
	}
	cheque := domain.RenderableCheque{ChequeRequest: domain.ChequeRequest{
		PayeeName: req.PayeeName,
		Amount:    req.Amount.Round(2),
		Date:      date,
		IsAcPayee: req.IsAcPayee,
	}}
	if err := cheque.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	sig, err := s.resolveSignature(ctx, req.SignatureID, tpl)
	if err != nil {
		return nil, err
	}
	page, err := s.renderer.Engine.Layout(cheque, *tpl, sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if tpl.BackgroundImagePath != "" && s.renderer.Images != nil {
		bg, err := s.renderer.Images.Background(tpl.BackgroundImagePath)
		if err != nil {
			s.LogWarn(ctx, "Template background unavailable, previewing without it",
				slog.String("template_id", tpl.TemplateID), slog.String("error", err.Error()))
		} else {
			page = render.WithBackground(page, bg)
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.Writer.Write(&buf, []render.Page{page}); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}
