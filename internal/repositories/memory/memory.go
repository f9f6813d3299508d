// Package memory holds in-process repository implementations used by tests
// and by the printer when it runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/SscSPs/cheque_printer/internal/utils/pagination"
)

// Store backs every repository port with maps guarded by one mutex.
type Store struct {
	mu         sync.Mutex
	books      map[string]domain.ChequeBook
	activeBook string
	templates  map[string]domain.ChequeTemplate
	signatures []domain.SignatureAsset
	queue      map[string]domain.PrintQueueItem
	ledger     []domain.LedgerEntry
	voids      []domain.VoidRange
	purchases  map[string]PurchaseRecord

	// Failure injection for tests
	FailLedgerAppend error
	FailQueueRemove  error
	FailMarkPaid     error
}

// PurchaseRecord is the printer-visible state of a purchase.
type PurchaseRecord struct {
	Status       domain.PurchaseStatus
	ChequeNumber int64
	ChequeDate   time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		books:     make(map[string]domain.ChequeBook),
		templates: make(map[string]domain.ChequeTemplate),
		queue:     make(map[string]domain.PrintQueueItem),
		purchases: make(map[string]PurchaseRecord),
	}
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ChequeBookRepo: s,
		TemplateRepo:   s,
		SignatureRepo:  s,
		QueueRepo:      s,
		LedgerRepo:     s,
		VoidRangeRepo:  s,
		PurchaseRepo:   s,
	}
}

var (
	_ portsrepo.ChequeBookRepositoryFacade = (*Store)(nil)
	_ portsrepo.TemplateRepositoryFacade   = (*Store)(nil)
	_ portsrepo.SignatureRepositoryFacade  = (*Store)(nil)
	_ portsrepo.PrintQueueRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade     = (*Store)(nil)
	_ portsrepo.VoidRangeRepositoryFacade  = (*Store)(nil)
	_ portsrepo.PurchaseRepositoryFacade   = (*Store)(nil)
)

// --- cheque books ---

func (s *Store) withActive(b domain.ChequeBook) domain.ChequeBook {
	b.IsActive = b.BookID == s.activeBook
	return b
}

func (s *Store) FindChequeBookByID(_ context.Context, bookID string) (*domain.ChequeBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[bookID]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	b = s.withActive(b)
	return &b, nil
}

func (s *Store) FindActiveChequeBook(_ context.Context) (*domain.ChequeBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[s.activeBook]
	if !ok {
		return nil, apperrors.ErrNoActiveBook
	}
	b = s.withActive(b)
	return &b, nil
}

func (s *Store) ListChequeBooks(_ context.Context, limit int, offset int) ([]domain.ChequeBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	books := make([]domain.ChequeBook, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, s.withActive(b))
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].BookID < books[j].BookID
		}
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})
	return page(books, limit, offset), nil
}

func (s *Store) SaveChequeBook(_ context.Context, book domain.ChequeBook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[book.BookID]; ok {
		return fmt.Errorf("%w: cheque book %s", apperrors.ErrDuplicate, book.BookID)
	}
	book.IsActive = false
	s.books[book.BookID] = book
	return nil
}

// UpdateChequeBook refuses to move next_number backward, mirroring the
// guarded UPDATE of the PostgreSQL repository.
func (s *Store) UpdateChequeBook(_ context.Context, book domain.ChequeBook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.books[book.BookID]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	if book.NextNumber < stored.NextNumber {
		return apperrors.NewConflictError(fmt.Sprintf("cheque book %s next number is already %d", book.BookID, stored.NextNumber))
	}
	s.books[book.BookID] = book
	return nil
}

// ActivateChequeBook swaps the single active reference in one step.
func (s *Store) ActivateChequeBook(_ context.Context, bookID string, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[bookID]; !ok {
		return apperrors.ErrBookNotFound
	}
	s.activeBook = bookID
	return nil
}

func (s *Store) DeactivateChequeBook(_ context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[bookID]; !ok {
		return apperrors.ErrBookNotFound
	}
	if s.activeBook == bookID {
		s.activeBook = ""
	}
	return nil
}

// ReserveLeaves is the read-then-advance critical section, done under the store mutex.
func (s *Store) ReserveLeaves(_ context.Context, bookID string, count int) (domain.LeafReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[bookID]
	if !ok {
		return domain.LeafReservation{}, apperrors.ErrBookNotFound
	}
	if b.IsExhausted() {
		return domain.LeafReservation{}, fmt.Errorf("%w: book %s next number %d is past end number %d",
			apperrors.ErrBookExhausted, bookID, b.NextNumber, b.EndNumber)
	}
	first := b.NextNumber
	b.NextNumber += int64(count)
	s.books[bookID] = b
	return domain.LeafReservation{BookID: bookID, FirstNumber: first, Count: count}, nil
}

// --- templates and signatures ---

func (s *Store) FindTemplateByID(_ context.Context, templateID string) (*domain.ChequeTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, templateID)
	}
	return &t, nil
}

func (s *Store) ListTemplates(_ context.Context) ([]domain.ChequeTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChequeTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BankName != out[j].BankName {
			return out[i].BankName < out[j].BankName
		}
		return out[i].TemplateName < out[j].TemplateName
	})
	return out, nil
}

func (s *Store) IsTemplateReferenced(_ context.Context, templateID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.ledger {
		if e.TemplateID == templateID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveTemplate(_ context.Context, tpl domain.ChequeTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.TemplateID == tpl.TemplateID || (t.BankName == tpl.BankName && t.TemplateName == tpl.TemplateName) {
			return fmt.Errorf("%w: template %s/%s", apperrors.ErrDuplicate, tpl.BankName, tpl.TemplateName)
		}
	}
	s.templates[tpl.TemplateID] = tpl
	return nil
}

func (s *Store) UpdateTemplate(_ context.Context, tpl domain.ChequeTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.TemplateID]; !ok {
		return fmt.Errorf("%w: template %s", apperrors.ErrNotFound, tpl.TemplateID)
	}
	for id, t := range s.templates {
		if id != tpl.TemplateID && t.BankName == tpl.BankName && t.TemplateName == tpl.TemplateName {
			return fmt.Errorf("%w: template %s/%s", apperrors.ErrDuplicate, tpl.BankName, tpl.TemplateName)
		}
	}
	s.templates[tpl.TemplateID] = tpl
	return nil
}

func (s *Store) FindSignatureByID(_ context.Context, signatureID string) (*domain.SignatureAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range s.signatures {
		if sig.SignatureID == signatureID {
			return &sig, nil
		}
	}
	return nil, fmt.Errorf("%w: signature %s", apperrors.ErrNotFound, signatureID)
}

func (s *Store) ListSignatures(_ context.Context) ([]domain.SignatureAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SignatureAsset(nil), s.signatures...), nil
}

func (s *Store) SaveSignature(_ context.Context, sig domain.SignatureAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures = append(s.signatures, sig)
	return nil
}

// --- queue, ledger, voids, purchases ---

func (s *Store) ListQueueFIFO(_ context.Context) ([]domain.PrintQueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.PrintQueueItem, 0, len(s.queue))
	for _, it := range s.queue {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ItemID < items[j].ItemID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) EnqueueItem(_ context.Context, item domain.PrintQueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queue[item.ItemID]; ok {
		return fmt.Errorf("%w: queue item %s", apperrors.ErrDuplicate, item.ItemID)
	}
	s.queue[item.ItemID] = item
	return nil
}

func (s *Store) RemoveQueueItems(_ context.Context, itemIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailQueueRemove != nil {
		return s.FailQueueRemove
	}
	for _, id := range itemIDs {
		delete(s.queue, id)
	}
	return nil
}

func (s *Store) AppendLedgerEntries(_ context.Context, entries []domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLedgerAppend != nil {
		return s.FailLedgerAppend
	}
	s.ledger = append(s.ledger, entries...)
	return nil
}

// ListLedgerEntries pages newest first using the same token format as the database.
func (s *Store) ListLedgerEntries(_ context.Context, bookID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var afterTime time.Time
	var afterID string
	if nextToken != "" {
		t, id, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterTime, afterID = t, id
	}

	entries := make([]domain.LedgerEntry, 0, len(s.ledger))
	for _, e := range s.ledger {
		if bookID != "" && e.BookID != bookID {
			continue
		}
		if nextToken != "" && !pagination.Before(e.PrintedAt, e.EntryID, afterTime, afterID) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return pagination.Before(entries[j].PrintedAt, entries[j].EntryID, entries[i].PrintedAt, entries[i].EntryID)
	})

	if limit <= 0 || len(entries) <= limit {
		return entries, "", nil
	}
	last := entries[limit-1]
	return entries[:limit], pagination.EncodeToken(last.PrintedAt, last.EntryID), nil
}

// Ledger returns every entry in append order.
func (s *Store) Ledger() []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LedgerEntry(nil), s.ledger...)
}

func (s *Store) SaveVoidRange(_ context.Context, vr domain.VoidRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voids = append(s.voids, vr)
	return nil
}

func (s *Store) ListVoidRanges(_ context.Context, bookID string) ([]domain.VoidRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.VoidRange
	for _, v := range s.voids {
		if bookID == "" || v.BookID == bookID {
			out = append(out, v)
		}
	}
	return out, nil
}

// AddPurchase registers a pending purchase.
func (s *Store) AddPurchase(purchaseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[purchaseID] = PurchaseRecord{Status: domain.PurchasePending}
}

// Purchase returns the recorded state of a purchase.
func (s *Store) Purchase(purchaseID string) (PurchaseRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[purchaseID]
	return p, ok
}

func (s *Store) MarkPurchasePaid(_ context.Context, purchaseID string, chequeNumber int64, chequeDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailMarkPaid != nil {
		return s.FailMarkPaid
	}
	if _, ok := s.purchases[purchaseID]; !ok {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	s.purchases[purchaseID] = PurchaseRecord{Status: domain.PurchasePaid, ChequeNumber: chequeNumber, ChequeDate: chequeDate}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
