package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrintQueueItem is a cheque waiting for the next batch run.
type PrintQueueItem struct {
	ItemID     string          `json:"itemID" db:"item_id"`
	PurchaseID *string         `json:"purchaseID,omitempty" db:"purchase_id"`
	PayeeName  string          `json:"payeeName" db:"payee_name"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	ChequeDate time.Time       `json:"chequeDate" db:"cheque_date"`
	IsAcPayee  bool            `json:"isAcPayee" db:"is_ac_payee"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	CreatedBy  string          `json:"createdBy" db:"created_by"`
}

// Request converts the queue item into a cheque request.
func (i PrintQueueItem) Request() ChequeRequest {
	return ChequeRequest{
		PayeeName:  i.PayeeName,
		Amount:     i.Amount,
		Date:       i.ChequeDate,
		IsAcPayee:  i.IsAcPayee,
		PurchaseID: i.PurchaseID,
	}
}

// PrintStatus is the outcome recorded for one attempted cheque.
type PrintStatus string

const (
	PrintSuccess PrintStatus = "SUCCESS"
	PrintFailed  PrintStatus = "FAILED"
)

// LedgerEntry is the append-only audit record of one attempted cheque.
type LedgerEntry struct {
	EntryID      string          `json:"entryID" db:"entry_id"`
	UserID       *string         `json:"userID,omitempty" db:"user_id"`
	BatchID      string          `json:"batchID" db:"batch_id"`
	BookID       string          `json:"bookID" db:"book_id"`
	TemplateID   string          `json:"templateID" db:"template_id"`
	PayeeName    string          `json:"payeeName" db:"payee_name"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	ChequeNumber int64           `json:"chequeNumber" db:"cheque_number"`
	PrintStatus  PrintStatus     `json:"printStatus" db:"print_status"`
	Remarks      string          `json:"remarks" db:"remarks"`
	PrintedAt    time.Time       `json:"printedAt" db:"printed_at"`
}

// VoidRange records cheque numbers that were reserved but never physically
// printed, so every gap in a book's sequence has an explanation.
type VoidRange struct {
	VoidID      string    `json:"voidID" db:"void_id"`
	BookID      string    `json:"bookID" db:"book_id"`
	BatchID     string    `json:"batchID" db:"batch_id"`
	FirstNumber int64     `json:"firstNumber" db:"first_number"`
	Count       int       `json:"count" db:"count"`
	Reason      string    `json:"reason" db:"reason"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	CreatedBy   string    `json:"createdBy" db:"created_by"`
}

// PurchaseStatus is the payment state of a linked purchase.
type PurchaseStatus string

const (
	PurchasePending PurchaseStatus = "PENDING"
	PurchasePaid    PurchaseStatus = "PAID"
)
