package dto

import (
	"time"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSignatureRequest registers a signature image already present in the asset directory.
type CreateSignatureRequest struct {
	Name          string  `json:"name" binding:"required"`
	Path          string  `json:"path" binding:"required"`
	Opacity       float64 `json:"opacity" binding:"omitempty,gt=0,lte=1"`
	Thickness     float64 `json:"thickness" binding:"omitempty,gte=1,lte=5"`
	IsTransparent bool    `json:"isTransparent"`
	Scale         float64 `json:"scale" binding:"omitempty,gt=0,lte=3"`
}

// EnqueueChequeRequest adds a cheque to the print queue.
type EnqueueChequeRequest struct {
	PurchaseID *string             `json:"purchaseID,omitempty"`
	PayeeName  string              `json:"payeeName" binding:"required,max=255"`
	Amount     decimal.NullDecimal `json:"amount" binding:"required,gte=0"`
	ChequeDate string              `json:"chequeDate" binding:"required,datetime=2006-01-02"`
	IsAcPayee  bool                `json:"isAcPayee"`
}

// RemoveQueueItemsRequest removes items from the print queue.
type RemoveQueueItemsRequest struct {
	ItemIDs []string `json:"itemIDs" binding:"required,min=1,dive,required"`
}

// PrintBatchRequest starts a batch print run over the whole queue.
type PrintBatchRequest struct {
	BookID      string `json:"bookID"`
	TemplateID  string `json:"templateID" binding:"required"`
	SignatureID string `json:"signatureID"`
}

// PrintBatchResponse reports a batch run.
type PrintBatchResponse struct {
	BatchID         string            `json:"batchID"`
	State           domain.BatchState `json:"state"`
	BookID          string            `json:"bookID,omitempty"`
	SucceededCount  int               `json:"succeededCount"`
	AssignedNumbers []int64           `json:"assignedNumbers"`
	FailureReason   string            `json:"failureReason,omitempty"`
	Warning         string            `json:"warning,omitempty"`
}

// ToPrintBatchResponse converts a PrintResult to its response DTO.
func ToPrintBatchResponse(r domain.PrintResult) PrintBatchResponse {
	res := PrintBatchResponse{
		BatchID:         r.BatchID,
		State:           r.State,
		BookID:          r.BookID,
		SucceededCount:  r.SucceededCount,
		AssignedNumbers: r.AssignedNumbers,
		FailureReason:   r.FailureReason,
	}
	if res.AssignedNumbers == nil {
		res.AssignedNumbers = []int64{}
	}
	if r.Warning != nil {
		res.Warning = r.Warning.Error()
	}
	return res
}

// PreviewRequest renders one unnumbered cheque over the template background.
type PreviewRequest struct {
	TemplateID  string          `json:"templateID" binding:"required"`
	SignatureID string          `json:"signatureID"`
	PayeeName   string          `json:"payeeName" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	ChequeDate  string          `json:"chequeDate" binding:"omitempty,datetime=2006-01-02"`
	IsAcPayee   bool            `json:"isAcPayee"`
}

// ListLedgerParams defines the query parameters for the ledger.
type ListLedgerParams struct {
	BookID    string `form:"bookID"`
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ListLedgerResponse is one page of the ledger.
type ListLedgerResponse struct {
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken string               `json:"nextToken,omitempty"`
}

// DateLayout is the accepted date format for cheque dates.
const DateLayout = "2006-01-02"

// ParseChequeDate parses a YYYY-MM-DD cheque date, defaulting to today when empty.
func ParseChequeDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(DateLayout, s)
}
