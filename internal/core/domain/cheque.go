package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ChequeRequest is what a caller wants printed.
type ChequeRequest struct {
	PayeeName  string          `json:"payeeName"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	IsAcPayee  bool            `json:"isAcPayee"`
	PurchaseID *string         `json:"purchaseID,omitempty"`
}

// Validate checks the request is printable.
func (r ChequeRequest) Validate() error {
	if r.PayeeName == "" {
		return errors.New("payee name is required")
	}
	if r.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if r.Date.IsZero() {
		return errors.New("cheque date is required")
	}
	return nil
}

// RenderableCheque is the unit the render engine consumes. ChequeNumber is nil
// until the allocator assigns one.
type RenderableCheque struct {
	ChequeRequest
	ChequeNumber *int64 `json:"chequeNumber,omitempty"`
}
