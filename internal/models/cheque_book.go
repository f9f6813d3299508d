package models

// ChequeBook is a cheque_books row joined with the active-book reference.
type ChequeBook struct {
	BookID      string `db:"book_id"`
	BookName    string `db:"book_name"`
	BankName    string `db:"bank_name"`
	StartNumber int64  `db:"start_number"`
	EndNumber   int64  `db:"end_number"`
	NextNumber  int64  `db:"next_number"`
	IsActive    bool   `db:"is_active"` // computed by the select, not a column
	AuditFields
}
