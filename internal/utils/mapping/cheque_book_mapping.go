package mapping

import (
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/models"
)

// ToModelChequeBook converts a domain ChequeBook to a model ChequeBook
func ToModelChequeBook(d domain.ChequeBook) models.ChequeBook {
	return models.ChequeBook{
		BookID:      d.BookID,
		BookName:    d.BookName,
		BankName:    d.BankName,
		StartNumber: d.StartNumber,
		EndNumber:   d.EndNumber,
		NextNumber:  d.NextNumber,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainChequeBook converts a model ChequeBook to a domain ChequeBook
func ToDomainChequeBook(m models.ChequeBook) domain.ChequeBook {
	return domain.ChequeBook{
		BookID:      m.BookID,
		BookName:    m.BookName,
		BankName:    m.BankName,
		StartNumber: m.StartNumber,
		EndNumber:   m.EndNumber,
		NextNumber:  m.NextNumber,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainChequeBookSlice converts a slice of model books to domain books
func ToDomainChequeBookSlice(ms []models.ChequeBook) []domain.ChequeBook {
	ds := make([]domain.ChequeBook, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainChequeBook(m)
	}
	return ds
}
