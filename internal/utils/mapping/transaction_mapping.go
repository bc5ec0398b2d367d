package mapping

import (
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		ReferenceNumber: d.ReferenceNumber,
		FromAccountID:   d.FromAccountID,
		ToAccountID:     d.ToAccountID,
		Amount:          d.Amount,
		Fee:             d.Fee,
		CurrencyCode:    d.CurrencyCode,
		TransactionType: string(d.Type),
		Status:          string(d.Status),
		Description:     d.Description,
		CreditID:        d.CreditID,
		DepositID:       d.DepositID,
		CreatedAt:       d.CreatedAt,
		ExecutedAt:      d.ExecutedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		ReferenceNumber: m.ReferenceNumber,
		FromAccountID:   m.FromAccountID,
		ToAccountID:     m.ToAccountID,
		Amount:          m.Amount,
		Fee:             m.Fee,
		CurrencyCode:    m.CurrencyCode,
		Type:            domain.TransactionType(m.TransactionType),
		Status:          domain.TransactionStatus(m.Status),
		Description:     m.Description,
		CreditID:        m.CreditID,
		DepositID:       m.DepositID,
		CreatedAt:       m.CreatedAt,
		ExecutedAt:      m.ExecutedAt,
		CreatedBy:       m.CreatedBy,
	}
}
