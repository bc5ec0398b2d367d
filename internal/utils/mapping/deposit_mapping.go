package mapping

import (
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/models"
)

// ToModelDeposit converts a domain Deposit to a model Deposit
func ToModelDeposit(d domain.Deposit) models.Deposit {
	return models.Deposit{
		DepositID:           d.DepositID,
		ClientID:            d.ClientID,
		AccountID:           d.AccountID,
		DepositType:         string(d.DepositType),
		Amount:              d.Amount,
		InterestRate:        d.InterestRate,
		TermMonths:          d.TermMonths,
		Capitalization:      string(d.Capitalization),
		Status:              string(d.Status),
		StartDate:           d.StartDate,
		EndDate:             d.EndDate,
		LastInterestAccrual: d.LastInterestAccrual,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDeposit converts a model Deposit to a domain Deposit
func ToDomainDeposit(m models.Deposit) domain.Deposit {
	return domain.Deposit{
		DepositID:           m.DepositID,
		ClientID:            m.ClientID,
		AccountID:           m.AccountID,
		DepositType:         domain.DepositType(m.DepositType),
		Amount:              m.Amount,
		InterestRate:        m.InterestRate,
		TermMonths:          m.TermMonths,
		Capitalization:      domain.Capitalization(m.Capitalization),
		Status:              domain.DepositStatus(m.Status),
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		LastInterestAccrual: m.LastInterestAccrual,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDepositInterestPayment converts a domain DepositInterestPayment to its model form
func ToModelDepositInterestPayment(d domain.DepositInterestPayment) models.DepositInterestPayment {
	return models.DepositInterestPayment{
		PaymentID:     d.PaymentID,
		DepositID:     d.DepositID,
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		Amount:        d.Amount,
		PaymentDate:   d.PaymentDate,
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainDepositInterestPayment converts a model DepositInterestPayment to its domain form
func ToDomainDepositInterestPayment(m models.DepositInterestPayment) domain.DepositInterestPayment {
	return domain.DepositInterestPayment{
		PaymentID:     m.PaymentID,
		DepositID:     m.DepositID,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
	}
}
