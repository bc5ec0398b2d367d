package mapping

import (
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/models"
)

// ToModelCreditProduct converts a domain CreditProduct to a model CreditProduct
func ToModelCreditProduct(d domain.CreditProduct) models.CreditProduct {
	return models.CreditProduct{
		ProductID:             d.ProductID,
		Name:                  d.Name,
		CreditType:            string(d.CreditType),
		MinAmount:             d.MinAmount,
		MaxAmount:             d.MaxAmount,
		MinInterestRate:       d.MinInterestRate,
		MaxInterestRate:       d.MaxInterestRate,
		MinTermMonths:         d.MinTermMonths,
		MaxTermMonths:         d.MaxTermMonths,
		CurrencyCode:          d.CurrencyCode,
		PaymentMethod:         string(d.PaymentMethod),
		EarlyRepaymentAllowed: d.EarlyRepaymentAllowed,
		RequiresCollateral:    d.RequiresCollateral,
		RequiresGuarantor:     d.RequiresGuarantor,
		Description:           d.Description,
		IsActive:              d.IsActive,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditProduct converts a model CreditProduct to a domain CreditProduct
func ToDomainCreditProduct(m models.CreditProduct) domain.CreditProduct {
	return domain.CreditProduct{
		ProductID:             m.ProductID,
		Name:                  m.Name,
		CreditType:            domain.CreditType(m.CreditType),
		MinAmount:             m.MinAmount,
		MaxAmount:             m.MaxAmount,
		MinInterestRate:       m.MinInterestRate,
		MaxInterestRate:       m.MaxInterestRate,
		MinTermMonths:         m.MinTermMonths,
		MaxTermMonths:         m.MaxTermMonths,
		CurrencyCode:          m.CurrencyCode,
		PaymentMethod:         domain.PaymentMethod(m.PaymentMethod),
		EarlyRepaymentAllowed: m.EarlyRepaymentAllowed,
		RequiresCollateral:    m.RequiresCollateral,
		RequiresGuarantor:     m.RequiresGuarantor,
		Description:           m.Description,
		IsActive:              m.IsActive,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCredit converts a domain Credit to a model Credit
func ToModelCredit(d domain.Credit) models.Credit {
	return models.Credit{
		CreditID:          d.CreditID,
		ClientID:          d.ClientID,
		AccountID:         d.AccountID,
		ProductID:         d.ProductID,
		ApplicationNumber: d.ApplicationNumber,
		ContractNumber:    d.ContractNumber,
		Amount:            d.Amount,
		InterestRate:      d.InterestRate,
		TermMonths:        d.TermMonths,
		Status:            string(d.Status),
		Purpose:           d.Purpose,
		StartDate:         d.StartDate,
		EndDate:           d.EndDate,
		NextPaymentDate:   d.NextPaymentDate,
		RemainingBalance:  d.RemainingBalance,
		TotalPaid:         d.TotalPaid,
		OverdueAmount:     d.OverdueAmount,
		OverdueDays:       d.OverdueDays,
		RejectionReason:   d.RejectionReason,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCredit converts a model Credit to a domain Credit
func ToDomainCredit(m models.Credit) domain.Credit {
	return domain.Credit{
		CreditID:          m.CreditID,
		ClientID:          m.ClientID,
		AccountID:         m.AccountID,
		ProductID:         m.ProductID,
		ApplicationNumber: m.ApplicationNumber,
		ContractNumber:    m.ContractNumber,
		Amount:            m.Amount,
		InterestRate:      m.InterestRate,
		TermMonths:        m.TermMonths,
		Status:            domain.CreditStatus(m.Status),
		Purpose:           m.Purpose,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		NextPaymentDate:   m.NextPaymentDate,
		RemainingBalance:  m.RemainingBalance,
		TotalPaid:         m.TotalPaid,
		OverdueAmount:     m.OverdueAmount,
		OverdueDays:       m.OverdueDays,
		RejectionReason:   m.RejectionReason,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCreditPayment converts a domain CreditPayment to a model CreditPayment
func ToModelCreditPayment(d domain.CreditPayment) models.CreditPayment {
	return models.CreditPayment{
		PaymentID:       d.PaymentID,
		CreditID:        d.CreditID,
		PaymentNumber:   d.PaymentNumber,
		PaymentDate:     d.PaymentDate,
		DueDate:         d.DueDate,
		Amount:          d.Amount,
		PrincipalAmount: d.PrincipalAmount,
		InterestAmount:  d.InterestAmount,
		PenaltyAmount:   d.PenaltyAmount,
		Status:          string(d.Status),
		Method:          string(d.Method),
		TransactionID:   d.TransactionID,
		ProcessedAt:     d.ProcessedAt,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainCreditPayment converts a model CreditPayment to a domain CreditPayment
func ToDomainCreditPayment(m models.CreditPayment) domain.CreditPayment {
	return domain.CreditPayment{
		PaymentID:       m.PaymentID,
		CreditID:        m.CreditID,
		PaymentNumber:   m.PaymentNumber,
		PaymentDate:     m.PaymentDate,
		DueDate:         m.DueDate,
		Amount:          m.Amount,
		PrincipalAmount: m.PrincipalAmount,
		InterestAmount:  m.InterestAmount,
		PenaltyAmount:   m.PenaltyAmount,
		Status:          domain.CreditPaymentStatus(m.Status),
		Method:          domain.CreditPaymentMethod(m.Method),
		TransactionID:   m.TransactionID,
		ProcessedAt:     m.ProcessedAt,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}
