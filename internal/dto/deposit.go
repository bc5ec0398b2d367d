package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// OpenDepositRequest defines the data needed to open a deposit.
type OpenDepositRequest struct {
	ClientID       string                `json:"clientID" binding:"required"`
	AccountID      string                `json:"accountID" binding:"required"`
	DepositType    domain.DepositType    `json:"depositType" binding:"required,oneof=demand term savings"`
	Amount         decimal.Decimal       `json:"amount" binding:"required,positivedec"`
	InterestRate   decimal.Decimal       `json:"interestRate" binding:"required"`
	TermMonths     int                   `json:"termMonths" binding:"required,min=1"`
	Capitalization domain.Capitalization `json:"capitalization" binding:"required,oneof=monthly quarterly end_of_term none"`
	StartDate      *time.Time            `json:"startDate"` // Optional, defaults to today
}

// DepositResponse defines the data returned for a deposit.
type DepositResponse struct {
	DepositID           string                `json:"depositID"`
	ClientID            string                `json:"clientID"`
	AccountID           string                `json:"accountID"`
	DepositType         domain.DepositType    `json:"depositType"`
	Amount              decimal.Decimal       `json:"amount"`
	InterestRate        decimal.Decimal       `json:"interestRate"`
	TermMonths          int                   `json:"termMonths"`
	Capitalization      domain.Capitalization `json:"capitalization"`
	Status              domain.DepositStatus  `json:"status"`
	StartDate           time.Time             `json:"startDate"`
	EndDate             time.Time             `json:"endDate"`
	LastInterestAccrual *time.Time            `json:"lastInterestAccrual,omitempty"`
}

// ToDepositResponse converts a domain.Deposit to DepositResponse DTO
func ToDepositResponse(d *domain.Deposit) DepositResponse {
	return DepositResponse{
		DepositID:           d.DepositID,
		ClientID:            d.ClientID,
		AccountID:           d.AccountID,
		DepositType:         d.DepositType,
		Amount:              d.Amount,
		InterestRate:        d.InterestRate,
		TermMonths:          d.TermMonths,
		Capitalization:      d.Capitalization,
		Status:              d.Status,
		StartDate:           d.StartDate,
		EndDate:             d.EndDate,
		LastInterestAccrual: d.LastInterestAccrual,
	}
}

// ToListDepositResponse converts a slice of domain.Deposit to response DTOs
func ToListDepositResponse(deposits []domain.Deposit) []DepositResponse {
	res := make([]DepositResponse, len(deposits))
	for i, d := range deposits {
		res[i] = ToDepositResponse(&d)
	}
	return res
}

// DepositInterestPaymentResponse defines one accrual history entry.
type DepositInterestPaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	DepositID     string          `json:"depositID"`
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	TransactionID *string         `json:"transactionID,omitempty"`
}

// ToDepositInterestPaymentResponse converts an accrual entry to its response DTO
func ToDepositInterestPaymentResponse(p *domain.DepositInterestPayment) DepositInterestPaymentResponse {
	return DepositInterestPaymentResponse{
		PaymentID:     p.PaymentID,
		DepositID:     p.DepositID,
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		TransactionID: p.TransactionID,
	}
}

// ToListDepositInterestPaymentResponse converts accrual entries to response DTOs
func ToListDepositInterestPaymentResponse(payments []domain.DepositInterestPayment) []DepositInterestPaymentResponse {
	res := make([]DepositInterestPaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToDepositInterestPaymentResponse(&p)
	}
	return res
}
