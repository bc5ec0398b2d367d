package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// CreateCreditProductRequest defines the data needed to create a credit product.
type CreateCreditProductRequest struct {
	Name                  string               `json:"name" binding:"required"`
	CreditType            domain.CreditType    `json:"creditType" binding:"required,oneof=consumer mortgage auto_loan business credit_card"`
	MinAmount             decimal.Decimal      `json:"minAmount" binding:"required"`
	MaxAmount             decimal.Decimal      `json:"maxAmount" binding:"required"`
	MinInterestRate       decimal.Decimal      `json:"minInterestRate" binding:"required"`
	MaxInterestRate       decimal.Decimal      `json:"maxInterestRate" binding:"required"`
	MinTermMonths         int                  `json:"minTermMonths" binding:"required,min=1"`
	MaxTermMonths         int                  `json:"maxTermMonths" binding:"required,min=1"`
	CurrencyCode          string               `json:"currencyCode" binding:"required,uppercase,len=3"`
	PaymentMethod         domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=annuity differentiated"`
	EarlyRepaymentAllowed bool                 `json:"earlyRepaymentAllowed"`
	RequiresCollateral    bool                 `json:"requiresCollateral"`
	RequiresGuarantor     bool                 `json:"requiresGuarantor"`
	Description           string               `json:"description"`
}

// CreditProductResponse defines the data returned for a credit product.
type CreditProductResponse struct {
	ProductID             string               `json:"productID"`
	Name                  string               `json:"name"`
	CreditType            domain.CreditType    `json:"creditType"`
	MinAmount             decimal.Decimal      `json:"minAmount"`
	MaxAmount             decimal.Decimal      `json:"maxAmount"`
	MinInterestRate       decimal.Decimal      `json:"minInterestRate"`
	MaxInterestRate       decimal.Decimal      `json:"maxInterestRate"`
	MinTermMonths         int                  `json:"minTermMonths"`
	MaxTermMonths         int                  `json:"maxTermMonths"`
	CurrencyCode          string               `json:"currencyCode"`
	PaymentMethod         domain.PaymentMethod `json:"paymentMethod"`
	EarlyRepaymentAllowed bool                 `json:"earlyRepaymentAllowed"`
	RequiresCollateral    bool                 `json:"requiresCollateral"`
	RequiresGuarantor     bool                 `json:"requiresGuarantor"`
	Description           string               `json:"description"`
	IsActive              bool                 `json:"isActive"`
}

// ToCreditProductResponse converts a domain.CreditProduct to its response DTO
func ToCreditProductResponse(p *domain.CreditProduct) CreditProductResponse {
	return CreditProductResponse{
		ProductID:             p.ProductID,
		Name:                  p.Name,
		CreditType:            p.CreditType,
		MinAmount:             p.MinAmount,
		MaxAmount:             p.MaxAmount,
		MinInterestRate:       p.MinInterestRate,
		MaxInterestRate:       p.MaxInterestRate,
		MinTermMonths:         p.MinTermMonths,
		MaxTermMonths:         p.MaxTermMonths,
		CurrencyCode:          p.CurrencyCode,
		PaymentMethod:         p.PaymentMethod,
		EarlyRepaymentAllowed: p.EarlyRepaymentAllowed,
		RequiresCollateral:    p.RequiresCollateral,
		RequiresGuarantor:     p.RequiresGuarantor,
		Description:           p.Description,
		IsActive:              p.IsActive,
	}
}

// ToListCreditProductResponse converts a slice of credit products to response DTOs
func ToListCreditProductResponse(products []domain.CreditProduct) []CreditProductResponse {
	res := make([]CreditProductResponse, len(products))
	for i, p := range products {
		res[i] = ToCreditProductResponse(&p)
	}
	return res
}

// CreateCreditApplicationRequest defines the data needed to file a credit application.
type CreateCreditApplicationRequest struct {
	ClientID     string          `json:"clientID" binding:"required"`
	AccountID    string          `json:"accountID" binding:"required"`
	ProductID    string          `json:"productID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,positivedec"`
	InterestRate decimal.Decimal `json:"interestRate" binding:"required"`
	TermMonths   int             `json:"termMonths" binding:"required,min=1"`
	Purpose      string          `json:"purpose"`
}

// RejectCreditRequest defines the data needed to reject an application.
type RejectCreditRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MakeCreditPaymentRequest defines the data needed to pay against a credit.
type MakeCreditPaymentRequest struct {
	Amount decimal.Decimal            `json:"amount" binding:"required,positivedec"`
	Method domain.CreditPaymentMethod `json:"method" binding:"omitempty,oneof=auto manual transfer cash"`
}

// CreditResponse defines the data returned for a credit contract.
type CreditResponse struct {
	CreditID          string              `json:"creditID"`
	ClientID          string              `json:"clientID"`
	AccountID         string              `json:"accountID"`
	ProductID         string              `json:"productID"`
	ApplicationNumber string              `json:"applicationNumber"`
	ContractNumber    *string             `json:"contractNumber,omitempty"`
	Amount            decimal.Decimal     `json:"amount"`
	InterestRate      decimal.Decimal     `json:"interestRate"`
	TermMonths        int                 `json:"termMonths"`
	Status            domain.CreditStatus `json:"status"`
	Purpose           string              `json:"purpose"`
	StartDate         *time.Time          `json:"startDate,omitempty"`
	EndDate           *time.Time          `json:"endDate,omitempty"`
	NextPaymentDate   *time.Time          `json:"nextPaymentDate,omitempty"`
	RemainingBalance  decimal.Decimal     `json:"remainingBalance"`
	TotalPaid         decimal.Decimal     `json:"totalPaid"`
	OverdueAmount     decimal.Decimal     `json:"overdueAmount"`
	OverdueDays       int                 `json:"overdueDays"`
	RejectionReason   string              `json:"rejectionReason,omitempty"`
}

// ToCreditResponse converts a domain.Credit to CreditResponse DTO
func ToCreditResponse(c *domain.Credit) CreditResponse {
	return CreditResponse{
		CreditID:          c.CreditID,
		ClientID:          c.ClientID,
		AccountID:         c.AccountID,
		ProductID:         c.ProductID,
		ApplicationNumber: c.ApplicationNumber,
		ContractNumber:    c.ContractNumber,
		Amount:            c.Amount,
		InterestRate:      c.InterestRate,
		TermMonths:        c.TermMonths,
		Status:            c.Status,
		Purpose:           c.Purpose,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		NextPaymentDate:   c.NextPaymentDate,
		RemainingBalance:  c.RemainingBalance,
		TotalPaid:         c.TotalPaid,
		OverdueAmount:     c.OverdueAmount,
		OverdueDays:       c.OverdueDays,
		RejectionReason:   c.RejectionReason,
	}
}

// ToListCreditResponse converts a slice of domain.Credit to response DTOs
func ToListCreditResponse(credits []domain.Credit) []CreditResponse {
	res := make([]CreditResponse, len(credits))
	for i, c := range credits {
		res[i] = ToCreditResponse(&c)
	}
	return res
}

// CreditPaymentResponse defines the data returned for one payment.
type CreditPaymentResponse struct {
	PaymentID       string                     `json:"paymentID"`
	CreditID        string                     `json:"creditID"`
	PaymentNumber   int                        `json:"paymentNumber"`
	PaymentDate     time.Time                  `json:"paymentDate"`
	DueDate         time.Time                  `json:"dueDate"`
	Amount          decimal.Decimal            `json:"amount"`
	PrincipalAmount decimal.Decimal            `json:"principalAmount"`
	InterestAmount  decimal.Decimal            `json:"interestAmount"`
	PenaltyAmount   decimal.Decimal            `json:"penaltyAmount"`
	Status          domain.CreditPaymentStatus `json:"status"`
	Method          domain.CreditPaymentMethod `json:"method"`
	TransactionID   *string                    `json:"transactionID,omitempty"`
	ProcessedAt     *time.Time                 `json:"processedAt,omitempty"`
	Notes           string                     `json:"notes,omitempty"`
}

// ToCreditPaymentResponse converts a domain.CreditPayment to its response DTO
func ToCreditPaymentResponse(p *domain.CreditPayment) CreditPaymentResponse {
	return CreditPaymentResponse{
		PaymentID:       p.PaymentID,
		CreditID:        p.CreditID,
		PaymentNumber:   p.PaymentNumber,
		PaymentDate:     p.PaymentDate,
		DueDate:         p.DueDate,
		Amount:          p.Amount,
		PrincipalAmount: p.PrincipalAmount,
		InterestAmount:  p.InterestAmount,
		PenaltyAmount:   p.PenaltyAmount,
		Status:          p.Status,
		Method:          p.Method,
		TransactionID:   p.TransactionID,
		ProcessedAt:     p.ProcessedAt,
		Notes:           p.Notes,
	}
}

// ToListCreditPaymentResponse converts a slice of credit payments to response DTOs
func ToListCreditPaymentResponse(payments []domain.CreditPayment) []CreditPaymentResponse {
	res := make([]CreditPaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToCreditPaymentResponse(&p)
	}
	return res
}

// ScheduleEntryResponse defines one row of a payment schedule.
type ScheduleEntryResponse struct {
	PaymentNumber    int             `json:"paymentNumber"`
	PaymentDate      time.Time       `json:"paymentDate"`
	PrincipalAmount  decimal.Decimal `json:"principalAmount"`
	InterestAmount   decimal.Decimal `json:"interestAmount"`
	TotalPayment     decimal.Decimal `json:"totalPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// ScheduleResponse wraps a full payment schedule.
type ScheduleResponse struct {
	CreditID string                  `json:"creditID"`
	Entries  []ScheduleEntryResponse `json:"entries"`
}

// NextPaymentResponse defines the breakdown of the next scheduled payment.
type NextPaymentResponse struct {
	CreditID        string          `json:"creditID"`
	PaymentNumber   int             `json:"paymentNumber"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	InterestAmount  decimal.Decimal `json:"interestAmount"`
	PenaltyAmount   decimal.Decimal `json:"penaltyAmount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

// EarlyRepaymentResponse defines the full payoff quote for a credit.
type EarlyRepaymentResponse struct {
	CreditID         string          `json:"creditID"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	OverdueAmount    decimal.Decimal `json:"overdueAmount"`
	PenaltyAmount    decimal.Decimal `json:"penaltyAmount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Allowed          bool            `json:"allowed"`
}
