package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditProduct is the storage representation of a credit product.
type CreditProduct struct {
	ProductID             string          `db:"product_id"`
	Name                  string          `db:"name"`
	CreditType            string          `db:"credit_type"`
	MinAmount             decimal.Decimal `db:"min_amount"`
	MaxAmount             decimal.Decimal `db:"max_amount"`
	MinInterestRate       decimal.Decimal `db:"min_interest_rate"`
	MaxInterestRate       decimal.Decimal `db:"max_interest_rate"`
	MinTermMonths         int             `db:"min_term_months"`
	MaxTermMonths         int             `db:"max_term_months"`
	CurrencyCode          string          `db:"currency_code"`
	PaymentMethod         string          `db:"payment_method"`
	EarlyRepaymentAllowed bool            `db:"early_repayment_allowed"`
	RequiresCollateral    bool            `db:"requires_collateral"`
	RequiresGuarantor     bool            `db:"requires_guarantor"`
	Description           string          `db:"description"`
	IsActive              bool            `db:"is_active"`
	AuditFields
}

// Credit is the storage representation of a credit contract.
type Credit struct {
	CreditID          string          `db:"credit_id"`
	ClientID          string          `db:"client_id"`
	AccountID         string          `db:"account_id"`
	ProductID         string          `db:"product_id"`
	ApplicationNumber string          `db:"application_number"`
	ContractNumber    *string         `db:"contract_number"`
	Amount            decimal.Decimal `db:"amount"`
	InterestRate      decimal.Decimal `db:"interest_rate"`
	TermMonths        int             `db:"term_months"`
	Status            string          `db:"status"`
	Purpose           string          `db:"purpose"`
	StartDate         *time.Time      `db:"start_date"`
	EndDate           *time.Time      `db:"end_date"`
	NextPaymentDate   *time.Time      `db:"next_payment_date"`
	RemainingBalance  decimal.Decimal `db:"remaining_balance"`
	TotalPaid         decimal.Decimal `db:"total_paid"`
	OverdueAmount     decimal.Decimal `db:"overdue_amount"`
	OverdueDays       int             `db:"overdue_days"`
	RejectionReason   string          `db:"rejection_reason"`
	AuditFields
}

// CreditPayment is the storage representation of one payment attempt.
// (credit_id, payment_number) is unique.
type CreditPayment struct {
	PaymentID       string          `db:"payment_id"`
	CreditID        string          `db:"credit_id"`
	PaymentNumber   int             `db:"payment_number"`
	PaymentDate     time.Time       `db:"payment_date"`
	DueDate         time.Time       `db:"due_date"`
	Amount          decimal.Decimal `db:"amount"`
	PrincipalAmount decimal.Decimal `db:"principal_amount"`
	InterestAmount  decimal.Decimal `db:"interest_amount"`
	PenaltyAmount   decimal.Decimal `db:"penalty_amount"`
	Status          string          `db:"status"`
	Method          string          `db:"method"`
	TransactionID   *string         `db:"transaction_id"`
	ProcessedAt     *time.Time      `db:"processed_at"`
	Notes           string          `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
