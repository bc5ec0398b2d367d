package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is the storage representation of a deposit contract.
type Deposit struct {
	DepositID           string          `db:"deposit_id"`
	ClientID            string          `db:"client_id"`
	AccountID           string          `db:"account_id"`
	DepositType         string          `db:"deposit_type"`
	Amount              decimal.Decimal `db:"amount"`
	InterestRate        decimal.Decimal `db:"interest_rate"`
	TermMonths          int             `db:"term_months"`
	Capitalization      string          `db:"capitalization"`
	Status              string          `db:"status"`
	StartDate           time.Time       `db:"start_date"`
	EndDate             time.Time       `db:"end_date"`
	LastInterestAccrual *time.Time      `db:"last_interest_accrual"`
	AuditFields
}

// DepositInterestPayment is the storage representation of one accrual event.
// Append-only.
type DepositInterestPayment struct {
	PaymentID     string          `db:"payment_id"`
	DepositID     string          `db:"deposit_id"`
	PeriodStart   time.Time       `db:"period_start"`
	PeriodEnd     time.Time       `db:"period_end"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	TransactionID *string         `db:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at"`
}
