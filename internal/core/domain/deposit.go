package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositType classifies a deposit contract.
type DepositType string

const (
	DemandDeposit  DepositType = "demand"
	TermDeposit    DepositType = "term"
	SavingsDeposit DepositType = "savings"
)

// Capitalization decides whether accrued interest compounds into the deposit
// amount or is paid out to the linked account.
type Capitalization string

const (
	CapMonthly   Capitalization = "monthly"
	CapQuarterly Capitalization = "quarterly"
	CapEndOfTerm Capitalization = "end_of_term"
	CapNone      Capitalization = "none"
)

// DepositStatus is the lifecycle state of a deposit.
type DepositStatus string

const (
	DepositActive  DepositStatus = "active"
	DepositClosed  DepositStatus = "closed"
	DepositMatured DepositStatus = "matured"
)

// Deposit is one deposit contract. Accrued interest is always credited to the
// linked account; when capitalization is enabled the same interest also grows
// Amount in place, so later periods accrue on a larger base. With
// Capitalization none, Amount stays equal to the opening principal.
// LastInterestAccrual makes the accrual job idempotent: the period-boundary
// check rejects a re-run for the same date.
type Deposit struct {
	DepositID           string          `json:"depositID"` // Primary Key (UUID)
	ClientID            string          `json:"clientID"`
	AccountID           string          `json:"accountID"` // Linked payout account
	DepositType         DepositType     `json:"depositType"`
	Amount              decimal.Decimal `json:"amount"`       // Principal plus capitalized interest
	InterestRate        decimal.Decimal `json:"interestRate"` // Percent per annum
	TermMonths          int             `json:"termMonths"`
	Capitalization      Capitalization  `json:"capitalization"`
	Status              DepositStatus   `json:"status"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	LastInterestAccrual *time.Time      `json:"lastInterestAccrual,omitempty"`
	AuditFields
}

// IsMature reports whether the deposit term has elapsed as of date.
func (d Deposit) IsMature(date time.Time) bool {
	return !date.Before(d.EndDate)
}

// IsEarlyClose reports whether closing on date counts as an early closure.
// Demand deposits have no meaningful maturity, so closing one is never early.
func (d Deposit) IsEarlyClose(date time.Time) bool {
	return d.DepositType != DemandDeposit && !d.IsMature(date)
}

// DepositInterestPayment is one append-only accrual history entry; never
// mutated after creation.
type DepositInterestPayment struct {
	PaymentID     string          `json:"paymentID"` // Primary Key (UUID)
	DepositID     string          `json:"depositID"`
	PeriodStart   time.Time       `json:"periodStart"`
	PeriodEnd     time.Time       `json:"periodEnd"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	TransactionID *string         `json:"transactionID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
