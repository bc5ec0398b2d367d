package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod selects the amortization formula for a credit product.
type PaymentMethod string

const (
	Annuity        PaymentMethod = "annuity"
	Differentiated PaymentMethod = "differentiated"
)

// CreditType classifies a credit product.
type CreditType string

const (
	ConsumerCredit CreditType = "consumer"
	Mortgage       CreditType = "mortgage"
	AutoLoan       CreditType = "auto_loan"
	BusinessCredit CreditType = "business"
	CreditCard     CreditType = "credit_card"
)

// CreditStatus is the lifecycle state of a credit contract.
//
// application -> under_review -> {approved -> active | rejected}
// active -> {overdue -> default | closed}
type CreditStatus string

const (
	CreditApplication CreditStatus = "application"
	CreditUnderReview CreditStatus = "under_review"
	CreditApproved    CreditStatus = "approved"
	CreditRejected    CreditStatus = "rejected"
	CreditActive      CreditStatus = "active"
	CreditOverdue     CreditStatus = "overdue"
	CreditDefault     CreditStatus = "default"
	CreditClosed      CreditStatus = "closed"
)

// CreditProduct bounds the terms a credit may be opened with.
type CreditProduct struct {
	ProductID             string          `json:"productID"` // Primary Key (UUID)
	Name                  string          `json:"name"`
	CreditType            CreditType      `json:"creditType"`
	MinAmount             decimal.Decimal `json:"minAmount"`
	MaxAmount             decimal.Decimal `json:"maxAmount"`
	MinInterestRate       decimal.Decimal `json:"minInterestRate"` // Percent per annum
	MaxInterestRate       decimal.Decimal `json:"maxInterestRate"`
	MinTermMonths         int             `json:"minTermMonths"`
	MaxTermMonths         int             `json:"maxTermMonths"`
	CurrencyCode          string          `json:"currencyCode"`
	PaymentMethod         PaymentMethod   `json:"paymentMethod"`
	EarlyRepaymentAllowed bool            `json:"earlyRepaymentAllowed"`
	RequiresCollateral    bool            `json:"requiresCollateral"`
	RequiresGuarantor     bool            `json:"requiresGuarantor"`
	Description           string          `json:"description"`
	IsActive              bool            `json:"isActive"`
	AuditFields
}

// Credit is one credit contract. RemainingBalance decreases monotonically via
// payments; the contract closes automatically when it reaches zero. Overdue
// state is always recomputed from NextPaymentDate by the sweep, never
// incremented, so re-running the sweep on the same day is a no-op.
type Credit struct {
	CreditID          string          `json:"creditID"`          // Primary Key (UUID)
	ClientID          string          `json:"clientID"`
	AccountID         string          `json:"accountID"`         // Linked credit account
	ProductID         string          `json:"productID"`
	ApplicationNumber string          `json:"applicationNumber"` // "APP" + 8 uppercase hex
	ContractNumber    *string         `json:"contractNumber,omitempty"` // "CRD" + 8 uppercase hex, set on approval
	Amount            decimal.Decimal `json:"amount"`            // Principal
	InterestRate      decimal.Decimal `json:"interestRate"`      // Percent per annum
	TermMonths        int             `json:"termMonths"`
	Status            CreditStatus    `json:"status"`
	Purpose           string          `json:"purpose"`
	StartDate         *time.Time      `json:"startDate,omitempty"` // Disbursement date
	EndDate           *time.Time      `json:"endDate,omitempty"`   // StartDate + TermMonths * 30 days
	NextPaymentDate   *time.Time      `json:"nextPaymentDate,omitempty"`
	RemainingBalance  decimal.Decimal `json:"remainingBalance"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
	OverdueAmount     decimal.Decimal `json:"overdueAmount"`
	OverdueDays       int             `json:"overdueDays"`
	RejectionReason   string          `json:"rejectionReason,omitempty"`
	AuditFields
}

// IsRepayable reports whether payments may currently be applied.
func (c Credit) IsRepayable() bool {
	return c.Status == CreditActive || c.Status == CreditOverdue
}

// CreditPaymentStatus is the state of one payment attempt.
type CreditPaymentStatus string

const (
	PaymentPending   CreditPaymentStatus = "pending"
	PaymentCompleted CreditPaymentStatus = "completed"
	PaymentFailed    CreditPaymentStatus = "failed"
	PaymentPartial   CreditPaymentStatus = "partial"
)

// CreditPaymentMethod records how a payment was initiated.
type CreditPaymentMethod string

const (
	PaymentAuto     CreditPaymentMethod = "auto"
	PaymentManual   CreditPaymentMethod = "manual"
	PaymentTransfer CreditPaymentMethod = "transfer"
	PaymentCash     CreditPaymentMethod = "cash"
)

// CreditPayment is one entry per attempted payment, including automatically
// generated penalty-only entries. Immutable once completed.
type CreditPayment struct {
	PaymentID       string              `json:"paymentID"` // Primary Key (UUID)
	CreditID        string              `json:"creditID"`
	PaymentNumber   int                 `json:"paymentNumber"` // Unique per credit, starts at 1
	PaymentDate     time.Time           `json:"paymentDate"`   // Actual date
	DueDate         time.Time           `json:"dueDate"`
	Amount          decimal.Decimal     `json:"amount"`
	PrincipalAmount decimal.Decimal     `json:"principalAmount"`
	InterestAmount  decimal.Decimal     `json:"interestAmount"`
	PenaltyAmount   decimal.Decimal     `json:"penaltyAmount"`
	Status          CreditPaymentStatus `json:"status"`
	Method          CreditPaymentMethod `json:"method"`
	TransactionID   *string             `json:"transactionID,omitempty"` // Transaction that moved the money
	ProcessedAt     *time.Time          `json:"processedAt,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
}
