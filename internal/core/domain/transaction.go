package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business cause of a ledger movement.
type TransactionType string

const (
	TransferTxn           TransactionType = "transfer"
	DepositTxn            TransactionType = "deposit"
	WithdrawalTxn         TransactionType = "withdrawal"
	CreditPaymentTxn      TransactionType = "credit_payment"
	CreditDisbursementTxn TransactionType = "credit_disbursement"
	InterestAccrualTxn    TransactionType = "interest_accrual"
	FeeTxn                TransactionType = "fee"
	RefundTxn             TransactionType = "refund"
)

// TransactionStatus is the state of a recorded movement. pending->completed and
// pending->failed are terminal; cancelled is reached only from completed via an
// explicit inverse-delta cancellation, never by rewriting history.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
	TxnCancelled TransactionStatus = "cancelled"
)

// Transaction is the immutable record of one ledger movement. A nil
// FromAccountID models money entering from the bank itself (interest credit,
// disbursement); a nil ToAccountID models money retained by the bank (credit
// payment, deposit funding). At least one side is always set. Exactly one row
// exists per attempted movement, including rejected ones, preserving the audit
// trail.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`   // Primary Key (UUID)
	ReferenceNumber string            `json:"referenceNumber"` // "TXN" + 12 uppercase hex, globally unique
	FromAccountID   *string           `json:"fromAccountID,omitempty"`
	ToAccountID     *string           `json:"toAccountID,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Fee             decimal.Decimal   `json:"fee"` // Retained by the bank, recorded for audit
	CurrencyCode    string            `json:"currencyCode"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Description     string            `json:"description"`
	CreditID        *string           `json:"creditID,omitempty"`  // Back-reference to the causing credit operation
	DepositID       *string           `json:"depositID,omitempty"` // Back-reference to the causing deposit operation
	CreatedAt       time.Time         `json:"createdAt"`
	ExecutedAt      *time.Time        `json:"executedAt,omitempty"`
	CreatedBy       string            `json:"createdBy"`
}

// TotalDebit is the full amount taken from the source: amount plus fee.
func (t Transaction) TotalDebit() decimal.Decimal {
	return t.Amount.Add(t.Fee)
}

// IsInternalTransfer reports whether both legs touch customer accounts.
func (t Transaction) IsInternalTransfer() bool {
	return t.FromAccountID != nil && t.ToAccountID != nil && t.Type == TransferTxn
}

// CanBeCancelled reports whether the explicit cancellation operation is legal.
func (t Transaction) CanBeCancelled() bool {
	return t.Status == TxnCompleted
}
