package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the storage representation of one ledger movement.
// Rows are append-only; only the status (and executed_at) column moves, and
// only along the legal transitions.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	ReferenceNumber string          `db:"reference_number"`
	FromAccountID   *string         `db:"from_account_id"` // NULL = movement from the bank
	ToAccountID     *string         `db:"to_account_id"`   // NULL = movement retained by the bank
	Amount          decimal.Decimal `db:"amount"`
	Fee             decimal.Decimal `db:"fee"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionType string          `db:"transaction_type"`
	Status          string          `db:"status"`
	Description     string          `db:"description"`
	CreditID        *string         `db:"credit_id"`
	DepositID       *string         `db:"deposit_id"`
	CreatedAt       time.Time       `db:"created_at"`
	ExecutedAt      *time.Time      `db:"executed_at"`
	CreatedBy       string          `db:"created_by"`
}
