package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus mirrors domain.AccountStatus at the storage layer.
type AccountStatus string

// Account is the storage representation of a ledger account. The table
// carries CHECK (balance + overdraft_limit >= 0) mirroring the domain
// invariant.
type Account struct {
	AccountID      string          `db:"account_id"`
	AccountNumber  string          `db:"account_number"`
	ClientID       string          `db:"client_id"`
	AccountType    string          `db:"account_type"`
	CurrencyCode   string          `db:"currency_code"`
	Balance        decimal.Decimal `db:"balance"`
	OverdraftLimit decimal.Decimal `db:"overdraft_limit"`
	Status         AccountStatus   `db:"status"`
	OpeningDate    time.Time       `db:"opening_date"`
	ClosingDate    *time.Time      `db:"closing_date"`
	Description    string          `db:"description"`
	AuditFields
}
