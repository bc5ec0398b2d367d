package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType categorizes the banking purpose of an account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	CreditAcc  AccountType = "credit"
	DepositAcc AccountType = "deposit"
	Corporate  AccountType = "corporate"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
	AccountClosed  AccountStatus = "closed"
	AccountDormant AccountStatus = "dormant"
)

// Account is a single ledger position. Balance is mutated exclusively by the
// transfer repository inside a locked database transaction; no other component
// writes it.
type Account struct {
	AccountID      string          `json:"accountID"`      // Primary Key (UUID)
	AccountNumber  string          `json:"accountNumber"`  // 20 digits: "40702810" + 12 random, globally unique
	ClientID       string          `json:"clientID"`       // Owning client reference
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`   // FK -> currencies.code
	Balance        decimal.Decimal `json:"balance"`        // Invariant: never below -OverdraftLimit
	OverdraftLimit decimal.Decimal `json:"overdraftLimit"`
	Status         AccountStatus   `json:"status"`
	OpeningDate    time.Time       `json:"openingDate"`
	ClosingDate    *time.Time      `json:"closingDate,omitempty"`
	Description    string          `json:"description"`
	AuditFields
}

// AvailableBalance is the balance plus the overdraft limit.
func (a Account) AvailableBalance() decimal.Decimal {
	return a.Balance.Add(a.OverdraftLimit)
}

// CanWithdraw reports whether the account may be debited by amount.
func (a Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Status == AccountActive && a.AvailableBalance().GreaterThanOrEqual(amount)
}
