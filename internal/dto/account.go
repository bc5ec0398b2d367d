package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	ClientID       string             `json:"clientID" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit deposit corporate"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,uppercase,len=3"`
	OverdraftLimit *decimal.Decimal   `json:"overdraftLimit"` // Optional, defaults to zero
	Description    string             `json:"description"`    // Optional
}

// UpdateAccountStatusRequest transitions the account lifecycle state.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=active blocked closed dormant"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	AccountNumber  string               `json:"accountNumber"`
	ClientID       string               `json:"clientID"`
	AccountType    domain.AccountType   `json:"accountType"`
	CurrencyCode   string               `json:"currencyCode"`
	Balance        decimal.Decimal      `json:"balance"`
	OverdraftLimit decimal.Decimal      `json:"overdraftLimit"`
	Status         domain.AccountStatus `json:"status"`
	OpeningDate    time.Time            `json:"openingDate"`
	ClosingDate    *time.Time           `json:"closingDate,omitempty"`
	Description    string               `json:"description"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		AccountNumber:  acc.AccountNumber,
		ClientID:       acc.ClientID,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		Balance:        acc.Balance,
		OverdraftLimit: acc.OverdraftLimit,
		Status:         acc.Status,
		OpeningDate:    acc.OpeningDate,
		ClosingDate:    acc.ClosingDate,
		Description:    acc.Description,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountID        string          `json:"accountID"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	CurrencyCode     string          `json:"currencyCode"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ClientID string `form:"clientID" binding:"required"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
