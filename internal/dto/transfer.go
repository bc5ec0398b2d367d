package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// CreateTransferRequest defines the data needed to move money between accounts.
type CreateTransferRequest struct {
	FromAccountID string           `json:"fromAccountID" binding:"required"`
	ToAccountID   string           `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal  `json:"amount" binding:"required,positivedec"`
	Fee           *decimal.Decimal `json:"fee"` // Optional, defaults to zero
	Description   string           `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
// Mirrors domain.Transaction.
type TransactionResponse struct {
	TransactionID   string                   `json:"transactionID"`
	ReferenceNumber string                   `json:"referenceNumber"`
	FromAccountID   *string                  `json:"fromAccountID,omitempty"`
	ToAccountID     *string                  `json:"toAccountID,omitempty"`
	Amount          decimal.Decimal          `json:"amount"`
	Fee             decimal.Decimal          `json:"fee"`
	CurrencyCode    string                   `json:"currencyCode"`
	Type            domain.TransactionType   `json:"type"`
	Status          domain.TransactionStatus `json:"status"`
	Description     string                   `json:"description"`
	CreditID        *string                  `json:"creditID,omitempty"`
	DepositID       *string                  `json:"depositID,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	ExecutedAt      *time.Time               `json:"executedAt,omitempty"`
	CreatedBy       string                   `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ReferenceNumber: txn.ReferenceNumber,
		FromAccountID:   txn.FromAccountID,
		ToAccountID:     txn.ToAccountID,
		Amount:          txn.Amount,
		Fee:             txn.Fee,
		CurrencyCode:    txn.CurrencyCode,
		Type:            txn.Type,
		Status:          txn.Status,
		Description:     txn.Description,
		CreditID:        txn.CreditID,
		DepositID:       txn.DepositID,
		CreatedAt:       txn.CreatedAt,
		ExecutedAt:      txn.ExecutedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to response DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
// Pagination is token-based: pass the token from the previous page to continue.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
