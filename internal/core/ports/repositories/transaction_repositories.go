package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByReference retrieves a transaction by its reference number.
	FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of transactions touching
	// a specific account using token-based pagination. It returns the transactions,
	// a token for the next page, and an error.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransfer persists a completed transaction and applies its balance deltas
	// atomically. Accounts are locked in ascending ID order and balances re-checked
	// under the lock; a delta that would drive a balance negative rolls the whole
	// movement back with apperrors.ErrInsufficientFunds.
	SaveTransfer(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// InsertTransaction persists a transaction row without touching balances.
	// Used for failed movements, which keep an audit record but move no money.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// CancelTransfer marks a completed transaction cancelled and applies the
	// inverse balance deltas in the same database transaction.
	CancelTransfer(ctx context.Context, txn domain.Transaction, inverseChanges map[string]decimal.Decimal, operatorID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
// This is a facade for clients that need access to all operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
