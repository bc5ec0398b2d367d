package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// DepositReader defines read operations for deposit data
type DepositReader interface {
	// FindDepositByID retrieves a specific deposit by its unique identifier.
	FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error)

	// ListDepositsByClient retrieves a paginated list of deposits for a client.
	ListDepositsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Deposit, error)

	// ListActiveDeposits retrieves all deposits in active status. Fed to the
	// daily accrual and maturity jobs.
	ListActiveDeposits(ctx context.Context) ([]domain.Deposit, error)

	// ListInterestPaymentsByDeposit retrieves the accrual history for a deposit
	// ordered by period start.
	ListInterestPaymentsByDeposit(ctx context.Context, depositID string) ([]domain.DepositInterestPayment, error)
}

// DepositWriter defines write operations for deposit data
type DepositWriter interface {
	// OpenDeposit persists a new deposit contract and debits the funding
	// account in a single database transaction.
	OpenDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// UpdateDeposit updates an existing deposit contract.
	UpdateDeposit(ctx context.Context, deposit domain.Deposit) error

	// ApplyAccrual persists one interest accrual atomically: the history entry,
	// the updated deposit (amount and last accrual marker) and the interest
	// transaction with its balance delta on the linked account.
	ApplyAccrual(ctx context.Context, payment domain.DepositInterestPayment, deposit domain.Deposit, txn *domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// CloseDeposit closes a deposit and pays out its amount to the linked account
	// in a single database transaction.
	CloseDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// MarkMatured transitions an active deposit to matured.
	MarkMatured(ctx context.Context, depositID string, operatorID string, now time.Time) error
}

// DepositRepositoryFacade combines all deposit-related repository interfaces
// This is a facade for clients that need access to all operations
type DepositRepositoryFacade interface {
	DepositReader
	DepositWriter
}

// DepositRepositoryWithTx extends DepositRepositoryFacade with transaction capabilities
type DepositRepositoryWithTx interface {
	DepositRepositoryFacade
	TransactionManager
}
