package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// CreditProductReader defines read operations for credit product data
type CreditProductReader interface {
	// FindCreditProductByID retrieves a specific credit product by its unique identifier.
	FindCreditProductByID(ctx context.Context, productID string) (*domain.CreditProduct, error)

	// ListCreditProducts retrieves credit products, optionally only active ones.
	ListCreditProducts(ctx context.Context, activeOnly bool) ([]domain.CreditProduct, error)
}

// CreditProductWriter defines write operations for credit product data
type CreditProductWriter interface {
	// SaveCreditProduct persists a new credit product.
	SaveCreditProduct(ctx context.Context, product domain.CreditProduct) error
}

// CreditReader defines read operations for credit contract data
type CreditReader interface {
	// FindCreditByID retrieves a specific credit by its unique identifier.
	FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error)

	// ListCreditsByClient retrieves a paginated list of credits for a client.
	ListCreditsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Credit, error)

	// ListServicedCredits retrieves credits in active or overdue status with a
	// next payment date on or before asOf. Fed to the overdue sweep.
	ListServicedCredits(ctx context.Context, asOf time.Time) ([]domain.Credit, error)

	// ListOverdueCredits retrieves credits currently in overdue status.
	ListOverdueCredits(ctx context.Context) ([]domain.Credit, error)
}

// CreditWriter defines write operations for credit contract data
type CreditWriter interface {
	// SaveCredit persists a new credit application.
	SaveCredit(ctx context.Context, credit domain.Credit) error

	// UpdateCredit updates an existing credit contract.
	UpdateCredit(ctx context.Context, credit domain.Credit) error

	// DisburseCredit activates an approved credit and credits the linked account
	// with the principal in a single database transaction.
	DisburseCredit(ctx context.Context, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// ApplyPayment persists a payment, updates the credit contract, records the
	// money movement and applies its balance deltas, all in one database
	// transaction.
	ApplyPayment(ctx context.Context, payment domain.CreditPayment, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error
}

// CreditPaymentReader defines read operations for credit payment data
type CreditPaymentReader interface {
	// ListPaymentsByCredit retrieves all payments for a credit ordered by payment number.
	ListPaymentsByCredit(ctx context.Context, creditID string) ([]domain.CreditPayment, error)

	// CountCompletedPayments counts completed payments carrying a principal
	// portion. The next scheduled payment number is this count plus one;
	// penalty-only entries do not advance the schedule.
	CountCompletedPayments(ctx context.Context, creditID string) (int, error)

	// CountPayments counts all payment rows for a credit, any status. Used to
	// allocate the next unique payment number.
	CountPayments(ctx context.Context, creditID string) (int, error)
}

// CreditPaymentWriter defines write operations for credit payment data
type CreditPaymentWriter interface {
	// SavePayment persists a payment row without moving money. Used for failed
	// attempts, which keep an audit record.
	SavePayment(ctx context.Context, payment domain.CreditPayment) error
}

// CreditRepositoryFacade combines all credit-related repository interfaces
// This is a facade for clients that need access to all operations
type CreditRepositoryFacade interface {
	CreditProductReader
	CreditProductWriter
	CreditReader
	CreditWriter
	CreditPaymentReader
	CreditPaymentWriter
}

// CreditRepositoryWithTx extends CreditRepositoryFacade with transaction capabilities
type CreditRepositoryWithTx interface {
	CreditRepositoryFacade
	TransactionManager
}
