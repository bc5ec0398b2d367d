package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/utils/amortization"
)

// CreditProductSvc defines operations for managing credit products
type CreditProductSvc interface {
	// CreateCreditProduct persists a new credit product.
	CreateCreditProduct(ctx context.Context, req dto.CreateCreditProductRequest, operatorID string) (*domain.CreditProduct, error)

	// GetCreditProductByID retrieves a specific credit product.
	GetCreditProductByID(ctx context.Context, productID string) (*domain.CreditProduct, error)

	// ListCreditProducts retrieves credit products, optionally only active ones.
	ListCreditProducts(ctx context.Context, activeOnly bool) ([]domain.CreditProduct, error)
}

// CreditLifecycleSvc drives a credit contract through its states
type CreditLifecycleSvc interface {
	// CreateApplication files a new credit application against a product.
	CreateApplication(ctx context.Context, req dto.CreateCreditApplicationRequest, operatorID string) (*domain.Credit, error)

	// SubmitForReview moves an application to under_review.
	SubmitForReview(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error)

	// ApproveCredit approves a reviewed application and assigns a contract number.
	ApproveCredit(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error)

	// RejectCredit rejects a reviewed application with a reason.
	RejectCredit(ctx context.Context, creditID string, req dto.RejectCreditRequest, operatorID string) (*domain.Credit, error)

	// DisburseCredit activates an approved credit and pays the principal to the
	// linked account.
	DisburseCredit(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error)
}

// CreditReaderSvc defines read operations for credit data
type CreditReaderSvc interface {
	// GetCreditByID retrieves a specific credit by its unique identifier.
	GetCreditByID(ctx context.Context, creditID string) (*domain.Credit, error)

	// ListCreditsByClient retrieves a paginated list of credits for a client.
	ListCreditsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Credit, error)

	// ListPaymentsByCredit retrieves the payment history for a credit.
	ListPaymentsByCredit(ctx context.Context, creditID string) ([]domain.CreditPayment, error)
}

// CreditServicingSvc defines repayment and servicing calculations
type CreditServicingSvc interface {
	// GenerateSchedule builds the full amortization schedule for a credit.
	GenerateSchedule(ctx context.Context, creditID string) ([]amortization.Entry, error)

	// CalculateNextPayment computes the breakdown of the next scheduled payment
	// including any accrued penalty.
	CalculateNextPayment(ctx context.Context, creditID string) (*dto.NextPaymentResponse, error)

	// CalculatePenalty computes the penalty accrued on the overdue amount as of
	// the given date.
	CalculatePenalty(ctx context.Context, creditID string, asOf time.Time) (decimal.Decimal, error)

	// MakePayment applies a payment to a credit: penalty first, then interest,
	// then principal. Closes the credit when the balance reaches zero.
	MakePayment(ctx context.Context, creditID string, req dto.MakeCreditPaymentRequest, operatorID string) (*domain.CreditPayment, error)

	// CalculateEarlyRepayment quotes the full payoff amount as of the given date.
	CalculateEarlyRepayment(ctx context.Context, creditID string, asOf time.Time) (*dto.EarlyRepaymentResponse, error)

	// MakeEarlyRepayment pays off the whole credit in one movement and closes it.
	MakeEarlyRepayment(ctx context.Context, creditID string, operatorID string) (*domain.CreditPayment, error)
}

// CreditBatchSvc defines the daily servicing jobs
type CreditBatchSvc interface {
	// RunOverdueSweep recomputes overdue state for all serviced credits as of
	// the given date. Idempotent: re-running for the same date changes nothing.
	RunOverdueSweep(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error)

	// RunPenaltyAccrual records penalty charges for overdue credits as of the
	// given date.
	RunPenaltyAccrual(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error)
}

// CreditSvcFacade combines all credit-related service interfaces
// This is a facade for clients that need access to all operations
type CreditSvcFacade interface {
	CreditProductSvc
	CreditLifecycleSvc
	CreditReaderSvc
	CreditServicingSvc
	CreditBatchSvc
}
