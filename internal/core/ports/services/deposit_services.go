package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/dto"
)

// DepositReaderSvc defines read operations for deposit data
type DepositReaderSvc interface {
	// GetDepositByID retrieves a specific deposit by its unique identifier.
	GetDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error)

	// ListDepositsByClient retrieves a paginated list of deposits for a client.
	ListDepositsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Deposit, error)

	// ListInterestPayments retrieves the accrual history for a deposit.
	ListInterestPayments(ctx context.Context, depositID string) ([]domain.DepositInterestPayment, error)
}

// DepositWriterSvc defines deposit lifecycle operations
type DepositWriterSvc interface {
	// OpenDeposit opens a new deposit funded from the linked account.
	OpenDeposit(ctx context.Context, req dto.OpenDepositRequest, operatorID string) (*domain.Deposit, error)

	// CloseDeposit closes a deposit and pays out its amount to the linked account.
	CloseDeposit(ctx context.Context, depositID string, operatorID string) (*domain.Deposit, error)
}

// DepositAccrualSvc defines interest accrual operations
type DepositAccrualSvc interface {
	// CalculateInterest computes the Actual/365 interest for a deposit over the
	// period ending at asOf, without persisting anything.
	CalculateInterest(ctx context.Context, depositID string, asOf time.Time) (decimal.Decimal, error)

	// AccrueInterest accrues interest for one deposit as of the given date.
	// Returns nil with no error when asOf is not a period boundary for the
	// deposit or the period was already accrued.
	AccrueInterest(ctx context.Context, depositID string, asOf time.Time, dryRun bool, operatorID string) (*domain.DepositInterestPayment, error)

	// RunDailyAccrual runs the accrual over all active deposits for one date.
	RunDailyAccrual(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error)

	// RunMaturityCheck marks active deposits whose term has elapsed as matured.
	RunMaturityCheck(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error)
}

// DepositSvcFacade combines all deposit-related service interfaces
// This is a facade for clients that need access to all operations
type DepositSvcFacade interface {
	DepositReaderSvc
	DepositWriterSvc
	DepositAccrualSvc
}
