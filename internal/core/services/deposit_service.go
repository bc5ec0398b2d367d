package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	portsrepo "github.com/sibgate/bankcore/internal/core/ports/repositories"
	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/utils/dates"
)

var daysPerYear = decimal.NewFromInt(365)

// depositService implements the DepositSvcFacade interface
type depositService struct {
	BaseService
	depositRepo portsrepo.DepositRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewDepositService creates a new deposit service
func NewDepositService(depositRepo portsrepo.DepositRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.DepositSvcFacade {
	return &depositService{
		depositRepo: depositRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

// shouldAccrue decides whether date is an accrual boundary for the deposit.
// monthly and none accrue on the last calendar day of the month, quarterly on
// the last day of the quarter, end_of_term only on the end date. Never true on
// the deposit's own start date, and never twice for the same date.
func shouldAccrue(d *domain.Deposit, date time.Time) bool {
	date = dates.Truncate(date)
	if dates.SameDate(date, d.StartDate) {
		return false
	}
	if d.LastInterestAccrual != nil && !dates.Truncate(*d.LastInterestAccrual).Before(date) {
		return false
	}
	switch d.Capitalization {
	case domain.CapMonthly, domain.CapNone:
		return dates.IsLastDayOfMonth(date)
	case domain.CapQuarterly:
		return dates.IsLastDayOfQuarter(date)
	case domain.CapEndOfTerm:
		return dates.SameDate(date, d.EndDate)
	default:
		return false
	}
}

// interestFor computes Actual/365 interest on the deposit amount for the
// period from the last accrual (or start) up to asOf.
func interestFor(d *domain.Deposit, asOf time.Time) (decimal.Decimal, time.Time) {
	periodStart := dates.Truncate(d.StartDate)
	if d.LastInterestAccrual != nil {
		periodStart = dates.Truncate(*d.LastInterestAccrual)
	}
	days := dates.DaysBetween(periodStart, asOf)
	if days <= 0 {
		return decimal.Zero, periodStart
	}
	interest := d.Amount.
		Mul(d.InterestRate).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(daysPerYear)
	return domain.RoundMoney(interest), periodStart
}

func (s *depositService) OpenDeposit(ctx context.Context, req dto.OpenDepositRequest, operatorID string) (*domain.Deposit, error) {
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if !req.InterestRate.IsPositive() {
		return nil, fmt.Errorf("%w: interest rate must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotActive, account.AccountID)
	}
	if !account.CanWithdraw(amount) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, account.AccountID)
	}

	now := time.Now()
	start := dates.Truncate(now)
	if req.StartDate != nil {
		start = dates.Truncate(*req.StartDate)
	}

	deposit := domain.Deposit{
		DepositID:      uuid.NewString(),
		ClientID:       req.ClientID,
		AccountID:      req.AccountID,
		DepositType:    req.DepositType,
		Amount:         amount,
		InterestRate:   req.InterestRate,
		TermMonths:     req.TermMonths,
		Capitalization: req.Capitalization,
		Status:         domain.DepositActive,
		StartDate:      start,
		EndDate:        start.AddDate(0, req.TermMonths, 0),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	txn, err := newBankDebitMovement(account.AccountID, amount, account.CurrencyCode, domain.DepositTxn,
		fmt.Sprintf("Opening of %s deposit", deposit.DepositType), operatorID, now)
	if err != nil {
		return nil, err
	}
	txn.DepositID = &deposit.DepositID

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: amount.Neg(),
	}

	if err := s.depositRepo.OpenDeposit(ctx, deposit, txn, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to open deposit", slog.String("deposit_id", deposit.DepositID))
		return nil, err
	}
	s.LogInfo(ctx, "Deposit opened",
		slog.String("deposit_id", deposit.DepositID),
		slog.String("amount", amount.String()),
		slog.String("capitalization", string(deposit.Capitalization)))
	return &deposit, nil
}

func (s *depositService) CloseDeposit(ctx context.Context, depositID string, operatorID string) (*domain.Deposit, error) {
	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit.Status == domain.DepositClosed {
		return nil, fmt.Errorf("%w: deposit %s is already closed", apperrors.ErrConflict, depositID)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, deposit.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	description := fmt.Sprintf("Payout of deposit %s", depositID)
	if deposit.IsEarlyClose(now) {
		description = fmt.Sprintf("Early closure payout of deposit %s", depositID)
	}

	txn, err := newBankMovement(account.AccountID, deposit.Amount, account.CurrencyCode,
		domain.WithdrawalTxn, description, operatorID, now)
	if err != nil {
		return nil, err
	}
	txn.DepositID = &deposit.DepositID

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: deposit.Amount,
	}

	deposit.Status = domain.DepositClosed
	deposit.LastUpdatedAt = now
	deposit.LastUpdatedBy = operatorID

	if err := s.depositRepo.CloseDeposit(ctx, *deposit, txn, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to close deposit", slog.String("deposit_id", depositID))
		return nil, err
	}
	s.LogInfo(ctx, "Deposit closed",
		slog.String("deposit_id", depositID),
		slog.String("payout", deposit.Amount.String()))
	return deposit, nil
}

func (s *depositService) GetDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find deposit", slog.String("deposit_id", depositID))
		}
		return nil, err
	}
	return deposit, nil
}

func (s *depositService) ListDepositsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Deposit, error) {
	deposits, err := s.depositRepo.ListDepositsByClient(ctx, clientID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list deposits", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	if deposits == nil {
		return []domain.Deposit{}, nil
	}
	return deposits, nil
}

func (s *depositService) ListInterestPayments(ctx context.Context, depositID string) ([]domain.DepositInterestPayment, error) {
	payments, err := s.depositRepo.ListInterestPaymentsByDeposit(ctx, depositID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list interest payments", slog.String("deposit_id", depositID))
		return nil, fmt.Errorf("failed to list interest payments: %w", err)
	}
	if payments == nil {
		return []domain.DepositInterestPayment{}, nil
	}
	return payments, nil
}

func (s *depositService) CalculateInterest(ctx context.Context, depositID string, asOf time.Time) (decimal.Decimal, error) {
	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		return decimal.Zero, err
	}
	interest, _ := interestFor(deposit, dates.Truncate(asOf))
	return interest, nil
}

func (s *depositService) AccrueInterest(ctx context.Context, depositID string, asOf time.Time, dryRun bool, operatorID string) (*domain.DepositInterestPayment, error) {
	deposit, err := s.depositRepo.FindDepositByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	return s.accrue(ctx, deposit, dates.Truncate(asOf), dryRun, operatorID)
}

// accrue performs one accrual for one deposit. Returns nil with no error when
// the date is not an accrual boundary or the period was already accrued.
func (s *depositService) accrue(ctx context.Context, deposit *domain.Deposit, asOf time.Time, dryRun bool, operatorID string) (*domain.DepositInterestPayment, error) {
	if deposit.Status != domain.DepositActive {
		return nil, fmt.Errorf("%w: deposit %s is %s", apperrors.ErrConflict, deposit.DepositID, deposit.Status)
	}
	if !shouldAccrue(deposit, asOf) {
		return nil, nil
	}
	interest, periodStart := interestFor(deposit, asOf)
	if !interest.IsPositive() {
		return nil, nil
	}

	now := time.Now()
	payment := domain.DepositInterestPayment{
		PaymentID:   uuid.NewString(),
		DepositID:   deposit.DepositID,
		PeriodStart: periodStart,
		PeriodEnd:   asOf,
		Amount:      interest,
		PaymentDate: asOf,
		CreatedAt:   now,
	}

	if dryRun {
		s.LogInfo(ctx, "Accrual would credit deposit",
			slog.String("deposit_id", deposit.DepositID),
			slog.String("interest", interest.String()),
			slog.Time("period_start", periodStart),
			slog.Time("period_end", asOf))
		return &payment, nil
	}

	// Every accrual credits the linked account from the bank. Capitalized
	// interest additionally compounds into the deposit amount.
	account, err := s.accountRepo.FindAccountByID(ctx, deposit.AccountID)
	if err != nil {
		return nil, err
	}
	movement, err := newBankMovement(account.AccountID, interest, account.CurrencyCode,
		domain.InterestAccrualTxn, fmt.Sprintf("Interest on deposit %s", deposit.DepositID), operatorID, now)
	if err != nil {
		return nil, err
	}
	movement.DepositID = &deposit.DepositID
	payment.TransactionID = &movement.TransactionID
	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: interest,
	}
	if deposit.Capitalization != domain.CapNone {
		deposit.Amount = deposit.Amount.Add(interest)
	}

	deposit.LastInterestAccrual = &asOf
	deposit.LastUpdatedAt = now
	deposit.LastUpdatedBy = operatorID

	if err := s.depositRepo.ApplyAccrual(ctx, payment, *deposit, &movement, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to apply accrual", slog.String("deposit_id", deposit.DepositID))
		return nil, err
	}
	s.LogInfo(ctx, "Interest accrued",
		slog.String("deposit_id", deposit.DepositID),
		slog.String("interest", interest.String()),
		slog.String("capitalization", string(deposit.Capitalization)))
	return &payment, nil
}

func (s *depositService) RunDailyAccrual(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error) {
	asOf = dates.Truncate(asOf)
	deposits, err := s.depositRepo.ListActiveDeposits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active deposits: %w", err)
	}

	result := &dto.BatchRunResult{DryRun: dryRun}
	for i := range deposits {
		deposit := deposits[i]
		result.Processed++

		payment, err := s.accrue(ctx, &deposit, asOf, dryRun, operatorID)
		if err != nil {
			// One bad deposit never aborts the run.
			s.LogError(ctx, err, "Accrual failed for deposit", slog.String("deposit_id", deposit.DepositID))
			result.Failed++
			continue
		}
		if payment == nil {
			result.Skipped++
		} else {
			result.Succeeded++
		}
	}
	s.LogInfo(ctx, "Daily accrual finished",
		slog.Time("as_of", asOf),
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", result.Processed),
		slog.Int("accrued", result.Succeeded),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *depositService) RunMaturityCheck(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error) {
	asOf = dates.Truncate(asOf)
	deposits, err := s.depositRepo.ListActiveDeposits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active deposits: %w", err)
	}

	result := &dto.BatchRunResult{DryRun: dryRun}
	for i := range deposits {
		deposit := deposits[i]
		result.Processed++

		if !deposit.IsMature(asOf) {
			result.Skipped++
			continue
		}
		if dryRun {
			s.LogInfo(ctx, "Maturity check would mature deposit", slog.String("deposit_id", deposit.DepositID))
			result.Succeeded++
			continue
		}
		if err := s.depositRepo.MarkMatured(ctx, deposit.DepositID, operatorID, time.Now()); err != nil {
			s.LogError(ctx, err, "Failed to mature deposit", slog.String("deposit_id", deposit.DepositID))
			result.Failed++
			continue
		}
		result.Succeeded++
	}
	s.LogInfo(ctx, "Maturity check finished",
		slog.Time("as_of", asOf),
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", result.Processed),
		slog.Int("matured", result.Succeeded),
		slog.Int("failed", result.Failed))
	return result, nil
}
