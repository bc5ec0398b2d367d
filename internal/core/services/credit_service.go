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
	"github.com/sibgate/bankcore/internal/utils"
	"github.com/sibgate/bankcore/internal/utils/amortization"
	"github.com/sibgate/bankcore/internal/utils/dates"
)

// ServicingConfig carries the thresholds for the daily servicing jobs.
type ServicingConfig struct {
	// OverdueAfterDays is the number of days past the payment date after which
	// a credit moves to overdue.
	OverdueAfterDays int
	// DefaultAfterDays is the number of days past the payment date after which
	// a credit moves to default.
	DefaultAfterDays int
	// PenaltyDailyRate is the penalty accrued per day on the overdue amount,
	// as a fraction (0.001 = 0.1% per day).
	PenaltyDailyRate decimal.Decimal
}

// DefaultServicingConfig returns the standard servicing thresholds.
func DefaultServicingConfig() ServicingConfig {
	return ServicingConfig{
		OverdueAfterDays: 30,
		DefaultAfterDays: 90,
		PenaltyDailyRate: decimal.NewFromFloat(0.001),
	}
}

// creditService implements the CreditSvcFacade interface
type creditService struct {
	BaseService
	creditRepo  portsrepo.CreditRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	cfg         ServicingConfig
}

// NewCreditService creates a new credit service
func NewCreditService(creditRepo portsrepo.CreditRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, cfg ServicingConfig) portssvc.CreditSvcFacade {
	return &creditService{
		creditRepo:  creditRepo,
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// --- Products ---

func (s *creditService) CreateCreditProduct(ctx context.Context, req dto.CreateCreditProductRequest, operatorID string) (*domain.CreditProduct, error) {
	if req.MinAmount.GreaterThan(req.MaxAmount) {
		return nil, fmt.Errorf("%w: min amount exceeds max amount", apperrors.ErrValidation)
	}
	if req.MinInterestRate.GreaterThan(req.MaxInterestRate) {
		return nil, fmt.Errorf("%w: min interest rate exceeds max interest rate", apperrors.ErrValidation)
	}
	if req.MinTermMonths > req.MaxTermMonths {
		return nil, fmt.Errorf("%w: min term exceeds max term", apperrors.ErrValidation)
	}

	now := time.Now()
	product := domain.CreditProduct{
		ProductID:             uuid.NewString(),
		Name:                  req.Name,
		CreditType:            req.CreditType,
		MinAmount:             req.MinAmount,
		MaxAmount:             req.MaxAmount,
		MinInterestRate:       req.MinInterestRate,
		MaxInterestRate:       req.MaxInterestRate,
		MinTermMonths:         req.MinTermMonths,
		MaxTermMonths:         req.MaxTermMonths,
		CurrencyCode:          req.CurrencyCode,
		PaymentMethod:         req.PaymentMethod,
		EarlyRepaymentAllowed: req.EarlyRepaymentAllowed,
		RequiresCollateral:    req.RequiresCollateral,
		RequiresGuarantor:     req.RequiresGuarantor,
		Description:           req.Description,
		IsActive:              true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	if err := s.creditRepo.SaveCreditProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save credit product", slog.String("product_id", product.ProductID))
		return nil, err
	}
	s.LogInfo(ctx, "Credit product created", slog.String("product_id", product.ProductID), slog.String("name", product.Name))
	return &product, nil
}

func (s *creditService) GetCreditProductByID(ctx context.Context, productID string) (*domain.CreditProduct, error) {
	product, err := s.creditRepo.FindCreditProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find credit product", slog.String("product_id", productID))
		}
		return nil, err
	}
	return product, nil
}

func (s *creditService) ListCreditProducts(ctx context.Context, activeOnly bool) ([]domain.CreditProduct, error) {
	products, err := s.creditRepo.ListCreditProducts(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credit products")
		return nil, fmt.Errorf("failed to list credit products: %w", err)
	}
	if products == nil {
		return []domain.CreditProduct{}, nil
	}
	return products, nil
}

// --- Application lifecycle ---

func (s *creditService) CreateApplication(ctx context.Context, req dto.CreateCreditApplicationRequest, operatorID string) (*domain.Credit, error) {
	product, err := s.creditRepo.FindCreditProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s is not active", apperrors.ErrConflict, product.ProductID)
	}
	amount := domain.RoundMoney(req.Amount)
	if amount.LessThan(product.MinAmount) || amount.GreaterThan(product.MaxAmount) {
		return nil, fmt.Errorf("%w: amount %s outside product bounds [%s, %s]",
			apperrors.ErrValidation, amount, product.MinAmount, product.MaxAmount)
	}
	if req.InterestRate.LessThan(product.MinInterestRate) || req.InterestRate.GreaterThan(product.MaxInterestRate) {
		return nil, fmt.Errorf("%w: interest rate %s outside product bounds [%s, %s]",
			apperrors.ErrValidation, req.InterestRate, product.MinInterestRate, product.MaxInterestRate)
	}
	if req.TermMonths < product.MinTermMonths || req.TermMonths > product.MaxTermMonths {
		return nil, fmt.Errorf("%w: term %d outside product bounds [%d, %d]",
			apperrors.ErrValidation, req.TermMonths, product.MinTermMonths, product.MaxTermMonths)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotActive, account.AccountID)
	}
	if account.CurrencyCode != product.CurrencyCode {
		return nil, fmt.Errorf("%w: account is %s, product is %s", apperrors.ErrCurrencyMismatch, account.CurrencyCode, product.CurrencyCode)
	}

	appNumber, err := utils.GenerateApplicationNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application number: %w", err)
	}

	now := time.Now()
	credit := domain.Credit{
		CreditID:          uuid.NewString(),
		ClientID:          req.ClientID,
		AccountID:         req.AccountID,
		ProductID:         req.ProductID,
		ApplicationNumber: appNumber,
		Amount:            amount,
		InterestRate:      req.InterestRate,
		TermMonths:        req.TermMonths,
		Status:            domain.CreditApplication,
		Purpose:           req.Purpose,
		RemainingBalance:  decimal.Zero,
		TotalPaid:         decimal.Zero,
		OverdueAmount:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	if err := s.creditRepo.SaveCredit(ctx, credit); err != nil {
		s.LogError(ctx, err, "Failed to save credit application", slog.String("credit_id", credit.CreditID))
		return nil, err
	}
	s.LogInfo(ctx, "Credit application created",
		slog.String("credit_id", credit.CreditID),
		slog.String("application_number", appNumber))
	return &credit, nil
}

func (s *creditService) transitionCredit(ctx context.Context, creditID string, from, to domain.CreditStatus, operatorID string, mutate func(*domain.Credit) error) (*domain.Credit, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit.Status != from {
		return nil, fmt.Errorf("%w: credit %s is %s, expected %s", apperrors.ErrConflict, creditID, credit.Status, from)
	}

	credit.Status = to
	if mutate != nil {
		if err := mutate(credit); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = operatorID

	if err := s.creditRepo.UpdateCredit(ctx, *credit); err != nil {
		s.LogError(ctx, err, "Failed to update credit", slog.String("credit_id", creditID))
		return nil, err
	}
	s.LogInfo(ctx, "Credit status changed",
		slog.String("credit_id", creditID),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	return credit, nil
}

func (s *creditService) SubmitForReview(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error) {
	return s.transitionCredit(ctx, creditID, domain.CreditApplication, domain.CreditUnderReview, operatorID, nil)
}

func (s *creditService) ApproveCredit(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error) {
	return s.transitionCredit(ctx, creditID, domain.CreditUnderReview, domain.CreditApproved, operatorID, func(c *domain.Credit) error {
		contract, err := utils.GenerateContractNumber()
		if err != nil {
			return fmt.Errorf("failed to generate contract number: %w", err)
		}
		c.ContractNumber = &contract
		return nil
	})
}

func (s *creditService) RejectCredit(ctx context.Context, creditID string, req dto.RejectCreditRequest, operatorID string) (*domain.Credit, error) {
	return s.transitionCredit(ctx, creditID, domain.CreditUnderReview, domain.CreditRejected, operatorID, func(c *domain.Credit) error {
		c.RejectionReason = req.Reason
		return nil
	})
}

func (s *creditService) DisburseCredit(ctx context.Context, creditID string, operatorID string) (*domain.Credit, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit.Status != domain.CreditApproved {
		return nil, fmt.Errorf("%w: credit %s is %s, expected %s", apperrors.ErrConflict, creditID, credit.Status, domain.CreditApproved)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, credit.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotActive, account.AccountID)
	}

	now := time.Now()
	start := dates.Truncate(now)
	end := start.AddDate(0, 0, credit.TermMonths*amortization.PeriodDays)
	next := start.AddDate(0, 0, amortization.PeriodDays)

	credit.Status = domain.CreditActive
	credit.StartDate = &start
	credit.EndDate = &end
	credit.NextPaymentDate = &next
	credit.RemainingBalance = credit.Amount
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = operatorID

	txn, err := newBankMovement(account.AccountID, credit.Amount, account.CurrencyCode,
		domain.CreditDisbursementTxn, fmt.Sprintf("Disbursement of credit %s", credit.ApplicationNumber), operatorID, now)
	if err != nil {
		return nil, err
	}
	txn.CreditID = &credit.CreditID

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: credit.Amount,
	}

	if err := s.creditRepo.DisburseCredit(ctx, *credit, txn, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to disburse credit", slog.String("credit_id", creditID))
		return nil, err
	}
	s.LogInfo(ctx, "Credit disbursed",
		slog.String("credit_id", creditID),
		slog.String("amount", credit.Amount.String()),
		slog.String("account_id", account.AccountID))
	return credit, nil
}

// --- Reads ---

func (s *creditService) GetCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find credit", slog.String("credit_id", creditID))
		}
		return nil, err
	}
	return credit, nil
}

func (s *creditService) ListCreditsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Credit, error) {
	credits, err := s.creditRepo.ListCreditsByClient(ctx, clientID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credits", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	if credits == nil {
		return []domain.Credit{}, nil
	}
	return credits, nil
}

func (s *creditService) ListPaymentsByCredit(ctx context.Context, creditID string) ([]domain.CreditPayment, error) {
	payments, err := s.creditRepo.ListPaymentsByCredit(ctx, creditID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credit payments", slog.String("credit_id", creditID))
		return nil, fmt.Errorf("failed to list credit payments: %w", err)
	}
	if payments == nil {
		return []domain.CreditPayment{}, nil
	}
	return payments, nil
}

// --- Servicing ---

func (s *creditService) scheduleParams(credit *domain.Credit, product *domain.CreditProduct) amortization.Params {
	start := time.Now()
	if credit.StartDate != nil {
		start = *credit.StartDate
	}
	return amortization.Params{
		Principal:  credit.Amount,
		AnnualRate: credit.InterestRate,
		TermMonths: credit.TermMonths,
		StartDate:  start,
		Method:     product.PaymentMethod,
	}
}

func (s *creditService) GenerateSchedule(ctx context.Context, creditID string) ([]amortization.Entry, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	product, err := s.creditRepo.FindCreditProductByID(ctx, credit.ProductID)
	if err != nil {
		return nil, err
	}
	return amortization.Schedule(s.scheduleParams(credit, product))
}

// penaltyFor computes the penalty on a credit's overdue amount as of a date.
// Overdue days are always recomputed from the next payment date, never read
// back from the stored counter, so the figure is stable across repeated calls.
func (s *creditService) penaltyFor(credit *domain.Credit, asOf time.Time) decimal.Decimal {
	if credit.OverdueAmount.LessThanOrEqual(decimal.Zero) || credit.NextPaymentDate == nil {
		return decimal.Zero
	}
	days := dates.DaysBetween(*credit.NextPaymentDate, asOf)
	if days <= 0 {
		return decimal.Zero
	}
	return domain.RoundMoney(credit.OverdueAmount.Mul(s.cfg.PenaltyDailyRate).Mul(decimal.NewFromInt(int64(days))))
}

func (s *creditService) CalculatePenalty(ctx context.Context, creditID string, asOf time.Time) (decimal.Decimal, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.penaltyFor(credit, asOf), nil
}

// nextScheduledEntry returns the amortization entry for the next unpaid
// sequence number.
func (s *creditService) nextScheduledEntry(ctx context.Context, credit *domain.Credit) (*amortization.Entry, error) {
	product, err := s.creditRepo.FindCreditProductByID(ctx, credit.ProductID)
	if err != nil {
		return nil, err
	}
	completed, err := s.creditRepo.CountCompletedPayments(ctx, credit.CreditID)
	if err != nil {
		return nil, err
	}
	if completed >= credit.TermMonths {
		return nil, fmt.Errorf("%w: all %d scheduled payments are complete", apperrors.ErrConflict, credit.TermMonths)
	}
	entries, err := amortization.Schedule(s.scheduleParams(credit, product))
	if err != nil {
		return nil, err
	}
	return &entries[completed], nil
}

func (s *creditService) CalculateNextPayment(ctx context.Context, creditID string) (*dto.NextPaymentResponse, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if !credit.IsRepayable() {
		return nil, fmt.Errorf("%w: credit %s is %s", apperrors.ErrConflict, creditID, credit.Status)
	}
	entry, err := s.nextScheduledEntry(ctx, credit)
	if err != nil {
		return nil, err
	}
	penalty := s.penaltyFor(credit, time.Now())
	return &dto.NextPaymentResponse{
		CreditID:        creditID,
		PaymentNumber:   entry.PaymentNumber,
		DueDate:         credit.NextPaymentDate,
		PrincipalAmount: entry.PrincipalAmount,
		InterestAmount:  entry.InterestAmount,
		PenaltyAmount:   penalty,
		TotalAmount:     entry.TotalPayment.Add(penalty),
	}, nil
}

func (s *creditService) MakePayment(ctx context.Context, creditID string, req dto.MakeCreditPaymentRequest, operatorID string) (*domain.CreditPayment, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if !credit.IsRepayable() {
		return nil, fmt.Errorf("%w: credit %s is %s", apperrors.ErrConflict, creditID, credit.Status)
	}

	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	entry, err := s.nextScheduledEntry(ctx, credit)
	if err != nil {
		return nil, err
	}
	penalty := s.penaltyFor(credit, now)
	due := entry.TotalPayment.Add(penalty)
	if amount.LessThan(due) {
		return nil, fmt.Errorf("%w: payment %s is short of the %s due", apperrors.ErrInsufficientPaymentAmount, amount, due)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, credit.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.CanWithdraw(amount) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, account.AccountID)
	}

	// Allocation: penalty, then interest, then principal. Anything beyond the
	// scheduled principal keeps reducing the balance, capped at what is left.
	principalPaid := amount.Sub(penalty).Sub(entry.InterestAmount)
	if principalPaid.GreaterThan(credit.RemainingBalance) {
		principalPaid = credit.RemainingBalance
	}

	rowNumber, err := s.creditRepo.CountPayments(ctx, creditID)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = domain.PaymentManual
	}
	dueDate := now
	if credit.NextPaymentDate != nil {
		dueDate = *credit.NextPaymentDate
	}

	txn, err := newBankDebitMovement(account.AccountID, amount, account.CurrencyCode, domain.CreditPaymentTxn,
		fmt.Sprintf("Payment %d on credit %s", entry.PaymentNumber, credit.ApplicationNumber), operatorID, now)
	if err != nil {
		return nil, err
	}
	txn.CreditID = &credit.CreditID

	processed := now
	payment := domain.CreditPayment{
		PaymentID:       uuid.NewString(),
		CreditID:        creditID,
		PaymentNumber:   rowNumber + 1,
		PaymentDate:     now,
		DueDate:         dueDate,
		Amount:          amount,
		PrincipalAmount: principalPaid,
		InterestAmount:  entry.InterestAmount,
		PenaltyAmount:   penalty,
		Status:          domain.PaymentCompleted,
		Method:          method,
		TransactionID:   &txn.TransactionID,
		ProcessedAt:     &processed,
		CreatedAt:       now,
		CreatedBy:       operatorID,
	}

	credit.RemainingBalance = credit.RemainingBalance.Sub(principalPaid)
	credit.TotalPaid = credit.TotalPaid.Add(amount)
	credit.OverdueAmount = decimal.Zero
	credit.OverdueDays = 0
	if credit.Status == domain.CreditOverdue {
		credit.Status = domain.CreditActive
	}
	if credit.RemainingBalance.IsZero() {
		credit.Status = domain.CreditClosed
		credit.NextPaymentDate = nil
	} else if credit.NextPaymentDate != nil {
		next := credit.NextPaymentDate.AddDate(0, 0, amortization.PeriodDays)
		credit.NextPaymentDate = &next
	}
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = operatorID

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: amount.Neg(),
	}

	if err := s.creditRepo.ApplyPayment(ctx, payment, *credit, txn, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			// Balance moved between the read and the row lock; keep the audit row.
			failed := payment
			failed.Status = domain.PaymentFailed
			failed.TransactionID = nil
			failed.ProcessedAt = nil
			if saveErr := s.creditRepo.SavePayment(ctx, failed); saveErr != nil {
				s.LogError(ctx, saveErr, "Failed to record rejected payment", slog.String("credit_id", creditID))
			}
		}
		s.LogError(ctx, err, "Failed to apply credit payment", slog.String("credit_id", creditID))
		return nil, err
	}

	s.LogInfo(ctx, "Credit payment applied",
		slog.String("credit_id", creditID),
		slog.String("amount", amount.String()),
		slog.String("status", string(credit.Status)))
	return &payment, nil
}

func (s *creditService) CalculateEarlyRepayment(ctx context.Context, creditID string, asOf time.Time) (*dto.EarlyRepaymentResponse, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	product, err := s.creditRepo.FindCreditProductByID(ctx, credit.ProductID)
	if err != nil {
		return nil, err
	}
	penalty := s.penaltyFor(credit, asOf)
	return &dto.EarlyRepaymentResponse{
		CreditID:         creditID,
		RemainingBalance: credit.RemainingBalance,
		OverdueAmount:    credit.OverdueAmount,
		PenaltyAmount:    penalty,
		TotalAmount:      credit.RemainingBalance.Add(penalty),
		Allowed:          product.EarlyRepaymentAllowed && credit.IsRepayable(),
	}, nil
}

func (s *creditService) MakeEarlyRepayment(ctx context.Context, creditID string, operatorID string) (*domain.CreditPayment, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	product, err := s.creditRepo.FindCreditProductByID(ctx, credit.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.EarlyRepaymentAllowed {
		return nil, fmt.Errorf("%w: product %s", apperrors.ErrEarlyRepaymentNotAllowed, product.ProductID)
	}
	if !credit.IsRepayable() {
		return nil, fmt.Errorf("%w: credit %s is %s", apperrors.ErrConflict, creditID, credit.Status)
	}

	now := time.Now()
	penalty := s.penaltyFor(credit, now)
	principal := credit.RemainingBalance
	total := principal.Add(penalty)

	account, err := s.accountRepo.FindAccountByID(ctx, credit.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.CanWithdraw(total) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, account.AccountID)
	}

	rowNumber, err := s.creditRepo.CountPayments(ctx, creditID)
	if err != nil {
		return nil, err
	}

	txn, err := newBankDebitMovement(account.AccountID, total, account.CurrencyCode, domain.CreditPaymentTxn,
		fmt.Sprintf("Early repayment of credit %s", credit.ApplicationNumber), operatorID, now)
	if err != nil {
		return nil, err
	}
	txn.CreditID = &credit.CreditID

	processed := now
	payment := domain.CreditPayment{
		PaymentID:       uuid.NewString(),
		CreditID:        creditID,
		PaymentNumber:   rowNumber + 1,
		PaymentDate:     now,
		DueDate:         now,
		Amount:          total,
		PrincipalAmount: principal,
		InterestAmount:  decimal.Zero,
		PenaltyAmount:   penalty,
		Status:          domain.PaymentCompleted,
		Method:          domain.PaymentManual,
		TransactionID:   &txn.TransactionID,
		ProcessedAt:     &processed,
		Notes:           "early repayment",
		CreatedAt:       now,
		CreatedBy:       operatorID,
	}

	credit.RemainingBalance = decimal.Zero
	credit.TotalPaid = credit.TotalPaid.Add(total)
	credit.OverdueAmount = decimal.Zero
	credit.OverdueDays = 0
	credit.Status = domain.CreditClosed
	credit.NextPaymentDate = nil
	credit.LastUpdatedAt = now
	credit.LastUpdatedBy = operatorID

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: total.Neg(),
	}

	if err := s.creditRepo.ApplyPayment(ctx, payment, *credit, txn, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to apply early repayment", slog.String("credit_id", creditID))
		return nil, err
	}

	s.LogInfo(ctx, "Credit repaid early",
		slog.String("credit_id", creditID),
		slog.String("amount", total.String()))
	return &payment, nil
}

// --- Batch jobs ---

func (s *creditService) RunOverdueSweep(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error) {
	asOf = dates.Truncate(asOf)
	credits, err := s.creditRepo.ListServicedCredits(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list serviced credits: %w", err)
	}

	result := &dto.BatchRunResult{DryRun: dryRun}
	for i := range credits {
		credit := credits[i]
		result.Processed++

		changed, err := s.sweepCredit(ctx, &credit, asOf, dryRun, operatorID)
		if err != nil {
			// One bad credit never aborts the sweep.
			s.LogError(ctx, err, "Overdue sweep failed for credit", slog.String("credit_id", credit.CreditID))
			result.Failed++
			continue
		}
		if changed {
			result.Succeeded++
		} else {
			result.Skipped++
		}
	}
	s.LogInfo(ctx, "Overdue sweep finished",
		slog.Time("as_of", asOf),
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", result.Processed),
		slog.Int("updated", result.Succeeded),
		slog.Int("failed", result.Failed))
	return result, nil
}

// sweepCredit recomputes overdue state for one credit. Both thresholds are
// evaluated and the most severe state wins.
func (s *creditService) sweepCredit(ctx context.Context, credit *domain.Credit, asOf time.Time, dryRun bool, operatorID string) (bool, error) {
	if credit.NextPaymentDate == nil {
		return false, nil
	}
	days := dates.DaysBetween(*credit.NextPaymentDate, asOf)
	if days <= 0 {
		return false, nil
	}

	status := credit.Status
	if days > s.cfg.DefaultAfterDays {
		status = domain.CreditDefault
	} else if days > s.cfg.OverdueAfterDays {
		status = domain.CreditOverdue
	}

	// The overdue figure always tracks the currently scheduled installment.
	entry, err := s.nextScheduledEntry(ctx, credit)
	if err != nil {
		return false, err
	}
	overdueAmount := entry.TotalPayment

	if status == credit.Status && days == credit.OverdueDays && overdueAmount.Equal(credit.OverdueAmount) {
		return false, nil
	}
	if dryRun {
		s.LogInfo(ctx, "Overdue sweep would update credit",
			slog.String("credit_id", credit.CreditID),
			slog.Int("overdue_days", days),
			slog.String("status", string(status)))
		return true, nil
	}

	credit.Status = status
	credit.OverdueDays = days
	credit.OverdueAmount = overdueAmount
	credit.LastUpdatedAt = time.Now()
	credit.LastUpdatedBy = operatorID
	if err := s.creditRepo.UpdateCredit(ctx, *credit); err != nil {
		return false, err
	}
	return true, nil
}

func (s *creditService) RunPenaltyAccrual(ctx context.Context, asOf time.Time, dryRun bool, operatorID string) (*dto.BatchRunResult, error) {
	asOf = dates.Truncate(asOf)
	credits, err := s.creditRepo.ListOverdueCredits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue credits: %w", err)
	}

	result := &dto.BatchRunResult{DryRun: dryRun}
	for i := range credits {
		credit := credits[i]
		result.Processed++

		// One day's worth of penalty on the overdue amount, recorded as a
		// pending penalty-only entry. No money moves until the client pays.
		charge := domain.RoundMoney(credit.OverdueAmount.Mul(s.cfg.PenaltyDailyRate))
		if !charge.IsPositive() {
			result.Skipped++
			continue
		}
		if dryRun {
			s.LogInfo(ctx, "Penalty accrual would charge credit",
				slog.String("credit_id", credit.CreditID),
				slog.String("penalty", charge.String()))
			result.Succeeded++
			continue
		}

		rowNumber, err := s.creditRepo.CountPayments(ctx, credit.CreditID)
		if err != nil {
			s.LogError(ctx, err, "Penalty accrual failed for credit", slog.String("credit_id", credit.CreditID))
			result.Failed++
			continue
		}
		now := time.Now()
		entry := domain.CreditPayment{
			PaymentID:       uuid.NewString(),
			CreditID:        credit.CreditID,
			PaymentNumber:   rowNumber + 1,
			PaymentDate:     asOf,
			DueDate:         asOf,
			Amount:          charge,
			PrincipalAmount: decimal.Zero,
			InterestAmount:  decimal.Zero,
			PenaltyAmount:   charge,
			Status:          domain.PaymentPending,
			Method:          domain.PaymentAuto,
			Notes:           "daily penalty accrual",
			CreatedAt:       now,
			CreatedBy:       operatorID,
		}
		if err := s.creditRepo.SavePayment(ctx, entry); err != nil {
			s.LogError(ctx, err, "Penalty accrual failed for credit", slog.String("credit_id", credit.CreditID))
			result.Failed++
			continue
		}
		result.Succeeded++
	}
	s.LogInfo(ctx, "Penalty accrual finished",
		slog.Time("as_of", asOf),
		slog.Bool("dry_run", dryRun),
		slog.Int("processed", result.Processed),
		slog.Int("charged", result.Succeeded),
		slog.Int("failed", result.Failed))
	return result, nil
}
