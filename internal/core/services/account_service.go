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
)

// accountNumberAttempts bounds the retry loop on account number collisions.
const accountNumberAttempts = 5

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  repo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, operatorID string) (*domain.Account, error) {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		s.LogError(ctx, err, "Invalid currency code", slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("invalid currency code %s: %w", req.CurrencyCode, err)
	}

	overdraft := decimal.Zero
	if req.OverdraftLimit != nil {
		if req.OverdraftLimit.IsNegative() {
			return nil, fmt.Errorf("%w: overdraft limit cannot be negative", apperrors.ErrValidation)
		}
		overdraft = *req.OverdraftLimit
	}

	now := time.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		ClientID:       req.ClientID,
		AccountType:    req.AccountType,
		CurrencyCode:   req.CurrencyCode,
		Balance:        decimal.Zero,
		OverdraftLimit: overdraft,
		Status:         domain.AccountActive,
		OpeningDate:    now,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	// Generated numbers can collide; retry with a fresh number instead of
	// surfacing the duplicate to the caller.
	var err error
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		account.AccountNumber, err = utils.GenerateAccountNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}
		err = s.accountRepo.SaveAccount(ctx, account)
		if err == nil {
			s.LogInfo(ctx, "Account created",
				slog.String("account_id", account.AccountID),
				slog.String("account_number", account.AccountNumber))
			return &account, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
			return nil, err
		}
	}
	s.LogError(ctx, err, "Exhausted account number attempts", slog.String("account_id", account.AccountID))
	return nil, fmt.Errorf("failed to allocate account number: %w", err)
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by number", slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccountsByClient(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByClient(ctx, params.ClientID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("client_id", params.ClientID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, operatorID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.Status == status {
		return account, nil
	}
	if account.Status == domain.AccountClosed {
		return nil, fmt.Errorf("%w: account %s is closed", apperrors.ErrConflict, accountID)
	}
	if status == domain.AccountClosed && !account.Balance.IsZero() {
		return nil, fmt.Errorf("%w: account %s has non-zero balance", apperrors.ErrConflict, accountID)
	}

	now := time.Now()
	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, operatorID, now); err != nil {
		s.LogError(ctx, err, "Failed to update account status",
			slog.String("account_id", accountID),
			slog.String("status", string(status)))
		return nil, err
	}

	account.Status = status
	if status == domain.AccountClosed {
		account.ClosingDate = &now
	}
	account.LastUpdatedAt = now
	account.LastUpdatedBy = operatorID

	s.LogInfo(ctx, "Account status updated",
		slog.String("account_id", accountID),
		slog.String("status", string(status)))
	return account, nil
}
