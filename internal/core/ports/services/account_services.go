package services

import (
	"context"

	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its 20-digit account number.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccountsByClient retrieves a paginated list of accounts for a client.
	ListAccountsByClient(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account with a generated account number.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, operatorID string) (*domain.Account, error)

	// UpdateAccountStatus transitions the account lifecycle state.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, operatorID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
