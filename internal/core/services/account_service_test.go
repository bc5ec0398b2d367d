package services_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/core/services"
	"github.com/sibgate/bankcore/internal/dto"
)

var accountNumberPattern = regexp.MustCompile(`^40702810\d{12}$`)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo)
}

func (suite *AccountServiceTestSuite) rub() *domain.Currency {
	return &domain.Currency{CurrencyCode: "RUB", Name: "Russian Ruble", Symbol: "₽"}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "RUB").Return(suite.rub(), nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Status == domain.AccountActive &&
			a.Balance.IsZero() &&
			accountNumberPattern.MatchString(a.AccountNumber)
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		ClientID:     uuid.NewString(),
		AccountType:  domain.Checking,
		CurrencyCode: "RUB",
	}, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.AccountActive, account.Status)
	suite.Regexp(accountNumberPattern, account.AccountNumber)
	suite.True(account.OverdraftLimit.IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetriesOnNumberCollision() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "RUB").Return(suite.rub(), nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Twice()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		ClientID:     uuid.NewString(),
		AccountType:  domain.Savings,
		CurrencyCode: "RUB",
	}, "op-1")

	suite.Require().NoError(err)
	suite.Regexp(accountNumberPattern, account.AccountNumber)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 3)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_GivesUpAfterRepeatedCollisions() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "RUB").Return(suite.rub(), nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate)

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		ClientID:     uuid.NewString(),
		AccountType:  domain.Checking,
		CurrencyCode: "RUB",
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 5)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrencyRejected() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		ClientID:     uuid.NewString(),
		AccountType:  domain.Checking,
		CurrencyCode: "XXX",
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOverdraftRejected() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "RUB").Return(suite.rub(), nil).Once()
	overdraft := decimal.RequireFromString("-100")

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		ClientID:       uuid.NewString(),
		AccountType:    domain.Checking,
		CurrencyCode:   "RUB",
		OverdraftLimit: &overdraft,
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_BlocksAccount() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountActive,
		Balance:   decimal.RequireFromString("250.00"),
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountStatus", ctx, account.AccountID, domain.AccountBlocked, "op-1", mock.Anything).Return(nil).Once()

	updated, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountBlocked, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.AccountBlocked, updated.Status)
	suite.Nil(updated.ClosingDate)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_CloseWithBalanceConflicts() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountActive,
		Balance:   decimal.RequireFromString("0.01"),
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountClosed, "op-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_CloseZeroBalanceSetsClosingDate() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountActive,
		Balance:   decimal.Zero,
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountStatus", ctx, account.AccountID, domain.AccountClosed, "op-1", mock.Anything).Return(nil).Once()

	updated, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountClosed, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.AccountClosed, updated.Status)
	suite.NotNil(updated.ClosingDate)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_ClosedIsTerminal() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		Status:    domain.AccountClosed,
		Balance:   decimal.Zero,
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.UpdateAccountStatus(ctx, account.AccountID, domain.AccountActive, "op-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestListAccountsByClient_NilBecomesEmptySlice() {
	ctx := context.Background()
	clientID := uuid.NewString()
	suite.mockAccountRepo.On("ListAccountsByClient", ctx, clientID, 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccountsByClient(ctx, dto.ListAccountsParams{ClientID: clientID, Limit: 20})

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
