package services_test

import (
	"context"
	"testing"
	"time"

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

type DepositServiceTestSuite struct {
	suite.Suite
	mockDepositRepo *MockDepositRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.DepositSvcFacade
}

func (suite *DepositServiceTestSuite) SetupTest() {
	suite.mockDepositRepo = new(MockDepositRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewDepositService(suite.mockDepositRepo, suite.mockAccountRepo)
}

// termDeposit returns a 100000 RUB deposit at 10% per annum opened 2026-06-15.
func (suite *DepositServiceTestSuite) termDeposit(cap domain.Capitalization) *domain.Deposit {
	start := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	return &domain.Deposit{
		DepositID:      uuid.NewString(),
		ClientID:       uuid.NewString(),
		AccountID:      uuid.NewString(),
		DepositType:    domain.TermDeposit,
		Amount:         decimal.RequireFromString("100000.00"),
		InterestRate:   decimal.RequireFromString("10"),
		TermMonths:     12,
		Capitalization: cap,
		Status:         domain.DepositActive,
		StartDate:      start,
		EndDate:        start.AddDate(0, 12, 0),
	}
}

func (suite *DepositServiceTestSuite) TestOpenDeposit_DebitsAccountAndSetsCalendarEndDate() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
		Balance:      decimal.RequireFromString("150000.00"),
	}
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockDepositRepo.On("OpenDeposit", ctx,
		mock.MatchedBy(func(d domain.Deposit) bool {
			// Jan 31 + 1 calendar month normalizes to Mar 3 (Feb 2026 has 28 days).
			return d.Status == domain.DepositActive &&
				d.StartDate.Equal(start) &&
				d.EndDate.Equal(start.AddDate(0, 1, 0))
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.DepositTxn && txn.ToAccountID == nil &&
				txn.FromAccountID != nil && *txn.FromAccountID == account.AccountID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(decimal.RequireFromString("-100000.00"))
		})).Return(nil).Once()

	deposit, err := suite.service.OpenDeposit(ctx, dto.OpenDepositRequest{
		ClientID:       uuid.NewString(),
		AccountID:      account.AccountID,
		DepositType:    domain.TermDeposit,
		Amount:         decimal.RequireFromString("100000.00"),
		InterestRate:   decimal.RequireFromString("10"),
		TermMonths:     1,
		Capitalization: domain.CapMonthly,
		StartDate:      &start,
	}, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.DepositActive, deposit.Status)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestOpenDeposit_InsufficientFunds() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
		Balance:      decimal.RequireFromString("500.00"),
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.OpenDeposit(ctx, dto.OpenDepositRequest{
		ClientID:     uuid.NewString(),
		AccountID:    account.AccountID,
		DepositType:  domain.TermDeposit,
		Amount:       decimal.RequireFromString("100000.00"),
		InterestRate: decimal.RequireFromString("10"),
		TermMonths:   12,
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockDepositRepo.AssertNotCalled(suite.T(), "OpenDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DepositServiceTestSuite) TestCalculateInterest_ThreeDaysActual365() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	last := time.Date(2026, 6, 27, 0, 0, 0, 0, time.UTC)
	deposit.LastInterestAccrual = &last

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	interest, err := suite.service.CalculateInterest(ctx, deposit.DepositID, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))

	suite.Require().NoError(err)
	// 100000 * 10% * 3/365
	suite.True(interest.Equal(decimal.RequireFromString("82.19")), "interest %s", interest)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_MidMonthIsNotABoundary() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC), false, "system")

	suite.Require().NoError(err)
	suite.Nil(payment)
	suite.mockDepositRepo.AssertNotCalled(suite.T(), "ApplyAccrual", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_NeverOnStartDate() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	deposit.StartDate = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	deposit.EndDate = deposit.StartDate.AddDate(0, 12, 0)

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, deposit.StartDate, false, "system")

	suite.Require().NoError(err)
	suite.Nil(payment)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_SecondRunSameDayIsNoOp() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	boundary := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	deposit.LastInterestAccrual = &boundary

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, boundary, false, "system")

	suite.Require().NoError(err)
	suite.Nil(payment)
	suite.mockDepositRepo.AssertNotCalled(suite.T(), "ApplyAccrual", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_MonthlyCapitalizationCompounds() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	boundary := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	account := &domain.Account{
		AccountID:    deposit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
	}

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockDepositRepo.On("ApplyAccrual", ctx,
		mock.MatchedBy(func(p domain.DepositInterestPayment) bool {
			// 15 days from June 15 to June 30: 100000 * 10% * 15/365.
			return p.Amount.Equal(decimal.RequireFromString("410.96")) && p.TransactionID != nil
		}),
		mock.MatchedBy(func(d domain.Deposit) bool {
			// Capitalization grows the deposit on top of the account credit.
			return d.Amount.Equal(decimal.RequireFromString("100410.96")) &&
				d.LastInterestAccrual != nil && d.LastInterestAccrual.Equal(boundary)
		}),
		mock.MatchedBy(func(txn *domain.Transaction) bool {
			return txn != nil && txn.Type == domain.InterestAccrualTxn &&
				txn.FromAccountID == nil &&
				txn.ToAccountID != nil && *txn.ToAccountID == account.AccountID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(decimal.RequireFromString("410.96"))
		})).Return(nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, boundary, false, "system")

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.NotNil(payment.TransactionID)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_NoCapitalizationPaysOutToAccount() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapNone)
	boundary := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	account := &domain.Account{
		AccountID:    deposit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
	}

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockDepositRepo.On("ApplyAccrual", ctx,
		mock.MatchedBy(func(p domain.DepositInterestPayment) bool {
			return p.Amount.Equal(decimal.RequireFromString("410.96")) && p.TransactionID != nil
		}),
		mock.MatchedBy(func(d domain.Deposit) bool {
			// Paid-out interest never grows the deposit itself.
			return d.Amount.Equal(decimal.RequireFromString("100000.00"))
		}),
		mock.MatchedBy(func(txn *domain.Transaction) bool {
			return txn != nil && txn.Type == domain.InterestAccrualTxn &&
				txn.FromAccountID == nil &&
				txn.ToAccountID != nil && *txn.ToAccountID == account.AccountID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(decimal.RequireFromString("410.96"))
		})).Return(nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, boundary, false, "system")

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.NotNil(payment.TransactionID)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_QuarterlyWaitsForQuarterEnd() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapQuarterly)
	deposit.StartDate = time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	deposit.EndDate = deposit.StartDate.AddDate(0, 12, 0)

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Twice()
	suite.mockAccountRepo.On("FindAccountByID", ctx, deposit.AccountID).
		Return(&domain.Account{AccountID: deposit.AccountID, CurrencyCode: "RUB", Status: domain.AccountActive}, nil).Once()
	suite.mockDepositRepo.On("ApplyAccrual", ctx, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	// May 31 is a month end but not a quarter end.
	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), false, "system")
	suite.Require().NoError(err)
	suite.Nil(payment)

	payment, err = suite.service.AccrueInterest(ctx, deposit.DepositID, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), false, "system")
	suite.Require().NoError(err)
	suite.NotNil(payment)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_DryRunPersistsNothing() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	payment, err := suite.service.AccrueInterest(ctx, deposit.DepositID, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), true, "system")

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.True(payment.Amount.Equal(decimal.RequireFromString("410.96")))
	suite.mockDepositRepo.AssertNotCalled(suite.T(), "ApplyAccrual", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DepositServiceTestSuite) TestAccrueInterest_ClosedDepositConflicts() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	deposit.Status = domain.DepositClosed

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	_, err := suite.service.AccrueInterest(ctx, deposit.DepositID, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), false, "system")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DepositServiceTestSuite) TestCloseDeposit_PaysOutAndMarksClosed() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	account := &domain.Account{
		AccountID:    deposit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
	}

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockDepositRepo.On("CloseDeposit", ctx,
		mock.MatchedBy(func(d domain.Deposit) bool {
			return d.Status == domain.DepositClosed
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.WithdrawalTxn && txn.FromAccountID == nil
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(decimal.RequireFromString("100000.00"))
		})).Return(nil).Once()

	closed, err := suite.service.CloseDeposit(ctx, deposit.DepositID, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.DepositClosed, closed.Status)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestCloseDeposit_AlreadyClosedConflicts() {
	ctx := context.Background()
	deposit := suite.termDeposit(domain.CapMonthly)
	deposit.Status = domain.DepositClosed

	suite.mockDepositRepo.On("FindDepositByID", ctx, deposit.DepositID).Return(deposit, nil).Once()

	_, err := suite.service.CloseDeposit(ctx, deposit.DepositID, "op-1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DepositServiceTestSuite) TestRunDailyAccrual_CountsSkippedAndAccrued() {
	ctx := context.Background()
	boundary := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	accruing := *suite.termDeposit(domain.CapMonthly)
	skipped := *suite.termDeposit(domain.CapEndOfTerm) // end of term is months away

	suite.mockDepositRepo.On("ListActiveDeposits", ctx).
		Return([]domain.Deposit{accruing, skipped}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, accruing.AccountID).
		Return(&domain.Account{AccountID: accruing.AccountID, CurrencyCode: "RUB", Status: domain.AccountActive}, nil).Once()
	suite.mockDepositRepo.On("ApplyAccrual", ctx, mock.Anything,
		mock.MatchedBy(func(d domain.Deposit) bool { return d.DepositID == accruing.DepositID }),
		mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RunDailyAccrual(ctx, boundary, false, "system")

	suite.Require().NoError(err)
	suite.Equal(2, result.Processed)
	suite.Equal(1, result.Succeeded)
	suite.Equal(1, result.Skipped)
	suite.Zero(result.Failed)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestRunMaturityCheck_MaturesElapsedDeposits() {
	ctx := context.Background()
	mature := *suite.termDeposit(domain.CapMonthly)
	asOf := mature.EndDate.AddDate(0, 0, 1)
	young := *suite.termDeposit(domain.CapMonthly)
	young.StartDate = asOf.AddDate(0, -1, 0)
	young.EndDate = young.StartDate.AddDate(0, 12, 0)

	suite.mockDepositRepo.On("ListActiveDeposits", ctx).
		Return([]domain.Deposit{mature, young}, nil).Once()
	suite.mockDepositRepo.On("MarkMatured", ctx, mature.DepositID, "system", mock.Anything).Return(nil).Once()

	result, err := suite.service.RunMaturityCheck(ctx, asOf, false, "system")

	suite.Require().NoError(err)
	suite.Equal(1, result.Succeeded)
	suite.Equal(1, result.Skipped)
	suite.mockDepositRepo.AssertExpectations(suite.T())
}

func (suite *DepositServiceTestSuite) TestRunMaturityCheck_DryRunWritesNothing() {
	ctx := context.Background()
	mature := *suite.termDeposit(domain.CapMonthly)
	asOf := mature.EndDate

	suite.mockDepositRepo.On("ListActiveDeposits", ctx).
		Return([]domain.Deposit{mature}, nil).Once()

	result, err := suite.service.RunMaturityCheck(ctx, asOf, true, "system")

	suite.Require().NoError(err)
	suite.True(result.DryRun)
	suite.Equal(1, result.Succeeded)
	suite.mockDepositRepo.AssertNotCalled(suite.T(), "MarkMatured", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepositServiceTestSuite))
}
