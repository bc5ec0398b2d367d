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
	"github.com/sibgate/bankcore/internal/utils/dates"
)

type CreditServiceTestSuite struct {
	suite.Suite
	mockCreditRepo  *MockCreditRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.CreditSvcFacade
}

func (suite *CreditServiceTestSuite) SetupTest() {
	suite.mockCreditRepo = new(MockCreditRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewCreditService(suite.mockCreditRepo, suite.mockAccountRepo, services.DefaultServicingConfig())
}

func (suite *CreditServiceTestSuite) annuityProduct() *domain.CreditProduct {
	return &domain.CreditProduct{
		ProductID:             uuid.NewString(),
		Name:                  "Consumer 12",
		CreditType:            domain.ConsumerCredit,
		MinAmount:             decimal.RequireFromString("10000"),
		MaxAmount:             decimal.RequireFromString("500000"),
		MinInterestRate:       decimal.RequireFromString("5"),
		MaxInterestRate:       decimal.RequireFromString("25"),
		MinTermMonths:         3,
		MaxTermMonths:         60,
		CurrencyCode:          "RUB",
		PaymentMethod:         domain.Annuity,
		EarlyRepaymentAllowed: true,
		IsActive:              true,
	}
}

// activeCredit returns a disbursed 120000 RUB credit at 12% over 12 months.
func (suite *CreditServiceTestSuite) activeCredit(product *domain.CreditProduct) *domain.Credit {
	start := dates.Truncate(time.Now()).AddDate(0, 0, -30)
	end := start.AddDate(0, 0, 12*30)
	next := start.AddDate(0, 0, 30)
	return &domain.Credit{
		CreditID:          uuid.NewString(),
		ClientID:          uuid.NewString(),
		AccountID:         uuid.NewString(),
		ProductID:         product.ProductID,
		ApplicationNumber: "APP12AB34CD",
		Amount:            decimal.RequireFromString("120000"),
		InterestRate:      decimal.RequireFromString("12"),
		TermMonths:        12,
		Status:            domain.CreditActive,
		StartDate:         &start,
		EndDate:           &end,
		NextPaymentDate:   &next,
		RemainingBalance:  decimal.RequireFromString("120000"),
		TotalPaid:         decimal.Zero,
		OverdueAmount:     decimal.Zero,
	}
}

func (suite *CreditServiceTestSuite) TestCreateApplication_ValidatesProductBounds() {
	ctx := context.Background()
	product := suite.annuityProduct()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil)

	_, err := suite.service.CreateApplication(ctx, dto.CreateCreditApplicationRequest{
		ClientID:     uuid.NewString(),
		AccountID:    uuid.NewString(),
		ProductID:    product.ProductID,
		Amount:       decimal.RequireFromString("5000"), // below MinAmount
		InterestRate: decimal.RequireFromString("12"),
		TermMonths:   12,
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "SaveCredit", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestCreateApplication_Success() {
	ctx := context.Background()
	product := suite.annuityProduct()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
	}
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockCreditRepo.On("SaveCredit", ctx, mock.MatchedBy(func(c domain.Credit) bool {
		return c.Status == domain.CreditApplication && c.RemainingBalance.IsZero()
	})).Return(nil).Once()

	credit, err := suite.service.CreateApplication(ctx, dto.CreateCreditApplicationRequest{
		ClientID:     uuid.NewString(),
		AccountID:    account.AccountID,
		ProductID:    product.ProductID,
		Amount:       decimal.RequireFromString("120000"),
		InterestRate: decimal.RequireFromString("12"),
		TermMonths:   12,
	}, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.CreditApplication, credit.Status)
	suite.Regexp(`^APP[0-9A-F]{8}$`, credit.ApplicationNumber)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestLifecycle_ReviewApproveAssignsContractNumber() {
	ctx := context.Background()
	credit := &domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditApplication}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil)
	suite.mockCreditRepo.On("UpdateCredit", ctx, mock.Anything).Return(nil)

	reviewed, err := suite.service.SubmitForReview(ctx, credit.CreditID, "op-1")
	suite.Require().NoError(err)
	suite.Equal(domain.CreditUnderReview, reviewed.Status)

	approved, err := suite.service.ApproveCredit(ctx, credit.CreditID, "op-1")
	suite.Require().NoError(err)
	suite.Equal(domain.CreditApproved, approved.Status)
	suite.Require().NotNil(approved.ContractNumber)
	suite.Regexp(`^CRD[0-9A-F]{8}$`, *approved.ContractNumber)
}

func (suite *CreditServiceTestSuite) TestLifecycle_RejectFromWrongStateConflicts() {
	ctx := context.Background()
	credit := &domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditActive}
	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()

	_, err := suite.service.RejectCredit(ctx, credit.CreditID, dto.RejectCreditRequest{Reason: "bad score"}, "op-1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CreditServiceTestSuite) TestDisburseCredit_ActivatesAndCreditsAccount() {
	ctx := context.Background()
	contract := "CRD11AA22BB"
	credit := &domain.Credit{
		CreditID:          uuid.NewString(),
		AccountID:         uuid.NewString(),
		ApplicationNumber: "APP11AA22BB",
		ContractNumber:    &contract,
		Amount:            decimal.RequireFromString("120000"),
		InterestRate:      decimal.RequireFromString("12"),
		TermMonths:        12,
		Status:            domain.CreditApproved,
	}
	account := &domain.Account{AccountID: credit.AccountID, CurrencyCode: "RUB", Status: domain.AccountActive}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockCreditRepo.On("DisburseCredit", ctx,
		mock.MatchedBy(func(c domain.Credit) bool {
			return c.Status == domain.CreditActive &&
				c.RemainingBalance.Equal(credit.Amount) &&
				c.StartDate != nil && c.NextPaymentDate != nil &&
				c.NextPaymentDate.Equal(c.StartDate.AddDate(0, 0, 30))
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.CreditDisbursementTxn && txn.FromAccountID == nil
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(credit.Amount)
		})).Return(nil).Once()

	disbursed, err := suite.service.DisburseCredit(ctx, credit.CreditID, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.CreditActive, disbursed.Status)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestCalculateNextPayment_FirstAnnuityInstallment() {
	ctx := context.Background()
	product := suite.annuityProduct()
	credit := suite.activeCredit(product)

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, credit.CreditID).Return(0, nil).Once()

	next, err := suite.service.CalculateNextPayment(ctx, credit.CreditID)

	suite.Require().NoError(err)
	suite.Equal(1, next.PaymentNumber)
	suite.True(next.InterestAmount.Equal(decimal.RequireFromString("1200.00")), "interest %s", next.InterestAmount)
	// 120000 at 12% over 12 months: annuity formula gives 10661.8546 -> 10661.85.
	suite.True(next.TotalAmount.Equal(decimal.RequireFromString("10661.85")), "total %s", next.TotalAmount)
	suite.True(next.PenaltyAmount.IsZero())
}

func (suite *CreditServiceTestSuite) TestCalculatePenalty_PointOnePercentPerDay() {
	ctx := context.Background()
	next := dates.Truncate(time.Now()).AddDate(0, 0, -45)
	credit := &domain.Credit{
		CreditID:        uuid.NewString(),
		Status:          domain.CreditOverdue,
		NextPaymentDate: &next,
		OverdueAmount:   decimal.RequireFromString("5000.00"),
	}
	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()

	penalty, err := suite.service.CalculatePenalty(ctx, credit.CreditID, time.Now())

	suite.Require().NoError(err)
	// 5000 * 0.001 * 45 days
	suite.True(penalty.Equal(decimal.RequireFromString("225.00")), "penalty %s", penalty)
}

func (suite *CreditServiceTestSuite) TestMakePayment_ShortPaymentRejected() {
	ctx := context.Background()
	product := suite.annuityProduct()
	credit := suite.activeCredit(product)

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, credit.CreditID).Return(0, nil).Once()

	_, err := suite.service.MakePayment(ctx, credit.CreditID, dto.MakeCreditPaymentRequest{
		Amount: decimal.RequireFromString("5000.00"),
	}, "op-1")

	suite.ErrorIs(err, apperrors.ErrInsufficientPaymentAmount)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestMakePayment_SplitsPrincipalAndInterest() {
	ctx := context.Background()
	product := suite.annuityProduct()
	credit := suite.activeCredit(product)
	account := &domain.Account{
		AccountID:    credit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
		Balance:      decimal.RequireFromString("50000.00"),
	}
	previousNext := *credit.NextPaymentDate

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, credit.CreditID).Return(0, nil).Once()
	suite.mockCreditRepo.On("CountPayments", ctx, credit.CreditID).Return(0, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockCreditRepo.On("ApplyPayment", ctx,
		mock.MatchedBy(func(p domain.CreditPayment) bool {
			return p.PaymentNumber == 1 &&
				p.Status == domain.PaymentCompleted &&
				p.InterestAmount.Equal(decimal.RequireFromString("1200.00")) &&
				p.PrincipalAmount.Equal(decimal.RequireFromString("9461.85"))
		}),
		mock.MatchedBy(func(c domain.Credit) bool {
			return c.RemainingBalance.Equal(decimal.RequireFromString("110538.15")) &&
				c.TotalPaid.Equal(decimal.RequireFromString("10661.85")) &&
				c.NextPaymentDate != nil &&
				c.NextPaymentDate.Equal(previousNext.AddDate(0, 0, 30))
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.CreditPaymentTxn && txn.ToAccountID == nil
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[account.AccountID].Equal(decimal.RequireFromString("-10661.85"))
		})).Return(nil).Once()

	payment, err := suite.service.MakePayment(ctx, credit.CreditID, dto.MakeCreditPaymentRequest{
		Amount: decimal.RequireFromString("10661.85"),
	}, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentCompleted, payment.Status)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestMakePayment_ClosesCreditWhenBalanceReachesZero() {
	ctx := context.Background()
	product := suite.annuityProduct()
	credit := suite.activeCredit(product)
	credit.RemainingBalance = decimal.RequireFromString("9000.00")
	account := &domain.Account{
		AccountID:    credit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
		Balance:      decimal.RequireFromString("50000.00"),
	}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, credit.CreditID).Return(0, nil).Once()
	suite.mockCreditRepo.On("CountPayments", ctx, credit.CreditID).Return(0, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockCreditRepo.On("ApplyPayment", ctx, mock.Anything,
		mock.MatchedBy(func(c domain.Credit) bool {
			return c.Status == domain.CreditClosed &&
				c.RemainingBalance.IsZero() &&
				c.NextPaymentDate == nil
		}),
		mock.Anything, mock.Anything).Return(nil).Once()

	payment, err := suite.service.MakePayment(ctx, credit.CreditID, dto.MakeCreditPaymentRequest{
		Amount: decimal.RequireFromString("10661.85"),
	}, "op-1")

	suite.Require().NoError(err)
	// Principal is capped at what was left on the credit.
	suite.True(payment.PrincipalAmount.Equal(decimal.RequireFromString("9000.00")))
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestMakeEarlyRepayment_PaysOffAndCloses() {
	ctx := context.Background()
	product := suite.annuityProduct()
	credit := suite.activeCredit(product)
	credit.RemainingBalance = decimal.RequireFromString("50000.00")
	account := &domain.Account{
		AccountID:    credit.AccountID,
		CurrencyCode: "RUB",
		Status:       domain.AccountActive,
		Balance:      decimal.RequireFromString("60000.00"),
	}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockCreditRepo.On("CountPayments", ctx, credit.CreditID).Return(3, nil).Once()
	suite.mockCreditRepo.On("ApplyPayment", ctx,
		mock.MatchedBy(func(p domain.CreditPayment) bool {
			return p.PaymentNumber == 4 && p.Amount.Equal(decimal.RequireFromString("50000.00"))
		}),
		mock.MatchedBy(func(c domain.Credit) bool {
			return c.Status == domain.CreditClosed && c.RemainingBalance.IsZero()
		}),
		mock.Anything, mock.Anything).Return(nil).Once()

	payment, err := suite.service.MakeEarlyRepayment(ctx, credit.CreditID, "op-1")

	suite.Require().NoError(err)
	suite.True(payment.PrincipalAmount.Equal(decimal.RequireFromString("50000.00")))
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestMakeEarlyRepayment_ProductForbidsIt() {
	ctx := context.Background()
	product := suite.annuityProduct()
	product.EarlyRepaymentAllowed = false
	credit := suite.activeCredit(product)

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(credit, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()

	_, err := suite.service.MakeEarlyRepayment(ctx, credit.CreditID, "op-1")
	suite.ErrorIs(err, apperrors.ErrEarlyRepaymentNotAllowed)
}

func (suite *CreditServiceTestSuite) TestRunOverdueSweep_AppliesThresholds() {
	ctx := context.Background()
	asOf := dates.Truncate(time.Now())
	product := suite.annuityProduct()

	overdue := *suite.activeCredit(product)
	next45 := asOf.AddDate(0, 0, -45)
	overdue.NextPaymentDate = &next45
	// Stale figure from a previous sweep; the run must refresh it.
	overdue.OverdueAmount = decimal.RequireFromString("9999.99")

	defaulted := *suite.activeCredit(product)
	next95 := asOf.AddDate(0, 0, -95)
	defaulted.Status = domain.CreditOverdue
	defaulted.NextPaymentDate = &next95

	suite.mockCreditRepo.On("ListServicedCredits", ctx, asOf).
		Return([]domain.Credit{overdue, defaulted}, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Twice()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, overdue.CreditID).Return(0, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, defaulted.CreditID).Return(0, nil).Once()
	suite.mockCreditRepo.On("UpdateCredit", ctx, mock.MatchedBy(func(c domain.Credit) bool {
		return c.CreditID == overdue.CreditID && c.Status == domain.CreditOverdue &&
			c.OverdueDays == 45 &&
			c.OverdueAmount.Equal(decimal.RequireFromString("10661.85"))
	})).Return(nil).Once()
	suite.mockCreditRepo.On("UpdateCredit", ctx, mock.MatchedBy(func(c domain.Credit) bool {
		return c.CreditID == defaulted.CreditID && c.Status == domain.CreditDefault && c.OverdueDays == 95
	})).Return(nil).Once()

	result, err := suite.service.RunOverdueSweep(ctx, asOf, false, "system")

	suite.Require().NoError(err)
	suite.Equal(2, result.Processed)
	suite.Equal(2, result.Succeeded)
	suite.Zero(result.Failed)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestRunOverdueSweep_SecondRunSameDayIsNoOp() {
	ctx := context.Background()
	asOf := dates.Truncate(time.Now())
	product := suite.annuityProduct()

	already := *suite.activeCredit(product)
	next45 := asOf.AddDate(0, 0, -45)
	already.Status = domain.CreditOverdue
	already.NextPaymentDate = &next45
	already.OverdueDays = 45
	already.OverdueAmount = decimal.RequireFromString("10661.85")

	suite.mockCreditRepo.On("ListServicedCredits", ctx, asOf).
		Return([]domain.Credit{already}, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, already.CreditID).Return(0, nil).Once()

	result, err := suite.service.RunOverdueSweep(ctx, asOf, false, "system")

	suite.Require().NoError(err)
	suite.Equal(1, result.Skipped)
	suite.Zero(result.Succeeded)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "UpdateCredit", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestRunOverdueSweep_DryRunWritesNothing() {
	ctx := context.Background()
	asOf := dates.Truncate(time.Now())
	product := suite.annuityProduct()

	overdue := *suite.activeCredit(product)
	next45 := asOf.AddDate(0, 0, -45)
	overdue.NextPaymentDate = &next45

	suite.mockCreditRepo.On("ListServicedCredits", ctx, asOf).
		Return([]domain.Credit{overdue}, nil).Once()
	suite.mockCreditRepo.On("FindCreditProductByID", ctx, product.ProductID).Return(product, nil).Once()
	suite.mockCreditRepo.On("CountCompletedPayments", ctx, overdue.CreditID).Return(0, nil).Once()

	result, err := suite.service.RunOverdueSweep(ctx, asOf, true, "system")

	suite.Require().NoError(err)
	suite.True(result.DryRun)
	suite.Equal(1, result.Succeeded)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "UpdateCredit", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestRunPenaltyAccrual_RecordsPendingPenaltyEntries() {
	ctx := context.Background()
	asOf := dates.Truncate(time.Now())
	overdue := domain.Credit{
		CreditID:      uuid.NewString(),
		Status:        domain.CreditOverdue,
		OverdueAmount: decimal.RequireFromString("5000.00"),
	}

	suite.mockCreditRepo.On("ListOverdueCredits", ctx).Return([]domain.Credit{overdue}, nil).Once()
	suite.mockCreditRepo.On("CountPayments", ctx, overdue.CreditID).Return(2, nil).Once()
	suite.mockCreditRepo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.CreditPayment) bool {
		return p.PaymentNumber == 3 &&
			p.Status == domain.PaymentPending &&
			p.PenaltyAmount.Equal(decimal.RequireFromString("5.00")) &&
			p.PrincipalAmount.IsZero()
	})).Return(nil).Once()

	result, err := suite.service.RunPenaltyAccrual(ctx, asOf, false, "system")

	suite.Require().NoError(err)
	suite.Equal(1, result.Succeeded)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func TestCreditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}
