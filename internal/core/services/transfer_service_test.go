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

type TransferServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TransferSvcFacade
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTransferService(suite.mockTxnRepo, suite.mockAccountRepo)
}

func (suite *TransferServiceTestSuite) activeAccount(balance string) domain.Account {
	return domain.Account{
		AccountID:    uuid.NewString(),
		ClientID:     uuid.NewString(),
		AccountType:  domain.Checking,
		CurrencyCode: "RUB",
		Balance:      decimal.RequireFromString(balance),
		Status:       domain.AccountActive,
		OpeningDate:  time.Now(),
	}
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_DebitsFeeAndCreditsAmount() {
	ctx := context.Background()
	from := suite.activeAccount("1000.00")
	to := suite.activeAccount("0.00")
	fee := decimal.RequireFromString("10.00")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{from.AccountID, to.AccountID}).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()
	suite.mockTxnRepo.On("SaveTransfer", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[from.AccountID].Equal(decimal.RequireFromString("-510.00")) &&
			changes[to.AccountID].Equal(decimal.RequireFromString("500.00"))
	})).Return(nil).Once()

	txn, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        decimal.RequireFromString("500.00"),
		Fee:           &fee,
	}, "op-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.TxnCompleted, txn.Status)
	suite.Equal(domain.TransferTxn, txn.Type)
	suite.Regexp(`^TXN[0-9A-F]{12}$`, txn.ReferenceNumber)
	suite.True(txn.TotalDebit().Equal(decimal.RequireFromString("510.00")))
	suite.Require().NotNil(txn.ExecutedAt)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_InsufficientFundsRecordsFailedRow() {
	ctx := context.Background()
	from := suite.activeAccount("100.00")
	to := suite.activeAccount("0.00")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()
	suite.mockTxnRepo.On("InsertTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxnFailed && txn.ExecutedAt == nil
	})).Return(nil).Once()

	txn, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        decimal.RequireFromString("500.00"),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(txn)
	// The balances must not have been touched.
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_OverdraftCoversShortfall() {
	ctx := context.Background()
	from := suite.activeAccount("100.00")
	from.OverdraftLimit = decimal.RequireFromString("500.00")
	to := suite.activeAccount("0.00")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()
	suite.mockTxnRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        decimal.RequireFromString("400.00"),
	}, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TxnCompleted, txn.Status)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_CurrencyMismatch() {
	ctx := context.Background()
	from := suite.activeAccount("1000.00")
	to := suite.activeAccount("0.00")
	to.CurrencyCode = "USD"

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()

	_, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        decimal.RequireFromString("10.00"),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCurrencyMismatch)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_BlockedAccountRejected() {
	ctx := context.Background()
	from := suite.activeAccount("1000.00")
	from.Status = domain.AccountBlocked
	to := suite.activeAccount("0.00")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()

	_, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        decimal.RequireFromString("10.00"),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountNotActive)
}

func (suite *TransferServiceTestSuite) TestExecuteTransfer_NonPositiveAmount() {
	ctx := context.Background()
	_, err := suite.service.ExecuteTransfer(ctx, dto.CreateTransferRequest{
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        decimal.Zero,
	}, "op-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestCancelTransaction_AppliesInverseDeltas() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()
	executed := time.Now()
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: "TXN0011AAFF2233",
		FromAccountID:   &fromID,
		ToAccountID:     &toID,
		Amount:          decimal.RequireFromString("500.00"),
		Fee:             decimal.RequireFromString("10.00"),
		CurrencyCode:    "RUB",
		Type:            domain.TransferTxn,
		Status:          domain.TxnCompleted,
		ExecutedAt:      &executed,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockTxnRepo.On("CancelTransfer", ctx, *txn, mock.MatchedBy(func(inverse map[string]decimal.Decimal) bool {
		return inverse[fromID].Equal(decimal.RequireFromString("510.00")) &&
			inverse[toID].Equal(decimal.RequireFromString("-500.00"))
	}), "op-1").Return(nil).Once()

	cancelled, err := suite.service.CancelTransaction(ctx, txn.TransactionID, "op-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TxnCancelled, cancelled.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCancelTransaction_OnlyCompletedIsCancellable() {
	ctx := context.Background()
	for _, status := range []domain.TransactionStatus{domain.TxnPending, domain.TxnFailed, domain.TxnCancelled} {
		txn := &domain.Transaction{
			TransactionID: uuid.NewString(),
			Status:        status,
		}
		suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

		_, err := suite.service.CancelTransaction(ctx, txn.TransactionID, "op-1")
		suite.ErrorIs(err, apperrors.ErrInvalidStateForCancellation, "status %s", status)
	}
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "CancelTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestListTransactionsByAccount_PassesToken() {
	ctx := context.Background()
	accountID := uuid.NewString()
	next := "token-2"
	toID := uuid.NewString()
	txns := []domain.Transaction{{TransactionID: uuid.NewString(), ToAccountID: &toID, Amount: decimal.RequireFromString("5.00")}}

	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, accountID, 20, (*string)(nil)).
		Return(txns, &next, nil).Once()

	resp, err := suite.service.ListTransactionsByAccount(ctx, accountID, dto.ListTransactionsParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
