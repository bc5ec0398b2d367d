package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sibgate/bankcore/internal/core/domain"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, operatorID string, now time.Time) error {
	args := m.Called(ctx, accountID, status, operatorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, operatorID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, operatorID, now)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransfer(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) CancelTransfer(ctx context.Context, txn domain.Transaction, inverseChanges map[string]decimal.Decimal, operatorID string) error {
	args := m.Called(ctx, txn, inverseChanges, operatorID)
	return args.Error(0)
}

// --- Mock CreditRepository ---

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindCreditProductByID(ctx context.Context, productID string) (*domain.CreditProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditProduct), args.Error(1)
}

func (m *MockCreditRepository) ListCreditProducts(ctx context.Context, activeOnly bool) ([]domain.CreditProduct, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditProduct), args.Error(1)
}

func (m *MockCreditRepository) SaveCreditProduct(ctx context.Context, product domain.CreditProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListCreditsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Credit, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListServicedCredits(ctx context.Context, asOf time.Time) ([]domain.Credit, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListOverdueCredits(ctx context.Context) ([]domain.Credit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) SaveCredit(ctx context.Context, credit domain.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) UpdateCredit(ctx context.Context, credit domain.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) DisburseCredit(ctx context.Context, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, credit, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockCreditRepository) ApplyPayment(ctx context.Context, payment domain.CreditPayment, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, payment, credit, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockCreditRepository) ListPaymentsByCredit(ctx context.Context, creditID string) ([]domain.CreditPayment, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditPayment), args.Error(1)
}

func (m *MockCreditRepository) CountCompletedPayments(ctx context.Context, creditID string) (int, error) {
	args := m.Called(ctx, creditID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepository) CountPayments(ctx context.Context, creditID string) (int, error) {
	args := m.Called(ctx, creditID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepository) SavePayment(ctx context.Context, payment domain.CreditPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock DepositRepository ---

type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListDepositsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Deposit, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListActiveDeposits(ctx context.Context) ([]domain.Deposit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}

func (m *MockDepositRepository) ListInterestPaymentsByDeposit(ctx context.Context, depositID string) ([]domain.DepositInterestPayment, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepositInterestPayment), args.Error(1)
}

func (m *MockDepositRepository) OpenDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, deposit, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockDepositRepository) UpdateDeposit(ctx context.Context, deposit domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) ApplyAccrual(ctx context.Context, payment domain.DepositInterestPayment, deposit domain.Deposit, txn *domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, payment, deposit, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockDepositRepository) CloseDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, deposit, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockDepositRepository) MarkMatured(ctx context.Context, depositID string, operatorID string, now time.Time) error {
	args := m.Called(ctx, depositID, operatorID, now)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
