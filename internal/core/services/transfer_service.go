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

// transferService implements the TransferSvcFacade interface
type transferService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
}

// NewTransferService creates a new transfer service
func NewTransferService(transactionRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TransferSvcFacade {
	return &transferService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// newBankMovement builds a completed transaction whose source is the bank
// itself: interest credit, disbursement, deposit payout. Shared by the credit
// and deposit services so every movement carries the same reference shape.
func newBankMovement(toAccountID string, amount decimal.Decimal, currencyCode string, txnType domain.TransactionType, description string, operatorID string, now time.Time) (domain.Transaction, error) {
	ref, err := utils.GenerateReferenceNumber()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to generate reference number: %w", err)
	}
	executed := now
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: ref,
		FromAccountID:   nil,
		ToAccountID:     &toAccountID,
		Amount:          domain.RoundMoney(amount),
		Fee:             decimal.Zero,
		CurrencyCode:    currencyCode,
		Type:            txnType,
		Status:          domain.TxnCompleted,
		Description:     description,
		CreatedAt:       now,
		ExecutedAt:      &executed,
		CreatedBy:       operatorID,
	}, nil
}

// newBankDebitMovement builds a completed transaction that debits a customer
// account in favor of the bank: credit payments, deposit funding.
func newBankDebitMovement(fromAccountID string, amount decimal.Decimal, currencyCode string, txnType domain.TransactionType, description string, operatorID string, now time.Time) (domain.Transaction, error) {
	ref, err := utils.GenerateReferenceNumber()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to generate reference number: %w", err)
	}
	executed := now
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: ref,
		FromAccountID:   &fromAccountID,
		ToAccountID:     nil,
		Amount:          domain.RoundMoney(amount),
		Fee:             decimal.Zero,
		CurrencyCode:    currencyCode,
		Type:            txnType,
		Status:          domain.TxnCompleted,
		Description:     description,
		CreatedAt:       now,
		ExecutedAt:      &executed,
		CreatedBy:       operatorID,
	}, nil
}

func (s *transferService) ExecuteTransfer(ctx context.Context, req dto.CreateTransferRequest, operatorID string) (*domain.Transaction, error) {
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	fee := decimal.Zero
	if req.Fee != nil {
		fee = domain.RoundMoney(*req.Fee)
		if fee.IsNegative() {
			return nil, fmt.Errorf("%w: fee cannot be negative", apperrors.ErrValidation)
		}
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transfer accounts")
		return nil, err
	}
	from, ok := accounts[req.FromAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.FromAccountID)
	}
	to, ok := accounts[req.ToAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.ToAccountID)
	}

	if from.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotActive, from.AccountID)
	}
	if to.Status != domain.AccountActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotActive, to.AccountID)
	}
	if from.CurrencyCode != to.CurrencyCode {
		return nil, fmt.Errorf("%w: %s vs %s", apperrors.ErrCurrencyMismatch, from.CurrencyCode, to.CurrencyCode)
	}

	ref, err := utils.GenerateReferenceNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference number: %w", err)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ReferenceNumber: ref,
		FromAccountID:   &from.AccountID,
		ToAccountID:     &to.AccountID,
		Amount:          amount,
		Fee:             fee,
		CurrencyCode:    from.CurrencyCode,
		Type:            domain.TransferTxn,
		Status:          domain.TxnPending,
		Description:     req.Description,
		CreatedAt:       now,
		CreatedBy:       operatorID,
	}

	total := txn.TotalDebit()
	if !from.CanWithdraw(total) {
		// Rejected movements still leave an audit row; no balances change.
		txn.Status = domain.TxnFailed
		if insErr := s.transactionRepo.InsertTransaction(ctx, txn); insErr != nil {
			s.LogError(ctx, insErr, "Failed to record rejected transfer", slog.String("reference", ref))
		}
		s.LogWarn(ctx, "Transfer rejected: insufficient funds",
			slog.String("from_account_id", from.AccountID),
			slog.String("amount", total.String()))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, from.AccountID)
	}

	txn.Status = domain.TxnCompleted
	executed := time.Now()
	txn.ExecutedAt = &executed

	balanceChanges := map[string]decimal.Decimal{
		from.AccountID: total.Neg(),
		to.AccountID:   amount,
	}

	if err := s.transactionRepo.SaveTransfer(ctx, txn, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			// Balance moved between the read and the row lock; keep the audit row.
			txn.Status = domain.TxnFailed
			txn.ExecutedAt = nil
			if insErr := s.transactionRepo.InsertTransaction(ctx, txn); insErr != nil {
				s.LogError(ctx, insErr, "Failed to record rejected transfer", slog.String("reference", ref))
			}
		}
		s.LogError(ctx, err, "Failed to execute transfer", slog.String("reference", ref))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer executed",
		slog.String("reference", ref),
		slog.String("from_account_id", from.AccountID),
		slog.String("to_account_id", to.AccountID),
		slog.String("amount", amount.String()))
	return &txn, nil
}

func (s *transferService) CancelTransaction(ctx context.Context, transactionID string, operatorID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.CanBeCancelled() {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidStateForCancellation, transactionID, txn.Status)
	}

	// Inverse deltas of the original movement. Money that came from the bank
	// is simply taken back from the destination, and vice versa.
	inverse := map[string]decimal.Decimal{}
	if txn.ToAccountID != nil {
		inverse[*txn.ToAccountID] = txn.Amount.Neg()
	}
	if txn.FromAccountID != nil {
		inverse[*txn.FromAccountID] = txn.TotalDebit()
	}

	if err := s.transactionRepo.CancelTransfer(ctx, *txn, inverse, operatorID); err != nil {
		s.LogError(ctx, err, "Failed to cancel transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.Status = domain.TxnCancelled
	s.LogInfo(ctx, "Transaction cancelled",
		slog.String("transaction_id", transactionID),
		slog.String("reference", txn.ReferenceNumber))
	return txn, nil
}

func (s *transferService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transferService) GetTransactionByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByReference(ctx, referenceNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by reference", slog.String("reference", referenceNumber))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transferService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	txns, nextToken, err := s.transactionRepo.ListTransactionsByAccountID(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    nextToken,
	}, nil
}
