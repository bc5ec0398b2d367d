package services

import (
	"context"

	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/dto"
)

// TransferReaderSvc defines read operations for transaction data
type TransferReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its unique identifier.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// GetTransactionByReference retrieves a transaction by its reference number.
	GetTransactionByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of transactions for an account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransferWriterSvc defines money movement operations
type TransferWriterSvc interface {
	// ExecuteTransfer moves money between two accounts atomically. An attempt
	// rejected for insufficient funds still records a failed transaction row.
	ExecuteTransfer(ctx context.Context, req dto.CreateTransferRequest, operatorID string) (*domain.Transaction, error)

	// CancelTransaction reverses a completed transaction by applying the inverse
	// balance deltas and marking it cancelled.
	CancelTransaction(ctx context.Context, transactionID string, operatorID string) (*domain.Transaction, error)
}

// TransferSvcFacade combines all transfer-related service interfaces
// This is a facade for clients that need access to all operations
type TransferSvcFacade interface {
	TransferReaderSvc
	TransferWriterSvc
}
