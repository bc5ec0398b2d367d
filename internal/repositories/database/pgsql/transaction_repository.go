package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	portsrepo "github.com/sibgate/bankcore/internal/core/ports/repositories"
	"github.com/sibgate/bankcore/internal/models"
	"github.com/sibgate/bankcore/internal/utils/mapping"
	"github.com/sibgate/bankcore/internal/utils/pagination"
)

const transactionColumns = `transaction_id, reference_number, from_account_id, to_account_id, amount, fee, currency_code, transaction_type, status, description, credit_id, deposit_id, created_at, executed_at, created_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for transaction data.
// It needs the account repository to lock and mutate balances inside its own
// database transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.ReferenceNumber,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Amount,
		&m.Fee,
		&m.CurrencyCode,
		&m.TransactionType,
		&m.Status,
		&m.Description,
		&m.CreditID,
		&m.DepositID,
		&m.CreatedAt,
		&m.ExecutedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertTransactionTx(ctx context.Context, q execer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID,
		m.ReferenceNumber,
		m.FromAccountID,
		m.ToAccountID,
		m.Amount,
		m.Fee,
		m.CurrencyCode,
		m.TransactionType,
		m.Status,
		m.Description,
		m.CreditID,
		m.DepositID,
		m.CreatedAt,
		m.ExecutedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// applyBalanceChanges locks the touched accounts in ascending ID order,
// re-checks every debit against the locked balance and applies the deltas.
// A debit the locked balance cannot cover returns ErrInsufficientFunds.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountTransactionSupport, balanceChanges map[string]decimal.Decimal, operatorID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	locked, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		delta := balanceChanges[id]
		if delta.IsNegative() {
			account := locked[id]
			if account.AvailableBalance().Add(delta).IsNegative() {
				return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, id)
			}
		}
	}
	return accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, operatorID, now)
}

// SaveTransfer persists a completed transaction and applies its balance deltas
// atomically.
func (r *PgxTransactionRepository) SaveTransfer(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := applyBalanceChanges(ctx, tx, r.accountRepo, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// InsertTransaction persists a transaction row without touching balances.
func (r *PgxTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransactionTx(ctx, r.Pool, txn)
}

// CancelTransfer marks a completed transaction cancelled and applies the
// inverse balance deltas in the same database transaction. The status flip is
// guarded in SQL so a concurrent cancellation cannot apply the deltas twice.
func (r *PgxTransactionRepository) CancelTransfer(ctx context.Context, txn domain.Transaction, inverseChanges map[string]decimal.Decimal, operatorID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now()
	query := `
		UPDATE transactions
		SET status = $2
		WHERE transaction_id = $1 AND status = $3;
	`
	cmdTag, err := tx.Exec(ctx, query, txn.TransactionID, string(domain.TxnCancelled), string(domain.TxnCompleted))
	if err != nil {
		return fmt.Errorf("failed to cancel transaction %s: %w", txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrInvalidStateForCancellation, txn.TransactionID)
	}

	if err := applyBalanceChanges(ctx, tx, r.accountRepo, inverseChanges, operatorID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// FindTransactionByReference retrieves a transaction by its reference number.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference_number = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, referenceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by reference %s: %w", referenceNumber, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactionsByAccountID retrieves a keyset-paginated list of transactions
// touching an account, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)
	`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(*m))
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, rows.Err())
	}

	var newToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newToken = &token
	}
	return transactions, newToken, nil
}
