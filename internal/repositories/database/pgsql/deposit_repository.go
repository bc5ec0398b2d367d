package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	portsrepo "github.com/sibgate/bankcore/internal/core/ports/repositories"
	"github.com/sibgate/bankcore/internal/models"
	"github.com/sibgate/bankcore/internal/utils/mapping"
)

const depositColumns = `deposit_id, client_id, account_id, deposit_type, amount, interest_rate, term_months, capitalization, status, start_date, end_date, last_interest_accrual, created_at, created_by, last_updated_at, last_updated_by`

const depositInterestPaymentColumns = `payment_id, deposit_id, period_start, period_end, amount, payment_date, transaction_id, created_at`

type PgxDepositRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxDepositRepository creates a new repository for deposit data. It needs
// the account repository because opening, accrual payout and closure move
// money inside its database transactions.
func newPgxDepositRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.DepositRepositoryWithTx {
	return &PgxDepositRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.DepositRepositoryWithTx = (*PgxDepositRepository)(nil)

func scanDeposit(row pgx.Row) (*models.Deposit, error) {
	var m models.Deposit
	err := row.Scan(
		&m.DepositID,
		&m.ClientID,
		&m.AccountID,
		&m.DepositType,
		&m.Amount,
		&m.InterestRate,
		&m.TermMonths,
		&m.Capitalization,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
		&m.LastInterestAccrual,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanDepositInterestPayment(row pgx.Row) (*models.DepositInterestPayment, error) {
	var m models.DepositInterestPayment
	err := row.Scan(
		&m.PaymentID,
		&m.DepositID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.Amount,
		&m.PaymentDate,
		&m.TransactionID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE deposit_id = $1;
	`
	m, err := scanDeposit(r.Pool.QueryRow(ctx, query, depositID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find deposit %s: %w", depositID, err)
	}
	deposit := mapping.ToDomainDeposit(*m)
	return &deposit, nil
}

func (r *PgxDepositRepository) ListDepositsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Deposit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE client_id = $1
		ORDER BY start_date DESC, deposit_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits for client %s: %w", clientID, err)
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		m, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit row for client %s: %w", clientID, err)
		}
		deposits = append(deposits, mapping.ToDomainDeposit(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating deposit rows for client %s: %w", clientID, rows.Err())
	}
	return deposits, nil
}

// ListActiveDeposits retrieves every active deposit. Ordered by end date so
// the maturity job processes the oldest contracts first.
func (r *PgxDepositRepository) ListActiveDeposits(ctx context.Context) ([]domain.Deposit, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE status = 'active'
		ORDER BY end_date, deposit_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active deposits: %w", err)
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		m, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active deposit row: %w", err)
		}
		deposits = append(deposits, mapping.ToDomainDeposit(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating active deposit rows: %w", rows.Err())
	}
	return deposits, nil
}

func (r *PgxDepositRepository) ListInterestPaymentsByDeposit(ctx context.Context, depositID string) ([]domain.DepositInterestPayment, error) {
	query := `
		SELECT ` + depositInterestPaymentColumns + `
		FROM deposit_interest_payments
		WHERE deposit_id = $1
		ORDER BY period_start;
	`
	rows, err := r.Pool.Query(ctx, query, depositID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interest payments for deposit %s: %w", depositID, err)
	}
	defer rows.Close()

	payments := []domain.DepositInterestPayment{}
	for rows.Next() {
		m, err := scanDepositInterestPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interest payment row for deposit %s: %w", depositID, err)
		}
		payments = append(payments, mapping.ToDomainDepositInterestPayment(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating interest payment rows for deposit %s: %w", depositID, rows.Err())
	}
	return payments, nil
}

func insertDepositTx(ctx context.Context, q execer, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	query := `
		INSERT INTO deposits (` + depositColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := q.Exec(ctx, query,
		m.DepositID,
		m.ClientID,
		m.AccountID,
		m.DepositType,
		m.Amount,
		m.InterestRate,
		m.TermMonths,
		m.Capitalization,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.LastInterestAccrual,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("deposit %s already exists: %w", m.DepositID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert deposit %s: %w", m.DepositID, err)
	}
	return nil
}

func updateDepositTx(ctx context.Context, q execer, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	query := `
		UPDATE deposits
		SET amount = $2, status = $3, last_interest_accrual = $4, end_date = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE deposit_id = $1;
	`
	tag, err := q.Exec(ctx, query,
		m.DepositID,
		m.Amount,
		m.Status,
		m.LastInterestAccrual,
		m.EndDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update deposit %s: %w", m.DepositID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertDepositInterestPaymentTx(ctx context.Context, q execer, payment domain.DepositInterestPayment) error {
	m := mapping.ToModelDepositInterestPayment(payment)
	query := `
		INSERT INTO deposit_interest_payments (` + depositInterestPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := q.Exec(ctx, query,
		m.PaymentID,
		m.DepositID,
		m.PeriodStart,
		m.PeriodEnd,
		m.Amount,
		m.PaymentDate,
		m.TransactionID,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("interest payment for deposit %s period %s already recorded: %w",
				m.DepositID, m.PeriodEnd.Format("2006-01-02"), apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert interest payment for deposit %s: %w", m.DepositID, err)
	}
	return nil
}

// OpenDeposit persists the contract, records the funding transaction and
// debits the funding account, all in one database transaction.
func (r *PgxDepositRepository) OpenDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
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
	if err := insertDepositTx(ctx, tx, deposit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxDepositRepository) UpdateDeposit(ctx context.Context, deposit domain.Deposit) error {
	return updateDepositTx(ctx, r.Pool, deposit)
}

// ApplyAccrual records one accrual atomically: the history entry, the updated
// deposit row, and the interest transaction with its credit on the linked
// account when txn is non-nil.
func (r *PgxDepositRepository) ApplyAccrual(ctx context.Context, payment domain.DepositInterestPayment, deposit domain.Deposit, txn *domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertDepositInterestPaymentTx(ctx, tx, payment); err != nil {
		return err
	}
	if err := updateDepositTx(ctx, tx, deposit); err != nil {
		return err
	}
	if txn != nil {
		if err := insertTransactionTx(ctx, tx, *txn); err != nil {
			return err
		}
		if err := applyBalanceChanges(ctx, tx, r.accountRepo, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// CloseDeposit marks the contract closed and pays the amount out to the
// linked account in one database transaction.
func (r *PgxDepositRepository) CloseDeposit(ctx context.Context, deposit domain.Deposit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updateDepositTx(ctx, tx, deposit); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := applyBalanceChanges(ctx, tx, r.accountRepo, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkMatured flips an active deposit to matured. The status guard in SQL
// keeps a concurrent closure from being overwritten.
func (r *PgxDepositRepository) MarkMatured(ctx context.Context, depositID string, operatorID string, now time.Time) error {
	query := `
		UPDATE deposits
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE deposit_id = $1 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, depositID, string(domain.DepositMatured), now, operatorID, string(domain.DepositActive))
	if err != nil {
		return fmt.Errorf("failed to mark deposit %s matured: %w", depositID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
