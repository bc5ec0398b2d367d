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

const creditProductColumns = `product_id, name, credit_type, min_amount, max_amount, min_interest_rate, max_interest_rate, min_term_months, max_term_months, currency_code, payment_method, early_repayment_allowed, requires_collateral, requires_guarantor, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

const creditColumns = `credit_id, client_id, account_id, product_id, application_number, contract_number, amount, interest_rate, term_months, status, purpose, start_date, end_date, next_payment_date, remaining_balance, total_paid, overdue_amount, overdue_days, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

const creditPaymentColumns = `payment_id, credit_id, payment_number, payment_date, due_date, amount, principal_amount, interest_amount, penalty_amount, status, method, transaction_id, processed_at, notes, created_at, created_by`

type PgxCreditRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxCreditRepository creates a new repository for credit data. It needs
// the account repository because disbursements and payments move money inside
// its database transactions.
func newPgxCreditRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.CreditRepositoryWithTx {
	return &PgxCreditRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.CreditRepositoryWithTx = (*PgxCreditRepository)(nil)

func scanCreditProduct(row pgx.Row) (*models.CreditProduct, error) {
	var m models.CreditProduct
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.CreditType,
		&m.MinAmount,
		&m.MaxAmount,
		&m.MinInterestRate,
		&m.MaxInterestRate,
		&m.MinTermMonths,
		&m.MaxTermMonths,
		&m.CurrencyCode,
		&m.PaymentMethod,
		&m.EarlyRepaymentAllowed,
		&m.RequiresCollateral,
		&m.RequiresGuarantor,
		&m.Description,
		&m.IsActive,
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

func scanCredit(row pgx.Row) (*models.Credit, error) {
	var m models.Credit
	err := row.Scan(
		&m.CreditID,
		&m.ClientID,
		&m.AccountID,
		&m.ProductID,
		&m.ApplicationNumber,
		&m.ContractNumber,
		&m.Amount,
		&m.InterestRate,
		&m.TermMonths,
		&m.Status,
		&m.Purpose,
		&m.StartDate,
		&m.EndDate,
		&m.NextPaymentDate,
		&m.RemainingBalance,
		&m.TotalPaid,
		&m.OverdueAmount,
		&m.OverdueDays,
		&m.RejectionReason,
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

func scanCreditPayment(row pgx.Row) (*models.CreditPayment, error) {
	var m models.CreditPayment
	err := row.Scan(
		&m.PaymentID,
		&m.CreditID,
		&m.PaymentNumber,
		&m.PaymentDate,
		&m.DueDate,
		&m.Amount,
		&m.PrincipalAmount,
		&m.InterestAmount,
		&m.PenaltyAmount,
		&m.Status,
		&m.Method,
		&m.TransactionID,
		&m.ProcessedAt,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// --- Products ---

// SaveCreditProduct persists a new credit product.
func (r *PgxCreditRepository) SaveCreditProduct(ctx context.Context, product domain.CreditProduct) error {
	m := mapping.ToModelCreditProduct(product)
	query := `
		INSERT INTO credit_products (` + creditProductColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.Name, m.CreditType,
		m.MinAmount, m.MaxAmount, m.MinInterestRate, m.MaxInterestRate,
		m.MinTermMonths, m.MaxTermMonths, m.CurrencyCode, m.PaymentMethod,
		m.EarlyRepaymentAllowed, m.RequiresCollateral, m.RequiresGuarantor,
		m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: credit product %s", apperrors.ErrDuplicate, m.ProductID)
		}
		return fmt.Errorf("failed to save credit product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindCreditProductByID retrieves a credit product by its ID.
func (r *PgxCreditRepository) FindCreditProductByID(ctx context.Context, productID string) (*domain.CreditProduct, error) {
	query := `SELECT ` + creditProductColumns + ` FROM credit_products WHERE product_id = $1;`

	m, err := scanCreditProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit product by ID %s: %w", productID, err)
	}

	product := mapping.ToDomainCreditProduct(*m)
	return &product, nil
}

// ListCreditProducts retrieves credit products, optionally only active ones.
func (r *PgxCreditRepository) ListCreditProducts(ctx context.Context, activeOnly bool) ([]domain.CreditProduct, error) {
	query := `SELECT ` + creditProductColumns + ` FROM credit_products`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit products: %w", err)
	}
	defer rows.Close()

	products := []domain.CreditProduct{}
	for rows.Next() {
		m, err := scanCreditProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit product row: %w", err)
		}
		products = append(products, mapping.ToDomainCreditProduct(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating credit product rows: %w", rows.Err())
	}
	return products, nil
}

// --- Credits ---

func insertCreditTx(ctx context.Context, q execer, credit domain.Credit) error {
	m := mapping.ToModelCredit(credit)
	query := `
		INSERT INTO credits (` + creditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := q.Exec(ctx, query,
		m.CreditID, m.ClientID, m.AccountID, m.ProductID,
		m.ApplicationNumber, m.ContractNumber,
		m.Amount, m.InterestRate, m.TermMonths, m.Status, m.Purpose,
		m.StartDate, m.EndDate, m.NextPaymentDate,
		m.RemainingBalance, m.TotalPaid, m.OverdueAmount, m.OverdueDays,
		m.RejectionReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: credit %s", apperrors.ErrDuplicate, m.CreditID)
		}
		return fmt.Errorf("failed to insert credit %s: %w", m.CreditID, err)
	}
	return nil
}

func updateCreditTx(ctx context.Context, q execer, credit domain.Credit) error {
	m := mapping.ToModelCredit(credit)
	query := `
		UPDATE credits
		SET contract_number = $2, status = $3,
		    start_date = $4, end_date = $5, next_payment_date = $6,
		    remaining_balance = $7, total_paid = $8,
		    overdue_amount = $9, overdue_days = $10, rejection_reason = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE credit_id = $1;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.CreditID, m.ContractNumber, m.Status,
		m.StartDate, m.EndDate, m.NextPaymentDate,
		m.RemainingBalance, m.TotalPaid,
		m.OverdueAmount, m.OverdueDays, m.RejectionReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update credit %s: %w", m.CreditID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveCredit persists a new credit application.
func (r *PgxCreditRepository) SaveCredit(ctx context.Context, credit domain.Credit) error {
	return insertCreditTx(ctx, r.Pool, credit)
}

// UpdateCredit updates an existing credit contract.
func (r *PgxCreditRepository) UpdateCredit(ctx context.Context, credit domain.Credit) error {
	return updateCreditTx(ctx, r.Pool, credit)
}

// FindCreditByID retrieves a credit by its ID.
func (r *PgxCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE credit_id = $1;`

	m, err := scanCredit(r.Pool.QueryRow(ctx, query, creditID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit by ID %s: %w", creditID, err)
	}

	credit := mapping.ToDomainCredit(*m)
	return &credit, nil
}

// ListCreditsByClient retrieves a paginated list of credits for a client.
func (r *PgxCreditRepository) ListCreditsByClient(ctx context.Context, clientID string, limit int, offset int) ([]domain.Credit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE client_id = $1
		ORDER BY created_at DESC, credit_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits for client %s: %w", clientID, err)
	}
	defer rows.Close()

	credits := []domain.Credit{}
	for rows.Next() {
		m, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit row for client %s: %w", clientID, err)
		}
		credits = append(credits, mapping.ToDomainCredit(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating credit rows for client %s: %w", clientID, rows.Err())
	}
	return credits, nil
}

// ListServicedCredits retrieves active or overdue credits with a next payment
// date on or before asOf.
func (r *PgxCreditRepository) ListServicedCredits(ctx context.Context, asOf time.Time) ([]domain.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE status IN ('active', 'overdue')
		  AND next_payment_date IS NOT NULL
		  AND next_payment_date <= $1
		ORDER BY next_payment_date, credit_id;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query serviced credits: %w", err)
	}
	defer rows.Close()

	credits := []domain.Credit{}
	for rows.Next() {
		m, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan serviced credit row: %w", err)
		}
		credits = append(credits, mapping.ToDomainCredit(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating serviced credit rows: %w", rows.Err())
	}
	return credits, nil
}

// ListOverdueCredits retrieves credits currently in overdue status.
func (r *PgxCreditRepository) ListOverdueCredits(ctx context.Context) ([]domain.Credit, error) {
	query := `
		SELECT ` + creditColumns + `
		FROM credits
		WHERE status = 'overdue'
		ORDER BY next_payment_date, credit_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue credits: %w", err)
	}
	defer rows.Close()

	credits := []domain.Credit{}
	for rows.Next() {
		m, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue credit row: %w", err)
		}
		credits = append(credits, mapping.ToDomainCredit(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating overdue credit rows: %w", rows.Err())
	}
	return credits, nil
}

// DisburseCredit activates an approved credit and credits the linked account
// with the principal in a single database transaction.
func (r *PgxCreditRepository) DisburseCredit(ctx context.Context, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updateCreditTx(ctx, tx, credit); err != nil {
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

// ApplyPayment persists a payment, updates the credit contract, records the
// money movement and applies its balance deltas, all atomically.
func (r *PgxCreditRepository) ApplyPayment(ctx context.Context, payment domain.CreditPayment, credit domain.Credit, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
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
	if err := insertCreditPaymentTx(ctx, tx, payment); err != nil {
		return err
	}
	if err := updateCreditTx(ctx, tx, credit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// --- Payments ---

func insertCreditPaymentTx(ctx context.Context, q execer, payment domain.CreditPayment) error {
	m := mapping.ToModelCreditPayment(payment)
	query := `
		INSERT INTO credit_payments (` + creditPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := q.Exec(ctx, query,
		m.PaymentID, m.CreditID, m.PaymentNumber,
		m.PaymentDate, m.DueDate,
		m.Amount, m.PrincipalAmount, m.InterestAmount, m.PenaltyAmount,
		m.Status, m.Method, m.TransactionID, m.ProcessedAt, m.Notes,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment %d on credit %s", apperrors.ErrDuplicate, m.PaymentNumber, m.CreditID)
		}
		return fmt.Errorf("failed to insert credit payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// SavePayment persists a payment row without moving money.
func (r *PgxCreditRepository) SavePayment(ctx context.Context, payment domain.CreditPayment) error {
	return insertCreditPaymentTx(ctx, r.Pool, payment)
}

// ListPaymentsByCredit retrieves all payments for a credit ordered by payment number.
func (r *PgxCreditRepository) ListPaymentsByCredit(ctx context.Context, creditID string) ([]domain.CreditPayment, error) {
	query := `
		SELECT ` + creditPaymentColumns + `
		FROM credit_payments
		WHERE credit_id = $1
		ORDER BY payment_number;
	`
	rows, err := r.Pool.Query(ctx, query, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for credit %s: %w", creditID, err)
	}
	defer rows.Close()

	payments := []domain.CreditPayment{}
	for rows.Next() {
		m, err := scanCreditPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row for credit %s: %w", creditID, err)
		}
		payments = append(payments, mapping.ToDomainCreditPayment(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payment rows for credit %s: %w", creditID, rows.Err())
	}
	return payments, nil
}

// CountCompletedPayments counts completed payments carrying a principal
// portion. Penalty-only entries do not advance the schedule.
func (r *PgxCreditRepository) CountCompletedPayments(ctx context.Context, creditID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM credit_payments
		WHERE credit_id = $1 AND status = 'completed' AND principal_amount > 0;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, creditID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed payments for credit %s: %w", creditID, err)
	}
	return count, nil
}

// CountPayments counts all payment rows for a credit, any status.
func (r *PgxCreditRepository) CountPayments(ctx context.Context, creditID string) (int, error) {
	query := `SELECT COUNT(*) FROM credit_payments WHERE credit_id = $1;`

	var count int
	if err := r.Pool.QueryRow(ctx, query, creditID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payments for credit %s: %w", creditID, err)
	}
	return count, nil
}
