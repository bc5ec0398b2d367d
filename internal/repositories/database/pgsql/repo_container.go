package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sibgate/bankcore/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository against the shared
// pool. The account repository is built first because the money-moving
// repositories lock and adjust balances through it.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	creditRepo := newPgxCreditRepository(dbPool, accountRepo)
	depositRepo := newPgxDepositRepository(dbPool, accountRepo)
	currencyRepo := newPgxCurrencyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		CreditRepo:      creditRepo,
		DepositRepo:     depositRepo,
		CurrencyRepo:    currencyRepo,
	}
}
