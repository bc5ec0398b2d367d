package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/sibgate/bankcore/internal/core/ports/repositories"
	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	servicing := DefaultServicingConfig()
	if cfg != nil {
		servicing = ServicingConfig{
			OverdueAfterDays: cfg.OverdueAfterDays,
			DefaultAfterDays: cfg.DefaultAfterDays,
			PenaltyDailyRate: decimal.NewFromFloat(cfg.PenaltyDailyRate),
		}
	}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	container.Transfer = NewTransferService(repos.TransactionRepo, repos.AccountRepo)
	container.Credit = NewCreditService(repos.CreditRepo, repos.AccountRepo, servicing)
	container.Deposit = NewDepositService(repos.DepositRepo, repos.AccountRepo)

	return container
}
