package services

import (
	"context"

	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/dto"
)

// CurrencySvcFacade defines operations for managing currencies
type CurrencySvcFacade interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, operatorID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
