package mapping

import (
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Name:         d.Name,
		Symbol:       d.Symbol,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Name:         m.Name,
		Symbol:       m.Symbol,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
