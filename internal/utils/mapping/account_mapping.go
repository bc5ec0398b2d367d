package mapping

import (
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/sibgate/bankcore/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		AccountNumber:  d.AccountNumber,
		ClientID:       d.ClientID,
		AccountType:    string(d.AccountType),
		CurrencyCode:   d.CurrencyCode,
		Balance:        d.Balance,
		OverdraftLimit: d.OverdraftLimit,
		Status:         models.AccountStatus(d.Status),
		OpeningDate:    d.OpeningDate,
		ClosingDate:    d.ClosingDate,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		AccountNumber:  m.AccountNumber,
		ClientID:       m.ClientID,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		Balance:        m.Balance,
		OverdraftLimit: m.OverdraftLimit,
		Status:         domain.AccountStatus(m.Status),
		OpeningDate:    m.OpeningDate,
		ClosingDate:    m.ClosingDate,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
