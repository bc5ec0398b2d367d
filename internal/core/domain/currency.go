package domain

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key, ISO-style (e.g., "RUB")
	Name         string `json:"name"`         // e.g., "Russian Ruble"
	Symbol       string `json:"symbol"`       // e.g., "₽"
	AuditFields
}
