package models

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `db:"currency_code"` // Primary Key (e.g., "RUB")
	Name         string `db:"name"`
	Symbol       string `db:"symbol"`
	AuditFields
}
