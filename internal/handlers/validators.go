package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validatePositiveDecimal checks that a decimal field is strictly positive.
// The stock gt tag cannot look inside decimal.Decimal.
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

// RegisterValidators installs custom binding validations. Must run before the
// first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("positivedec", validatePositiveDecimal); err != nil {
		return fmt.Errorf("validator registration: %w", err)
	}
	return nil
}
