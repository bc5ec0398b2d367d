package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// Business outcomes of the ledger engine. These are expected results, not
// programmer errors: callers get them wrapped with context (%w) so the
// violated invariant stays identifiable with errors.Is.
var (
	// ErrInsufficientFunds indicates a debit would exceed the source account's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch indicates an operation across accounts of different currencies.
	// Cross-currency transfers are unsupported and never converted silently.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrAccountNotActive indicates the account's status forbids the operation.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInvalidStateForCancellation indicates a cancellation was attempted on a
	// transaction that is not in the completed state.
	ErrInvalidStateForCancellation = errors.New("transaction cannot be cancelled in its current state")

	// ErrInsufficientPaymentAmount indicates a credit payment smaller than the
	// amount due plus penalty.
	ErrInsufficientPaymentAmount = errors.New("insufficient payment amount")

	// ErrEarlyRepaymentNotAllowed indicates the credit product forbids early
	// repayment or the credit is not in a repayable state.
	ErrEarlyRepaymentNotAllowed = errors.New("early repayment not allowed")

	// ErrScheduleComputation indicates amortization inputs that cannot produce a
	// schedule (non-positive principal, rate or term).
	ErrScheduleComputation = errors.New("schedule computation error")
)

// AppError wraps a lower-level failure with an HTTP-ish status code for the
// handler layer. Used by repositories for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given status code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
