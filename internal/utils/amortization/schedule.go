// Package amortization computes loan repayment schedules. Everything here is a
// pure function of its inputs: calling twice with identical parameters yields
// identical schedules.
package amortization

import (
	"fmt"
	"time"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodDays is the fixed step between scheduled payments. This is a
// deliberate simplification kept for compatibility with previously generated
// schedules; it is not calendar-month accurate.
const PeriodDays = 30

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Params are the inputs to a schedule computation.
type Params struct {
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal // Percent per annum, e.g. 12 for 12%
	TermMonths int
	StartDate  time.Time
	Method     domain.PaymentMethod
}

// Entry is one row of a payment schedule.
type Entry struct {
	PaymentNumber    int             `json:"paymentNumber"`
	PaymentDate      time.Time       `json:"paymentDate"`
	PrincipalAmount  decimal.Decimal `json:"principalAmount"`
	InterestAmount   decimal.Decimal `json:"interestAmount"`
	TotalPayment     decimal.Decimal `json:"totalPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

func validate(p Params) error {
	if p.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrScheduleComputation, p.Principal)
	}
	if p.AnnualRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: annual rate must be positive, got %s", apperrors.ErrScheduleComputation, p.AnnualRate)
	}
	if p.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be positive, got %d months", apperrors.ErrScheduleComputation, p.TermMonths)
	}
	return nil
}

// monthlyRate converts a percent-per-annum rate to a monthly fraction.
func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(twelve)
}

// AnnuityPayment computes the constant monthly payment
// P = principal * r * (1+r)^n / ((1+r)^n - 1), rounded to minor units.
func AnnuityPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validate(Params{Principal: principal, AnnualRate: annualRate, TermMonths: termMonths}); err != nil {
		return decimal.Zero, err
	}
	r := monthlyRate(annualRate)
	compound := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(termMonths)))
	payment := principal.Mul(r).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1)))
	return domain.RoundMoney(payment), nil
}

// DifferentiatedPayment computes the payment for the given month (1-based):
// a fixed principal portion plus interest on the balance outstanding before
// that month.
func DifferentiatedPayment(principal, annualRate decimal.Decimal, termMonths, month int) (decimal.Decimal, error) {
	if err := validate(Params{Principal: principal, AnnualRate: annualRate, TermMonths: termMonths}); err != nil {
		return decimal.Zero, err
	}
	if month < 1 || month > termMonths {
		return decimal.Zero, fmt.Errorf("%w: month %d outside term of %d months", apperrors.ErrScheduleComputation, month, termMonths)
	}
	principalPart := domain.RoundMoney(principal.Div(decimal.NewFromInt(int64(termMonths))))
	outstanding := principal.Sub(principalPart.Mul(decimal.NewFromInt(int64(month - 1))))
	interest := domain.RoundMoney(outstanding.Mul(monthlyRate(annualRate)))
	return principalPart.Add(interest), nil
}

// Schedule produces the full ordered payment schedule for the given
// parameters. Payment numbers start at 1 and payment dates advance by a fixed
// 30-day step from the start date. The final entry absorbs accumulated
// rounding drift into its principal figure so the remaining balance lands on
// exactly zero and the principal figures sum to the original principal.
func Schedule(p Params) ([]Entry, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	switch p.Method {
	case domain.Annuity:
		return annuitySchedule(p)
	case domain.Differentiated:
		return differentiatedSchedule(p)
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrScheduleComputation, p.Method)
	}
}

func annuitySchedule(p Params) ([]Entry, error) {
	payment, err := AnnuityPayment(p.Principal, p.AnnualRate, p.TermMonths)
	if err != nil {
		return nil, err
	}

	r := monthlyRate(p.AnnualRate)
	balance := domain.RoundMoney(p.Principal)
	paymentDate := p.StartDate
	entries := make([]Entry, 0, p.TermMonths)

	for month := 1; month <= p.TermMonths; month++ {
		paymentDate = paymentDate.AddDate(0, 0, PeriodDays)
		interest := domain.RoundMoney(balance.Mul(r))
		principalPart := payment.Sub(interest)
		balance = balance.Sub(principalPart)

		total := payment
		if month == p.TermMonths {
			// Final period: fold the residual balance into the principal figure.
			principalPart = principalPart.Add(balance)
			total = principalPart.Add(interest)
			balance = decimal.Zero
		}

		entries = append(entries, Entry{
			PaymentNumber:    month,
			PaymentDate:      paymentDate,
			PrincipalAmount:  principalPart,
			InterestAmount:   interest,
			TotalPayment:     total,
			RemainingBalance: balance,
		})
	}
	return entries, nil
}

func differentiatedSchedule(p Params) ([]Entry, error) {
	r := monthlyRate(p.AnnualRate)
	principalPart := domain.RoundMoney(p.Principal.Div(decimal.NewFromInt(int64(p.TermMonths))))
	balance := domain.RoundMoney(p.Principal)
	paymentDate := p.StartDate
	entries := make([]Entry, 0, p.TermMonths)

	for month := 1; month <= p.TermMonths; month++ {
		paymentDate = paymentDate.AddDate(0, 0, PeriodDays)
		interest := domain.RoundMoney(balance.Mul(r))

		part := principalPart
		if month == p.TermMonths {
			// Final period: whatever is left is the principal figure, so the
			// fixed-part rounding drift never leaks out of the schedule.
			part = balance
		}
		balance = balance.Sub(part)

		entries = append(entries, Entry{
			PaymentNumber:    month,
			PaymentDate:      paymentDate,
			PrincipalAmount:  part,
			InterestAmount:   interest,
			TotalPayment:     part.Add(interest),
			RemainingBalance: balance,
		})
	}
	return entries, nil
}
