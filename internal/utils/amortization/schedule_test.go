package amortization

import (
	"testing"
	"time"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/sibgate/bankcore/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAnnuityPayment(t *testing.T) {
	// 120000 at 12% over 12 months: the classic annuity formula gives 10661.8546 -> 10661.85
	payment, err := AnnuityPayment(dec("120000"), dec("12"), 12)
	require.NoError(t, err)
	assert.True(t, payment.Equal(dec("10661.85")), "got %s", payment)
}

func TestAnnuityScheduleDrainsToZero(t *testing.T) {
	entries, err := Schedule(Params{
		Principal:  dec("120000"),
		AnnualRate: dec("12"),
		TermMonths: 12,
		StartDate:  start,
		Method:     domain.Annuity,
	})
	require.NoError(t, err)
	require.Len(t, entries, 12)

	last := entries[len(entries)-1]
	assert.True(t, last.RemainingBalance.IsZero(), "final remaining balance must be exactly zero, got %s", last.RemainingBalance)

	sumPrincipal := decimal.Zero
	for i, e := range entries {
		assert.Equal(t, i+1, e.PaymentNumber)
		sumPrincipal = sumPrincipal.Add(e.PrincipalAmount)
	}
	assert.True(t, sumPrincipal.Equal(dec("120000")), "principal figures must sum to the principal, got %s", sumPrincipal)
}

func TestAnnuityScheduleDates(t *testing.T) {
	entries, err := Schedule(Params{
		Principal:  dec("50000"),
		AnnualRate: dec("10"),
		TermMonths: 3,
		StartDate:  start,
		Method:     domain.Annuity,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Fixed 30-day stepping, not calendar months.
	assert.Equal(t, start.AddDate(0, 0, 30), entries[0].PaymentDate)
	assert.Equal(t, start.AddDate(0, 0, 60), entries[1].PaymentDate)
	assert.Equal(t, start.AddDate(0, 0, 90), entries[2].PaymentDate)
}

func TestDifferentiatedSchedule(t *testing.T) {
	entries, err := Schedule(Params{
		Principal:  dec("120000"),
		AnnualRate: dec("12"),
		TermMonths: 12,
		StartDate:  start,
		Method:     domain.Differentiated,
	})
	require.NoError(t, err)
	require.Len(t, entries, 12)

	// Fixed principal portion of 10000, declining interest.
	assert.True(t, entries[0].PrincipalAmount.Equal(dec("10000")))
	assert.True(t, entries[0].InterestAmount.Equal(dec("1200")), "first interest on full balance, got %s", entries[0].InterestAmount)
	assert.True(t, entries[1].InterestAmount.Equal(dec("1100")), "second interest on reduced balance, got %s", entries[1].InterestAmount)
	assert.True(t, entries[0].InterestAmount.GreaterThan(entries[11].InterestAmount))

	last := entries[11]
	assert.True(t, last.RemainingBalance.IsZero())

	sumPrincipal := decimal.Zero
	for _, e := range entries {
		sumPrincipal = sumPrincipal.Add(e.PrincipalAmount)
	}
	assert.True(t, sumPrincipal.Equal(dec("120000")))
}

func TestDifferentiatedPaymentPerMonth(t *testing.T) {
	// Month 1: 10000 principal + 1200 interest.
	p1, err := DifferentiatedPayment(dec("120000"), dec("12"), 12, 1)
	require.NoError(t, err)
	assert.True(t, p1.Equal(dec("11200")), "got %s", p1)

	// Month 12: 10000 principal + interest on the last 10000.
	p12, err := DifferentiatedPayment(dec("120000"), dec("12"), 12, 12)
	require.NoError(t, err)
	assert.True(t, p12.Equal(dec("10100")), "got %s", p12)

	_, err = DifferentiatedPayment(dec("120000"), dec("12"), 12, 13)
	assert.ErrorIs(t, err, apperrors.ErrScheduleComputation)
}

func TestScheduleIsDeterministic(t *testing.T) {
	p := Params{
		Principal:  dec("99999.99"),
		AnnualRate: dec("17.5"),
		TermMonths: 24,
		StartDate:  start,
		Method:     domain.Annuity,
	}
	first, err := Schedule(p)
	require.NoError(t, err)
	second, err := Schedule(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScheduleRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero principal", Params{Principal: decimal.Zero, AnnualRate: dec("12"), TermMonths: 12, Method: domain.Annuity}},
		{"negative rate", Params{Principal: dec("1000"), AnnualRate: dec("-1"), TermMonths: 12, Method: domain.Annuity}},
		{"zero term", Params{Principal: dec("1000"), AnnualRate: dec("12"), TermMonths: 0, Method: domain.Annuity}},
		{"unknown method", Params{Principal: dec("1000"), AnnualRate: dec("12"), TermMonths: 12, Method: "bullet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Schedule(tt.p)
			assert.ErrorIs(t, err, apperrors.ErrScheduleComputation)
		})
	}
}
