// Package dates holds the calendar arithmetic used by the accrual and sweep
// jobs. All functions operate on date precision; callers are expected to pass
// times already truncated to midnight UTC.
package dates

import "time"

// Truncate drops the time-of-day component, keeping the date in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b (negative when b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// LastDayOfMonth returns the last calendar day of t's month.
func LastDayOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// IsLastDayOfMonth reports whether t falls on the last calendar day of its month.
func IsLastDayOfMonth(t time.Time) bool {
	return Truncate(t).Equal(LastDayOfMonth(t))
}

// LastDayOfQuarter returns the last calendar day of t's quarter.
func LastDayOfQuarter(t time.Time) time.Time {
	quarter := (int(t.Month())-1)/3 + 1
	endMonth := time.Month(quarter * 3)
	return LastDayOfMonth(time.Date(t.Year(), endMonth, 1, 0, 0, 0, 0, time.UTC))
}

// IsLastDayOfQuarter reports whether t falls on the last calendar day of its quarter.
func IsLastDayOfQuarter(t time.Time) bool {
	return Truncate(t).Equal(LastDayOfQuarter(t))
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}
