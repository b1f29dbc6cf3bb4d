package journal

import (
	"fmt"
	"time"
)

// MonthLayout is the YYYYMM bucket format used by every month dimension column.
const MonthLayout = "200601"

// MonthOf returns the month bucket for t, or "" for the zero time.
func MonthOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(MonthLayout)
}

// ParseMonth parses a YYYYMM bucket into the first day of that month (UTC).
func ParseMonth(m string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, m)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseMonth: invalid month %q: %w", m, err)
	}
	return t, nil
}

// PrevMonth returns the month bucket immediately preceding m.
func PrevMonth(m string) (string, error) {
	t, err := ParseMonth(m)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format(MonthLayout), nil
}

// MonthsBack returns the n months preceding m, most recent first.
func MonthsBack(m string, n int) ([]string, error) {
	t, err := ParseMonth(m)
	if err != nil {
		return nil, err
	}
	months := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		months = append(months, t.AddDate(0, -i, 0).Format(MonthLayout))
	}
	return months, nil
}

// MonthsBackInclusive returns m itself followed by the n months preceding it.
func MonthsBackInclusive(m string, n int) ([]string, error) {
	back, err := MonthsBack(m, n)
	if err != nil {
		return nil, err
	}
	return append([]string{m}, back...), nil
}

// minMonth returns the earliest month bucket in months. YYYYMM sorts
// lexicographically, so string comparison is enough.
func minMonth(months []string) string {
	if len(months) == 0 {
		return ""
	}
	min := months[0]
	for _, m := range months[1:] {
		if m < min {
			min = m
		}
	}
	return min
}
