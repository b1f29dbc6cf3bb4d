package journal

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"regular date", time.Date(2024, 8, 15, 10, 30, 0, 0, time.UTC), "202408"},
		{"first of month", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "202401"},
		{"zero time", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthOf(tt.in); got != tt.want {
				t.Errorf("MonthOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrevMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"202408", "202407"},
		{"202401", "202312"},
		{"202403", "202402"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PrevMonth(tt.in)
			if err != nil {
				t.Fatalf("PrevMonth(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("PrevMonth(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := PrevMonth("2024-08"); err == nil {
		t.Error("expected an error for a malformed month")
	}
}

func TestMonthsBack(t *testing.T) {
	got, err := MonthsBack("202403", 4)
	if err != nil {
		t.Fatalf("MonthsBack error: %v", err)
	}
	want := []string{"202402", "202401", "202312", "202311"}
	if len(got) != len(want) {
		t.Fatalf("MonthsBack returned %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MonthsBack[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMonthsBackInclusive(t *testing.T) {
	got, err := MonthsBackInclusive("202403", 2)
	if err != nil {
		t.Fatalf("MonthsBackInclusive error: %v", err)
	}
	want := []string{"202403", "202402", "202401"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MonthsBackInclusive[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMinMonth(t *testing.T) {
	if got := minMonth([]string{"202403", "202312", "202401"}); got != "202312" {
		t.Errorf("minMonth = %q, want 202312", got)
	}
	if got := minMonth(nil); got != "" {
		t.Errorf("minMonth(nil) = %q, want empty", got)
	}
}
