package domain_test

import (
	"testing"
	"time"

	"github.com/stride-coach/stride/internal/domain"
)

func TestFormatAndParseDate(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	key := domain.FormatDate(day)
	if key != "2026-03-09" {
		t.Errorf("FormatDate = %q, want 2026-03-09", key)
	}

	parsed, err := domain.ParseDate(key)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if parsed.Year() != 2026 || parsed.Month() != 3 || parsed.Day() != 9 {
		t.Errorf("ParseDate round-trip = %v", parsed)
	}

	if _, err := domain.ParseDate("03/09/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-06-15", 0, "2026-06-15"},
	}

	for _, tt := range tests {
		got, err := domain.AddDays(tt.key, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d): %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2026-06-01", "2026-06-01", 0},
		{"2026-06-01", "2026-06-02", 1},
		{"2026-06-01", "2026-07-01", 30},
		{"2026-02-27", "2026-03-02", 3},
	}

	for _, tt := range tests {
		got, err := domain.DaysBetween(tt.from, tt.to)
		if err != nil {
			t.Fatalf("DaysBetween(%q, %q): %v", tt.from, tt.to, err)
		}
		if got != tt.want {
			t.Errorf("DaysBetween(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestISOWeek(t *testing.T) {
	// 2026-01-01 is a Thursday, so it belongs to week 1 of 2026.
	week, err := domain.ISOWeek("2026-01-01")
	if err != nil {
		t.Fatalf("ISOWeek: %v", err)
	}
	if week != "2026-W01" {
		t.Errorf("ISOWeek(2026-01-01) = %q, want 2026-W01", week)
	}

	// 2027-01-01 is a Friday and falls in the last ISO week of 2026.
	week, err = domain.ISOWeek("2027-01-01")
	if err != nil {
		t.Fatalf("ISOWeek: %v", err)
	}
	if week != "2026-W53" {
		t.Errorf("ISOWeek(2027-01-01) = %q, want 2026-W53", week)
	}
}

func TestBehaviorGradeValid(t *testing.T) {
	for _, g := range []int{0, 50, 80, 100} {
		if !(domain.BehaviorGrade{Name: "protein", Grade: g}).Valid() {
			t.Errorf("grade %d should be valid", g)
		}
	}
	for _, g := range []int{-1, 25, 75, 99, 101} {
		if (domain.BehaviorGrade{Name: "protein", Grade: g}).Valid() {
			t.Errorf("grade %d should be invalid", g)
		}
	}
}
