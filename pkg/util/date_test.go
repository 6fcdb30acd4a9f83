package util

import "testing"

func TestDateInRange(t *testing.T) {
	cases := []struct {
		day, start, end string
		want            bool
	}{
		{"2025-03-10", "", "", true},
		{"2025-03-10", "2025-03-10", "2025-03-10", true},
		{"2025-03-09", "2025-03-10", "", false},
		{"2025-03-11", "", "2025-03-10", false},
		{"not-a-day", "", "", false},
	}
	for _, c := range cases {
		if got := DateInRange(c.day, c.start, c.end); got != c.want {
			t.Fatalf("DateInRange(%q,%q,%q)=%v want %v", c.day, c.start, c.end, got, c.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween("2025-03-01", "2025-03-31", 7); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := DaysBetween("2025-03-31", "2025-03-01", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := DaysBetween("", "2025-03-01", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestEpochMillis(t *testing.T) {
	if got := EpochMillis(1_700_000_000); got != 1_700_000_000_000 {
		t.Fatalf("seconds not scaled: %d", got)
	}
	if got := EpochMillis(1_700_000_000_000); got != 1_700_000_000_000 {
		t.Fatalf("millis changed: %d", got)
	}
}
