package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"2025-02-05T00:00:00.000Z", true},
		{"2025-02-05T10:30:00Z", true},
		{"2025-02-05T10:30:00", true},
		{"2025-02-05", true},
		{"", false},
		{"yesterday", false},
		{"2025-13-40", false},
	}
	for _, tc := range cases {
		if got := ParseDate(tc.in); got.Valid != tc.valid {
			t.Fatalf("%q: valid=%v, want %v", tc.in, got.Valid, tc.valid)
		}
	}
}

func TestDateSameMonth(t *testing.T) {
	now := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	if !ParseDate("2025-02-05").SameMonth(now) {
		t.Fatalf("same month expected")
	}
	if ParseDate("2025-01-31").SameMonth(now) {
		t.Fatalf("different month matched")
	}
	if ParseDate("2024-02-05").SameMonth(now) {
		t.Fatalf("different year matched")
	}
	if ParseDate("garbage").SameMonth(now) {
		t.Fatalf("invalid date matched")
	}
}

func TestDateBounds(t *testing.T) {
	d := ParseDate("2025-02-05")
	from := ParseDate("2025-02-01")
	to := ParseDate("2025-02-28")

	if !d.OnOrAfter(from) || !d.OnOrBefore(to) {
		t.Fatalf("date should sit inside the range")
	}
	// Boundaries are inclusive.
	if !from.OnOrAfter(from) || !to.OnOrBefore(to) {
		t.Fatalf("bounds should be inclusive")
	}
	// Invalid dates fail every bounded comparison.
	bad := ParseDate("nope")
	if bad.OnOrAfter(from) || bad.OnOrBefore(to) {
		t.Fatalf("invalid date should fail bounded comparisons")
	}
}
