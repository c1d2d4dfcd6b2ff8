package core

import "time"

// Date is the result of parsing a stored date string. Parsing is total:
// any input yields either a valid instant or Valid=false, never an error.
// An invalid date fails every bounded comparison, so range filters exclude
// records carrying one.
type Date struct {
	Time  time.Time
	Valid bool
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time string.
func ParseDate(s string) Date {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t, Valid: true}
		}
	}
	return Date{}
}

// SameMonth reports whether d falls in the same calendar month and year as t.
// Invalid dates never match.
func (d Date) SameMonth(t time.Time) bool {
	return d.Valid && d.Time.Year() == t.Year() && d.Time.Month() == t.Month()
}

// OnOrAfter reports d >= bound. False when either side is invalid.
func (d Date) OnOrAfter(bound Date) bool {
	if !d.Valid || !bound.Valid {
		return false
	}
	return !d.Time.Before(bound.Time)
}

// OnOrBefore reports d <= bound. False when either side is invalid.
func (d Date) OnOrBefore(bound Date) bool {
	if !d.Valid || !bound.Valid {
		return false
	}
	return !d.Time.After(bound.Time)
}
