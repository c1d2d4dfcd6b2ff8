package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/report"
)

// parseDateRange extracts the optional from/to query parameters into an
// inclusive range. A bare YYYY-MM-DD upper bound is stretched to the end of
// that day so time-stamped records on the boundary date stay included.
// Unparseable values leave the side unbounded.
func parseDateRange(r *http.Request) report.DateRange {
	rng := report.DateRange{
		From: core.ParseDate(strings.TrimSpace(r.URL.Query().Get("from"))),
	}

	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if t, err := time.Parse("2006-01-02", to); err == nil {
		rng.To = core.Date{Time: t.AddDate(0, 0, 1).Add(-time.Nanosecond), Valid: true}
	} else {
		rng.To = core.ParseDate(to)
	}

	return rng
}

// parseCategoryParam reads the category query parameter. Absent or "all"
// means no restriction; anything else must be a recordable category.
func parseCategoryParam(r *http.Request) (core.Category, error) {
	v := strings.TrimSpace(r.URL.Query().Get("category"))
	if v == "" || core.Category(v) == core.CategoryAll {
		return core.CategoryAll, nil
	}
	cat := core.Category(v)
	if !cat.Valid() {
		return "", fmt.Errorf("unknown category %q", v)
	}
	return cat, nil
}

// formatAmount renders a money value as a dollar string (e.g. "$12.34").
func formatAmount(m core.Money) string {
	s := m.String()
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
