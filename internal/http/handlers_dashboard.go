package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/report"
)

type dashboardRow struct {
	Category string
	Amount   string
	Width    int
}

type dashboardItem struct {
	ID          string
	Date        string
	Description string
	Amount      string
	Category    string
}

type dashboardData struct {
	Total        string
	CurrentMonth string
	TopCategory  string
	TopAmount    string
	HasExpenses  bool
	Filtered     bool
	Category     string
	From         string
	To           string
	Rows         []dashboardRow
	Items        []dashboardItem
}

// dashCacheKey identifies one rendered partial. The revision makes every
// mutation a cache miss, so invalidation is just letting old keys age out.
func (s *Server) dashCacheKey(category core.Category, r *http.Request) string {
	return strconv.FormatInt(s.store.Revision(), 10) + "|" +
		string(category) + "|" +
		strings.TrimSpace(r.URL.Query().Get("from")) + "|" +
		strings.TrimSpace(r.URL.Query().Get("to"))
}

// handleDashboard renders the dashboard partial. Every aggregate — summary
// cards, breakdown, expense list — is computed over the filtered view, so
// narrowing the filter narrows the cards too.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	logger := applog.FromContext(r.Context())

	category, err := parseCategoryParam(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	key := s.dashCacheKey(category, r)
	if html, found := s.dashCache.Get(key); found {
		logger.DebugContext(r.Context(), "Dashboard cache hit", "key", key)
		_, _ = w.Write([]byte(html))
		return
	}

	rng := parseDateRange(r)
	filtered := report.FilterByCategory(s.store.List(r.Context()), category, rng)

	data := dashboardData{
		Total:        formatAmount(report.TotalSpend(filtered)),
		CurrentMonth: formatAmount(report.CurrentMonthSpend(filtered, time.Now())),
		HasExpenses:  len(filtered) > 0,
		Filtered:     category != core.CategoryAll || rng.From.Valid || rng.To.Valid,
		Category:     string(category),
		From:         strings.TrimSpace(r.URL.Query().Get("from")),
		To:           strings.TrimSpace(r.URL.Query().Get("to")),
	}

	if top, ok := report.TopCategory(filtered); ok {
		data.TopCategory = string(top.Category)
		data.TopAmount = formatAmount(top.Amount)
	}

	groups := report.SpendByCategory(filtered)
	var maxCents int64
	for _, g := range groups {
		if g.Amount.Cents > maxCents {
			maxCents = g.Amount.Cents
		}
	}
	for _, g := range groups {
		width := 0
		if maxCents > 0 && g.Amount.Cents > 0 {
			width = int((g.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, dashboardRow{
			Category: string(g.Category),
			Amount:   formatAmount(g.Amount),
			Width:    width,
		})
	}

	// Newest first, matching insertion order reversed.
	for i := len(filtered) - 1; i >= 0; i-- {
		e := filtered[i]
		data.Items = append(data.Items, dashboardItem{
			ID:          e.ID,
			Date:        displayDate(e.Date),
			Description: e.Description,
			Amount:      formatAmount(e.Amount),
			Category:    string(e.Category),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Total: ` +
			template.HTMLEscapeString(data.Total) + `</div></section>`))
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		logger.ErrorContext(r.Context(), "Dashboard template execution failed",
			"error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Error rendering dashboard</div></section>`))
		return
	}

	s.dashCache.Set(key, buf.String())
	_, _ = buf.WriteTo(w)
}

// displayDate shortens a stored timestamp to its date part when it parses;
// unparseable strings are shown as stored.
func displayDate(stored string) string {
	d := core.ParseDate(stored)
	if !d.Valid {
		return stored
	}
	return d.Time.Format("2006-01-02")
}
