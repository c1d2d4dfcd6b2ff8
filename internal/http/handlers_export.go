package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/export"
	applog "spendlog/internal/log"
	"spendlog/internal/report"
)

// parseCategorySet reads repeated category parameters into a filter set.
// An empty set, or one containing "all", means no category restriction.
func parseCategorySet(r *http.Request) ([]core.Category, error) {
	var set []core.Category
	for _, v := range r.URL.Query()["category"] {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cat := core.Category(v)
		if cat == core.CategoryAll {
			return nil, nil
		}
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q", v)
		}
		set = append(set, cat)
	}
	return set, nil
}

// sanitizeFilename keeps the user-chosen export name safe to put in a
// Content-Disposition header.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '-'
		}
		if r < 32 {
			return -1
		}
		return r
	}, name)
	return strings.Trim(name, ". ")
}

// handleExport streams the current (optionally filtered) expense list as a
// downloadable CSV, JSON, or PDF attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())

	format, err := export.ParseFormat(strings.TrimSpace(r.URL.Query().Get("format")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	categories, err := parseCategorySet(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	expenses := report.FilterByCategories(s.store.List(r.Context()), categories, parseDateRange(r))

	filename := sanitizeFilename(r.URL.Query().Get("filename"))
	if filename == "" {
		filename = "expenses-" + time.Now().Format("2006-01-02")
	}
	filename += "." + format.Extension()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.Write(w, format, expenses); err != nil {
		// Headers are already out; all we can do is log.
		logger.ErrorContext(r.Context(), "Export failed",
			applog.FieldError, err.Error(),
			applog.FieldFormat, string(format),
			applog.FieldOperation, applog.OpExport)
		return
	}

	logger.InfoContext(r.Context(), "Export completed",
		applog.FieldFormat, string(format),
		applog.FieldOperation, applog.OpExport,
		"count", len(expenses))
}
