package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

// parseDraft builds a Draft from the submitted form. The date field comes
// from an <input type="date"> so a bare YYYY-MM-DD is the normal case.
func parseDraft(r *http.Request) (core.Draft, error) {
	desc := sanitizeInput(r.Form.Get("description"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	category := core.Category(sanitizeInput(r.Form.Get("category")))
	date := strings.TrimSpace(r.Form.Get("date"))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		return core.Draft{}, fmt.Errorf("amount %q: %w", amountStr, err)
	}

	draft := core.Draft{
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: desc,
	}
	if err := draft.Validate(); err != nil {
		return core.Draft{}, err
	}
	return draft, nil
}

func writeFormError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		logger.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeFormError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	draft, err := parseDraft(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, "Invalid expense: "+err.Error())
		return
	}

	exp := s.store.Add(r.Context(), draft)

	s.structured.LogExpenseRecorded(r.Context(), applog.OpCreate,
		exp.ID, exp.Description, exp.Amount.Cents, string(exp.Category), s.store.Revision())

	w.Header().Set("HX-Trigger", `{"expense:changed": {}, "form:reset": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded: ` +
		template.HTMLEscapeString(exp.Description) +
		` — ` + template.HTMLEscapeString(formatAmount(exp.Amount)) +
		` (` + template.HTMLEscapeString(string(exp.Category)) + `)</div>`))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		logger.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeFormError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeFormError(w, http.StatusUnprocessableEntity, "Missing expense id")
		return
	}

	draft, err := parseDraft(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, "Invalid expense: "+err.Error())
		return
	}

	// An id that matches nothing is a silent no-op in the store.
	exp := draft.Expense(id)
	s.store.Update(r.Context(), exp)

	s.structured.LogExpenseRecorded(r.Context(), applog.OpUpdate,
		exp.ID, exp.Description, exp.Amount.Cents, string(exp.Category), s.store.Revision())

	w.Header().Set("HX-Trigger", `{"expense:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Updated: ` +
		template.HTMLEscapeString(exp.Description) + `</div>`))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		w.Header().Set("Allow", "DELETE, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		logger.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeFormError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if id == "" {
		writeFormError(w, http.StatusUnprocessableEntity, "Missing expense id")
		return
	}

	s.store.Delete(r.Context(), id)

	logger.InfoContext(r.Context(), "Expense deleted",
		applog.FieldExpenseID, id,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldRevision, s.store.Revision())

	w.Header().Set("HX-Trigger", `{"expense:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(""))
}
