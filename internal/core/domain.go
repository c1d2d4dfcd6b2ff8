package core

import (
	"errors"
	"strings"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Bills          Category = "Bills"
	Other          Category = "Other"

	// CategoryAll is the filter wildcard, never a stored value.
	CategoryAll Category = "all"
)

type (
	Category string

	// Expense is a single recorded transaction. Date keeps the stored
	// ISO-8601 string verbatim so the store round-trips whatever it holds;
	// callers parse it with ParseDate when they need to compare.
	Expense struct {
		ID          string   `json:"id"`
		Date        string   `json:"date"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description"`
	}

	// Draft is an expense as produced by the entry form, before the store
	// assigns an ID.
	Draft struct {
		Date        string
		Amount      Money
		Category    Category
		Description string
	}

	// CategoryAmount is an amount aggregated under one category.
	CategoryAmount struct {
		Category Category
		Amount   Money
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrShortDescription = errors.New("description too short")
	ErrLongDescription  = errors.New("description too long")
)

// Valid reports whether c is one of the recordable categories.
// CategoryAll is a filter value only and is not valid here.
func (c Category) Valid() bool {
	switch c {
	case Food, Transportation, Entertainment, Shopping, Bills, Other:
		return true
	}
	return false
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{Food, Transportation, Entertainment, Shopping, Bills, Other}
}

// Validate checks a draft against the entry-form rules. These rules hold at
// the boundary only: the store accepts and round-trips records that would
// fail them, e.g. data injected directly into the persisted slot.
func (d Draft) Validate() error {
	desc := strings.TrimSpace(d.Description)
	if len(desc) < 2 {
		return ErrShortDescription
	}
	if len(d.Description) > 200 {
		return ErrLongDescription
	}
	if d.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !d.Category.Valid() {
		return ErrInvalidCategory
	}
	if !ParseDate(d.Date).Valid {
		return ErrInvalidDate
	}
	return nil
}

// Expense builds the stored record for this draft with the given ID.
func (d Draft) Expense(id string) Expense {
	return Expense{
		ID:          id,
		Date:        d.Date,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
	}
}

// Validate checks a full record against the same entry rules as Draft,
// plus a non-empty ID. Used on the edit path.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("missing expense id")
	}
	return Draft{
		Date:        e.Date,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
	}.Validate()
}
