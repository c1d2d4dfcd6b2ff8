// Package report derives dashboard views from a list of expenses. Every
// function is pure: inputs are never mutated and results are freshly
// allocated, cheap enough to recompute on each change.
package report

import (
	"time"

	"spendlog/internal/core"
)

// DateRange bounds a filter. A zero (invalid) side is unbounded; set bounds
// are inclusive. Records whose date string does not parse fail any set bound
// and pass an unbounded one.
type DateRange struct {
	From core.Date
	To   core.Date
}

// Contains reports whether the given date string falls inside the range.
func (r DateRange) Contains(date string) bool {
	if !r.From.Valid && !r.To.Valid {
		return true
	}
	d := core.ParseDate(date)
	if r.From.Valid && !d.OnOrAfter(r.From) {
		return false
	}
	if r.To.Valid && !d.OnOrBefore(r.To) {
		return false
	}
	return true
}

// TotalSpend sums every amount; zero for an empty list.
func TotalSpend(expenses []core.Expense) core.Money {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CurrentMonthSpend sums amounts whose date falls in the same calendar month
// and year as now. This is month equality, not a rolling 30-day window.
func CurrentMonthSpend(expenses []core.Expense, now time.Time) core.Money {
	var total core.Money
	for _, e := range expenses {
		if core.ParseDate(e.Date).SameMonth(now) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SpendByCategory groups amounts by category. One entry per category present
// in the input, ordered by first occurrence; categories with no expenses are
// omitted rather than zero-filled.
func SpendByCategory(expenses []core.Expense) []core.CategoryAmount {
	idx := make(map[core.Category]int, len(expenses))
	var out []core.CategoryAmount
	for _, e := range expenses {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, core.CategoryAmount{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// TopCategory returns the category with the largest summed amount, false on
// an empty list. On a tie the earliest category in first-occurrence order
// wins; only the amount is contractual.
func TopCategory(expenses []core.Expense) (core.CategoryAmount, bool) {
	groups := SpendByCategory(expenses)
	if len(groups) == 0 {
		return core.CategoryAmount{}, false
	}
	top := groups[0]
	for _, g := range groups[1:] {
		if g.Amount.Cents > top.Amount.Cents {
			top = g
		}
	}
	return top, true
}

// FilterByCategory keeps records matching the category (core.CategoryAll or
// empty means no restriction) and falling inside the range.
func FilterByCategory(expenses []core.Expense, category core.Category, rng DateRange) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if category != core.CategoryAll && category != "" && e.Category != category {
			continue
		}
		if !rng.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterByCategories is the export variant: the category filter is a set,
// and an empty set means no restriction.
func FilterByCategories(expenses []core.Expense, categories []core.Category, rng DateRange) []core.Expense {
	allowed := make(map[core.Category]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if len(allowed) > 0 {
			if _, ok := allowed[e.Category]; !ok {
				continue
			}
		}
		if !rng.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}
