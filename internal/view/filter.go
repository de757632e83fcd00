// Package view derives read-only projections of the expense list: filtered
// and sorted views, category lookups and summary statistics.
package view

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/hunglv/expensive/internal/model"
)

// Filter returns a new slice holding the expenses that match f, ordered by
// f.SortBy and f.SortOrder. The input slice is never reordered.
func Filter(expenses []model.Expense, f model.Filter) []model.Expense {
	f = f.Normalized()

	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Category != nil && e.CategoryID != *f.Category {
			continue
		}
		if f.DateRange != nil && !f.DateRange.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}

	order := 1
	if f.SortOrder == model.SortDesc {
		order = -1
	}

	compare := compareDate
	switch f.SortBy {
	case model.SortByAmount:
		compare = compareAmount
	case model.SortByCategory:
		compare = compareCategory
	}

	slices.SortStableFunc(out, func(a, b model.Expense) int {
		return order * compare(a, b)
	})
	return out
}

func compareAmount(a, b model.Expense) int {
	return cmp.Compare(a.Amount, b.Amount)
}

// Category ids are compared as strings, so "10" sorts before "2".
func compareCategory(a, b model.Expense) int {
	return strings.Compare(strconv.Itoa(a.CategoryID), strconv.Itoa(b.CategoryID))
}

func compareDate(a, b model.Expense) int {
	return a.Date.Compare(b.Date)
}

// Search keeps the expenses whose description contains term, ignoring case.
// An empty term keeps everything.
func Search(expenses []model.Expense, term string) []model.Expense {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if term == "" || strings.Contains(strings.ToLower(e.Description), term) {
			out = append(out, e)
		}
	}
	return out
}
