package view

import (
	"time"

	"github.com/hunglv/expensive/internal/model"
)

// Report is a filtered expense listing with totals, ready for export.
type Report struct {
	GeneratedAt time.Time
	Filter      model.Filter
	Expenses    []model.Expense
	Categories  []model.Category
	ByCategory  []CategoryShare
	Total       int64
}

// BuildReport filters the expenses and tallies them per category. Category
// shares here are relative to the report total, not to the month.
func BuildReport(expenses []model.Expense, catalog []model.Category, f model.Filter, now time.Time) *Report {
	rows := Filter(expenses, f)
	total := Total(rows)

	shares := make([]CategoryShare, 0, len(catalog))
	for _, c := range catalog {
		share := CategoryShare{Category: c}
		for _, e := range rows {
			if e.CategoryID == c.ID {
				share.Total += e.Amount
				share.Count++
			}
		}
		if share.Count == 0 {
			continue
		}
		if total > 0 {
			share.Percentage = float64(share.Total) / float64(total) * 100
		}
		shares = append(shares, share)
	}

	return &Report{
		GeneratedAt: now,
		Filter:      f.Normalized(),
		Expenses:    rows,
		Categories:  catalog,
		ByCategory:  shares,
		Total:       total,
	}
}

// CategoryName resolves an expense's category label for display.
func (r *Report) CategoryName(id int) string {
	return CategoryOrPlaceholder(r.Categories, id).Name
}
