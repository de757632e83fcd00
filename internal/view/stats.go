package view

import (
	"time"

	"github.com/hunglv/expensive/internal/model"
)

// CategoryShare is one row of the per-category breakdown.
type CategoryShare struct {
	Category   model.Category
	Total      int64
	Count      int
	Percentage float64
}

// Summary bundles the dashboard statistics.
type Summary struct {
	ByCategory   []CategoryShare
	Total        int64
	MonthlyTotal int64
	TodayCount   int
	DailyAverage float64
}

// Total sums the amounts.
func Total(expenses []model.Expense) int64 {
	var sum int64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// TodayCount counts the expenses dated on now's calendar day.
func TodayCount(expenses []model.Expense, now time.Time) int {
	today := model.DateOf(now)
	n := 0
	for _, e := range expenses {
		if e.Date.Equal(today) {
			n++
		}
	}
	return n
}

func sameMonth(d model.Date, now time.Time) bool {
	now = now.In(time.Local)
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// ThisMonth keeps the expenses dated in now's calendar month.
func ThisMonth(expenses []model.Expense, now time.Time) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if sameMonth(e.Date, now) {
			out = append(out, e)
		}
	}
	return out
}

// MonthlyTotal sums the expenses dated in now's calendar month.
func MonthlyTotal(expenses []model.Expense, now time.Time) int64 {
	return Total(ThisMonth(expenses, now))
}

// DailyAverage spreads the monthly total over the days elapsed so far,
// today included.
func DailyAverage(expenses []model.Expense, now time.Time) float64 {
	day := now.In(time.Local).Day()
	if day <= 0 {
		return 0
	}
	return float64(MonthlyTotal(expenses, now)) / float64(day)
}

// CategoryBreakdown reports, for every catalog entry, this month's total and
// its share of the monthly total. Shares are 0 when nothing was spent.
func CategoryBreakdown(expenses []model.Expense, catalog []model.Category, now time.Time) []CategoryShare {
	month := ThisMonth(expenses, now)
	monthly := Total(month)

	out := make([]CategoryShare, 0, len(catalog))
	for _, c := range catalog {
		share := CategoryShare{Category: c}
		for _, e := range month {
			if e.CategoryID == c.ID {
				share.Total += e.Amount
				share.Count++
			}
		}
		if monthly > 0 {
			share.Percentage = float64(share.Total) / float64(monthly) * 100
		}
		out = append(out, share)
	}
	return out
}

// Summarize computes every dashboard statistic at once.
func Summarize(expenses []model.Expense, catalog []model.Category, now time.Time) Summary {
	return Summary{
		Total:        Total(expenses),
		TodayCount:   TodayCount(expenses, now),
		MonthlyTotal: MonthlyTotal(expenses, now),
		DailyAverage: DailyAverage(expenses, now),
		ByCategory:   CategoryBreakdown(expenses, catalog, now),
	}
}
