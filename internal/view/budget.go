package view

import "github.com/hunglv/expensive/internal/model"

// BudgetStatus compares one budget with what was spent against it.
type BudgetStatus struct {
	// Category is nil for the overall budget.
	Category   *model.Category
	Budget     int64
	Actual     int64
	Percentage float64
}

// Remaining is what is left; negative once over budget.
func (s BudgetStatus) Remaining() int64 {
	return s.Budget - s.Actual
}

// Over reports whether spending exceeds the budget. Spending exactly the
// budget is not over.
func (s BudgetStatus) Over() bool {
	return s.Actual > s.Budget
}

// BudgetOverview is budget against actual spending for one month.
type BudgetOverview struct {
	Total      *BudgetStatus
	ByCategory []BudgetStatus
	Budgeted   int64
	Spent      int64
}

// InMonth keeps the expenses dated in month.
func InMonth(expenses []model.Expense, month model.Month) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if month.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// TotalBudget is what may be spent in month: the overall budget when one is
// set, otherwise the sum of the category budgets.
func TotalBudget(budgets []model.Budget, month model.Month) int64 {
	var sum int64
	for _, b := range budgets {
		if b.Month != month {
			continue
		}
		if b.IsTotal() {
			return b.Amount
		}
		sum += b.Amount
	}
	return sum
}

func status(category *model.Category, budget, actual int64) BudgetStatus {
	s := BudgetStatus{Category: category, Budget: budget, Actual: actual}
	if budget > 0 {
		s.Percentage = float64(actual) / float64(budget) * 100
	}
	return s
}

// BudgetVsActual lists, in catalog order, each category budget of month with
// that month's spending in the category. Categories without a budget are
// left out, as are budgets for categories no longer in the catalog.
func BudgetVsActual(expenses []model.Expense, budgets []model.Budget, catalog []model.Category, month model.Month) []BudgetStatus {
	byCategory := make(map[int]int64)
	for _, b := range budgets {
		if b.Month == month && !b.IsTotal() {
			byCategory[*b.CategoryID] = b.Amount
		}
	}

	spent := make(map[int]int64)
	for _, e := range InMonth(expenses, month) {
		spent[e.CategoryID] += e.Amount
	}

	out := make([]BudgetStatus, 0, len(byCategory))
	for _, c := range catalog {
		amount, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		out = append(out, status(&c, amount, spent[c.ID]))
	}
	return out
}

// OverBudget keeps the statuses whose spending exceeds the budget.
func OverBudget(statuses []BudgetStatus) []BudgetStatus {
	var out []BudgetStatus
	for _, s := range statuses {
		if s.Over() {
			out = append(out, s)
		}
	}
	return out
}

// Budgets builds the overview of month. Total is nil when month has no
// overall budget.
func Budgets(expenses []model.Expense, budgets []model.Budget, catalog []model.Category, month model.Month) BudgetOverview {
	spent := Total(InMonth(expenses, month))
	o := BudgetOverview{
		ByCategory: BudgetVsActual(expenses, budgets, catalog, month),
		Budgeted:   TotalBudget(budgets, month),
		Spent:      spent,
	}
	for _, b := range budgets {
		if b.Month == month && b.IsTotal() {
			s := status(nil, b.Amount, spent)
			o.Total = &s
		}
	}
	return o
}

// Over lists every exceeded budget of the overview, the overall one first.
func (o BudgetOverview) Over() []BudgetStatus {
	var out []BudgetStatus
	if o.Total != nil && o.Total.Over() {
		out = append(out, *o.Total)
	}
	return append(out, OverBudget(o.ByCategory)...)
}
