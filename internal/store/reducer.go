package store

import (
	"slices"

	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
)

// State is everything the store holds.
type State struct {
	Filters      model.Filter
	Expenses     []model.Expense
	Categories   []model.Category
	TotalExpense int64
	IsLoading    bool
}

// clone deep-copies the slices and the filter so callers can't reach into the store.
func (s State) clone() State {
	out := s
	out.Expenses = slices.Clone(s.Expenses)
	out.Categories = slices.Clone(s.Categories)
	out.Filters = s.Filters.Clone()
	return out
}

// reduce computes the next state. It never mutates its input.
func reduce(state State, action Action) State {
	next := state

	switch a := action.(type) {
	case SetAll:
		next.Expenses = slices.Clone(a.Expenses)
		next.IsLoading = false

	case SetLoading:
		next.IsLoading = a.Loading

	case AddExpense:
		next.Expenses = make([]model.Expense, 0, len(state.Expenses)+1)
		next.Expenses = append(next.Expenses, a.Expense)
		next.Expenses = append(next.Expenses, state.Expenses...)

	case UpdateExpense:
		next.Expenses = slices.Clone(state.Expenses)
		for i := range next.Expenses {
			if next.Expenses[i].ID == a.Expense.ID {
				next.Expenses[i] = a.Expense
			}
		}

	case DeleteExpense:
		next.Expenses = slices.DeleteFunc(slices.Clone(state.Expenses), func(e model.Expense) bool {
			return e.ID == a.ID
		})

	case SetFilters:
		next.Filters = state.Filters.Apply(a.Patch)

	case RecomputeTotal:
		next.TotalExpense = view.Total(state.Expenses)
	}

	return next
}
