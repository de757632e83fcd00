package store

import "github.com/hunglv/expensive/internal/model"

// Action is a state transition. The set of actions is closed: every
// implementation lives in this file and reduce handles each one.
type Action interface {
	actionName() string
}

// SetAll replaces the whole collection and ends the loading phase.
type SetAll struct {
	Expenses []model.Expense
}

// SetLoading toggles the loading flag.
type SetLoading struct {
	Loading bool
}

// AddExpense prepends a fully formed record.
type AddExpense struct {
	Expense model.Expense
}

// UpdateExpense replaces the record sharing Expense.ID.
type UpdateExpense struct {
	Expense model.Expense
}

// DeleteExpense removes the record with ID, if any.
type DeleteExpense struct {
	ID string
}

// SetFilters merges Patch into the current filter.
type SetFilters struct {
	Patch model.FilterPatch
}

// RecomputeTotal re-derives TotalExpense from the collection.
type RecomputeTotal struct{}

func (SetAll) actionName() string         { return "set_expenses" }
func (SetLoading) actionName() string     { return "set_loading" }
func (AddExpense) actionName() string     { return "add_expense" }
func (UpdateExpense) actionName() string  { return "update_expense" }
func (DeleteExpense) actionName() string  { return "delete_expense" }
func (SetFilters) actionName() string     { return "set_filters" }
func (RecomputeTotal) actionName() string { return "calculate_total" }

// mutatesCollection reports whether an action may change the expense list.
func mutatesCollection(a Action) bool {
	switch a.(type) {
	case SetAll, AddExpense, UpdateExpense, DeleteExpense:
		return true
	default:
		return false
	}
}
