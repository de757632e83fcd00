package testutil

import (
	"time"

	"github.com/hunglv/expensive/internal/model"
)

// ExpenseBuilder assembles expense fixtures fluently.
//
//	e := testutil.NewExpense("a").Amount(120000).Category(3).On("2024-01-12").Build()
type ExpenseBuilder struct {
	e model.Expense
}

// NewExpense starts a 50.000 ₫ lunch dated FixedNow.
func NewExpense(id string) *ExpenseBuilder {
	ts := FixedNow.UTC()
	return &ExpenseBuilder{e: model.Expense{
		ID:          id,
		Description: "Lunch",
		Amount:      50000,
		CategoryID:  1,
		Date:        model.DateOf(FixedNow),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}}
}

// Amount sets the amount.
func (b *ExpenseBuilder) Amount(amount int64) *ExpenseBuilder {
	b.e.Amount = amount
	return b
}

// Category sets the category id.
func (b *ExpenseBuilder) Category(id int) *ExpenseBuilder {
	b.e.CategoryID = id
	return b
}

// Description sets the description.
func (b *ExpenseBuilder) Description(s string) *ExpenseBuilder {
	b.e.Description = s
	return b
}

// On sets the date from its 2006-01-02 form. It panics on a malformed date.
func (b *ExpenseBuilder) On(date string) *ExpenseBuilder {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	b.e.Date = d
	return b
}

// UpdatedAt sets the last-modified timestamp.
func (b *ExpenseBuilder) UpdatedAt(t time.Time) *ExpenseBuilder {
	b.e.UpdatedAt = t
	return b
}

// Build returns the expense.
func (b *ExpenseBuilder) Build() model.Expense {
	return b.e
}
