package view

import (
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetFor(month model.Month, categoryID int, amount int64) model.Budget {
	b := model.Budget{Month: month, Amount: amount}
	if categoryID != 0 {
		b.CategoryID = &categoryID
	}
	return b
}

func TestTotalBudget(t *testing.T) {
	jan := model.NewMonth(2024, time.January)
	feb := model.NewMonth(2024, time.February)

	categoryOnly := []model.Budget{
		budgetFor(jan, 1, 2000000),
		budgetFor(jan, 2, 500000),
		budgetFor(feb, 1, 9000000),
	}
	assert.Equal(t, int64(2500000), TotalBudget(categoryOnly, jan))

	withTotal := append(categoryOnly, budgetFor(jan, 0, 3000000))
	assert.Equal(t, int64(3000000), TotalBudget(withTotal, jan))
	assert.Equal(t, int64(9000000), TotalBudget(withTotal, feb))
	assert.Zero(t, TotalBudget(withTotal, model.NewMonth(2024, time.March)))
}

func TestBudgetVsActual(t *testing.T) {
	jan := model.NewMonth(2024, time.January)
	catalog := model.DefaultCategories()
	expenses := []model.Expense{
		expense("food-1", 1500000, 1, "2024-01-05"),
		expense("food-2", 700000, 1, "2024-01-20"),
		expense("taxi", 200000, 2, "2024-01-09"),
		expense("food-dec", 5000000, 1, "2023-12-31"),
		expense("books", 90000, 6, "2024-01-10"),
	}
	budgets := []model.Budget{
		budgetFor(jan, 2, 500000),
		budgetFor(jan, 1, 2000000),
		budgetFor(jan, 3, 1000000),
		budgetFor(jan, 42, 1000000),
		budgetFor(jan, 0, 10000000),
	}

	got := BudgetVsActual(expenses, budgets, catalog, jan)
	require.Len(t, got, 3)

	assert.Equal(t, 1, got[0].Category.ID, "catalog order")
	assert.Equal(t, int64(2000000), got[0].Budget)
	assert.Equal(t, int64(2200000), got[0].Actual)
	assert.Equal(t, int64(-200000), got[0].Remaining())
	assert.InDelta(t, 110.0, got[0].Percentage, 0.001)
	assert.True(t, got[0].Over())

	assert.Equal(t, 2, got[1].Category.ID)
	assert.Equal(t, int64(200000), got[1].Actual)
	assert.False(t, got[1].Over())

	assert.Equal(t, 3, got[2].Category.ID)
	assert.Zero(t, got[2].Actual)
	assert.Zero(t, got[2].Percentage)

	over := OverBudget(got)
	require.Len(t, over, 1)
	assert.Equal(t, "Ăn uống", over[0].Category.Name)
}

func TestBudgetStatus_ExactlyAtLimitIsNotOver(t *testing.T) {
	s := status(nil, 500000, 500000)
	assert.False(t, s.Over())
	assert.Zero(t, s.Remaining())
	assert.InDelta(t, 100.0, s.Percentage, 0.001)
}

func TestBudgets(t *testing.T) {
	jan := model.NewMonth(2024, time.January)
	catalog := model.DefaultCategories()
	expenses := []model.Expense{
		expense("food", 1500000, 1, "2024-01-05"),
		expense("rent", 4000000, 7, "2024-01-01"),
	}

	o := Budgets(expenses, []model.Budget{budgetFor(jan, 1, 2000000)}, catalog, jan)
	assert.Nil(t, o.Total)
	assert.Equal(t, int64(2000000), o.Budgeted)
	assert.Equal(t, int64(5500000), o.Spent)
	assert.Empty(t, o.Over())

	o = Budgets(expenses, []model.Budget{
		budgetFor(jan, 1, 1000000),
		budgetFor(jan, 0, 5000000),
	}, catalog, jan)
	require.NotNil(t, o.Total)
	assert.Nil(t, o.Total.Category)
	assert.Equal(t, int64(5500000), o.Total.Actual)
	assert.Equal(t, int64(5000000), o.Budgeted)

	over := o.Over()
	require.Len(t, over, 2)
	assert.Nil(t, over[0].Category, "overall budget comes first")
	assert.Equal(t, 1, over[1].Category.ID)
}
