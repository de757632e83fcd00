package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Apply(t *testing.T) {
	base := DefaultFilter()
	category := 3
	amount := SortByAmount
	asc := SortAsc
	r := DateRange{Start: NewDate(2024, time.January, 1), End: NewDate(2024, time.January, 31)}

	t.Run("merges only provided fields", func(t *testing.T) {
		got := base.Apply(FilterPatch{Category: &category})
		require.NotNil(t, got.Category)
		assert.Equal(t, 3, *got.Category)
		assert.Equal(t, SortByDate, got.SortBy)
		assert.Equal(t, SortDesc, got.SortOrder)
		assert.Nil(t, got.DateRange)
	})

	t.Run("does not alias the patch", func(t *testing.T) {
		got := base.Apply(FilterPatch{Category: &category})
		category = 5
		assert.Equal(t, 3, *got.Category)
		category = 3
	})

	t.Run("sort settings", func(t *testing.T) {
		got := base.Apply(FilterPatch{SortBy: &amount, SortOrder: &asc})
		assert.Equal(t, SortByAmount, got.SortBy)
		assert.Equal(t, SortAsc, got.SortOrder)
	})

	t.Run("clear flags", func(t *testing.T) {
		withBoth := base.Apply(FilterPatch{Category: &category, DateRange: &r})
		cleared := withBoth.Apply(FilterPatch{ClearCategory: true, ClearDateRange: true})
		assert.Nil(t, cleared.Category)
		assert.Nil(t, cleared.DateRange)
		assert.NotNil(t, withBoth.Category, "original filter must be untouched")
	})
}

func TestParseSortFieldAndOrder(t *testing.T) {
	f, err := ParseSortField("Amount")
	require.NoError(t, err)
	assert.Equal(t, SortByAmount, f)

	_, err = ParseSortField("price")
	assert.ErrorIs(t, err, ErrInvalidSortField)

	o, err := ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, o)

	_, err = ParseSortOrder("up")
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestDateRange(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.False(t, r.Contains(NewDate(2024, time.February, 1)))

	_, err = NewDateRange(end, start)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestExpenseInput_Fingerprint(t *testing.T) {
	in := ExpenseInput{Date: NewDate(2024, time.January, 10), Description: "Coffee", Amount: 45000, CategoryID: 1}
	same := in
	same.Description = "  coffee "
	other := in
	other.Amount = 46000

	assert.Equal(t, in.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, in.Fingerprint(), other.Fingerprint())
}
