package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/testutil"
	"github.com/hunglv/expensive/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ids(expenses []model.Expense) []string {
	out := make([]string, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ID)
	}
	return out
}

func newTestBrowser(t *testing.T, kv *testutil.FailingStorage) (Model, *store.Store) {
	t.Helper()
	var st *store.Store
	if kv == nil {
		st = testutil.NewTestStore(t, nil)
	} else {
		st = testutil.NewTestStore(t, kv)
	}
	require.NoError(t, st.SetAll(context.Background(), []model.Expense{
		testutil.NewExpense("lunch").Description("Lunch").Amount(50000).Category(1).On("2024-01-15").Build(),
		testutil.NewExpense("taxi").Description("Taxi to airport").Amount(150000).Category(2).On("2024-01-14").Build(),
		testutil.NewExpense("books").Description("Books").Amount(80000).Category(3).On("2024-01-10").Build(),
	}))

	m := New(context.Background(), st, WithLogger(common.DiscardLogger()), WithSize(100, 30))
	return m, st
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNew_ShowsFilteredExpenses(t *testing.T) {
	m, _ := newTestBrowser(t, nil)

	assert.Equal(t, []string{"lunch", "taxi", "books"}, ids(m.Rows()))
	assert.Equal(t, ModeBrowse, m.Mode())

	out := m.View()
	assert.Contains(t, out, "3 / 3 shown")
	assert.Contains(t, out, format.Default().Currency(280000))
	assert.Contains(t, out, "Taxi to airport")
}

func TestUpdate_Sorting(t *testing.T) {
	m, st := newTestBrowser(t, nil)

	m = send(t, m, keyPress("s"))
	assert.Equal(t, model.SortByAmount, st.Filters().SortBy)
	assert.Equal(t, []string{"taxi", "books", "lunch"}, ids(m.Rows()))

	m = send(t, m, keyPress("o"))
	assert.Equal(t, model.SortAsc, st.Filters().SortOrder)
	assert.Equal(t, []string{"lunch", "books", "taxi"}, ids(m.Rows()))

	m = send(t, m, keyPress("s"), keyPress("s"))
	assert.Equal(t, model.SortByDate, st.Filters().SortBy)
	assert.Equal(t, []string{"books", "taxi", "lunch"}, ids(m.Rows()))
}

func TestUpdate_CategoryCycle(t *testing.T) {
	m, st := newTestBrowser(t, nil)

	m = send(t, m, keyPress("c"))
	require.NotNil(t, st.Filters().Category)
	assert.Equal(t, 1, *st.Filters().Category)
	assert.Equal(t, []string{"lunch"}, ids(m.Rows()))
	assert.Contains(t, m.View(), "1 / 3 shown")

	m = send(t, m, keyPress("c"))
	assert.Equal(t, []string{"taxi"}, ids(m.Rows()))

	m = send(t, m, keyPress("r"))
	assert.Nil(t, st.Filters().Category)
	assert.Len(t, m.Rows(), 3)
}

func TestUpdate_Search(t *testing.T) {
	m, _ := newTestBrowser(t, nil)

	m = send(t, m, keyPress("/"))
	assert.Equal(t, ModeSearch, m.Mode())

	m = send(t, m, keyPress("T"), keyPress("A"))
	assert.Equal(t, []string{"taxi"}, ids(m.Rows()))

	// Keys typed while searching go to the input, not to the filters.
	m = send(t, m, keyPress("s"))
	assert.Empty(t, m.Rows())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Equal(t, []string{"taxi"}, ids(m.Rows()))

	m = send(t, m, keyPress("/"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.Rows(), 3)
}

func TestUpdate_DeleteFlow(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		m, st := newTestBrowser(t, nil)

		m = send(t, m, keyPress("d"))
		assert.Equal(t, ModeConfirmDelete, m.Mode())
		assert.Contains(t, m.Status(), "Lunch")
		assert.Len(t, st.Expenses(), 3, "nothing is deleted before confirmation")

		m = send(t, m, keyPress("y"))
		assert.Equal(t, ModeBrowse, m.Mode())
		assert.Equal(t, []string{"taxi", "books"}, ids(m.Rows()))
		assert.Len(t, st.Expenses(), 2)
		assert.Equal(t, int64(230000), st.TotalExpense())
		assert.Equal(t, "Expense deleted", m.Status())
	})

	t.Run("cancelled", func(t *testing.T) {
		m, st := newTestBrowser(t, nil)

		m = send(t, m, keyPress("d"), keyPress("n"))
		assert.Equal(t, ModeBrowse, m.Mode())
		assert.Len(t, st.Expenses(), 3)
		assert.Equal(t, "Delete cancelled", m.Status())
	})

	t.Run("moves with the cursor", func(t *testing.T) {
		m, st := newTestBrowser(t, nil)

		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, keyPress("d"), keyPress("y"))
		_, ok := st.Get("taxi")
		assert.False(t, ok)
		assert.Equal(t, []string{"lunch", "books"}, ids(m.Rows()))
	})

	t.Run("save failure is reported", func(t *testing.T) {
		kv := testutil.NewFailingStorage()
		m, st := newTestBrowser(t, kv)
		kv.FailWrites(true)

		m = send(t, m, keyPress("d"), keyPress("y"))
		assert.Len(t, st.Expenses(), 2)
		assert.Contains(t, m.Status(), store.MsgNotSaved)
	})

	t.Run("empty list", func(t *testing.T) {
		st := testutil.NewTestStore(t, nil)
		m := New(context.Background(), st, WithLogger(common.DiscardLogger()))

		m = send(t, m, keyPress("d"))
		assert.Equal(t, ModeBrowse, m.Mode())
		assert.Contains(t, m.View(), "No expenses recorded yet")
	})
}

func TestUpdate_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: keyPress("q")},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestBrowser(t, nil)
			next, cmd := m.Update(tt.msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, next.View())
		})
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestBrowser(t, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Equal(t, 60, m.width)
	assert.Equal(t, 20, m.height)
	assert.Contains(t, m.View(), "3 / 3 shown")
}

func TestNextCategory(t *testing.T) {
	catalog := model.DefaultCategories()
	first, last := catalog[0].ID, catalog[len(catalog)-1].ID
	unknown := 99

	tests := []struct {
		name    string
		current *int
		want    model.FilterPatch
	}{
		{name: "all to first", current: nil, want: model.FilterPatch{Category: &catalog[0].ID}},
		{name: "first to second", current: &first, want: model.FilterPatch{Category: &catalog[1].ID}},
		{name: "last back to all", current: &last, want: model.FilterPatch{ClearCategory: true}},
		{name: "unknown back to all", current: &unknown, want: model.FilterPatch{ClearCategory: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextCategory(catalog, tt.current))
		})
	}
	assert.Equal(t, model.FilterPatch{ClearCategory: true}, nextCategory(nil, nil))
}

func TestThemesByName(t *testing.T) {
	th, ok := themes.ByName("light")
	assert.True(t, ok)
	assert.Equal(t, themes.Light.Primary, th.Primary)

	_, ok = themes.ByName("neon")
	assert.False(t, ok)
}
