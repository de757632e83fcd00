package tui

import (
	"fmt"
	"strings"

	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("💰 Expense history"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.filterLine()))
	b.WriteString("\n")

	if m.mode == ModeSearch || m.term != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(m.theme.RoundedBox.Render(m.emptyText()))
	} else {
		b.WriteString(m.theme.RoundedBox.Render(m.table.View()))
	}
	b.WriteString("\n")

	b.WriteString(m.footer())
	b.WriteString("\n")

	if m.status != "" {
		style := m.theme.StatusSuccess
		switch {
		case m.statusErr:
			style = m.theme.StatusError
		case m.mode == ModeConfirmDelete:
			style = m.theme.StatusWarning
		}
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) filterLine() string {
	f := m.store.Filters().Normalized()

	arrow := "↓"
	if f.SortOrder == model.SortAsc {
		arrow = "↑"
	}

	category := "all"
	if f.Category != nil {
		category = view.CategoryOrPlaceholder(m.store.Categories(), *f.Category).Name
	}

	return fmt.Sprintf("Sort: %s %s · Category: %s", f.SortBy, arrow, category)
}

// footer is "shown / total" plus the total of what is shown.
func (m Model) footer() string {
	shown := fmt.Sprintf("%d / %d shown", len(m.rows), len(m.store.Expenses()))
	total := m.theme.Amount.Render(m.formatter.Currency(view.Total(m.rows)))
	return m.theme.Footer.Render(shown + " · Total: " + total)
}

func (m Model) emptyText() string {
	if len(m.store.Expenses()) == 0 {
		return "No expenses recorded yet. Add one with `expensive add`."
	}
	return "No expenses match the current filters."
}
