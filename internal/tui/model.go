// Package tui is the interactive expense history browser.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/tui/themes"
	"github.com/hunglv/expensive/internal/view"
)

// Mode is what key presses currently drive.
type Mode int

// Modes.
const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeConfirmDelete
)

// chromeLines is the height taken by everything around the table.
const chromeLines = 9

// Model holds the browser state. The store is the source of truth; rows is
// the current derived view of it.
type Model struct {
	ctx           context.Context
	store         *store.Store
	theme         themes.Theme
	formatter     *format.Formatter
	logger        *slog.Logger
	keymap        KeyMap
	help          help.Model
	table         table.Model
	search        textinput.Model
	term          string
	status        string
	pendingDelete string
	rows          []model.Expense
	statusErr     bool
	mode          Mode
	width         int
	height        int
	quitting      bool
}

// New creates a browser over st.
func New(ctx context.Context, st *store.Store, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	keymap := DefaultKeyMap()

	t := table.New(
		table.WithFocused(true),
		table.WithKeyMap(keymap.tableKeyMap()),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = cfg.Theme.Selected
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "Search descriptions..."
	search.Prompt = "/ "
	search.CharLimit = 100

	m := Model{
		ctx:       ctx,
		store:     st,
		theme:     cfg.Theme,
		formatter: cfg.Formatter,
		logger:    cfg.Logger,
		keymap:    keymap,
		help:      help.New(),
		table:     t,
		search:    search,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.resize()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg), nil
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.Sort):
		next := nextSortField(m.store.Filters().Normalized().SortBy)
		m.applyFilter(model.FilterPatch{SortBy: &next})
		return m, nil

	case key.Matches(msg, m.keymap.Order):
		next := model.SortAsc
		if m.store.Filters().Normalized().SortOrder == model.SortAsc {
			next = model.SortDesc
		}
		m.applyFilter(model.FilterPatch{SortOrder: &next})
		return m, nil

	case key.Matches(msg, m.keymap.Category):
		m.applyFilter(nextCategory(m.store.Categories(), m.store.Filters().Category))
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.store.ResetFilters(m.ctx)
		m.term = ""
		m.search.Reset()
		m.refresh()
		m.setSaveStatus("Filters reset")
		return m, nil

	case key.Matches(msg, m.keymap.Search):
		m.mode = ModeSearch
		m.table.Blur()
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Delete):
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = ModeConfirmDelete
		m.pendingDelete = e.ID
		m.setStatus(fmt.Sprintf("Delete %q (%s)? y/n", format.Truncate(e.Description, 30), m.formatter.Currency(e.Amount)), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = ModeBrowse
		m.search.Blur()
		m.table.Focus()
		return m, nil
	case tea.KeyEsc:
		m.mode = ModeBrowse
		m.search.Reset()
		m.search.Blur()
		m.table.Focus()
		m.term = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.term {
		m.term = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	id := m.pendingDelete
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		m.mode = ModeBrowse
		m.pendingDelete = ""
		if m.store.Delete(m.ctx, id) {
			m.logger.Debug("Deleted expense", "id", id)
			m.refresh()
			m.setSaveStatus("Expense deleted")
		} else {
			m.refresh()
			m.setStatus("Expense no longer exists", true)
		}
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = ModeBrowse
		m.pendingDelete = ""
		m.setStatus("Delete cancelled", false)
	}
	return m
}

func (m *Model) applyFilter(patch model.FilterPatch) {
	m.store.SetFilters(m.ctx, patch)
	m.refresh()
	m.setSaveStatus("")
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// setSaveStatus reports a failed save over the success text.
func (m *Model) setSaveStatus(success string) {
	if err := m.store.SaveError(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(success, false)
}

// refresh recomputes the shown rows from the store and the search term.
func (m *Model) refresh() {
	m.rows = view.Search(m.store.FilteredExpenses(), m.term)
	catalog := m.store.Categories()

	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		c := view.CategoryOrPlaceholder(catalog, e.CategoryID)
		rows = append(rows, table.Row{
			format.DateShort(e.Date),
			e.Description,
			c.Icon + " " + c.Name,
			m.formatter.Currency(e.Amount),
		})
	}
	m.table.SetRows(rows)

	if n := len(rows); m.table.Cursor() >= n {
		m.table.SetCursor(max(n-1, 0))
	}
}

func (m *Model) resize() {
	descWidth := max(m.width-10-18-16-10, 16)
	m.table.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Description", Width: descWidth},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 16},
	})
	m.table.SetWidth(m.width)

	lines := chromeLines
	if m.help.ShowAll {
		lines += 5
	}
	m.table.SetHeight(max(m.height-lines, 3))
	m.help.Width = m.width
}

func (m Model) selected() (model.Expense, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return model.Expense{}, false
	}
	return m.rows[i], true
}

// Rows returns the expenses currently shown.
func (m Model) Rows() []model.Expense {
	return m.rows
}

// Mode returns the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Status returns the last status line.
func (m Model) Status() string {
	return m.status
}

func nextSortField(f model.SortField) model.SortField {
	switch f {
	case model.SortByDate:
		return model.SortByAmount
	case model.SortByAmount:
		return model.SortByCategory
	default:
		return model.SortByDate
	}
}

// nextCategory walks the catalog in order, then back to "all".
func nextCategory(catalog []model.Category, current *int) model.FilterPatch {
	if len(catalog) == 0 {
		return model.FilterPatch{ClearCategory: true}
	}
	if current == nil {
		id := catalog[0].ID
		return model.FilterPatch{Category: &id}
	}
	for i, c := range catalog {
		if c.ID == *current && i+1 < len(catalog) {
			id := catalog[i+1].ID
			return model.FilterPatch{Category: &id}
		}
	}
	return model.FilterPatch{ClearCategory: true}
}
