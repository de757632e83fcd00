// Package themes holds the color palettes of the terminal browser.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Amount        lipgloss.Style
	Footer        lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	RoundedBox    lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary: lipgloss.Color("#0ea5e9"),
	Success: lipgloss.Color("#22c55e"),
	Warning: lipgloss.Color("#f59e0b"),
	Error:   lipgloss.Color("#ef4444"),
	Border:  lipgloss.Color("#3f3f46"),
	Muted:   lipgloss.Color("#71717a"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#0ea5e9")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a1a1aa")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#0369a1")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Amount: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#22c55e")),
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a1a1aa")).
		MarginTop(1),

	// Component styles
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3f3f46")).
		Padding(0, 1),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22c55e")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
}

// Light suits terminals with a bright background.
var Light = Theme{
	Primary: lipgloss.Color("#0369a1"),
	Success: lipgloss.Color("#15803d"),
	Warning: lipgloss.Color("#b45309"),
	Error:   lipgloss.Color("#b91c1c"),
	Border:  lipgloss.Color("#d4d4d8"),
	Muted:   lipgloss.Color("#71717a"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#0369a1")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#52525b")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#18181b")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#18181b")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#bae6fd")).
		Foreground(lipgloss.Color("#18181b")).
		Bold(true),
	Amount: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#15803d")),
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#52525b")).
		MarginTop(1),

	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#d4d4d8")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#15803d")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#b45309")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#b91c1c")).
		Bold(true),
}

// ByName looks a theme up by its configuration name.
func ByName(name string) (Theme, bool) {
	switch name {
	case "", "default", "dark":
		return Default, true
	case "light":
		return Light, true
	default:
		return Theme{}, false
	}
}
