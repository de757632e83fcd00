package tui

import (
	"log/slog"

	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Formatter *format.Formatter
	Logger    *slog.Logger
	Width     int
	Height    int
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Formatter: format.Default(),
		Logger:    slog.Default(),
		Width:     100,
		Height:    24,
		AltScreen: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithFormatter sets how amounts are rendered.
func WithFormatter(f *format.Formatter) Option {
	return func(c *Config) {
		if f != nil {
			c.Formatter = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithSize sets the initial dimensions, before the first resize event.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
