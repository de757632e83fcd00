// Package config loads settings from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/pattern"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. EXPENSIVE_STORAGE_BACKEND.
const EnvPrefix = "EXPENSIVE"

// Settings is the typed view of the configuration.
type Settings struct {
	Storage    StorageSettings    `mapstructure:"storage"`
	Database   DatabaseSettings   `mapstructure:"database"`
	Redis      RedisSettings      `mapstructure:"redis"`
	Currency   CurrencySettings   `mapstructure:"currency"`
	Filters    FilterSettings     `mapstructure:"filters"`
	Logging    LoggingSettings    `mapstructure:"logging"`
	Categories []model.Category   `mapstructure:"categories"`
	Expense    ExpenseSettings    `mapstructure:"expense"`
	Validation ValidationSettings `mapstructure:"validation"`
	Auth       AuthSettings       `mapstructure:"auth"`
	Import     ImportSettings     `mapstructure:"import"`
}

// StorageSettings selects the backend.
type StorageSettings struct {
	Backend string `mapstructure:"backend"`
}

// DatabaseSettings configures the SQLite backend.
type DatabaseSettings struct {
	Path string `mapstructure:"path"`
}

// RedisSettings configures the Redis backend.
type RedisSettings struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

// ExpenseSettings bounds amounts and picks the fallback category.
type ExpenseSettings struct {
	MinAmount       int64 `mapstructure:"min_amount"`
	MaxAmount       int64 `mapstructure:"max_amount"`
	DefaultCategory int   `mapstructure:"default_category"`
}

// CurrencySettings drives money formatting.
type CurrencySettings struct {
	Code   string `mapstructure:"code"`
	Locale string `mapstructure:"locale"`
}

// FilterSettings is the filter used until the user saves one.
type FilterSettings struct {
	SortBy    string `mapstructure:"sort_by"`
	SortOrder string `mapstructure:"sort_order"`
}

// ValidationSettings holds the account field limits.
type ValidationSettings struct {
	PasswordMinLength int `mapstructure:"password_min_length"`
	PasswordMaxLength int `mapstructure:"password_max_length"`
	UsernameMinLength int `mapstructure:"username_min_length"`
	UsernameMaxLength int `mapstructure:"username_max_length"`
}

// AuthSettings configures the mock authenticator.
type AuthSettings struct {
	Delay time.Duration `mapstructure:"delay"`
}

// ImportSettings holds the rules that categorize bank transactions.
type ImportSettings struct {
	Rules        []pattern.Rule `mapstructure:"rules"`
	DefaultRules bool           `mapstructure:"default_rules"`
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExpandPath resolves $VARS and then a leading "~" in paths taken from
// config files and flags.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// DataDir holds the database and its backups: $XDG_DATA_HOME/expensive,
// falling back to ~/.local/share/expensive. Without a home directory it is
// the working directory.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(ExpandPath(dir), "expensive")
	}
	dir := ExpandPath("~/.local/share/expensive")
	if strings.HasPrefix(dir, "~") {
		return "."
	}
	return dir
}

// DefaultDatabasePath is where the SQLite file lives unless configured.
func DefaultDatabasePath() string {
	return filepath.Join(DataDir(), "expensive.db")
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	rules := validate.DefaultRules()

	v.SetDefault("storage.backend", storage.BackendSQLite)
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.prefix", storage.DefaultRedisPrefix)
	v.SetDefault("expense.min_amount", rules.MinAmount)
	v.SetDefault("expense.max_amount", rules.MaxAmount)
	v.SetDefault("expense.default_category", model.OtherCategoryID)
	v.SetDefault("currency.code", "VND")
	v.SetDefault("currency.locale", "vi-VN")
	v.SetDefault("filters.sort_by", string(model.SortByDate))
	v.SetDefault("filters.sort_order", string(model.SortDesc))
	v.SetDefault("validation.password_min_length", rules.PasswordMinLength)
	v.SetDefault("validation.password_max_length", rules.PasswordMaxLength)
	v.SetDefault("validation.username_min_length", rules.UsernameMinLength)
	v.SetDefault("validation.username_max_length", rules.UsernameMaxLength)
	v.SetDefault("auth.delay", time.Second)
	v.SetDefault("import.default_rules", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load decodes v into Settings and validates the result.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	s.Database.Path = ExpandPath(s.Database.Path)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every problem at once.
func (s Settings) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{common.ErrInvalidConfig}, args...)...))
	}

	switch s.Storage.Backend {
	case storage.BackendSQLite:
		if s.Database.Path == "" {
			add("database.path is required for the sqlite backend")
		}
	case storage.BackendRedis:
		if s.Redis.URL == "" {
			add("redis.url is required for the redis backend")
		}
	case storage.BackendMemory:
	default:
		add("unknown storage.backend %q", s.Storage.Backend)
	}

	if s.Expense.MinAmount <= 0 {
		add("expense.min_amount must be positive")
	}
	if s.Expense.MaxAmount < s.Expense.MinAmount {
		add("expense.max_amount must not be below expense.min_amount")
	}
	if _, ok := view.CategoryByID(s.Catalog(), s.Expense.DefaultCategory); !ok {
		add("expense.default_category %d is not in the catalog", s.Expense.DefaultCategory)
	}

	if _, err := model.ParseSortField(s.Filters.SortBy); err != nil {
		add("filters.sort_by: %v", err)
	}
	if _, err := model.ParseSortOrder(s.Filters.SortOrder); err != nil {
		add("filters.sort_order: %v", err)
	}

	val := s.Validation
	if val.PasswordMinLength <= 0 || val.PasswordMaxLength < val.PasswordMinLength {
		add("validation password lengths must satisfy 0 < min <= max")
	}
	if val.UsernameMinLength <= 0 || val.UsernameMaxLength < val.UsernameMinLength {
		add("validation username lengths must satisfy 0 < min <= max")
	}

	if s.Auth.Delay < 0 {
		add("auth.delay cannot be negative")
	}

	if err := pattern.Validate(s.Import.Rules, s.Catalog()); err != nil {
		add("import.rules: %v", err)
	}

	seen := make(map[int]bool, len(s.Categories))
	for _, c := range s.Categories {
		if c.ID == model.UncategorizedID {
			add("category %q uses reserved id 0", c.Name)
		}
		if seen[c.ID] {
			add("duplicate category id %d", c.ID)
		}
		seen[c.ID] = true
	}

	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		add("logging.level: %v", err)
	}
	if s.Logging.Format != "console" && s.Logging.Format != "json" && s.Logging.Format != "" {
		add("logging.format must be console or json")
	}

	return errors.Join(errs...)
}

// Catalog returns the configured categories, or the built-in ones.
func (s Settings) Catalog() []model.Category {
	if len(s.Categories) == 0 {
		return model.DefaultCategories()
	}
	return slices.Clone(s.Categories)
}

// Rules converts the limits for the validator.
func (s Settings) Rules() validate.Rules {
	rules := validate.DefaultRules()
	rules.MinAmount = s.Expense.MinAmount
	rules.MaxAmount = s.Expense.MaxAmount
	rules.PasswordMinLength = s.Validation.PasswordMinLength
	rules.PasswordMaxLength = s.Validation.PasswordMaxLength
	rules.UsernameMinLength = s.Validation.UsernameMinLength
	rules.UsernameMaxLength = s.Validation.UsernameMaxLength
	return rules
}

// ImportRules returns the configured rules followed by the built-in ones.
// The built-in rules name default catalog ids, so they are left out when
// the catalog is customized or import.default_rules is off.
func (s Settings) ImportRules() []pattern.Rule {
	rules := slices.Clone(s.Import.Rules)
	if s.Import.DefaultRules && len(s.Categories) == 0 {
		rules = append(rules, pattern.DefaultRules()...)
	}
	return rules
}

// DefaultFilter is the filter a fresh store starts with.
func (s Settings) DefaultFilter() model.Filter {
	f := model.DefaultFilter()
	if by, err := model.ParseSortField(s.Filters.SortBy); err == nil {
		f.SortBy = by
	}
	if order, err := model.ParseSortOrder(s.Filters.SortOrder); err == nil {
		f.SortOrder = order
	}
	return f
}
