package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/pattern"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.Set("database.path", filepath.Join(t.TempDir(), "test.db"))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", s.Storage.Backend)
	assert.Equal(t, int64(1000), s.Expense.MinAmount)
	assert.Equal(t, int64(999999999), s.Expense.MaxAmount)
	assert.Equal(t, model.OtherCategoryID, s.Expense.DefaultCategory)
	assert.Equal(t, "VND", s.Currency.Code)
	assert.Equal(t, "vi-VN", s.Currency.Locale)
	assert.Equal(t, time.Second, s.Auth.Delay)
	assert.Equal(t, "expensive:", s.Redis.Prefix)
	assert.Equal(t, model.DefaultFilter(), s.DefaultFilter())
	assert.Len(t, s.Catalog(), 8)

	rules := s.Rules()
	assert.Equal(t, 6, rules.PasswordMinLength)
	assert.Equal(t, 128, rules.PasswordMaxLength)
	assert.Equal(t, 3, rules.UsernameMinLength)
	assert.Equal(t, 50, rules.UsernameMaxLength)
}

func TestLoad_Overrides(t *testing.T) {
	v := newViper(t)
	v.Set("storage.backend", "memory")
	v.Set("auth.delay", "250ms")
	v.Set("filters.sort_by", "amount")
	v.Set("filters.sort_order", "asc")
	v.Set("expense.min_amount", 500)
	v.Set("categories", []map[string]any{
		{"id": 1, "name": "Food", "color": "#ff0000", "icon": "🍜"},
		{"id": 8, "name": "Other"},
	})

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", s.Storage.Backend)
	assert.Equal(t, 250*time.Millisecond, s.Auth.Delay)
	assert.Equal(t, model.SortByAmount, s.DefaultFilter().SortBy)
	assert.Equal(t, model.SortAsc, s.DefaultFilter().SortOrder)
	assert.Equal(t, int64(500), s.Rules().MinAmount)
	require.Len(t, s.Catalog(), 2)
	assert.Equal(t, "Food", s.Catalog()[0].Name)
}

func TestSettings_ValidateCollectsEveryProblem(t *testing.T) {
	v := newViper(t)
	v.Set("storage.backend", "floppy")
	v.Set("expense.min_amount", 0)
	v.Set("filters.sort_by", "name")
	v.Set("logging.level", "loud")
	v.Set("expense.default_category", 99)

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	for _, want := range []string{"floppy", "min_amount", "sort_by", "logging.level", "default_category"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSettings_ValidateCategories(t *testing.T) {
	s, err := Load(newViper(t))
	require.NoError(t, err)

	s.Categories = []model.Category{{ID: 0, Name: "zero"}, {ID: 8, Name: "a"}, {ID: 8, Name: "b"}}
	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved id 0")
	assert.Contains(t, err.Error(), "duplicate category id 8")
}

func TestSettings_ImportRules(t *testing.T) {
	v := newViper(t)
	v.Set("import.rules", []map[string]any{
		{"name": "rent", "pattern": "TIEN NHA", "category": 7, "priority": 90, "amount_min": 1000000},
	})

	s, err := Load(v)
	require.NoError(t, err)
	rules := s.ImportRules()
	require.Len(t, rules, 1+len(pattern.DefaultRules()))
	assert.Equal(t, "rent", rules[0].Name)
	assert.Equal(t, 7, rules[0].CategoryID)
	require.NotNil(t, rules[0].AmountMin)
	assert.Equal(t, int64(1000000), *rules[0].AmountMin)

	v.Set("import.default_rules", false)
	s, err = Load(v)
	require.NoError(t, err)
	assert.Len(t, s.ImportRules(), 1)

	v.Set("import.rules", []map[string]any{{"name": "bad", "pattern": "x", "category": 99}})
	_, err = Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "import.rules")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("EXPENSIVE_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/db/x.db", want: filepath.Join(home, "db", "x.db")},
		{name: "env var", in: "$EXPENSIVE_TEST_DIR/x.db", want: "/srv/data/x.db"},
		{name: "plain", in: "/tmp/x.db", want: "/tmp/x.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv("XDG_DATA_HOME", "")
	assert.Equal(t, filepath.Join(home, ".local", "share", "expensive"), DataDir())
	assert.Equal(t, filepath.Join(home, ".local", "share", "expensive", "expensive.db"), DefaultDatabasePath())

	t.Setenv("XDG_DATA_HOME", "~/data")
	assert.Equal(t, filepath.Join(home, "data", "expensive"), DataDir())

	t.Setenv("XDG_DATA_HOME", "/var/lib")
	assert.Equal(t, filepath.Join("/var/lib", "expensive", "expensive.db"), DefaultDatabasePath())
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME", "GOOGLE_SHEETS_TOKEN_FILE",
	} {
		t.Setenv(key, "")
	}

	t.Run("viper wins over environment", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "from-env")
		v := viper.New()
		v.Set("sheets.service_account_path", "/keys/sa.json")
		v.Set("sheets.spreadsheet_id", "from-config")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "from-config", cfg.SpreadsheetID)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

		cfg, err := LoadSheetsConfig(viper.New())
		require.NoError(t, err)
		assert.Equal(t, "refresh", cfg.RefreshToken)
		assert.Empty(t, cfg.TokenFile)
	})

	t.Run("oauth without refresh token uses a token file", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.client_id", "id")
		v.Set("sheets.client_secret", "secret")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.TokenFile)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := LoadSheetsConfig(viper.New())
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}
