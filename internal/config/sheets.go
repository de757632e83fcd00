package config

import (
	"os"
	"path/filepath"

	"github.com/hunglv/expensive/internal/sheets"
	"github.com/spf13/viper"
)

// DefaultSheetsTokenFile is where the interactive OAuth2 flow saves its token.
func DefaultSheetsTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "expensive", "sheets-token.json")
}

// LoadSheetsConfig loads Google Sheets configuration from v and the environment.
// It follows this precedence:
// 1. Viper configuration (config file or EXPENSIVE_SHEETS_* env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig(v *viper.Viper) (sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	lookup := func(key, env string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return os.Getenv(env)
	}

	cfg.ServiceAccountPath = ExpandPath(lookup("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	cfg.ClientID = lookup("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	cfg.ClientSecret = lookup("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	cfg.RefreshToken = lookup("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	cfg.SpreadsheetID = lookup("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")
	if name := lookup("sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" {
		cfg.SpreadsheetName = name
	}
	if tz := v.GetString("sheets.time_zone"); tz != "" {
		cfg.TimeZone = tz
	}

	if cfg.ServiceAccountPath == "" && cfg.RefreshToken == "" && cfg.ClientID != "" {
		cfg.TokenFile = ExpandPath(lookup("sheets.token_file", "GOOGLE_SHEETS_TOKEN_FILE"))
		if cfg.TokenFile == "" {
			cfg.TokenFile = DefaultSheetsTokenFile()
		}
	}

	if err := cfg.Validate(); err != nil {
		return sheets.Config{}, err
	}
	return cfg, nil
}
