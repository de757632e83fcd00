// Package sheets exports expense reports to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/hunglv/expensive/internal/common"
)

// DefaultSpreadsheetName is used when a new spreadsheet has to be created.
const DefaultSpreadsheetName = "Báo cáo chi tiêu"

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	NumberPattern      string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "Asia/Ho_Chi_Minh",
		NumberPattern:    `#,##0 "₫"`,
		EnableFormatting: true,
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// HasOAuth reports whether OAuth2 client credentials are configured. The
// refresh token may come from the config or from a saved token file.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	hasServiceAccount := c.ServiceAccountPath != ""

	if !c.HasOAuth() && !hasServiceAccount {
		errs = append(errs, errors.New("no authentication method configured"))
	}
	if c.HasOAuth() && hasServiceAccount {
		errs = append(errs, errors.New("multiple authentication methods configured; use either OAuth2 or service account"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
