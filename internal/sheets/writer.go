package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/view"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetTitle is the tab a newly created spreadsheet gets.
const SheetTitle = "Chi tiêu"

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	api    spreadsheetAPI
	logger *slog.Logger
	config Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := createSheetsService(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(googleAPI{srv: srv}, config, logger), nil
}

func newWriter(api spreadsheetAPI, config Config, logger *slog.Logger) *Writer {
	return &Writer{api: api, config: config, logger: logger}
}

// Write implements service.ReportWriter.
func (w *Writer) Write(ctx context.Context, report *view.Report) error {
	w.logger.Info("Starting sheets export",
		"expenses", len(report.Expenses),
		"total", report.Total)

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if err := common.WithRetry(ctx, func() error {
		return w.api.Clear(ctx, spreadsheetID, "A:Z")
	}, retryOpts); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := prepareReportData(report)

	if err := common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return w.api.BatchUpdate(ctx, spreadsheetID, w.formattingRequests(len(values)))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

func createSheetsService(ctx context.Context, config Config, logger *slog.Logger) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthCfg := OAuth2Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenFile:    config.TokenFile,
		}
		var token *oauth2.Token
		if config.RefreshToken != "" {
			token = &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		} else {
			var err error
			token, err = GetOrCreateToken(ctx, oauthCfg, logger)
			if err != nil {
				return nil, err
			}
		}
		tokenSource = oauthCfg.oauth2().TokenSource(ctx, token)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if err := w.api.Exists(ctx, w.config.SpreadsheetID); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	id, url, err := w.api.Create(ctx, w.config.SpreadsheetName, w.config.TimeZone, SheetTitle)
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}
	w.logger.Info("Created new spreadsheet", "id", id, "url", url)
	return id, nil
}

// prepareReportData lays the report out as rows: a title, a summary block,
// the category breakdown and the expense details.
func prepareReportData(report *view.Report) [][]any {
	values := make([][]any, 0, 14+len(report.ByCategory)+len(report.Expenses))

	period := "Tất cả"
	if r := report.Filter.DateRange; r != nil {
		period = fmt.Sprintf("%s - %s", format.DateShort(r.Start), format.DateShort(r.End))
	}

	values = append(values,
		[]any{"Báo cáo chi tiêu", format.DateTime(report.GeneratedAt)},
		[]any{},
		[]any{"Tổng quan"},
		[]any{"Tổng chi tiêu", report.Total},
		[]any{"Số khoản chi", len(report.Expenses)},
		[]any{"Khoảng thời gian", period},
		[]any{},
		[]any{"Theo danh mục"},
		[]any{"Danh mục", "Số khoản", "Số tiền", "Tỷ lệ (%)"},
	)

	shares := slices.Clone(report.ByCategory)
	slices.SortStableFunc(shares, func(a, b view.CategoryShare) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		default:
			return 0
		}
	})
	for _, s := range shares {
		values = append(values, []any{
			s.Category.Name,
			s.Count,
			s.Total,
			math.Round(s.Percentage*10) / 10,
		})
	}

	values = append(values,
		[]any{},
		[]any{},
		[]any{"Chi tiết"},
		[]any{"Ngày", "Mô tả", "Số tiền", "Danh mục"},
	)
	for _, e := range report.Expenses {
		values = append(values, []any{
			e.Date.String(),
			e.Description,
			e.Amount,
			report.CategoryName(e.CategoryID),
		})
	}

	return values
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		if err := w.api.Update(ctx, spreadsheetID, fmt.Sprintf("A%d", i+1), batch); err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}
		w.logger.Debug("Wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *Writer) formattingRequests(totalRows int) []*sheets.Request {
	return []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{EndRowIndex: 1, EndColumnIndex: 2},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					StartRowIndex:    2,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 2,
					EndColumnIndex:   3,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: w.config.NumberPattern},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{Dimension: "COLUMNS", EndIndex: 4},
			},
		},
	}
}
