package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/sheets/v4"
)

var errTransient = errors.New("transient")

type update struct {
	rng    string
	values [][]any
}

type fakeAPI struct {
	existsErr   error
	batchErr    error
	updates     []update
	created     []string
	cleared     int
	batches     int
	failUpdates int
	mu          sync.Mutex
}

func (f *fakeAPI) Exists(context.Context, string) error { return f.existsErr }

func (f *fakeAPI) Create(_ context.Context, title, _, _ string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, title)
	return "new-sheet", "https://example.com/new-sheet", nil
}

func (f *fakeAPI) Clear(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates > 0 {
		f.failUpdates--
		return errTransient
	}
	f.updates = append(f.updates, update{rng: rng, values: values})
	return nil
}

func (f *fakeAPI) BatchUpdate(context.Context, string, []*sheets.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	return f.batchErr
}

func testConfig() Config {
	c := DefaultConfig()
	c.ClientID = "client"
	c.ClientSecret = "secret"
	c.RefreshToken = "refresh"
	c.RetryDelay = time.Millisecond
	return c
}

func testReport() *view.Report {
	expenses := []model.Expense{
		{ID: "a", Description: "Phở", Amount: 50000, CategoryID: 1, Date: model.NewDate(2024, time.January, 10)},
		{ID: "b", Description: "Grab", Amount: 150000, CategoryID: 2, Date: model.NewDate(2024, time.January, 12)},
		{ID: "c", Description: "Bún", Amount: 30000, CategoryID: 1, Date: model.NewDate(2024, time.January, 14)},
	}
	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.Local)
	return view.BuildReport(expenses, model.DefaultCategories(), model.DefaultFilter(), now)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		mutate func(c *Config)
	}{
		{name: "valid oauth config", mutate: func(*Config) {}},
		{name: "oauth with token file", mutate: func(c *Config) {
			c.RefreshToken = ""
			c.TokenFile = "/tmp/token.json"
		}},
		{name: "valid service account config", mutate: func(c *Config) {
			c.ClientID, c.ClientSecret, c.RefreshToken = "", "", ""
			c.ServiceAccountPath = "/path/to/key.json"
		}},
		{name: "missing auth", errMsg: "no authentication method configured", mutate: func(c *Config) {
			c.ClientID, c.ClientSecret, c.RefreshToken = "", "", ""
		}},
		{name: "partial oauth credentials", errMsg: "no authentication method configured", mutate: func(c *Config) {
			c.ClientSecret = ""
		}},
		{name: "multiple auth methods", errMsg: "multiple authentication methods configured", mutate: func(c *Config) {
			c.ServiceAccountPath = "/path/to/key.json"
		}},
		{name: "invalid batch size", errMsg: "batch size must be positive", mutate: func(c *Config) {
			c.BatchSize = 0
		}},
		{name: "negative retry attempts", errMsg: "retry attempts cannot be negative", mutate: func(c *Config) {
			c.RetryAttempts = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPrepareReportData(t *testing.T) {
	values := prepareReportData(testReport())

	assert.Equal(t, "Báo cáo chi tiêu", values[0][0])
	assert.Equal(t, []any{"Tổng chi tiêu", int64(230000)}, values[3])
	assert.Equal(t, []any{"Số khoản chi", 3}, values[4])
	assert.Equal(t, []any{"Khoảng thời gian", "Tất cả"}, values[5])

	// Breakdown is ordered by amount, largest first.
	assert.Equal(t, []any{"Di chuyển", 1, int64(150000), 65.2}, values[9])
	assert.Equal(t, []any{"Ăn uống", 2, int64(80000), 34.8}, values[10])

	details := values[len(values)-3:]
	assert.Equal(t, []any{"2024-01-14", "Bún", int64(30000), "Ăn uống"}, details[0])
	assert.Equal(t, []any{"2024-01-10", "Phở", int64(50000), "Ăn uống"}, details[2])
}

func TestPrepareReportData_DateRange(t *testing.T) {
	report := testReport()
	report.Filter.DateRange = &model.DateRange{
		Start: model.NewDate(2024, time.January, 1),
		End:   model.NewDate(2024, time.January, 31),
	}
	values := prepareReportData(report)
	assert.Equal(t, "01/01/2024 - 31/01/2024", values[5][1])
}

func TestWriter_Write(t *testing.T) {
	t.Run("creates a spreadsheet and writes in batches", func(t *testing.T) {
		api := &fakeAPI{}
		cfg := testConfig()
		cfg.BatchSize = 5
		w := newWriter(api, cfg, common.DiscardLogger())

		report := testReport()
		require.NoError(t, w.Write(context.Background(), report))

		assert.Equal(t, []string{DefaultSpreadsheetName}, api.created)
		assert.Equal(t, 1, api.cleared)
		assert.Equal(t, 1, api.batches)

		total := len(prepareReportData(report))
		rows := 0
		for i, u := range api.updates {
			assert.LessOrEqual(t, len(u.values), 5)
			if i == 0 {
				assert.Equal(t, "A1", u.rng)
			}
			rows += len(u.values)
		}
		assert.Equal(t, total, rows)
		assert.Equal(t, "A6", api.updates[1].rng)
	})

	t.Run("uses the configured spreadsheet", func(t *testing.T) {
		api := &fakeAPI{}
		cfg := testConfig()
		cfg.SpreadsheetID = "existing"
		w := newWriter(api, cfg, common.DiscardLogger())

		require.NoError(t, w.Write(context.Background(), testReport()))
		assert.Empty(t, api.created)
	})

	t.Run("inaccessible spreadsheet", func(t *testing.T) {
		api := &fakeAPI{existsErr: errors.New("403")}
		cfg := testConfig()
		cfg.SpreadsheetID = "existing"
		w := newWriter(api, cfg, common.DiscardLogger())

		assert.Error(t, w.Write(context.Background(), testReport()))
		assert.Empty(t, api.updates)
	})

	t.Run("retries rate limited writes", func(t *testing.T) {
		api := &fakeAPI{failUpdates: 2}
		cfg := testConfig()
		cfg.RetryAttempts = 3
		w := newWriter(api, cfg, common.DiscardLogger())

		require.NoError(t, w.Write(context.Background(), testReport()))
		assert.NotEmpty(t, api.updates)
	})

	t.Run("formatting failure is not fatal", func(t *testing.T) {
		api := &fakeAPI{batchErr: errors.New("boom")}
		cfg := testConfig()
		cfg.RetryAttempts = 1
		w := newWriter(api, cfg, common.DiscardLogger())

		assert.NoError(t, w.Write(context.Background(), testReport()))
	})
}

func TestToken_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, "access", loaded.AccessToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter()
	report := testReport()

	require.NoError(t, m.Write(context.Background(), report))
	m.SetWriteError(errors.New("quota"))
	assert.Error(t, m.Write(context.Background(), report))

	calls := m.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.Error(t, calls[1].Error)
	assert.Same(t, report, m.LastReport)
}
