package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hunglv/expensive/internal/auth"
	"github.com/hunglv/expensive/internal/config"
	"github.com/hunglv/expensive/internal/format"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/sheets"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/store"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/hunglv/expensive/internal/view"
	"github.com/spf13/viper"
)

var errNoSuchExpense = errors.New("no such expense")

// runtime carries what every command needs: configuration, logging and the
// seams tests replace.
type runtime struct {
	v               *viper.Viper
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string
	newReportWriter func(ctx context.Context, cfg sheets.Config, logger *slog.Logger) (service.ReportWriter, error)
	cfgFile         string
	settings        config.Settings
}

func newRuntime() *runtime {
	v := viper.New()
	config.SetDefaults(v)
	return &runtime{
		v:      v,
		logger: slog.Default(),
		now:    time.Now,
		newReportWriter: func(ctx context.Context, cfg sheets.Config, logger *slog.Logger) (service.ReportWriter, error) {
			return sheets.NewWriter(ctx, cfg, logger)
		},
	}
}

// initStorage opens the configured backend. SQLite databases are migrated
// on open.
func (rt *runtime) initStorage(ctx context.Context) (service.Storage, error) {
	s := rt.settings
	switch s.Storage.Backend {
	case storage.BackendRedis:
		return storage.NewRedisStorage(ctx, s.Redis.URL, s.Redis.Prefix)
	case storage.BackendMemory:
		rt.logger.Warn("Using in-memory storage; nothing will be kept after exit")
		return storage.NewMemoryStorage(), nil
	default:
		db, err := storage.NewSQLiteStorage(s.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db, nil
	}
}

// initSQLite opens storage and insists on the SQLite backend.
func (rt *runtime) initSQLite(ctx context.Context) (*storage.SQLiteStorage, error) {
	if rt.settings.Storage.Backend != storage.BackendSQLite {
		return nil, fmt.Errorf("backups need the sqlite backend (configured: %s)", rt.settings.Storage.Backend)
	}
	kv, err := rt.initStorage(ctx)
	if err != nil {
		return nil, err
	}
	db, ok := kv.(*storage.SQLiteStorage)
	if !ok {
		_ = kv.Close()
		return nil, fmt.Errorf("storage is not SQLite")
	}
	return db, nil
}

// openStore loads the expense store on top of freshly opened storage. The
// caller closes the returned storage.
func (rt *runtime) openStore(ctx context.Context) (*store.Store, service.Storage, error) {
	kv, err := rt.initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	opts := []store.Option{
		store.WithCategories(rt.settings.Catalog()),
		store.WithDefaultFilter(rt.settings.DefaultFilter()),
		store.WithLogger(rt.logger),
		store.WithClock(rt.now),
	}
	if rt.newID != nil {
		opts = append(opts, store.WithIDGenerator(rt.newID))
	}
	st := store.Open(ctx, kv, opts...)
	return st, kv, nil
}

func (rt *runtime) closeStorage(kv service.Storage) {
	if err := kv.Close(); err != nil {
		rt.logger.Error("failed to close storage", "error", err)
	}
}

func (rt *runtime) formatter() (*format.Formatter, error) {
	return format.New(rt.settings.Currency.Code, rt.settings.Currency.Locale)
}

func (rt *runtime) validator(f *format.Formatter) *validate.Validator {
	return validate.New(rt.settings.Rules(), validate.WithFormatter(f), validate.WithClock(rt.now))
}

func (rt *runtime) authenticator() *auth.MockAuthenticator {
	return auth.NewMockAuthenticator(
		auth.WithDelay(rt.settings.Auth.Delay),
		auth.WithClock(rt.now),
		auth.WithLogger(rt.logger),
	)
}

func (rt *runtime) sessions(kv service.Storage) *auth.Sessions {
	return auth.NewSessions(kv, rt.authenticator(), rt.logger)
}

// saveWarning is the message to show when the last store change was not
// persisted, or "".
func saveWarning(st *store.Store) string {
	if err := st.SaveError(); err != nil {
		return store.MsgNotSaved + ": the change is visible now but may be lost"
	}
	return ""
}

// resolveCategory accepts a catalog id or a case-insensitive name.
func resolveCategory(catalog []model.Category, s string) (int, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if _, ok := view.CategoryByID(catalog, id); ok {
			return id, nil
		}
		return 0, fmt.Errorf("%s: %d", validate.MsgCategoryInvalid, id)
	}
	for _, c := range catalog {
		if strings.EqualFold(c.Name, s) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("%s: %q", validate.MsgCategoryInvalid, s)
}

// resolveExpense finds an expense by full id or a unique id prefix.
func resolveExpense(st *store.Store, ref string) (model.Expense, error) {
	ref = strings.TrimSpace(ref)
	if e, ok := st.Get(ref); ok {
		return e, nil
	}

	var matches []model.Expense
	for _, e := range st.Expenses() {
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.Expense{}, fmt.Errorf("expense %q: %w", ref, errNoSuchExpense)
	case 1:
		return matches[0], nil
	default:
		return model.Expense{}, fmt.Errorf("id prefix %q matches %d expenses; use more characters", ref, len(matches))
	}
}

// parseWindow resolves a --window name into a date range. "" and "all"
// mean no restriction.
func parseWindow(name string, now time.Time) (*model.DateRange, error) {
	switch p := view.Preset(strings.TrimSpace(name)); p {
	case "", view.PresetAll:
		return nil, nil
	default:
		r, err := view.Window(p, now)
		if err != nil {
			return nil, err
		}
		return &r, nil
	}
}

// parseDateRange builds a range from --from/--to. A missing bound is open
// towards the other one.
func parseDateRange(from, to string) (*model.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	start := model.NewDate(1, time.January, 1)
	end := model.NewDate(9999, time.December, 31)
	if from != "" {
		d, err := model.ParseDate(from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from: %w", err)
		}
		start = d
	}
	if to != "" {
		d, err := model.ParseDate(to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
		end = d
	}
	r, err := model.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
