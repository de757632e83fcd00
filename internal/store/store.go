// Package store owns the canonical expense collection. Every change goes
// through a reducer, is mirrored to durable storage and is followed by a
// recomputation of the running total.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/view"
)

// ErrInvalidExpense is returned when a record fails the store's preconditions.
var ErrInvalidExpense = errors.New("invalid expense")

// MsgNotSaved is what users see when a change could not be written to disk.
const MsgNotSaved = "changes not saved"

// Store is the expense state container. It is safe for concurrent use.
type Store struct {
	kv            service.Storage
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
	saveErrs      map[string]error
	defaultFilter model.Filter
	state         State
	mu            sync.RWMutex
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// WithCategories replaces the built-in catalog.
func WithCategories(categories []model.Category) Option {
	return func(s *Store) { s.state.Categories = slices.Clone(categories) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithDefaultFilter sets the filter used before any is saved and on reset.
func WithDefaultFilter(f model.Filter) Option {
	return func(s *Store) {
		s.defaultFilter = f.Normalized()
		s.state.Filters = s.defaultFilter.Clone()
	}
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New creates a store in the loading state. Call Load before use.
func New(kv service.Storage, opts ...Option) *Store {
	s := &Store{
		kv:            kv,
		logger:        slog.Default(),
		now:           time.Now,
		newID:         newUUID,
		saveErrs:      make(map[string]error),
		defaultFilter: model.DefaultFilter(),
		state: State{
			Categories: model.DefaultCategories(),
			Filters:    model.DefaultFilter(),
			IsLoading:  true,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads it from storage.
func Open(ctx context.Context, kv service.Storage, opts ...Option) *Store {
	s := New(kv, opts...)
	s.Load(ctx)
	return s
}

// Load restores the collection and filters from storage. Missing or
// unreadable data leaves the store empty; Load itself never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = reduce(s.state, SetLoading{Loading: true})

	var expenses []model.Expense
	if err := storage.GetJSON(ctx, s.kv, storage.KeyExpenses, &expenses); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("Failed to load expenses, starting empty", "error", err)
		}
		expenses = nil
	}

	var filters model.Filter
	if err := storage.GetJSON(ctx, s.kv, storage.KeyFilters, &filters); err == nil {
		s.state = reduce(s.state, SetFilters{Patch: replaceFilter(filters.Normalized())})
	} else if !errors.Is(err, common.ErrNotFound) {
		s.logger.Warn("Failed to load filters, using defaults", "error", err)
	}

	s.state = reduce(s.state, SetAll{Expenses: expenses})
	s.state = reduce(s.state, RecomputeTotal{})

	s.logger.Debug("Loaded expenses", "count", len(s.state.Expenses), "total", s.state.TotalExpense)
}

// replaceFilter builds a patch that turns any filter into f.
func replaceFilter(f model.Filter) model.FilterPatch {
	return model.FilterPatch{
		Category:       f.Category,
		DateRange:      f.DateRange,
		SortBy:         &f.SortBy,
		SortOrder:      &f.SortOrder,
		ClearCategory:  true,
		ClearDateRange: true,
	}
}

// Dispatch applies an action and its follow-ups: persisting and
// recomputing the total after collection changes, persisting filters after
// filter changes.
func (s *Store) Dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(ctx, action)
}

func (s *Store) dispatch(ctx context.Context, action Action) {
	before := len(s.state.Expenses)
	s.state = reduce(s.state, action)
	s.logger.Debug("Dispatched action", "action", action.actionName())

	switch a := action.(type) {
	case SetFilters:
		s.persist(ctx, storage.KeyFilters, s.state.Filters)
	default:
		if !mutatesCollection(a) {
			return
		}
		if _, isDelete := a.(DeleteExpense); !isDelete || len(s.state.Expenses) != before {
			s.persistExpenses(ctx)
		}
		s.state = reduce(s.state, RecomputeTotal{})
	}
}

func (s *Store) persistExpenses(ctx context.Context) {
	expenses := s.state.Expenses
	if expenses == nil {
		expenses = []model.Expense{}
	}
	s.persist(ctx, storage.KeyExpenses, expenses)
}

// persist writes one key. A failure is remembered per key so that a later
// successful write of another key cannot hide it.
func (s *Store) persist(ctx context.Context, key string, v any) {
	if err := storage.SetJSON(ctx, s.kv, key, v); err != nil {
		s.saveErrs[key] = common.NewUserError(MsgNotSaved, err)
		s.logger.Warn("Failed to save state", "key", key, "error", err)
		return
	}
	delete(s.saveErrs, key)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func checkInput(in model.ExpenseInput) error {
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if in.CategoryID == model.UncategorizedID {
		return fmt.Errorf("%w: category is required", ErrInvalidExpense)
	}
	return nil
}

// Add records a new expense and returns it with its id and timestamps. A
// zero date means today.
func (s *Store) Add(ctx context.Context, in model.ExpenseInput) (model.Expense, error) {
	if err := checkInput(in); err != nil {
		return model.Expense{}, err
	}

	now := s.timestamp()
	if in.Date.IsZero() {
		in.Date = model.DateOf(s.now())
	}

	e := model.Expense{
		ID:          s.newID(),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(ctx, AddExpense{Expense: e})
	return e, nil
}

// Update replaces the user-supplied fields of an existing expense. The id and
// creation time are kept; a zero date keeps the previous date.
func (s *Store) Update(ctx context.Context, id string, in model.ExpenseInput) (model.Expense, error) {
	if err := checkInput(in); err != nil {
		return model.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.find(id)
	if !ok {
		return model.Expense{}, fmt.Errorf("expense %q: %w", id, common.ErrNotFound)
	}

	updatedAt := s.timestamp()
	if updatedAt.Before(prev.UpdatedAt) {
		updatedAt = prev.UpdatedAt
	}
	if in.Date.IsZero() {
		in.Date = prev.Date
	}

	e := model.Expense{
		ID:          prev.ID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
		CreatedAt:   prev.CreatedAt,
		UpdatedAt:   updatedAt,
	}
	s.dispatch(ctx, UpdateExpense{Expense: e})
	return e, nil
}

// Delete removes the expense with id. It reports whether anything was
// removed; deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.state.Expenses)
	s.dispatch(ctx, DeleteExpense{ID: id})
	return len(s.state.Expenses) != before
}

// SetAll replaces the collection. Every record needs a unique, non-empty id
// and must meet the same preconditions as Add.
func (s *Store) SetAll(ctx context.Context, expenses []model.Expense) error {
	seen := make(map[string]struct{}, len(expenses))
	for i, e := range expenses {
		if e.ID == "" {
			return fmt.Errorf("%w: record %d has no id", ErrInvalidExpense, i)
		}
		if err := checkInput(e.Input()); err != nil {
			return fmt.Errorf("record %q: %w", e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidExpense, e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(ctx, SetAll{Expenses: expenses})
	return nil
}

// SetFilters merges patch into the current filter and saves it.
func (s *Store) SetFilters(ctx context.Context, patch model.FilterPatch) {
	s.Dispatch(ctx, SetFilters{Patch: patch})
}

// ResetFilters restores the default filter and saves it.
func (s *Store) ResetFilters(ctx context.Context) {
	s.Dispatch(ctx, SetFilters{Patch: replaceFilter(s.defaultFilter.Clone())})
}

// RecomputeTotal re-derives the running total from the collection.
func (s *Store) RecomputeTotal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, RecomputeTotal{})
}

func (s *Store) find(id string) (model.Expense, bool) {
	for _, e := range s.state.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return model.Expense{}, false
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Expenses returns a copy of the collection, newest additions first.
func (s *Store) Expenses() []model.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Expenses)
}

// Get looks an expense up by id.
func (s *Store) Get(id string) (model.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id)
}

// Categories returns the catalog.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Categories)
}

// CategoryByID looks a catalog entry up by id.
func (s *Store) CategoryByID(id int) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.CategoryByID(s.state.Categories, id)
}

// TotalExpense is the sum of all amounts.
func (s *Store) TotalExpense() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TotalExpense
}

// Filters returns the current filter.
func (s *Store) Filters() model.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Filters.Clone()
}

// IsLoading reports whether Load has not completed yet.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

// FilteredExpenses applies the current filter to the collection.
func (s *Store) FilteredExpenses() []model.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Filter(s.state.Expenses, s.state.Filters)
}

// SaveError reports unsaved state: the last write of some key failed and
// that key has not been written successfully since. The expense collection
// takes precedence over filters.
func (s *Store) SaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range []string{storage.KeyExpenses, storage.KeyFilters} {
		if err := s.saveErrs[key]; err != nil {
			return err
		}
	}
	return nil
}

// Now is the store's clock, exposed so projections agree with it.
func (s *Store) Now() time.Time {
	return s.now()
}
