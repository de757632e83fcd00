// Package budget keeps the monthly spending budgets. There is at most one
// budget per month and category, plus one overall budget per month.
package budget

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/storage"
)

// ErrInvalidBudget is returned for a budget that cannot be stored.
var ErrInvalidBudget = errors.New("invalid budget")

// Book holds every budget and mirrors changes to storage. It is safe for
// concurrent use.
type Book struct {
	kv      service.Storage
	logger  *slog.Logger
	now     func() time.Time
	budgets map[string]model.Budget
	mu      sync.RWMutex
}

// Option customizes a Book.
type Option func(*Book)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Book) { b.logger = logger }
}

// Open loads the budgets saved in kv. Nothing saved yet is an empty book; an
// unreadable entry is an error so that a later save cannot overwrite it.
func Open(ctx context.Context, kv service.Storage, opts ...Option) (*Book, error) {
	b := &Book{
		kv:      kv,
		logger:  slog.Default(),
		now:     time.Now,
		budgets: make(map[string]model.Budget),
	}
	for _, opt := range opts {
		opt(b)
	}

	var saved []model.Budget
	if err := storage.GetJSON(ctx, kv, storage.KeyBudgets, &saved); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to load budgets: %w", err)
		}
	}
	for _, bg := range saved {
		b.budgets[bg.Key()] = bg
	}

	b.logger.Debug("Loaded budgets", "count", len(b.budgets))
	return b, nil
}

// Set creates or replaces the budget of month for categoryID, nil meaning
// the overall budget.
func (b *Book) Set(ctx context.Context, month model.Month, categoryID *int, amount int64) (model.Budget, error) {
	if amount <= 0 {
		return model.Budget{}, fmt.Errorf("%w: amount must be positive", ErrInvalidBudget)
	}
	if month.Month < time.January || month.Month > time.December {
		return model.Budget{}, fmt.Errorf("%w: month %d", ErrInvalidBudget, month.Month)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC().Truncate(time.Millisecond)
	key := model.BudgetKey(month, categoryID)
	bg, exists := b.budgets[key]
	if !exists {
		bg = model.Budget{Month: month, CreatedAt: now}
		if categoryID != nil {
			id := *categoryID
			bg.CategoryID = &id
		}
	}
	bg.Amount = amount
	bg.UpdatedAt = now

	prev := b.budgets[key]
	b.budgets[key] = bg
	if err := b.save(ctx); err != nil {
		if exists {
			b.budgets[key] = prev
		} else {
			delete(b.budgets, key)
		}
		return model.Budget{}, err
	}

	b.logger.Debug("Saved budget", "key", key, "amount", amount, "replaced", exists)
	return bg, nil
}

// Delete removes the budget of month for categoryID. It reports whether
// there was one.
func (b *Book) Delete(ctx context.Context, month model.Month, categoryID *int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := model.BudgetKey(month, categoryID)
	prev, ok := b.budgets[key]
	if !ok {
		return false, nil
	}
	delete(b.budgets, key)
	if err := b.save(ctx); err != nil {
		b.budgets[key] = prev
		return false, err
	}
	return true, nil
}

// Month returns the budgets of month: the overall one first, then by
// category id.
func (b *Book) Month(month model.Month) []model.Budget {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []model.Budget
	for _, bg := range b.budgets {
		if bg.Month == month {
			out = append(out, bg)
		}
	}
	sortBudgets(out)
	return out
}

// All returns every budget, oldest month first.
func (b *Book) All() []model.Budget {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Budget, 0, len(b.budgets))
	for _, bg := range b.budgets {
		out = append(out, bg)
	}
	sortBudgets(out)
	return out
}

func sortBudgets(budgets []model.Budget) {
	slices.SortFunc(budgets, func(x, y model.Budget) int {
		if c := cmp.Compare(x.Month.Year, y.Month.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Month.Month, y.Month.Month); c != 0 {
			return c
		}
		return cmp.Compare(categoryOrder(x), categoryOrder(y))
	})
}

func categoryOrder(b model.Budget) int {
	if b.CategoryID == nil {
		return -1
	}
	return *b.CategoryID
}

func (b *Book) save(ctx context.Context) error {
	all := make([]model.Budget, 0, len(b.budgets))
	for _, bg := range b.budgets {
		all = append(all, bg)
	}
	sortBudgets(all)
	if err := storage.SetJSON(ctx, b.kv, storage.KeyBudgets, all); err != nil {
		b.logger.Warn("Failed to save budgets", "error", err)
		return common.NewUserError("budget not saved", err)
	}
	return nil
}
