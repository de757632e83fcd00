// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/service"
	"github.com/hunglv/expensive/internal/storage"
	"github.com/hunglv/expensive/internal/store"
)

// FixedNow is the instant test stores believe it is: Monday 15 January 2024, 10:00 local.
var FixedNow = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.Local)

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// NewTestStore opens a loaded store on kv (fresh memory storage when nil)
// with a frozen clock, predictable ids and a silent logger. Later options
// override these defaults.
func NewTestStore(t *testing.T, kv service.Storage, opts ...store.Option) *store.Store {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemoryStorage()
	}
	t.Cleanup(func() { _ = kv.Close() })

	defaults := []store.Option{
		store.WithClock(Clock(FixedNow)),
		store.WithIDGenerator(SequentialIDs("exp")),
		store.WithLogger(common.DiscardLogger()),
	}
	return store.Open(context.Background(), kv, append(defaults, opts...)...)
}
