package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/hunglv/expensive/internal/storage"
)

// ErrInjected is the error FailingStorage returns when told to fail.
var ErrInjected = errors.New("injected storage failure")

// FailingStorage is in-memory storage whose reads and writes can be made
// to fail. It counts successful writes per key.
type FailingStorage struct {
	*storage.MemoryStorage
	writes     map[string]int
	failReads  bool
	failWrites bool
	mu         sync.Mutex
}

// NewFailingStorage returns a FailingStorage that works until told otherwise.
func NewFailingStorage() *FailingStorage {
	return &FailingStorage{
		MemoryStorage: storage.NewMemoryStorage(),
		writes:        make(map[string]int),
	}
}

// FailWrites makes every Set and Delete fail while on is true.
func (f *FailingStorage) FailWrites(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = on
}

// FailReads makes every Get fail while on is true.
func (f *FailingStorage) FailReads(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = on
}

// Writes reports how many successful writes key has seen.
func (f *FailingStorage) Writes(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[key]
}

// Get implements service.Storage.
func (f *FailingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failReads
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.MemoryStorage.Get(ctx, key)
}

// Set implements service.Storage.
func (f *FailingStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return ErrInjected
	}
	if err := f.MemoryStorage.Set(ctx, key, value); err != nil {
		return err
	}
	f.writes[key]++
	return nil
}

// Delete implements service.Storage.
func (f *FailingStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return ErrInjected
	}
	return f.MemoryStorage.Delete(ctx, key)
}
