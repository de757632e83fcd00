// Package storage provides the durable key-value layer the expense state is mirrored to.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hunglv/expensive/internal/service"
)

// Keys under which application state is persisted.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyExpenses  = "expenses"
	KeyFilters   = "filters"
	KeyBudgets   = "budgets"
	KeyLastLogin = "lastLogin"
)

// Backend names accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// GetJSON reads key and decodes it into v.
func GetJSON(ctx context.Context, s service.Storage, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and writes it under key.
func SetJSON(ctx context.Context, s service.Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
