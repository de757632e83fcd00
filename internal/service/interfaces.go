// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/view"
)

// Storage is the durable key-value store the application state is mirrored to.
// Get returns common.ErrNotFound for a key that was never written or was deleted.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Authenticate(ctx context.Context, creds model.Credentials) (model.Session, error)
}

// ReportWriter defines the contract for report generation.
type ReportWriter interface {
	Write(ctx context.Context, report *view.Report) error
}
