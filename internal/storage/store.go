// Package storage provides abstractions for persisting tracker state.
package storage

import (
	"context"
	"errors"

	"github.com/arjunr/upitrack/internal/models"
)

// ErrNoState means no usable prior state exists. Callers fall back to
// fresh-start defaults; a missing or corrupt snapshot is never fatal.
var ErrNoState = errors.New("no persisted state")

// Store loads and saves the full tracker snapshot.
// This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
type Store interface {
	// Load reads the persisted snapshot once at startup.
	// Returns ErrNoState when nothing usable is stored.
	Load(ctx context.Context) (*models.State, error)

	// Save replaces the persisted snapshot in a single transaction.
	// Saving identical state twice is harmless.
	Save(ctx context.Context, state *models.State) error

	// Close releases any resources held by the store.
	Close() error
}
