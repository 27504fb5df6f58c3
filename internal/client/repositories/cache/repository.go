// Package cache persists the last fetched user snapshot so the table can be
// filled at startup without touching the API.
//
// Two backends implement Repository: a JSON document on disk (the default,
// compatible with the historical 42_users_data.json layout) and a SQLite
// database managed with goose migrations.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

var ErrCacheNotFound = errors.New("cache not found")

// Repository stores exactly one snapshot. Save replaces whatever was there.
type Repository interface {
	Save(ctx context.Context, s models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the repository for backend at path.
func Open(ctx context.Context, backend, path string) (Repository, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFileRepository(path), nil
	case BackendSQLite:
		r, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
