package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

// JSONFileRepository keeps the snapshot as an indented JSON document.
// Writes go to a temporary file in the same directory which is then
// renamed over the target, so readers see either the old or the new file.
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(path string) *JSONFileRepository {
	return &JSONFileRepository{path: path}
}

func (r *JSONFileRepository) Path() string { return r.path }

func (r *JSONFileRepository) Save(_ context.Context, s models.Snapshot) (err error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	dir, base := filepath.Split(r.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync cache: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func (r *JSONFileRepository) Load(_ context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var s models.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", r.path, err)
	}
	return &s, nil
}

func (r *JSONFileRepository) Close() error { return nil }
