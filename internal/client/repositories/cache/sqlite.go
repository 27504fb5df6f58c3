package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userfetcher/internal/client/migrations"
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const metaTimestamp = "timestamp"

// SQLiteRepository stores one row per user, in fetch order, plus the
// snapshot timestamp in cache_meta.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate cache: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteRepository(db), nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s models.Snapshot) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cached_users`); err != nil {
			return fmt.Errorf("failed to clear cached users: %w", err)
		}

		for i, u := range s.Users {
			data, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("failed to encode user %d: %w", i, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cached_users (position, login, data) VALUES (?, ?, ?)`,
				i, u.Login(), string(data)); err != nil {
				return fmt.Errorf("failed to insert user %d: %w", i, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cache_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, metaTimestamp, models.FormatTimestamp(s.Timestamp)); err != nil {
			return fmt.Errorf("failed to set cache timestamp: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.Snapshot, error) {
	var ts string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM cache_meta WHERE key = ?`, metaTimestamp).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache timestamp: %w", err)
	}
	when, err := models.ParseTimestamp(ts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT data FROM cached_users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan cached user: %w", err)
		}
		u, err := models.DecodeUser([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached users: %w", err)
	}

	return &models.Snapshot{Timestamp: when, Users: users}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
