// Package sqlite provides a file-backed SQLite implementation of the
// key-value state capability and the media blob backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/debut/internal/adapters/media"
	"github.com/okian/debut/internal/adapters/repository"
	"github.com/okian/debut/internal/adapters/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists game state and media in one SQLite database.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// KV returns the key-value view used by the state store.
func (s *Store) KV() repository.KV { return kvView{s} }

// Media returns the blob backend used by the media store.
func (s *Store) Media() media.Backend { return mediaView{s} }

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return repository.ErrUnavailable
	}
	return nil
}

type kvView struct{ s *Store }

func (v kvView) Get(ctx context.Context, key string) (string, bool, error) {
	if err := v.s.ready(ctx); err != nil {
		return "", false, err
	}
	var value string
	err := v.s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (v kvView) Set(ctx context.Context, key, value string) error {
	if err := v.s.ready(ctx); err != nil {
		return err
	}
	_, err := v.s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, v.s.now().UTC().UnixMilli(),
	)
	if err != nil {
		if isFull(err) {
			return fmt.Errorf("set %q: %w", key, repository.ErrQuotaExceeded)
		}
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (v kvView) Remove(ctx context.Context, key string) error {
	if err := v.s.ready(ctx); err != nil {
		return err
	}
	if _, err := v.s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

type mediaView struct{ s *Store }

func (v mediaView) Put(ctx context.Context, rec media.Record) error {
	if err := v.s.ready(ctx); err != nil {
		return err
	}
	blob := rec.Blob
	if blob == nil {
		blob = []byte{}
	}
	_, err := v.s.sqlDB.ExecContext(ctx,
		`INSERT INTO media (id, blob, type, timestamp) VALUES (?, ?, ?, ?)`,
		rec.ID, blob, rec.Type, rec.Timestamp,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %s", media.ErrDuplicateID, rec.ID)
		}
		if isFull(err) {
			return fmt.Errorf("put %s: %w", rec.ID, repository.ErrQuotaExceeded)
		}
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

func (v mediaView) Get(ctx context.Context, id string) (media.Record, bool, error) {
	if err := v.s.ready(ctx); err != nil {
		return media.Record{}, false, err
	}
	rec := media.Record{ID: id}
	err := v.s.sqlDB.QueryRowContext(ctx,
		`SELECT blob, type, timestamp FROM media WHERE id = ?`, id,
	).Scan(&rec.Blob, &rec.Type, &rec.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Record{}, false, nil
	}
	if err != nil {
		return media.Record{}, false, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, true, nil
}

func (v mediaView) Delete(ctx context.Context, id string) error {
	if err := v.s.ready(ctx); err != nil {
		return err
	}
	if _, err := v.s.sqlDB.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isFull(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_FULL
	}
	return false
}
