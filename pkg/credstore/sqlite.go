package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/credstore/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// SQLite is the primary credential layer. Rows are scoped by the API origin
// they were issued for, so one state directory can hold sessions for several
// deployments without leaking tokens between them.
type SQLite struct {
	db    *sqlx.DB
	scope string
	now   func() time.Time
}

// OpenSQLite opens (creating if needed) the credential database at path and
// applies pending migrations. The file is created owner-only.
func OpenSQLite(path, scope string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential database: %w", err)
	}
	_ = f.Close()

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	s := &SQLite{db: db, scope: scope, now: time.Now}
	if err := s.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate credential database: %w", err)
	}

	// A single writer keeps concurrent Set/Delete from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return s, nil
}

// ApplyMigrations applies any pending migrations from the embedded files.
func (s *SQLite) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(s.db.DB, &sqlite.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", source, "", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Name() string { return "sqlite" }

// Scope returns the API origin this handle reads and writes.
func (s *SQLite) Scope() string { return s.scope }

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM credentials WHERE scope = ? AND key = ? AND expires_at > ?`

	var value string
	err := s.db.GetContext(ctx, &value, q, s.scope, key, s.now().UnixMilli())
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const q = `
		INSERT INTO credentials (scope, key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	now := s.now()
	if _, err := s.db.ExecContext(ctx, q, s.scope, key, value, now.Add(ttl).UnixMilli(), now.UnixMilli()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM credentials WHERE scope = ? AND key = ?`

	if _, err := s.db.ExecContext(ctx, q, s.scope, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	const q = `SELECT key FROM credentials WHERE scope = ? ORDER BY key`

	var all []string
	if err := s.db.SelectContext(ctx, &all, q, s.scope); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys := all[:0]
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// PurgeExpired deletes expired rows across every scope.
func (s *SQLite) PurgeExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM credentials WHERE expires_at <= ?`

	res, err := s.db.ExecContext(ctx, q, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired credentials: %w", err)
	}
	return res.RowsAffected()
}
