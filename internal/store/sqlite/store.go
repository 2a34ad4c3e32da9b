// Package sqlite provides the SQLite-backed save registry.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefree/unstable-students/internal/store"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store persists the registry in a SQLite file.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ store.Registry = (*Store)(nil)

// Open opens the registry at path and creates the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(store.Schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Debug("sqlite registry opened", zap.String("path", cleanPath))
	return &Store{sqlDB: sqlDB, logger: logger, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Register records name, refreshing its timestamp if already present.
func (s *Store) Register(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("game name is required")
	}
	now := store.ToMillis(s.now())
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO saved_games (name, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
		name, now, now)
	if err != nil {
		return fmt.Errorf("register game %q: %w", name, err)
	}
	return nil
}

// List returns every saved game, most recently saved first.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, created_at, updated_at FROM saved_games ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []store.Entry
	for rows.Next() {
		var (
			e                store.Entry
			created, updated int64
		)
		if err := rows.Scan(&e.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		e.CreatedAt = store.FromMillis(created)
		e.UpdatedAt = store.FromMillis(updated)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return out, nil
}

// Exists reports whether name is registered.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_games WHERE name = ?`, strings.TrimSpace(name)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup game %q: %w", name, err)
	}
	return n > 0, nil
}
