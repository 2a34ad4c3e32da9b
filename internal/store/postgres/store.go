// Package postgres provides the PostgreSQL-backed save registry.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magefree/unstable-students/internal/store"
	"go.uber.org/zap"
)

// Store persists the registry in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

var _ store.Registry = (*Store)(nil)

// Open connects to dsn, checks the connection and creates the schema.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, store.Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	stats := pool.Stat()
	logger.Info("postgres registry connected",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("idle_conns", stats.IdleConns()))
	return &Store{pool: pool, logger: logger, now: time.Now}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// Register records name, refreshing its timestamp if already present.
func (s *Store) Register(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("game name is required")
	}
	now := store.ToMillis(s.now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO saved_games (name, created_at, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, name, now, now); err != nil {
		return fmt.Errorf("register game %q: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// List returns every saved game, most recently saved first.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.pool.Query(ctx,
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
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM saved_games WHERE name = $1`, strings.TrimSpace(name)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup game %q: %w", name, err)
	}
	return n > 0, nil
}
