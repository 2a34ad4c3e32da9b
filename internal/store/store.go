// Package store keeps the registry of saved games.
package store

import (
	"context"
	"fmt"
	"time"
)

// Entry is one saved game.
type Entry struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Registry lists the saved games. Register is an upsert that refreshes
// UpdatedAt, List returns the most recently saved first.
type Registry interface {
	Register(ctx context.Context, name string) error
	List(ctx context.Context) ([]Entry, error)
	Exists(ctx context.Context, name string) (bool, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Schema creates the registry table. It is valid for both drivers.
const Schema = `CREATE TABLE IF NOT EXISTS saved_games (
	name       TEXT PRIMARY KEY,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// ToMillis converts a time to the stored representation.
func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromMillis converts a stored value back to a time.
func FromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// ErrUnknownDriver is returned for an unsupported driver name.
type ErrUnknownDriver string

func (e ErrUnknownDriver) Error() string {
	return fmt.Sprintf("unknown store driver %q", string(e))
}
