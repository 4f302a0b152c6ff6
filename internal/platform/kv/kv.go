// Package kv provides the keyed blob stores backing persistence.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal string-keyed blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Driver      string
	SQLitePath  string
	RedisAddr   string
	PostgresDSN string
}

// Open returns the store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		return OpenSQLite(cfg.SQLitePath)
	case DriverRedis:
		return OpenRedis(ctx, cfg.RedisAddr)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", cfg.Driver)
	}
}
