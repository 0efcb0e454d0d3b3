package workspace

import (
	"context"
	"fmt"
	"strings"
)

// Store defines window item persistence operations. List returns items in
// creation order; that order is what context assembly sees.
type Store interface {
	Put(ctx context.Context, item WindowItem) (WindowItem, error)
	Get(ctx context.Context, id string) (WindowItem, bool, error)
	List(ctx context.Context) ([]WindowItem, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Config selects a store backend.
type Config struct {
	Driver       string // memory | sqlite | postgres
	SQLitePath   string
	PostgresDSN  string
	CacheEntries int
}

// New builds the configured backend, wrapped in an LRU read cache when
// CacheEntries > 0.
func New(cfg Config) (Store, error) {
	var (
		base Store
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		base = NewMemoryStore()
	case "sqlite":
		base, err = NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		base, err = NewPostgresStore(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("workspace: unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheEntries > 0 {
		return NewCachedStore(base, cfg.CacheEntries)
	}
	return base, nil
}
