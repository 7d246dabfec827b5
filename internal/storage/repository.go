// Package storage exports Frames to SQL databases through backend-agnostic
// contracts. Backends register a Factory and a ddl.Dialect under their kind
// at init time; import storage/all to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is an open connection to one database.
type Repository interface {
	// CopyFrom bulk-inserts rows into table using the backend's fastest
	// primitive and returns the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Config selects and configures a backend. Table is the name of the
// processed-snapshot table; result tables are named Table_<result>. Columns,
// when set, restricts which snapshot columns are exported.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind, replacing any earlier
// registration.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens the backend registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
