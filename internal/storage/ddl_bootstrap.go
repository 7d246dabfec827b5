package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

var (
	ddlMu    sync.RWMutex
	dialects = map[string]ddl.Dialect{}
)

// RegisterDialect registers (or replaces) the DDL dialect for kind.
func RegisterDialect(kind string, d ddl.Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the dialect registered for kind.
func DialectFor(kind string) (ddl.Dialect, error) {
	ddlMu.RLock()
	d, ok := dialects[kind]
	ddlMu.RUnlock()
	if !ok {
		return ddl.Dialect{}, fmt.Errorf("no DDL dialect registered for storage.kind=%q", kind)
	}
	return d, nil
}

// EnsureTable creates table if it does not exist, with one nullable column
// per column of f typed from its cells.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string, f *frame.Frame) error {
	d, err := DialectFor(kind)
	if err != nil {
		return err
	}
	td, err := ddl.TableFromFrame(d, table, f)
	if err != nil {
		return fmt.Errorf("infer table definition: %w", err)
	}
	stmt, err := d.CreateTable(td)
	if err != nil {
		return fmt.Errorf("render DDL: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply DDL for %s: %w", table, err)
	}
	return nil
}
