// Package mssql implements storage.Repository for SQL Server. Batches are
// loaded with the TDS bulk-copy protocol (mssql.CopyIn).
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// Config holds the connection settings taken from storage.Config.
type Config struct {
	// DSN is a sqlserver:// URL or an ADO-style connection string.
	DSN string
}

type Repository struct {
	db *sql.DB
}

// NewRepository parses the DSN up front, so a malformed one fails before any
// network I/O, then opens and pings the server.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := msdsn.Parse(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: parse dsn: %w", err)
	}
	db := sql.OpenDB(mssql.NewConnectorConfig(dsn))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mssql: ping %s: %w", dsn.Host, err)
	}
	return &Repository{db: db}, func() { _ = db.Close() }, nil
}

// CopyFrom bulk-loads rows into table inside one transaction. Nulls are kept
// as nulls rather than replaced by column defaults.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (n int64, err error) {
	if len(columns) == 0 {
		return 0, errors.New("mssql: CopyFrom: columns must not be empty")
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mssql: CopyFrom: row %d has %d values for %d columns", i, len(row), len(columns))
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{KeepNulls: true}, columns...))
	if err != nil {
		return 0, fmt.Errorf("mssql: prepare bulk copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("mssql: bulk row %d into %s: %w", i, table, err)
		}
	}
	// An Exec without arguments flushes the buffered rows.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("mssql: flush bulk copy into %s: %w", table, err)
	}
	if n, err = res.RowsAffected(); err != nil {
		return 0, fmt.Errorf("mssql: rows affected: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	return n, nil
}

func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mssql: exec: %w", err)
	}
	return nil
}
