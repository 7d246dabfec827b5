package mssql

import (
	"context"
	"fmt"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// Dialect renders T-SQL DDL. SQL Server has no CREATE TABLE IF NOT EXISTS,
// so creation is guarded by OBJECT_ID.
var Dialect = ddl.Dialect{
	Quote: func(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" },
	MapType: func(k ddl.Kind) string {
		switch k {
		case ddl.KindInt:
			return "BIGINT"
		case ddl.KindFloat:
			return "FLOAT"
		case ddl.KindDate:
			return "DATE"
		case ddl.KindTimestamp:
			return "DATETIME2"
		}
		return "NVARCHAR(MAX)"
	},
	Guard: func(name, create string) string {
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  %s;\nEND;",
			strings.ReplaceAll(name, "'", "''"), create)
	},
}

// newRepository is a test hook.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("mssql", Dialect)
}
