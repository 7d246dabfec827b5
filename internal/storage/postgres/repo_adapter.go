package postgres

import (
	"context"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// Dialect renders Postgres DDL. Identifiers are quoted, so column names keep
// their case, matching the identifiers pgx sends with COPY.
var Dialect = ddl.Dialect{
	Quote: func(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` },
	MapType: func(k ddl.Kind) string {
		switch k {
		case ddl.KindInt:
			return "BIGINT"
		case ddl.KindFloat:
			return "DOUBLE PRECISION"
		case ddl.KindDate:
			return "DATE"
		case ddl.KindTimestamp:
			return "TIMESTAMP"
		}
		return "TEXT"
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
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("postgres", Dialect)
}
