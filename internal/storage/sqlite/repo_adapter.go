package sqlite

import (
	"context"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// Dialect renders SQLite DDL. Dates are stored as ISO-8601 text.
var Dialect = ddl.Dialect{
	Quote: func(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` },
	MapType: func(k ddl.Kind) string {
		switch k {
		case ddl.KindInt:
			return "INTEGER"
		case ddl.KindFloat:
			return "REAL"
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

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("sqlite", Dialect)
}
