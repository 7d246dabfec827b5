package mysql

import (
	"context"
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// Dialect renders MySQL DDL with backtick-quoted identifiers.
var Dialect = ddl.Dialect{
	Quote: func(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" },
	MapType: func(k ddl.Kind) string {
		switch k {
		case ddl.KindInt:
			return "BIGINT"
		case ddl.KindFloat:
			return "DOUBLE"
		case ddl.KindDate:
			return "DATE"
		case ddl.KindTimestamp:
			return "DATETIME"
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
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDialect("mysql", Dialect)
}
