package postgres

import (
	"context"
	"os"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/ddl"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// TestAdapterRegistrationAndClose swaps newRepository and so is not
// parallel.
func TestAdapterRegistrationAndClose(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		gotCfg Config
		closed int32
	)
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { atomic.AddInt32(&closed, 1) }, nil
	}

	want := storage.Config{Kind: "postgres", DSN: "postgresql://u:p@localhost:5432/db?sslmode=disable", Table: "public.accidents"}
	repo, err := storage.New(context.Background(), want)
	if err != nil {
		t.Fatalf("storage.New error: %v", err)
	}
	if gotCfg.DSN != want.DSN {
		t.Errorf("cfg.DSN = %q, want %q", gotCfg.DSN, want.DSN)
	}
	repo.Close()
	if atomic.LoadInt32(&closed) != 1 {
		t.Fatal("Close() did not invoke closeFn")
	}
}

func TestDialect(t *testing.T) {
	t.Parallel()

	got, err := Dialect.CreateTable(ddl.TableDef{FQN: "public.accidents", Columns: []ddl.ColumnDef{
		{Name: "Event_Date", SQLType: Dialect.MapType(ddl.KindDate), Nullable: true},
		{Name: "Total_people_in_accident", SQLType: Dialect.MapType(ddl.KindInt), Nullable: true},
	}})
	if err != nil {
		t.Fatal(err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"public\".\"accidents\" (\n  \"Event_Date\" DATE,\n  \"Total_people_in_accident\" BIGINT\n);"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	if got := identifier("public. accidents"); !reflect.DeepEqual(got, pgx.Identifier{"public", "accidents"}) {
		t.Fatalf("identifier = %v", got)
	}
}

// TestSaveFrame_Integration runs only when ACCIDENTS_TEST_PG_DSN points at a
// disposable database.
func TestSaveFrame_Integration(t *testing.T) {
	t.Parallel()

	dsn := os.Getenv("ACCIDENTS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("set ACCIDENTS_TEST_PG_DSN to run")
	}
	ctx := context.Background()
	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	if err := repo.Exec(ctx, `DROP TABLE IF EXISTS public.accidents_it`); err != nil {
		t.Fatal(err)
	}
	f, _ := frame.FromRows([]string{"Event_Id", "Event_Date", "Count"}, [][]any{
		{"a", time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), int64(1)},
		{"b", nil, int64(2)},
	})
	n, err := storage.SaveFrame(ctx, nil, &wrappedRepo{Repository: repo}, f, storage.SaveOptions{Kind: "postgres", Table: "public.accidents_it"})
	if err != nil || n != 2 {
		t.Fatalf("SaveFrame = %d, %v", n, err)
	}
}
