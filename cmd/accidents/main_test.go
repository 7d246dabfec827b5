package main

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const rawCSV = `Event.Id,Investigation.Type,Accident.Number,Event.Date,Location,Country,Injury.Severity,Make,Engine.Type,Purpose.of.flight,Total.Fatal.Injuries,Total.Serious.Injuries,Total.Minor.Injuries,Total.Uninjured,Publication.Date
20220101X1,Accident,ERA22LA001,2022-01-01,"Seaside Heights,NJ",United States,Fatal(2),Cessna,Reciprocating,Personal,2,1, ,0,02-01-2022
20220115X2,Accident,ERA22LA002,2022-01-15,"Miami,FL",United States,Non-Fatal,Piper,Reciprocating,Instructional,0,0,1,2,20-01-2022
20230202X3,Accident,ERA23LA003,2023-02-02,Gulf of Mexico,United States,Non-Fatal,CESSNA,Turbo Prop,Personal, , , ,1,
`

// quietEnv keeps test output free of info logs.
func quietEnv(k string) string {
	if k == "LOG_LEVEL" {
		return "error"
	}
	return ""
}

type result struct {
	code           int
	stdout, stderr string
}

func runCLI(tb testing.TB, ctx context.Context, args ...string) result {
	tb.Helper()
	var out, errOut bytes.Buffer
	code := run(ctx, args, quietEnv, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// workspace writes the raw export into a temp dir and returns the path flags
// pointing into it.
func workspace(tb testing.TB) (dir string, flags []string) {
	tb.Helper()
	dir = tb.TempDir()
	raw := filepath.Join(dir, "AviationData.csv")
	if err := os.WriteFile(raw, []byte(rawCSV), 0o644); err != nil {
		tb.Fatal(err)
	}
	return dir, []string{
		"-input=" + raw,
		"-processed=" + filepath.Join(dir, "processed", "snapshot.csv"),
		"-results-dir=" + filepath.Join(dir, "results"),
	}
}

func withFlags(cmd string, flags []string, extra ...string) []string {
	return append(append([]string{cmd}, flags...), extra...)
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		args []string
		code int
		want string
	}{
		{nil, exitUsage, "usage: accidents"},
		{[]string{"help"}, exitOK, "preprocess"},
		{[]string{"fly"}, exitUsage, `unknown command "fly"`},
		{[]string{"load", "-no-such-flag"}, exitUsage, "flag provided but not defined"},
		{[]string{"load", "-help"}, exitOK, "-storage-kind"},
	}
	for _, c := range cases {
		r := runCLI(t, context.Background(), c.args...)
		if r.code != c.code || !strings.Contains(r.stderr, c.want) {
			t.Errorf("%v: code=%d stderr=%q, want %d containing %q", c.args, r.code, r.stderr, c.code, c.want)
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	r := runCLI(t, context.Background(), "aggregate", "-mode=bogus", "-month=13")
	if r.code != exitUsage {
		t.Fatalf("code = %d, want %d", r.code, exitUsage)
	}
	for _, want := range []string{"error: mode:", "error: month:", "configuration is invalid"} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, r.stderr)
		}
	}

	r = runCLI(t, context.Background(), "enrich")
	if r.code != exitUsage || !strings.Contains(r.stderr, "weather-key") {
		t.Fatalf("enrich without key: code=%d stderr=%q", r.code, r.stderr)
	}
}

func TestRun_ValidateOnly(t *testing.T) {
	t.Parallel()

	r := runCLI(t, context.Background(), "load", "-validate", "-start=2024", "-end=2020")
	if r.code != exitOK {
		t.Fatalf("code = %d, stderr %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stderr, "warning: start:") || !strings.Contains(r.stderr, "configuration is valid") {
		t.Fatalf("stderr = %q", r.stderr)
	}
}

func TestRun_AggregateNeedsSnapshot(t *testing.T) {
	t.Parallel()

	_, flags := workspace(t)
	r := runCLI(t, context.Background(), withFlags("aggregate", flags)...)
	if r.code != exitRuntime {
		t.Fatalf("code = %d, want %d", r.code, exitRuntime)
	}
	if !strings.Contains(r.stderr, "run preprocess first") {
		t.Fatalf("stderr = %q", r.stderr)
	}
}

func TestRun_LoadAndPreprocessPrint(t *testing.T) {
	t.Parallel()

	_, flags := workspace(t)
	r := runCLI(t, context.Background(), withFlags("load", flags)...)
	if r.code != exitOK || !strings.Contains(r.stdout, "shape: (3, 15)") || !strings.Contains(r.stdout, "Event.Id") {
		t.Fatalf("load: code=%d stdout=%q stderr=%q", r.code, r.stdout, r.stderr)
	}

	r = runCLI(t, context.Background(), withFlags("preprocess", flags)...)
	if r.code != exitOK {
		t.Fatalf("preprocess: code=%d stderr=%q", r.code, r.stderr)
	}
	for _, want := range []string{"shape: (3,", "Event_Id", "Seaside Heights", "NonFatal"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("preprocess stdout missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestRun_SaveChain(t *testing.T) {
	t.Parallel()

	dir, flags := workspace(t)
	ctx := context.Background()

	for _, cmd := range []string{"preprocess", "aggregate", "visualize"} {
		if r := runCLI(t, ctx, withFlags(cmd, flags, "-mode=save")...); r.code != exitOK {
			t.Fatalf("%s: code=%d stderr=%q", cmd, r.code, r.stderr)
		}
	}

	results := filepath.Join(dir, "results")
	for _, name := range []string{
		"injury_stats.csv", "accidents_per_year.csv", "accidents_by_period.csv", "top_combination.csv",
		"make_frequencies.csv", "purpose_frequencies.csv", "engine_type_frequencies.csv",
		"results.xlsx", "charts.xlsx",
	} {
		if _, err := os.Stat(filepath.Join(results, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	period, err := os.ReadFile(filepath.Join(results, "accidents_by_period.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(period), "3") {
		t.Errorf("accidents_by_period.csv = %q", period)
	}

	wb, err := excelize.OpenFile(filepath.Join(results, "charts.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	want := []string{"accidents_by_state", "publication_delay", "accidents_per_year"}
	got := wb.GetSheetList()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("chart sheets = %v, want %v", got, want)
	}
}

func TestRun_Export(t *testing.T) {
	t.Parallel()

	dir, flags := workspace(t)
	ctx := context.Background()
	if r := runCLI(t, ctx, withFlags("preprocess", flags, "-mode=save")...); r.code != exitOK {
		t.Fatalf("preprocess: %s", r.stderr)
	}

	db := filepath.Join(dir, "accidents.db")
	r := runCLI(t, ctx, withFlags("export", flags, "-storage-kind=sqlite", "-dsn=file:"+db, "-table=accidents", "-batch-size=2")...)
	if r.code != exitOK {
		t.Fatalf("export: code=%d stderr=%q", r.code, r.stderr)
	}

	conn, err := sql.Open("sqlite", "file:"+db)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	counts := map[string]int{"accidents": 3, "accidents_accidents_per_year": 2}
	for table, want := range counts {
		var n int
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "`+table+`"`).Scan(&n); err != nil {
			t.Fatalf("%s: %v", table, err)
		}
		if n != want {
			t.Errorf("%s has %d rows, want %d", table, n, want)
		}
	}
}

func TestRun_Enrich(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/history/daily" || r.URL.Query().Get("key") != "k" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"temp":3.5}]}`))
	}))
	defer srv.Close()

	_, flags := workspace(t)
	ctx := context.Background()
	if r := runCLI(t, ctx, withFlags("preprocess", flags, "-mode=save")...); r.code != exitOK {
		t.Fatalf("preprocess: %s", r.stderr)
	}

	r := runCLI(t, ctx, withFlags("enrich", flags,
		"-weather-key=k", "-weather-url="+srv.URL, "-http-retries=0", "-year=2022", "-month=1")...)
	if r.code != exitOK {
		t.Fatalf("enrich: code=%d stderr=%q", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "shape: (2,") || !strings.Contains(r.stdout, "Temperatures_accident_day") || !strings.Contains(r.stdout, "3.5") {
		t.Fatalf("stdout = %q", r.stdout)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("weather requests = %d, want 2", got)
	}
}

func TestRun_Airports(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("iata_code"); got != "JAX,VNO" {
			t.Errorf("iata_code = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[
			{"name":"Jacksonville International Airport","iata_code":"JAX"},
			{"name":"Vilnius International Airport","iata_code":"VNO"}]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	list := filepath.Join(dir, "codes.txt")
	if err := os.WriteFile(list, []byte("# airports\njax\nvno\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, codes := range []string{"jax, vno", "@" + list} {
		r := runCLI(t, context.Background(), "airports", "-airlabs-key=k", "-airlabs-url="+srv.URL, "-http-retries=0", "-codes="+codes)
		if r.code != exitOK {
			t.Fatalf("codes %q: code=%d stderr=%q", codes, r.code, r.stderr)
		}
		want := "Jacksonville International Airport\nVilnius International Airport\n"
		if r.stdout != want {
			t.Fatalf("codes %q: stdout = %q, want %q", codes, r.stdout, want)
		}
	}
}

func TestRun_WatchRefreshesAtStartAndStops(t *testing.T) {
	t.Parallel()

	dir, flags := workspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan result, 1)
	go func() { done <- runCLI(t, ctx, withFlags("watch", flags, "-every=1h")...) }()

	snapshot := filepath.Join(dir, "processed", "snapshot.csv")
	workbook := filepath.Join(dir, "results", "results.xlsx")
	deadline := time.Now().Add(10 * time.Second)
	for {
		_, errSnap := os.Stat(snapshot)
		_, errBook := os.Stat(workbook)
		if errSnap == nil && errBook == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("first refresh did not finish: %v, %v", errSnap, errBook)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case r := <-done:
		if r.code != exitOK {
			t.Fatalf("watch exit = %d, stderr %q", r.code, r.stderr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRun_WatchMissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope", "AviationData.csv")
	r := runCLI(t, context.Background(), "watch", "-input="+missing)
	if r.code != exitRuntime {
		t.Fatalf("code = %d, want %d", r.code, exitRuntime)
	}
	if !strings.Contains(r.stderr, "error: watch") {
		t.Fatalf("stderr = %q", r.stderr)
	}
}
