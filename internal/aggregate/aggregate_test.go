package aggregate

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

func mustFrame(tb testing.TB, cols []string, rows ...[]any) *frame.Frame {
	tb.Helper()
	f, err := frame.FromRows(cols, rows)
	if err != nil {
		tb.Fatalf("FromRows: %v", err)
	}
	return f
}

func ptr(v float64) *float64 { return &v }

func TestGroupInjuryStats(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.InjurySeverity, schema.TotalFatalInjuries},
		[]any{"Fatal", 2.0},
		[]any{"NonFatal", 0.0},
		[]any{"Fatal", nil},
		[]any{"Fatal", 5.0},
		[]any{nil, 3.0},
		[]any{"Incident", nil},
	)
	got, err := GroupInjuryStats(in)
	if err != nil {
		t.Fatalf("GroupInjuryStats: %v", err)
	}
	want := InjuryStats{
		{Severity: "Fatal", Min: ptr(2), Max: ptr(5), Sum: 7},
		{Severity: "NonFatal", Min: ptr(0), Max: ptr(0), Sum: 0},
		{Severity: "Incident", Min: nil, Max: nil, Sum: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	df := got.ToDataFrame()
	if df.Nrow() != 3 || !reflect.DeepEqual(df.Names(), []string{schema.InjurySeverity, "min", "max", "sum"}) {
		t.Fatalf("dataframe = %v", df)
	}
	if !math.IsNaN(df.Col("min").Float()[2]) {
		t.Fatalf("all-null group min should render as NaN")
	}
}

func TestGroupInjuryStats_LabelsLookingLikeNumbers(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.InjurySeverity, schema.TotalFatalInjuries},
		[]any{"NaN", 2.0},
		[]any{"NaN", 3.0},
		[]any{"Fatal", 1.0},
		[]any{"NA", "4"},
	)
	got, err := GroupInjuryStats(in)
	if err != nil {
		t.Fatalf("GroupInjuryStats: %v", err)
	}
	want := InjuryStats{
		{Severity: "NaN", Min: ptr(2), Max: ptr(3), Sum: 5},
		{Severity: "Fatal", Min: ptr(1), Max: ptr(1), Sum: 1},
		{Severity: "NA", Min: ptr(4), Max: ptr(4), Sum: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCountByPeriod(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.EventYear},
		[]any{int64(2019)}, []any{int64(2020)}, []any{int64(2021)}, []any{int64(2023)}, []any{nil},
	)
	tests := []struct {
		start, end int
		want       int
	}{
		{2020, 2023, 3},
		{2020, 2020, 1},
		{2023, 2020, 0},
		{2024, 2030, 0},
		{1900, 2100, 4},
	}
	for _, tc := range tests {
		got, err := CountByPeriod(in, tc.start, tc.end)
		if err != nil {
			t.Fatalf("CountByPeriod(%d, %d): %v", tc.start, tc.end, err)
		}
		if got.Count != tc.want {
			t.Errorf("CountByPeriod(%d, %d) = %d, want %d", tc.start, tc.end, got.Count, tc.want)
		}
	}
}

func TestCountByCalendarYear(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.EventYear},
		[]any{int64(2022)}, []any{int64(2020)}, []any{nil}, []any{int64(2022)},
	)
	got, err := CountByCalendarYear(in)
	if err != nil {
		t.Fatal(err)
	}
	want := YearCounts{{Year: 2020, Count: 1}, {Year: 2022, Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if df := got.ToDataFrame(); df.Nrow() != 2 || df.Ncol() != 2 {
		t.Fatalf("dataframe = %v", df)
	}
}

func TestTopCategoryCombination(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.Make, schema.PurposeOfFlight, schema.EngineType},
		[]any{"Cessna", "Personal", nil},
		[]any{"CESSNA", "Instructional", nil},
		[]any{"Piper", "Personal", nil},
		[]any{"piper", "Instructional", nil},
		[]any{"Piper", nil, nil},
	)
	got, err := TopCategoryCombination(in)
	if err != nil {
		t.Fatal(err)
	}
	want := Combination{Make: "piper", MakeCount: 3, Purpose: "Personal", PurposeCount: 2}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if df := got.ToDataFrame(); !reflect.DeepEqual(df.Names(), []string{
		schema.Make, "Max_make", schema.PurposeOfFlight, "Max_purpose", schema.EngineType, "Max_type",
	}) {
		t.Fatalf("columns = %v", df.Names())
	}
}

func TestFrequencies(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.Make, schema.PurposeOfFlight, schema.EngineType},
		[]any{"Beech", "Personal", "Reciprocating"},
		[]any{"Cessna", "Personal", "Turbo Fan"},
		[]any{"cessna", "Ferry", "Turbo Fan"},
	)
	makes, err := MakeFrequencies(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := []ValueCount{{"cessna", 2}, {"beech", 1}}; !reflect.DeepEqual(makes.Rows, want) {
		t.Fatalf("makes = %+v", makes.Rows)
	}
	engines, _ := EngineTypeFrequencies(in)
	if engines.CountColumn != "Max_type" || engines.Rows[0] != (ValueCount{"Turbo Fan", 2}) {
		t.Fatalf("engines = %+v", engines)
	}
	purposes, _ := PurposeFrequencies(in)
	if df := purposes.ToDataFrame(); df.Nrow() != 2 || df.Names()[1] != "Max_purpose" {
		t.Fatalf("purposes = %v", df)
	}
}

func TestAccidentsByState(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.Country, schema.State},
		[]any{"United States", "AK"},
		[]any{"United States", "TX"},
		[]any{"United States", "AK"},
		[]any{"Canada", "ON"},
		[]any{"United States", "Gulf of Mexico"},
		[]any{"United States", nil},
	)
	got, err := AccidentsByState(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := []ValueCount{{"AK", 2}, {"TX", 1}}; !reflect.DeepEqual(got.Rows, want) {
		t.Fatalf("got %+v, want %+v", got.Rows, want)
	}
}

func TestDayDeltaHistogram(t *testing.T) {
	t.Parallel()

	in := mustFrame(t, []string{schema.DaysToPublication},
		[]any{int64(-1)}, []any{int64(0)}, []any{int64(499)}, []any{int64(500)},
		[]any{int64(6000)}, []any{int64(6001)}, []any{nil},
	)
	h, err := DayDeltaHistogram(in, DefaultBins, DefaultBinMin, DefaultBinMax)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 12 {
		t.Fatalf("bins = %d", len(h))
	}
	total := 0
	for _, b := range h {
		total += b.Count
	}
	if h[0].Count != 2 || h[1].Count != 1 || h[11].Count != 1 || total != 4 {
		t.Fatalf("histogram = %+v", h)
	}
	if h[1].Label() != "500-1000" {
		t.Fatalf("label = %q", h[1].Label())
	}

	if _, err := DayDeltaHistogram(in, 0, 0, 10); err == nil {
		t.Fatalf("expected error for zero bins")
	}
	if _, err := DayDeltaHistogram(in, 3, 10, 10); err == nil {
		t.Fatalf("expected error for empty range")
	}
}

func TestReducers_MissingPreparedData(t *testing.T) {
	t.Parallel()

	raw := mustFrame(t, []string{"Event.Id"})
	reducers := map[string]func(*frame.Frame) error{
		"injuries":  func(f *frame.Frame) error { _, err := GroupInjuryStats(f); return err },
		"period":    func(f *frame.Frame) error { _, err := CountByPeriod(f, 2020, 2023); return err },
		"years":     func(f *frame.Frame) error { _, err := CountByCalendarYear(f); return err },
		"combo":     func(f *frame.Frame) error { _, err := TopCategoryCombination(f); return err },
		"states":    func(f *frame.Frame) error { _, err := AccidentsByState(f); return err },
		"histogram": func(f *frame.Frame) error { _, err := DayDeltaHistogram(f, 12, 0, 6000); return err },
	}
	for name, fn := range reducers {
		for _, in := range []*frame.Frame{nil, raw} {
			err := fn(in)
			if !errors.Is(err, frame.ErrNotPrepared) {
				t.Errorf("%s(%v): err = %v, want MissingPreparedData", name, in, err)
			}
			var mp *frame.MissingPreparedData
			if !errors.As(err, &mp) {
				t.Errorf("%s: errors.As failed for %v", name, err)
			}
		}
	}
}

func TestStatisticsAndCharts(t *testing.T) {
	t.Parallel()

	cols := []string{
		schema.InjurySeverity, schema.TotalFatalInjuries, schema.EventYear, schema.Make,
		schema.PurposeOfFlight, schema.EngineType, schema.Country, schema.State, schema.DaysToPublication,
	}
	in := mustFrame(t, cols,
		[]any{"Fatal", 1.0, int64(2019), "Cessna", "Personal", "Reciprocating", "United States", "AK", int64(10)},
		[]any{"NonFatal", 0.0, int64(2021), "Piper", "Personal", "Reciprocating", "United States", "TX", int64(700)},
		[]any{"Fatal", 3.0, int64(2022), "Piper", "Ferry", "Turbo Fan", "United States", "TX", nil},
	)

	stats, err := Statistics(in, 2020, 2023)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(stats) != 7 {
		t.Fatalf("tables = %d", len(stats))
	}
	for _, tb := range stats {
		if tb.Data.Err != nil {
			t.Errorf("%s: %v", tb.Name, tb.Data.Err)
		}
	}

	charts, err := Charts(in, 2020, 0)
	if err != nil {
		t.Fatalf("Charts: %v", err)
	}
	byState := charts[0].Data
	if byState.Nrow() != 1 || byState.Col(schema.State).Records()[0] != "TX" {
		t.Fatalf("windowed states = %v", byState)
	}
}

func TestTableFrame(t *testing.T) {
	t.Parallel()

	stats := InjuryStats{
		{Severity: "Fatal", Min: ptr(1), Max: ptr(4), Sum: 5},
		{Severity: "Minor", Sum: 0},
	}
	f, err := Table{Name: "injury_stats", Data: stats.ToDataFrame()}.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := f.Columns(); !reflect.DeepEqual(got, []string{schema.InjurySeverity, "min", "max", "sum"}) {
		t.Fatalf("columns = %v", got)
	}
	if f.Value(0, "min") != 1.0 || f.Value(1, "min") != nil || f.Value(1, schema.InjurySeverity) != "Minor" {
		t.Fatalf("rows = %v / %v", f.Row(0), f.Row(1))
	}

	years, err := Table{Data: YearCounts{{Year: 2021, Count: 3}}.ToDataFrame()}.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if years.Value(0, schema.EventYear) != int64(2021) {
		t.Fatalf("year cell = %#v, want int64", years.Value(0, schema.EventYear))
	}
}
