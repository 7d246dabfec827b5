package report

import (
	"archive/zip"
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

func states() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"CA", "TX", "FL"}, series.String, "State"),
		series.New([]int{12, 7, 5}, series.Int, "Count"),
	)
}

func injuries() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Fatal", "Minor"}, series.String, "Injury_Severity"),
		series.New([]float64{1, math.NaN()}, series.Float, "min"),
	)
}

func TestWorkbook_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "charts.xlsx")
	w := New()
	defer w.Close()
	if err := w.AddTable("accidents_by_state", states()); err != nil {
		t.Fatal(err)
	}
	if err := w.AddTable("injury_stats", injuries()); err != nil {
		t.Fatal(err)
	}
	if err := w.AddChart("accidents_by_state", Bar, "Accidents by state"); err != nil {
		t.Fatal(err)
	}
	if err := w.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"accidents_by_state", "injury_stats"}) {
		t.Fatalf("sheets = %v", got)
	}
	rows, err := f.GetRows("accidents_by_state")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"State", "Count"}, {"CA", "12"}, {"TX", "7"}, {"FL", "5"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	typ, err := f.GetCellType("accidents_by_state", "B2")
	if err != nil || typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Fatalf("count cell type = %v (%v), want numeric", typ, err)
	}
	if v, _ := f.GetCellValue("injury_stats", "B3"); v != "" {
		t.Fatalf("NaN cell = %q, want empty", v)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	var charts int
	for _, zf := range zr.File {
		if matched, _ := filepath.Match("xl/charts/chart*.xml", zf.Name); matched {
			charts++
		}
	}
	if charts != 1 {
		t.Fatalf("chart parts = %d, want 1", charts)
	}
}

func TestWorkbook_ChartErrors(t *testing.T) {
	t.Parallel()

	w := New()
	defer w.Close()
	if err := w.AddChart("missing", Line, "x"); !errors.Is(err, ErrNoSheet) {
		t.Fatalf("err = %v, want ErrNoSheet", err)
	}

	empty := dataframe.New(
		series.New([]string{}, series.String, "State"),
		series.New([]int{}, series.Int, "Count"),
	)
	if err := w.AddTable("empty", empty); err != nil {
		t.Fatal(err)
	}
	if err := w.AddChart("empty", Bar, "x"); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if err := w.AddTable("empty", states()); err == nil {
		t.Fatal("duplicate sheet should fail")
	}
	if err := w.AddChart("empty", ChartKind("pie"), "x"); err == nil {
		t.Fatal("unknown kind should fail")
	}
}

func TestWorkbook_SaveWithoutSheets(t *testing.T) {
	t.Parallel()

	w := New()
	defer w.Close()
	if err := w.SaveAs(filepath.Join(t.TempDir(), "x.xlsx")); err == nil {
		t.Fatal("expected error")
	}
	if err := w.Write(&bytes.Buffer{}); err == nil {
		t.Fatal("expected error from Write")
	}
}

func TestWorkbook_Write(t *testing.T) {
	t.Parallel()

	w := New()
	defer w.Close()
	if err := w.AddTable("states", states()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("states")
	if err != nil || len(rows) != 4 {
		t.Fatalf("rows = %v, %v", rows, err)
	}
}
