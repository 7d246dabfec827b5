// Package report writes result tables to an Excel workbook, one sheet per
// table, with optional native charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// ChartKind selects the Excel chart type.
type ChartKind string

const (
	Bar    ChartKind = "bar"
	Column ChartKind = "column"
	Line   ChartKind = "line"
)

var chartTypes = map[ChartKind]excelize.ChartType{
	Bar:    excelize.Bar,
	Column: excelize.Col,
	Line:   excelize.Line,
}

var (
	ErrNoSheet = errors.New("report: no such sheet")
	ErrNoData  = errors.New("report: sheet has no data rows")
)

type sheetInfo struct {
	rows, cols int
}

// Workbook accumulates sheets until SaveAs. It is not safe for concurrent
// use.
type Workbook struct {
	f      *excelize.File
	sheets map[string]sheetInfo
	order  []string
}

func New() *Workbook {
	return &Workbook{f: excelize.NewFile(), sheets: make(map[string]sheetInfo)}
}

// AddTable writes df to a new sheet: a header row, then one row per record.
// Float and Int columns are written as numbers; NA cells are left empty.
func (w *Workbook) AddTable(sheet string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("report: %s: %w", sheet, df.Err)
	}
	if _, dup := w.sheets[sheet]; dup {
		return fmt.Errorf("report: sheet %q already written", sheet)
	}
	if len(w.order) == 0 {
		if err := w.f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("report: %s: %w", sheet, err)
		}
	} else if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report: %s: %w", sheet, err)
	}

	names := df.Names()
	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("report: %s header: %w", sheet, err)
	}

	for c, name := range names {
		col := df.Col(name)
		for r := 0; r < col.Len(); r++ {
			v, ok := cellValue(col, r)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report: %s %s: %w", sheet, cell, err)
			}
		}
	}

	w.sheets[sheet] = sheetInfo{rows: df.Nrow(), cols: df.Ncol()}
	w.order = append(w.order, sheet)
	return nil
}

func cellValue(s series.Series, i int) (any, bool) {
	e := s.Elem(i)
	if e.IsNA() {
		return nil, false
	}
	switch s.Type() {
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return f, true
	case series.Int:
		n, err := e.Int()
		if err != nil {
			return nil, false
		}
		return n, true
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return nil, false
		}
		return b, true
	}
	return e.String(), true
}

// AddChart places a chart of kind next to the data of sheet. The first
// column supplies the categories and the second the values.
func (w *Workbook) AddChart(sheet string, kind ChartKind, title string) error {
	info, ok := w.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}
	typ, ok := chartTypes[kind]
	if !ok {
		return fmt.Errorf("report: unknown chart kind %q", kind)
	}
	if info.rows == 0 || info.cols < 2 {
		return fmt.Errorf("%w: %q", ErrNoData, sheet)
	}

	last := info.rows + 1
	anchor, err := excelize.CoordinatesToCellName(info.cols+2, 1)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{
		Type: typ,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
		}},
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := w.f.AddChart(sheet, anchor, chart); err != nil {
		return fmt.Errorf("report: chart on %s: %w", sheet, err)
	}
	return nil
}

// Sheets lists sheet names in the order they were added.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.order...)
}

func (w *Workbook) SaveAs(path string) error {
	if len(w.order) == 0 {
		return errors.New("report: workbook has no sheets")
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// Write streams the workbook as .xlsx to out.
func (w *Workbook) Write(out io.Writer) error {
	if len(w.order) == 0 {
		return errors.New("report: workbook has no sheets")
	}
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

func (w *Workbook) Close() error { return w.f.Close() }
