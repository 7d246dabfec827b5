package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/aggregate"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/config"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/datasource/file"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/datasource/httpds"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/enrich/airport"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/enrich/weather"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/parser/csv"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/pipeline"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/report"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/storage"
)

// headRows is how many rows print mode shows.
const headRows = 5

// Workbook and snapshot file names inside ResultsDir.
const (
	resultsWorkbook = "results.xlsx"
	chartsWorkbook  = "charts.xlsx"
	enrichedFile    = "weather_enriched.csv"
)

// chartSpec says how each chart table is drawn.
var chartSpec = map[string]struct {
	kind  report.ChartKind
	title string
}{
	"accidents_by_state": {report.Bar, "Accidents by state"},
	"publication_delay":  {report.Column, "Days between event and report publication"},
	"accidents_per_year": {report.Line, "Accidents per year"},
}

// app carries what every command needs.
type app struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

// readRaw parses the raw export with the parser its extension selects.
func (a *app) readRaw(ctx context.Context) (*frame.Frame, error) {
	src := file.NewLocal(a.cfg.RawPath)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	start := time.Now()
	p := parser.ForPath(src.Path(), csv.Options{Encoding: a.cfg.Encoding, LazyQuotes: true}, a.cfg.Sheet)
	f, err := p.Parse(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path(), err)
	}
	a.log.Info("raw export read",
		zap.String("path", src.Path()),
		zap.String("rows", humanize.Comma(int64(f.Len()))),
		zap.Int("columns", f.Width()),
		zap.Duration("duration", time.Since(start)),
	)
	return f, nil
}

// readProcessed reads the processed snapshot back and restores cell types.
// A snapshot that does not exist yet is MissingPreparedData.
func (a *app) readProcessed(ctx context.Context) (*frame.Frame, error) {
	src := file.NewLocal(a.cfg.ProcessedPath)
	rc, err := src.Open(ctx)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &frame.MissingPreparedData{What: "processed snapshot " + src.Path()}
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := csv.ReadFrame(ctx, rc, csv.Options{})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path(), err)
	}
	return schema.Validate(raw, schema.Processed())
}

// runPreprocess reads the raw export and runs the pipeline over it.
func (a *app) runPreprocess(ctx context.Context) (*frame.Frame, error) {
	raw, err := a.readRaw(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.Preprocess(a.log.Named("pipeline"), raw, pipeline.Options{
		Job:            a.cfg.Command,
		DropDuplicates: a.cfg.DropDuplicates,
	})
}

func (a *app) saveFrame(ctx context.Context, path string, f *frame.Frame) error {
	err := file.NewLocal(path).Write(ctx, func(w io.Writer) error { return csv.WriteFrame(w, f) })
	if err != nil {
		return err
	}
	a.log.Info("table saved", zap.String("path", path), zap.String("rows", humanize.Comma(int64(f.Len()))))
	return nil
}

// printFrame prints the shape and the first rows as CSV.
func (a *app) printFrame(f *frame.Frame) error {
	rows, cols := f.Shape()
	fmt.Fprintf(a.out, "shape: (%d, %d)\n", rows, cols)
	return csv.WriteFrame(a.out, f.Head(headRows))
}

func (a *app) printTables(tables []aggregate.Table) {
	for _, t := range tables {
		fmt.Fprintf(a.out, "== %s ==\n%v\n", t.Name, t.Data)
	}
}

// saveTables writes every table as a sheet of one workbook in ResultsDir.
// Without charts each table is also written as its own CSV; with charts the
// tables listed in chartSpec get a chart instead, and no CSVs are written
// since the windowed chart tables share names with the statistics.
func (a *app) saveTables(ctx context.Context, tables []aggregate.Table, workbook string, charts bool) error {
	wb := report.New()
	defer wb.Close()

	for _, t := range tables {
		if !charts {
			path := filepath.Join(a.cfg.ResultsDir, t.File)
			err := file.NewLocal(path).Write(ctx, func(w io.Writer) error { return t.Data.WriteCSV(w) })
			if err != nil {
				return err
			}
			a.log.Info("result saved", zap.String("path", path), zap.Int("rows", t.Data.Nrow()))
		}

		if err := wb.AddTable(t.Name, t.Data); err != nil {
			return err
		}
		if spec, ok := chartSpec[t.Name]; ok && charts {
			err := wb.AddChart(t.Name, spec.kind, spec.title)
			if errors.Is(err, report.ErrNoData) {
				a.log.Warn("chart skipped, no data in window", zap.String("table", t.Name))
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	path := filepath.Join(a.cfg.ResultsDir, workbook)
	if err := file.NewLocal(path).Write(ctx, wb.Write); err != nil {
		return err
	}
	a.log.Info("workbook saved", zap.String("path", path), zap.Strings("sheets", wb.Sheets()))
	return nil
}

func (a *app) load(ctx context.Context) error {
	raw, err := a.readRaw(ctx)
	if err != nil {
		return err
	}
	f, err := schema.Validate(raw, schema.Accidents())
	if err != nil {
		return err
	}
	missing, extra := schema.Drift(f, schema.Accidents())
	if len(missing) > 0 {
		a.log.Warn("declared columns absent", zap.Strings("columns", missing))
	}
	if len(extra) > 0 {
		a.log.Info("undeclared columns", zap.Strings("columns", extra))
	}
	rows, cols := f.Shape()
	fmt.Fprintf(a.out, "shape: (%d, %d)\ncolumns: %s\n", rows, cols, strings.Join(f.Columns(), ", "))
	return nil
}

func (a *app) preprocess(ctx context.Context) error {
	f, err := a.runPreprocess(ctx)
	if err != nil {
		return err
	}
	if a.cfg.Mode == config.ModeSave {
		return a.saveFrame(ctx, a.cfg.ProcessedPath, f)
	}
	return a.printFrame(f)
}

func (a *app) aggregate(ctx context.Context) error {
	f, err := a.readProcessed(ctx)
	if err != nil {
		return err
	}
	tables, err := aggregate.Statistics(f, a.cfg.Start, a.cfg.End)
	if err != nil {
		return err
	}
	if a.cfg.Mode == config.ModeSave {
		return a.saveTables(ctx, tables, resultsWorkbook, false)
	}
	a.printTables(tables)
	return nil
}

func (a *app) visualize(ctx context.Context) error {
	f, err := a.readProcessed(ctx)
	if err != nil {
		return err
	}
	tables, err := aggregate.Charts(f, a.cfg.Start, a.cfg.End)
	if err != nil {
		return err
	}
	if a.cfg.Mode == config.ModeSave {
		return a.saveTables(ctx, tables, chartsWorkbook, true)
	}
	a.printTables(tables)
	return nil
}

func (a *app) httpConfig(baseURL string) httpds.Config {
	return httpds.Config{
		BaseURL:    baseURL,
		Timeout:    a.cfg.HTTPTimeout,
		MaxRetries: a.cfg.HTTPRetries,
		UserAgent:  "accidents/1",
		Logger:     a.log.Named("http"),
	}
}

func (a *app) enrich(ctx context.Context) error {
	f, err := a.readProcessed(ctx)
	if err != nil {
		return err
	}
	client, err := weather.New(a.cfg.WeatherKey, a.httpConfig(a.cfg.WeatherURL))
	if err != nil {
		return err
	}
	e := &weather.Enricher{Source: client, Log: a.log.Named("weather"), Job: a.cfg.Command}
	out, err := e.Enrich(ctx, f, weather.Options{
		Year:        a.cfg.Year,
		Month:       a.cfg.Month,
		Concurrency: a.cfg.WeatherConcurrency,
	})
	if err != nil {
		return err
	}
	if a.cfg.Mode == config.ModeSave {
		return a.saveFrame(ctx, filepath.Join(a.cfg.ResultsDir, enrichedFile), out)
	}
	return a.printFrame(out)
}

// codes resolves -codes; "@path" reads the list from a file.
func (a *app) codes() ([]string, error) {
	if p, ok := strings.CutPrefix(strings.TrimSpace(a.cfg.Codes), "@"); ok {
		list, err := file.ReadList(p)
		if err != nil {
			return nil, fmt.Errorf("read codes: %w", err)
		}
		return list, nil
	}
	return a.cfg.CodeList(), nil
}

func (a *app) airports(ctx context.Context) error {
	codes, err := a.codes()
	if err != nil {
		return err
	}
	client, err := airport.New(a.cfg.AirlabsKey, a.httpConfig(a.cfg.AirlabsURL))
	if err != nil {
		return err
	}
	found, err := client.Lookup(ctx, codes...)
	if err != nil {
		return err
	}
	a.log.Info("airports resolved", zap.Int("requested", len(codes)), zap.Int("found", len(found)))
	for _, ap := range found {
		fmt.Fprintln(a.out, ap.Name)
	}
	return nil
}

// export writes the processed snapshot to cfg.Table and every statistics
// table to cfg.Table + "_" + name.
func (a *app) export(ctx context.Context) error {
	f, err := a.readProcessed(ctx)
	if err != nil {
		return err
	}
	tables, err := aggregate.Statistics(f, a.cfg.Start, a.cfg.End)
	if err != nil {
		return err
	}

	repo, err := storage.New(ctx, storage.Config{Kind: a.cfg.StorageKind, DSN: a.cfg.DSN, Table: a.cfg.Table})
	if err != nil {
		return err
	}
	defer repo.Close()

	opt := storage.SaveOptions{Kind: a.cfg.StorageKind, BatchSize: a.cfg.BatchSize, Job: a.cfg.Command}
	opt.Table = a.cfg.Table
	total, err := storage.SaveFrame(ctx, a.log, repo, f, opt)
	if err != nil {
		return err
	}
	for _, t := range tables {
		tf, err := t.Frame()
		if err != nil {
			return fmt.Errorf("export %s: %w", t.Name, err)
		}
		opt.Table = a.cfg.Table + "_" + t.Name
		n, err := storage.SaveFrame(ctx, a.log, repo, tf, opt)
		if err != nil {
			return err
		}
		total += n
	}
	a.log.Info("export done",
		zap.String("kind", a.cfg.StorageKind),
		zap.Int("tables", len(tables)+1),
		zap.String("rows", humanize.Comma(total)),
	)
	return nil
}
