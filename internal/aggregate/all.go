package aggregate

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

// Table is a named result ready for output. File is the CSV file name used
// in save mode; Name doubles as the workbook sheet and SQL table suffix.
type Table struct {
	Name string
	File string
	Data dataframe.DataFrame
}

// Statistics runs every summary reducer over t. The period count uses
// [start, end].
func Statistics(t *frame.Frame, start, end int) ([]Table, error) {
	injuries, err := GroupInjuryStats(t)
	if err != nil {
		return nil, err
	}
	perYear, err := CountByCalendarYear(t)
	if err != nil {
		return nil, err
	}
	period, err := CountByPeriod(t, start, end)
	if err != nil {
		return nil, err
	}
	combo, err := TopCategoryCombination(t)
	if err != nil {
		return nil, err
	}
	makes, err := MakeFrequencies(t)
	if err != nil {
		return nil, err
	}
	purposes, err := PurposeFrequencies(t)
	if err != nil {
		return nil, err
	}
	engines, err := EngineTypeFrequencies(t)
	if err != nil {
		return nil, err
	}
	return []Table{
		{Name: "injury_stats", File: "injury_stats.csv", Data: injuries.ToDataFrame()},
		{Name: "accidents_per_year", File: "accidents_per_year.csv", Data: perYear.ToDataFrame()},
		{Name: "accidents_by_period", File: "accidents_by_period.csv", Data: period.ToDataFrame()},
		{Name: "top_combination", File: "top_combination.csv", Data: combo.ToDataFrame()},
		{Name: "make_frequencies", File: "make_frequencies.csv", Data: makes.ToDataFrame()},
		{Name: "purpose_frequencies", File: "purpose_frequencies.csv", Data: purposes.ToDataFrame()},
		{Name: "engine_type_frequencies", File: "engine_type_frequencies.csv", Data: engines.ToDataFrame()},
	}, nil
}

// Charts builds the three chart tables over rows whose event year is in
// [start, end]. A zero start or end leaves that side open.
func Charts(t *frame.Frame, start, end int) ([]Table, error) {
	if err := frame.Require(t, schema.EventYear); err != nil {
		return nil, err
	}
	win := t.Filter(func(i int) bool {
		y, ok := frame.AsInt(t.Value(i, schema.EventYear))
		if !ok {
			return false
		}
		return (start == 0 || y >= int64(start)) && (end == 0 || y <= int64(end))
	})

	states, err := AccidentsByState(win)
	if err != nil {
		return nil, err
	}
	hist, err := DayDeltaHistogram(win, DefaultBins, DefaultBinMin, DefaultBinMax)
	if err != nil {
		return nil, err
	}
	perYear, err := CountByCalendarYear(win)
	if err != nil {
		return nil, err
	}
	return []Table{
		{Name: "accidents_by_state", File: "accidents_by_state.csv", Data: states.ToDataFrame()},
		{Name: "publication_delay", File: "publication_delay.csv", Data: hist.ToDataFrame()},
		{Name: "accidents_per_year", File: "accidents_per_year.csv", Data: perYear.ToDataFrame()},
	}, nil
}
