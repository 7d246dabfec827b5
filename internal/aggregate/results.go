package aggregate

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

// InjuryStat is one severity group. Min and Max are nil when every fatal
// count in the group is null.
type InjuryStat struct {
	Severity string
	Min      *float64
	Max      *float64
	Sum      float64
}

// InjuryStats lists groups in first-seen order.
type InjuryStats []InjuryStat

func (s InjuryStats) ToDataFrame() dataframe.DataFrame {
	labels := make([]string, len(s))
	mins := make([]*float64, len(s))
	maxs := make([]*float64, len(s))
	sums := make([]float64, len(s))
	for i, g := range s {
		labels[i], mins[i], maxs[i], sums[i] = g.Severity, g.Min, g.Max, g.Sum
	}
	return dataframe.New(
		series.New(labels, series.String, schema.InjurySeverity),
		nullableFloats("min", mins),
		nullableFloats("max", maxs),
		series.New(sums, series.Float, "sum"),
	)
}

// PeriodCount is the number of accidents between Start and End inclusive.
type PeriodCount struct {
	Start int
	End   int
	Count int
}

func (p PeriodCount) ToDataFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{p.Start}, series.Int, "Start"),
		series.New([]int{p.End}, series.Int, "End"),
		series.New([]int{p.Count}, series.Int, "Count"),
	)
}

// YearCount is the number of accidents in one calendar year.
type YearCount struct {
	Year  int64
	Count int
}

// YearCounts is ordered by year ascending.
type YearCounts []YearCount

func (y YearCounts) ToDataFrame() dataframe.DataFrame {
	years := make([]int, len(y))
	counts := make([]int, len(y))
	for i, r := range y {
		years[i], counts[i] = int(r.Year), r.Count
	}
	return dataframe.New(
		series.New(years, series.Int, schema.EventYear),
		series.New(counts, series.Int, "Count"),
	)
}

// Combination holds the independent top picks of make, purpose and engine
// type. An empty category leaves its pick empty with a zero count.
type Combination struct {
	Make            string
	MakeCount       int
	Purpose         string
	PurposeCount    int
	EngineType      string
	EngineTypeCount int
}

func (c Combination) ToDataFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{c.Make}, series.String, schema.Make),
		series.New([]int{c.MakeCount}, series.Int, "Max_make"),
		series.New([]string{c.Purpose}, series.String, schema.PurposeOfFlight),
		series.New([]int{c.PurposeCount}, series.Int, "Max_purpose"),
		series.New([]string{c.EngineType}, series.String, schema.EngineType),
		series.New([]int{c.EngineTypeCount}, series.Int, "Max_type"),
	)
}

// ValueCount is one distinct value and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// Frequencies is a value-count table: Column holds the values, CountColumn
// names the count column in the rendered frame.
type Frequencies struct {
	Column      string
	CountColumn string
	Rows        []ValueCount
}

func (f Frequencies) ToDataFrame() dataframe.DataFrame {
	vals := make([]string, len(f.Rows))
	counts := make([]int, len(f.Rows))
	for i, r := range f.Rows {
		vals[i], counts[i] = r.Value, r.Count
	}
	return dataframe.New(
		series.New(vals, series.String, f.Column),
		series.New(counts, series.Int, f.CountColumn),
	)
}

// Bin is a histogram bucket [Lo, Hi).
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Label renders the bucket bounds, e.g. "0-500".
func (b Bin) Label() string {
	return strconv.FormatFloat(b.Lo, 'f', -1, 64) + "-" + strconv.FormatFloat(b.Hi, 'f', -1, 64)
}

// Histogram is a sequence of adjacent bins.
type Histogram []Bin

// ToDataFrame puts the bin label first so charts can use it as the
// category axis.
func (h Histogram) ToDataFrame() dataframe.DataFrame {
	labels := make([]string, len(h))
	counts := make([]int, len(h))
	los := make([]float64, len(h))
	his := make([]float64, len(h))
	for i, b := range h {
		labels[i], counts[i], los[i], his[i] = b.Label(), b.Count, b.Lo, b.Hi
	}
	return dataframe.New(
		series.New(labels, series.String, "Days"),
		series.New(counts, series.Int, "Count"),
		series.New(los, series.Float, "Bin_start"),
		series.New(his, series.Float, "Bin_end"),
	)
}
