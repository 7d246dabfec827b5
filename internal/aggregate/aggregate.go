// Package aggregate computes the summary statistics of a processed accident
// table.
//
// Every reducer is pure: it reads the table and returns a small result value
// that converts to a gota DataFrame for printing, CSV output or the report
// workbook. Reducers fail with *frame.MissingPreparedData when handed a nil
// table or one that lacks a column preprocessing should have produced.
//
// Null handling follows the dataframe conventions the statistics were first
// written against:
//
//   - nulls never form a group and never count toward a frequency
//   - min/max/sum skip null values; an all-null group sums to 0
//   - ties in frequency tables keep first-seen order
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/schema"
)

// GroupInjuryStats groups rows by injury severity and reports min, max and
// sum of the fatal injury count per group, in first-seen label order.
//
// Groups are keyed on the table's own labels. A gota string series reads
// "NaN" as NA, so filtering one would lose such a group.
func GroupInjuryStats(t *frame.Frame) (InjuryStats, error) {
	if err := frame.Require(t, schema.InjurySeverity, schema.TotalFatalInjuries); err != nil {
		return nil, err
	}
	labels, _ := t.Column(schema.InjurySeverity)
	fatal, _ := t.Column(schema.TotalFatalInjuries)

	var order []string
	groups := make(map[string][]float64)
	for i, v := range labels {
		label, ok := frame.AsString(v)
		if !ok {
			continue
		}
		vals, seen := groups[label]
		if !seen {
			order = append(order, label)
		}
		n, ok := frame.AsFloat(fatal[i])
		if !ok {
			n = math.NaN()
		}
		groups[label] = append(vals, n)
	}

	out := make(InjuryStats, 0, len(order))
	for _, label := range order {
		out = append(out, injuryStat(label, groups[label]))
	}
	return out, nil
}

func injuryStat(label string, vals []float64) InjuryStat {
	s := InjuryStat{Severity: label}
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		s.Sum += v
		if s.Min == nil || v < *s.Min {
			m := v
			s.Min = &m
		}
		if s.Max == nil || v > *s.Max {
			m := v
			s.Max = &m
		}
	}
	return s
}

// CountByPeriod counts rows whose event year lies in [start, end]. An
// inverted window counts nothing.
func CountByPeriod(t *frame.Frame, start, end int) (PeriodCount, error) {
	pc := PeriodCount{Start: start, End: end}
	if err := frame.Require(t, schema.EventYear); err != nil {
		return pc, err
	}
	if start > end || t.Len() == 0 {
		return pc, nil
	}
	df, err := toDataFrame(t, schema.EventYear)
	if err != nil {
		return pc, err
	}
	// Successive filters intersect; a single Filter call with several
	// conditions would OR them.
	in := df.Filter(dataframe.F{Colname: schema.EventYear, Comparator: series.GreaterEq, Comparando: float64(start)})
	if in.Nrow() > 0 {
		in = in.Filter(dataframe.F{Colname: schema.EventYear, Comparator: series.LessEq, Comparando: float64(end)})
	}
	if in.Err != nil {
		return pc, fmt.Errorf("aggregate: period %d-%d: %w", start, end, in.Err)
	}
	pc.Count = in.Nrow()
	return pc, nil
}

// CountByCalendarYear counts rows per event year, ascending by year. Rows
// with no year are skipped.
func CountByCalendarYear(t *frame.Frame) (YearCounts, error) {
	if err := frame.Require(t, schema.EventYear); err != nil {
		return nil, err
	}
	years, _ := t.Column(schema.EventYear)
	counts := make(map[int64]int)
	for _, v := range years {
		y, ok := frame.AsInt(v)
		if !ok {
			continue
		}
		counts[y]++
	}
	out := make(YearCounts, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// TopCategoryCombination picks the most frequent make (compared
// case-insensitively), purpose of flight and engine type. The three picks
// are independent of each other; they are not the most frequent joint
// triple.
func TopCategoryCombination(t *frame.Frame) (Combination, error) {
	var c Combination
	if err := frame.Require(t, schema.Make, schema.PurposeOfFlight, schema.EngineType); err != nil {
		return c, err
	}
	c.Make, c.MakeCount = top(valueCounts(t, schema.Make, strings.ToLower))
	c.Purpose, c.PurposeCount = top(valueCounts(t, schema.PurposeOfFlight, nil))
	c.EngineType, c.EngineTypeCount = top(valueCounts(t, schema.EngineType, nil))
	return c, nil
}

func top(counts []ValueCount) (string, int) {
	if len(counts) == 0 {
		return "", 0
	}
	return counts[0].Value, counts[0].Count
}

// MakeFrequencies is the full value-count table of lowercased makes.
func MakeFrequencies(t *frame.Frame) (Frequencies, error) {
	return frequencies(t, schema.Make, "Max_make", strings.ToLower)
}

// PurposeFrequencies is the value-count table of flight purposes.
func PurposeFrequencies(t *frame.Frame) (Frequencies, error) {
	return frequencies(t, schema.PurposeOfFlight, "Max_purpose", nil)
}

// EngineTypeFrequencies is the value-count table of engine types.
func EngineTypeFrequencies(t *frame.Frame) (Frequencies, error) {
	return frequencies(t, schema.EngineType, "Max_type", nil)
}

func frequencies(t *frame.Frame, col, countCol string, norm func(string) string) (Frequencies, error) {
	fr := Frequencies{Column: col, CountColumn: countCol}
	if err := frame.Require(t, col); err != nil {
		return fr, err
	}
	fr.Rows = valueCounts(t, col, norm)
	return fr, nil
}

// valueCounts counts the non-null values of col, highest count first. Equal
// counts keep the order in which values were first seen.
func valueCounts(t *frame.Frame, col string, norm func(string) string) []ValueCount {
	vals, _ := t.Column(col)
	return countStrings(vals, norm)
}

func countStrings(vals []any, norm func(string) string) []ValueCount {
	pos := make(map[string]int)
	var out []ValueCount
	for _, v := range vals {
		s, ok := frame.AsString(v)
		if !ok {
			continue
		}
		if norm != nil {
			s = norm(s)
		}
		if i, ok := pos[s]; ok {
			out[i].Count++
			continue
		}
		pos[s] = len(out)
		out = append(out, ValueCount{Value: s, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// USCountry is the Country value AccidentsByState keeps.
const USCountry = "United States"

// AccidentsByState counts US accidents per state code. Rows whose State is
// longer than three characters are not state codes and are dropped.
func AccidentsByState(t *frame.Frame) (Frequencies, error) {
	fr := Frequencies{Column: schema.State, CountColumn: "Count"}
	if err := frame.Require(t, schema.Country, schema.State); err != nil {
		return fr, err
	}
	ci, _ := t.Index(schema.Country)
	si, _ := t.Index(schema.State)
	var states []any
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if row[ci] != USCountry {
			continue
		}
		st, ok := frame.AsString(row[si])
		if !ok || utf8.RuneCountInString(st) > 3 {
			continue
		}
		states = append(states, st)
	}
	fr.Rows = countStrings(states, nil)
	return fr, nil
}

// Histogram defaults for the publication delay chart.
const (
	DefaultBins   = 12
	DefaultBinMin = 0
	DefaultBinMax = 6000
)

// DayDeltaHistogram bins the event-to-publication delay into bins
// equal-width buckets over [lo, hi]. The last bucket is closed on the right;
// values outside the range are ignored.
func DayDeltaHistogram(t *frame.Frame, bins int, lo, hi float64) (Histogram, error) {
	if err := frame.Require(t, schema.DaysToPublication); err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, fmt.Errorf("aggregate: histogram: bins must be positive, got %d", bins)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("aggregate: histogram: empty range [%v, %v]", lo, hi)
	}
	width := (hi - lo) / float64(bins)
	h := make(Histogram, bins)
	for i := range h {
		h[i].Lo = lo + float64(i)*width
		h[i].Hi = lo + float64(i+1)*width
	}
	h[bins-1].Hi = hi

	vals, _ := t.Column(schema.DaysToPublication)
	for _, v := range vals {
		x, ok := frame.AsFloat(v)
		if !ok || x < lo || x > hi {
			continue
		}
		b := int((x - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		h[b].Count++
	}
	return h, nil
}
