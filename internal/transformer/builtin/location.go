package builtin

import (
	"strings"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// SplitLocation derives a city and a region column from a "city, region"
// text column. It never fails on malformed input.
type SplitLocation struct {
	Column       string
	CityColumn   string
	RegionColumn string
}

func (SplitLocation) Name() string { return "split_location" }

// Apply appends CityColumn and RegionColumn. A missing source column yields
// null city and region for every row.
func (s SplitLocation) Apply(f *frame.Frame) (*frame.Frame, error) {
	cities := make([]any, f.Len())
	regions := make([]any, f.Len())
	if j, ok := f.Index(s.Column); ok {
		for i := 0; i < f.Len(); i++ {
			text, ok := f.Row(i)[j].(string)
			if !ok {
				continue
			}
			cities[i], regions[i] = SplitLocationText(text)
		}
	}

	out, err := f.WithColumn(s.CityColumn, cities)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(s.RegionColumn, regions)
}

// SplitLocationText splits on the first comma. The city keeps its text
// verbatim; the region is trimmed and is nil when absent or blank.
//
//	"Seaside Heights,NJ" → "Seaside Heights", "NJ"
//	"ANCHORAGE, AK"      → "ANCHORAGE", "AK"
//	"Gulf of Mexico"     → "Gulf of Mexico", nil
func SplitLocationText(text string) (city, region any) {
	before, after, found := strings.Cut(text, ",")
	if !found {
		return text, nil
	}
	r := strings.TrimSpace(after)
	if r == "" {
		return before, nil
	}
	return before, r
}
