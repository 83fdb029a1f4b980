package services

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"sales-dashboard/internal/models"
)

// SelectAll is the region selection that includes every row.
const SelectAll = "all"

const (
	chartTitle   = "Daily Pink Morsel Sales Over Time"
	chartXTitle  = "Date"
	chartYTitle  = "Sales ($)"
	seriesMode   = "lines+markers"
	markerDash   = "dash"
	markerColor  = "red"
	markerLayout = "Jan 2, 2006"
)

// Regions is the fixed region vocabulary offered by the selector.
var Regions = []string{"north", "south", "east", "west"}

func RegionOptions() []models.RegionOption {
	options := make([]models.RegionOption, 0, len(Regions)+1)
	options = append(options, models.RegionOption{Value: SelectAll, Label: "All Regions"})
	for _, r := range Regions {
		options = append(options, models.RegionOption{Value: r, Label: DisplayName(r)})
	}
	return options
}

// NormalizeSelection maps an empty selection to SelectAll. Region names are
// otherwise matched exactly.
func NormalizeSelection(selection string) string {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return SelectAll
	}
	return selection
}

// Compute builds the chart and summary for one region selection. It reads ds
// and nothing else, so repeated calls with the same arguments return equal
// views.
func Compute(ds *Dataset, selection string, cutover time.Time) models.View {
	selection = NormalizeSelection(selection)
	rows := filterRegion(ds.records, selection)

	return models.View{
		Region:  selection,
		Cutover: cutover,
		Chart: models.Chart{
			Title:  chartTitle,
			XTitle: chartXTitle,
			YTitle: chartYTitle,
			Series: buildSeries(rows, ds.regions),
			Marker: models.Marker{
				Date:  cutover,
				Label: MarkerLabel(cutover),
				Dash:  markerDash,
				Color: markerColor,
			},
		},
		Summary: Summarize(rows, cutover),
	}
}

func filterRegion(records []models.SalesRecord, selection string) []models.SalesRecord {
	if selection == SelectAll {
		return records
	}

	out := make([]models.SalesRecord, 0)
	for _, r := range records {
		if r.Region == selection {
			out = append(out, r)
		}
	}
	return out
}

// buildSeries groups rows into one series per region. regions must be sorted;
// rows are already in date order, which carries over to each series.
func buildSeries(rows []models.SalesRecord, regions []string) []models.Series {
	byRegion := make(map[string][]models.Point)
	for _, r := range rows {
		byRegion[r.Region] = append(byRegion[r.Region], models.Point{Date: r.Date, Sales: r.Sales})
	}

	series := make([]models.Series, 0, len(byRegion))
	for _, region := range regions {
		points, ok := byRegion[region]
		if !ok {
			continue
		}
		series = append(series, models.Series{
			Region: region,
			Name:   DisplayName(region),
			Mode:   seriesMode,
			Points: points,
		})
	}
	return series
}

// Summarize splits rows at cutover and compares the two partitions. Rows on
// the cutover day count as after.
func Summarize(rows []models.SalesRecord, cutover time.Time) models.Summary {
	var s models.Summary
	for _, r := range rows {
		if r.Date.Before(cutover) {
			s.BeforeTotal += r.Sales
			s.BeforeCount++
		} else {
			s.AfterTotal += r.Sales
			s.AfterCount++
		}
	}

	if s.BeforeCount > 0 {
		s.BeforeAverage = s.BeforeTotal / float64(s.BeforeCount)
	}
	if s.AfterCount > 0 {
		s.AfterAverage = s.AfterTotal / float64(s.AfterCount)
	}

	s.ChangePercent = changePercent(s)
	s.Direction = models.DirectionIncrease
	if s.ChangePercent < 0 {
		s.Direction = models.DirectionDecrease
	}
	return s
}

// changePercent is zero when the before partition is empty or averages zero.
// An empty after partition averages zero and so reads as -100%.
func changePercent(s models.Summary) float64 {
	if s.BeforeCount == 0 || s.BeforeAverage == 0 {
		return 0
	}
	return (s.AfterAverage - s.BeforeAverage) / s.BeforeAverage * 100
}

func MarkerLabel(cutover time.Time) string {
	return "Price Increase (" + cutover.Format(markerLayout) + ")"
}

// DisplayName upper-cases the first letter of a region name.
func DisplayName(region string) string {
	r, size := utf8.DecodeRuneInString(region)
	if r == utf8.RuneError {
		return region
	}
	return string(unicode.ToUpper(r)) + region[size:]
}
