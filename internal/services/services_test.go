package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

var cutover = day(2021, 1, 15)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(sales float64, date time.Time, region string) models.SalesRecord {
	return models.SalesRecord{Sales: sales, Date: date, Region: region}
}

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processed_sales_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleDataset() *Dataset {
	return NewDataset([]models.SalesRecord{
		rec(100, day(2021, 1, 16), "west"),
		rec(40, day(2021, 1, 10), "north"),
		rec(60, day(2021, 1, 14), "south"),
		rec(80, day(2021, 1, 15), "north"),
		rec(20, day(2021, 1, 12), "east"),
		rec(30, day(2021, 1, 20), "east"),
		rec(10, day(2021, 1, 1), "west"),
	})
}

func TestCompute_ExampleScenario(t *testing.T) {
	ds := NewDataset([]models.SalesRecord{
		rec(12, day(2021, 1, 10), "north"),
		rec(6, day(2021, 1, 20), "north"),
	})

	view := Compute(ds, "north", cutover)

	assert.Equal(t, 12.0, view.Summary.BeforeTotal)
	assert.Equal(t, 12.0, view.Summary.BeforeAverage)
	assert.Equal(t, 6.0, view.Summary.AfterTotal)
	assert.Equal(t, 6.0, view.Summary.AfterAverage)
	assert.InDelta(t, -50.0, view.Summary.ChangePercent, 1e-9)
	assert.Equal(t, models.DirectionDecrease, view.Summary.Direction)

	require.Len(t, view.Chart.Series, 1)
	assert.Equal(t, "North", view.Chart.Series[0].Name)
	assert.Len(t, view.Chart.Series[0].Points, 2)
}

func TestCompute_NoMatchingRows(t *testing.T) {
	ds := NewDataset([]models.SalesRecord{
		rec(12, day(2021, 1, 10), "north"),
	})

	view := Compute(ds, "south", cutover)

	assert.Empty(t, view.Chart.Series)
	assert.NotNil(t, view.Chart.Series)
	assert.Equal(t, models.Summary{Direction: models.DirectionIncrease}, view.Summary)
	assert.Equal(t, "south", view.Region)
}

func TestCompute_AllSeriesSortedByRegion(t *testing.T) {
	view := Compute(sampleDataset(), SelectAll, cutover)

	var names []string
	for _, s := range view.Chart.Series {
		names = append(names, s.Region)
		for i := 1; i < len(s.Points); i++ {
			assert.False(t, s.Points[i].Date.Before(s.Points[i-1].Date), "%s points out of order", s.Region)
		}
	}
	assert.Equal(t, []string{"east", "north", "south", "west"}, names)
}

func TestCompute_SelectionIsCaseSensitive(t *testing.T) {
	view := Compute(sampleDataset(), "North", cutover)
	assert.Empty(t, view.Chart.Series)
	assert.Zero(t, view.Summary.AfterTotal)
}

func TestCompute_EmptySelectionMeansAll(t *testing.T) {
	ds := sampleDataset()
	assert.Equal(t, Compute(ds, SelectAll, cutover), Compute(ds, "", cutover))
}

func TestCompute_CutoverDayCountsAsAfter(t *testing.T) {
	ds := NewDataset([]models.SalesRecord{
		rec(5, day(2021, 1, 14), "north"),
		rec(7, cutover, "north"),
	})

	s := Compute(ds, "north", cutover).Summary
	assert.Equal(t, 1, s.BeforeCount)
	assert.Equal(t, 1, s.AfterCount)
	assert.Equal(t, 7.0, s.AfterTotal)
}

func TestCompute_Marker(t *testing.T) {
	view := Compute(sampleDataset(), SelectAll, cutover)

	assert.Equal(t, cutover, view.Chart.Marker.Date)
	assert.Equal(t, "Price Increase (Jan 15, 2021)", view.Chart.Marker.Label)
	assert.Equal(t, "Daily Pink Morsel Sales Over Time", view.Chart.Title)
	assert.Equal(t, "lines+markers", view.Chart.Series[0].Mode)
}

func TestCompute_PartitionCompleteness(t *testing.T) {
	ds := sampleDataset()

	for _, selection := range append([]string{SelectAll}, Regions...) {
		t.Run(selection, func(t *testing.T) {
			var total float64
			for _, r := range filterRegion(ds.records, selection) {
				total += r.Sales
			}

			s := Compute(ds, selection, cutover).Summary
			assert.InDelta(t, total, s.BeforeTotal+s.AfterTotal, 1e-9)
		})
	}
}

func TestCompute_AllIsUnionOfRegions(t *testing.T) {
	ds := sampleDataset()
	all := Compute(ds, SelectAll, cutover).Summary

	var before, after float64
	var beforeCount, afterCount int
	for _, region := range ds.Regions() {
		s := Compute(ds, region, cutover).Summary
		before += s.BeforeTotal
		after += s.AfterTotal
		beforeCount += s.BeforeCount
		afterCount += s.AfterCount
	}

	assert.InDelta(t, all.BeforeTotal, before, 1e-9)
	assert.InDelta(t, all.AfterTotal, after, 1e-9)
	assert.Equal(t, all.BeforeCount, beforeCount)
	assert.Equal(t, all.AfterCount, afterCount)
}

func TestCompute_Deterministic(t *testing.T) {
	ds := sampleDataset()
	first := Compute(ds, SelectAll, cutover)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(ds, SelectAll, cutover))
	}
}

func TestSummarize_ZeroGuard(t *testing.T) {
	tests := []struct {
		name string
		rows []models.SalesRecord
	}{
		{
			name: "empty before partition",
			rows: []models.SalesRecord{rec(10, day(2021, 2, 1), "north")},
		},
		{
			name: "zero before mean",
			rows: []models.SalesRecord{
				rec(0, day(2021, 1, 1), "north"),
				rec(10, day(2021, 2, 1), "north"),
			},
		},
		{
			name: "no rows",
			rows: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.rows, cutover)
			assert.Equal(t, 0.0, s.ChangePercent)
			assert.False(t, math.IsNaN(s.ChangePercent) || math.IsInf(s.ChangePercent, 0))
			assert.Equal(t, models.DirectionIncrease, s.Direction)
		})
	}
}

func TestSummarize_EmptyAfterPartition(t *testing.T) {
	s := Summarize([]models.SalesRecord{rec(12, day(2021, 1, 10), "north")}, cutover)

	assert.Equal(t, 12.0, s.BeforeAverage)
	assert.Equal(t, 0, s.AfterCount)
	assert.Equal(t, 0.0, s.AfterAverage)
	assert.Equal(t, -100.0, s.ChangePercent)
	assert.Equal(t, models.DirectionDecrease, s.Direction)
}

func TestSummarize_Increase(t *testing.T) {
	s := Summarize([]models.SalesRecord{
		rec(10, day(2021, 1, 1), "north"),
		rec(20, day(2021, 1, 2), "north"),
		rec(30, day(2021, 1, 20), "north"),
	}, cutover)

	assert.Equal(t, 30.0, s.BeforeTotal)
	assert.Equal(t, 15.0, s.BeforeAverage)
	assert.Equal(t, 30.0, s.AfterAverage)
	assert.InDelta(t, 100.0, s.ChangePercent, 1e-9)
	assert.Equal(t, models.DirectionIncrease, s.Direction)
}

func TestRegionOptions(t *testing.T) {
	options := RegionOptions()

	var labels []string
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{"All Regions", "North", "South", "East", "West"}, labels)
	assert.Equal(t, SelectAll, options[0].Value)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "North", DisplayName("north"))
	assert.Equal(t, "", DisplayName(""))
	assert.Equal(t, "Élan", DisplayName("élan"))
}

func TestNewDataset_SortsAndCopies(t *testing.T) {
	input := []models.SalesRecord{
		rec(1, day(2021, 1, 3), "west"),
		rec(2, day(2021, 1, 1), "east"),
		rec(3, day(2021, 1, 1), "north"),
	}
	ds := NewDataset(input)
	input[0].Sales = 999

	records := ds.records
	require.Len(t, records, 3)
	assert.Equal(t, 2.0, records[0].Sales)
	assert.Equal(t, 3.0, records[1].Sales, "same-day rows keep input order")
	assert.Equal(t, 1.0, records[2].Sales)

	regions := ds.Regions()
	assert.Equal(t, []string{"east", "north", "west"}, regions)
	regions[0] = "mutated"
	assert.Equal(t, "east", ds.Regions()[0])
}

func TestLoadDataset(t *testing.T) {
	f := createTempCSV(t, "Sales,Date,Region\n12.00,2021-01-10,north\n6.00,2021-01-20,north\n3.5,2021-01-05,south\n")

	ds, err := LoadDataset(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	stats := ds.Stats()
	assert.Equal(t, day(2021, 1, 5), stats.FirstDate)
	assert.Equal(t, day(2021, 1, 20), stats.LastDate)
	assert.Equal(t, f, stats.Source)
	assert.Equal(t, []string{"north", "south"}, stats.Regions)
}

func TestLoadDataset_ColumnOrder(t *testing.T) {
	f := createTempCSV(t, "Region,Sales,Date\nnorth,12.00,2021-01-10\n")

	ds, err := LoadDataset(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, rec(12, day(2021, 1, 10), "north"), ds.records[0])
}

func TestLoadDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{"empty file", "", ErrSchemaMismatch},
		{"missing region", "Sales,Date\n1.00,2021-01-01\n", ErrSchemaMismatch},
		{"lowercase header", "sales,date,region\n1.00,2021-01-01,north\n", ErrSchemaMismatch},
		{"invalid sales", "Sales,Date,Region\nabc,2021-01-01,north\n", ErrInvalidRecord},
		{"nan sales", "Sales,Date,Region\nNaN,2021-01-10,north\n5.00,2021-01-20,north\n", ErrInvalidRecord},
		{"infinite sales", "Sales,Date,Region\n-Inf,2021-01-10,north\n", ErrInvalidRecord},
		{"invalid date", "Sales,Date,Region\n1.00,Jan 1,north\n", ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDataset(context.Background(), createTempCSV(t, tt.csv))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDashboard_Render(t *testing.T) {
	metrics := observability.NewMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDashboard(sampleDataset(), cutover, logger, metrics)

	view := d.Render(context.Background(), "east")
	assert.Equal(t, "east", view.Region)
	assert.Equal(t, 20.0, view.Summary.BeforeTotal)
	assert.Equal(t, 30.0, view.Summary.AfterTotal)

	d.Render(context.Background(), "")
	d.Render(context.Background(), "atlantis")

	rows, err := testutil.GatherAndCount(metrics.Registry(), "sales_dashboard_dataset_rows")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	renders, err := testutil.GatherAndCount(metrics.Registry(), "sales_dashboard_renders_total")
	require.NoError(t, err)
	assert.Equal(t, 3, renders)
	assert.Equal(t, cutover, d.Cutover())
	assert.Equal(t, 7, d.Stats()["record_count"])
}

func TestDashboard_ConcurrentRenders(t *testing.T) {
	d := NewDashboard(sampleDataset(), cutover, nil, nil)
	want := d.Render(context.Background(), SelectAll)

	done := make(chan models.View, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- d.Render(context.Background(), SelectAll)
		}()
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, want, <-done)
	}
}

func BenchmarkCompute_All(b *testing.B) {
	records := make([]models.SalesRecord, 0, 5000)
	for i := 0; i < 5000; i++ {
		records = append(records, rec(float64(i%97), day(2020, 1, 1).AddDate(0, 0, i/4), Regions[i%4]))
	}
	ds := NewDataset(records)

	b.ResetTimer()
	for b.Loop() {
		_ = Compute(ds, SelectAll, cutover)
	}
}
