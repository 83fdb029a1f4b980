package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/etl"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrInvalidRecord  = errors.New("invalid record")
)

// Dataset is the consolidated sales data held in memory for the life of the
// process. It is never mutated after construction, so it is safe to share
// between concurrent renders without locking.
type Dataset struct {
	records  []models.SalesRecord
	regions  []string
	source   string
	loadedAt time.Time
}

// NewDataset copies records and orders them by date. Rows sharing a date
// keep their relative order.
func NewDataset(records []models.SalesRecord) *Dataset {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.SalesRecord) int {
		return a.Date.Compare(b.Date)
	})

	seen := make(map[string]struct{})
	regions := make([]string, 0)
	for _, r := range sorted {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		regions = append(regions, r.Region)
	}
	slices.Sort(regions)

	return &Dataset{
		records:  sorted,
		regions:  regions,
		loadedAt: time.Now(),
	}
}

func LoadDataset(ctx context.Context, filename string) (*Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load", attribute.String("file", filename))
	defer span.End()

	start := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	records, err := readConsolidated(ctx, file)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	ds := NewDataset(records)
	ds.source = filename

	slog.Default().Debug("dataset loaded",
		"file", filename,
		"records", len(records),
		"duration", time.Since(start),
	)

	return ds, nil
}

func readConsolidated(ctx context.Context, r io.Reader) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: %w", ErrSchemaMismatch)
	}
	if err != nil {
		return nil, err
	}

	sales, date, region, err := consolidatedColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.SalesRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[sales]), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("line %d: sales %q: %w", line, record[sales], ErrInvalidRecord)
		}

		day, err := time.Parse(config.DateLayout, strings.TrimSpace(record[date]))
		if err != nil {
			return nil, fmt.Errorf("line %d: date %q: %w", line, record[date], ErrInvalidRecord)
		}

		records = append(records, models.SalesRecord{
			Sales:  amount,
			Date:   day,
			Region: record[region],
		})
	}

	return records, nil
}

func consolidatedColumns(header []string) (sales, date, region int, err error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var missing []string
	positions := make([]int, len(etl.ConsolidatedHeader))
	for i, col := range etl.ConsolidatedHeader {
		pos, ok := index[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions[i] = pos
	}

	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("missing column(s) %s: %w", strings.Join(missing, ", "), ErrSchemaMismatch)
	}
	return positions[0], positions[1], positions[2], nil
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Regions returns the distinct regions present, sorted ascending.
func (d *Dataset) Regions() []string {
	return slices.Clone(d.regions)
}

func (d *Dataset) Stats() models.DatasetStats {
	stats := models.DatasetStats{
		RecordCount: len(d.records),
		Regions:     d.Regions(),
		LoadedAt:    d.loadedAt,
		Source:      d.source,
	}
	if len(d.records) > 0 {
		stats.FirstDate = d.records[0].Date
		stats.LastDate = d.records[len(d.records)-1].Date
	}
	return stats
}
