package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// Dashboard serves views over a loaded Dataset. Every Render recomputes from
// the dataset; nothing is cached between calls.
type Dashboard struct {
	dataset *Dataset
	cutover time.Time
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewDashboard(dataset *Dataset, cutover time.Time, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	metrics.SetDatasetRows(dataset.Len())

	return &Dashboard{
		dataset: dataset,
		cutover: cutover,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *Dashboard) Render(ctx context.Context, selection string) models.View {
	selection = NormalizeSelection(selection)

	_, span := observability.StartSpan(ctx, "dashboard.render", attribute.String("region", selection))
	defer span.End()

	start := time.Now()
	view := Compute(d.dataset, selection, d.cutover)
	elapsed := time.Since(start)

	d.metrics.ObserveRender(metricLabel(selection), elapsed)
	span.SetAttributes(attribute.Int("series", len(view.Chart.Series)))

	d.logger.DebugContext(ctx, "view rendered",
		"region", selection,
		"series", len(view.Chart.Series),
		"before_count", view.Summary.BeforeCount,
		"after_count", view.Summary.AfterCount,
		"duration", elapsed,
	)

	return view
}

// metricLabel keeps the region label bounded to the selector vocabulary.
func metricLabel(selection string) string {
	if selection == SelectAll || slices.Contains(Regions, selection) {
		return selection
	}
	return "other"
}

func (d *Dashboard) Cutover() time.Time {
	return d.cutover
}

func (d *Dashboard) Stats() map[string]any {
	stats := d.dataset.Stats()
	return map[string]any{
		"record_count": stats.RecordCount,
		"regions":      stats.Regions,
		"first_date":   stats.FirstDate,
		"last_date":    stats.LastDate,
		"loaded_at":    stats.LoadedAt,
		"source":       stats.Source,
		"cutover":      d.cutover,
	}
}
