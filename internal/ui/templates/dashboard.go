package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

const (
	PageTitle    = "Pink Morsel Sales Analysis"
	ChartID      = "sales-chart"
	SummaryID    = "summary-stats"
	SelectorID   = "region-selector"
	SalesSSEPath = "/sse/sales"

	datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"
	plotlyScript   = "https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js"
	accentColor    = "#e91e63"
	decreaseColor  = "#f44336"
)

const chartScript = `window.renderSalesChart = function (chart) {
  if (!window.Plotly || !chart) { return; }
  var traces = (chart.series || []).map(function (s) {
    return {
      x: s.points.map(function (p) { return p.date; }),
      y: s.points.map(function (p) { return p.sales; }),
      mode: s.mode, name: s.name, line: { width: 2 }
    };
  });
  var layout = {
    title: chart.title, xaxis: { title: chart.x_title }, yaxis: { title: chart.y_title },
    hovermode: 'x unified', template: 'plotly_white', height: 500,
    shapes: [{ type: 'line', xref: 'x', yref: 'paper', x0: chart.marker.date, x1: chart.marker.date,
      y0: 0, y1: 1, line: { dash: chart.marker.dash, color: chart.marker.color } }],
    annotations: [{ x: chart.marker.date, y: 1, xref: 'x', yref: 'paper', text: chart.marker.label,
      showarrow: false, xanchor: 'left', yanchor: 'bottom' }]
  };
  Plotly.react('` + ChartID + `', traces, layout);
};`

// Dashboard renders the full page with the initial view already computed.
func Dashboard(options []models.RegionOption, view models.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(map[string]any{
			"region": view.Region,
			"chart":  view.Chart,
		})
		if err != nil {
			return fmt.Errorf("marshal signals: %w", err)
		}

		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s</title>`, templ.EscapeString(PageTitle))
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, datastarScript)
		fmt.Fprintf(&b, `<script src="%s"></script>`, plotlyScript)
		fmt.Fprintf(&b, `<script>%s</script>`, chartScript)
		b.WriteString(`</head>`)

		fmt.Fprintf(&b, `<body style="font-family: Arial, sans-serif; margin: 0; padding: 0" data-signals="%s">`,
			templ.EscapeString(string(signals)))

		fmt.Fprintf(&b, `<div style="background-color: #f5f5f5; padding: 20px; margin-bottom: 20px; border-bottom: 2px solid %s">`, accentColor)
		fmt.Fprintf(&b, `<h1 style="text-align: center; color: %s; margin-bottom: 10px">%s</h1>`, accentColor, templ.EscapeString(PageTitle))
		fmt.Fprintf(&b, `<p style="text-align: center; font-size: 16px; color: #666">%s</p>`,
			templ.EscapeString("Visualizing sales trends to answer: Were sales higher before or after the Pink Morsel price increase on "+
				view.Cutover.Format("January 2, 2006")+"?"))
		b.WriteString(`</div>`)

		writeSelector(&b, options, view.Region)

		fmt.Fprintf(&b, `<div style="padding: 20px"><div id="%s" data-effect="window.renderSalesChart && window.renderSalesChart($chart)"></div></div>`, ChartID)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := Summary(view).Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, `</body></html>`)
		return err
	})
}

func writeSelector(b *strings.Builder, options []models.RegionOption, selected string) {
	fmt.Fprintf(b, `<div id="%s" role="radiogroup" style="padding: 0 20px; display: flex; gap: 16px">`, SelectorID)
	for _, o := range options {
		checked := ""
		if o.Value == selected {
			checked = " checked"
		}
		fmt.Fprintf(b, `<label><input type="radio" name="region" value="%s" data-bind-region data-on-change="@get('%s')"%s> %s</label>`,
			templ.EscapeString(o.Value), SalesSSEPath, checked, templ.EscapeString(o.Label))
	}
	b.WriteString(`</div>`)
}

// Summary renders the key findings block. It is also sent on its own as a
// datastar element patch whenever the region selection changes.
func Summary(view models.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := view.Summary
		cutover := view.Cutover.Format("Jan 2, 2006")

		changeColor := accentColor
		if s.Direction == models.DirectionDecrease {
			changeColor = decreaseColor
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" style="padding: 20px; background-color: #f5f5f5; border-top: 2px solid %s; margin-top: 20px">`, SummaryID, accentColor)
		fmt.Fprintf(&b, `<h2 style="color: %s">Key Findings</h2>`, accentColor)
		b.WriteString(`<div style="display: flex">`)
		writePartition(&b, "Before Price Increase (Before "+cutover+")", s.BeforeTotal, s.BeforeAverage, "flex: 1; margin-right: 20px")
		writePartition(&b, "After Price Increase (On/After "+cutover+")", s.AfterTotal, s.AfterAverage, "flex: 1")
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<h3 data-direction="%s" style="color: %s; margin-top: 20px">Average Daily Sales Change: %s</h3>`,
			s.Direction, changeColor, templ.EscapeString(Percent(s.ChangePercent)))
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePartition(b *strings.Builder, title string, total, average float64, style string) {
	fmt.Fprintf(b, `<div style="%s"><h4>%s</h4><p>Total Sales: %s</p><p>Average Daily Sales: %s</p></div>`,
		style, templ.EscapeString(title), templ.EscapeString(Money(total)), templ.EscapeString(Money(average)))
}
