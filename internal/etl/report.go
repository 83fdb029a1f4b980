package etl

import (
	"fmt"
	"io"
	"text/template"
)

const sampleRows = 5

var reportTemplate = template.Must(template.New("report").Parse(`✓ Processing complete!
✓ Filtered for {{.Product}} only
✓ Created Sales field (Price × Quantity)
✓ Output saved to {{.Output}}
✓ Files read: {{.Files}}
✓ Rows read: {{.RowsRead}}
✓ Total rows processed: {{.RowsKept}}

First {{len .Sample}} rows of output:
{{printf "%-10s %-12s %s" "Sales" "Date" "Region"}}
{{range .Sample}}{{printf "%-10s %-12s %s" (.Sales.StringFixed 2) .Date .Region}}
{{end}}`))

type reportData struct {
	Product  string
	Output   string
	Files    int
	RowsRead int
	RowsKept int
	Sample   []Row
}

func writeReport(w io.Writer, product string, result *Result) error {
	sample := result.Rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}

	data := reportData{
		Product:  product,
		Output:   result.Output,
		Files:    len(result.Inputs),
		RowsRead: result.RowsRead,
		RowsKept: result.RowsKept(),
		Sample:   sample,
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
