// Package export writes a computed view to an Excel workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	SummarySheet = "Summary"
	SeriesSheet  = "Series"

	dateLayout = "2006-01-02"
)

// Workbook lays out a view as two sheets: the before/after summary and one
// row per chart point.
func Workbook(view models.View) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with Sheet1; rename it instead of leaving an empty sheet.
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	if err := writeSummary(f, view); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SeriesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create %s sheet: %w", SeriesSheet, err)
	}
	if err := writeSeries(f, view.Chart.Series); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteFile renders view and saves it to path.
func WriteFile(view models.View, path string) error {
	f, err := Workbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, view models.View) error {
	s := view.Summary
	rows := [][]any{
		{"Region", services.DisplayName(view.Region)},
		{"Cutover", view.Cutover.Format(dateLayout)},
		{},
		{"Partition", "Total Sales", "Average Daily Sales", "Rows"},
		{"Before", s.BeforeTotal, s.BeforeAverage, s.BeforeCount},
		{"After", s.AfterTotal, s.AfterAverage, s.AfterCount},
		{},
		{"Change (%)", s.ChangePercent},
		{"Direction", s.Direction},
	}
	return writeRows(f, SummarySheet, rows)
}

func writeSeries(f *excelize.File, series []models.Series) error {
	rows := [][]any{{"Region", "Date", "Sales"}}
	for _, s := range series {
		for _, p := range s.Points {
			rows = append(rows, []any{s.Name, p.Date.Format(dateLayout), p.Sales})
		}
	}
	return writeRows(f, SeriesSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
