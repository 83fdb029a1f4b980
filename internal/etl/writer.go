package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ConsolidatedHeader is the header row of the consolidated dataset.
var ConsolidatedHeader = []string{"Sales", "Date", "Region"}

func writeConsolidated(path string, rows []Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".consolidated-*.csv")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp opens with 0600; the dashboard may run as another user.
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := encodeConsolidated(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func encodeConsolidated(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ConsolidatedHeader); err != nil {
		return err
	}

	for _, row := range rows {
		if err := cw.Write([]string{row.Sales.StringFixed(2), row.Date, row.Region}); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
