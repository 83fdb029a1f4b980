package etl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sales-dashboard/internal/models"
)

// Column names of a raw daily extract.
const (
	ColProduct  = "product"
	ColPrice    = "price"
	ColQuantity = "quantity"
	ColDate     = "date"
	ColRegion   = "region"
)

var rawColumns = []string{ColProduct, ColPrice, ColQuantity, ColDate, ColRegion}

// extract is the parsed content of one raw file. Line numbers are kept so
// that parse failures further down can point at the offending row.
type extract struct {
	path  string
	rows  []models.RawTransaction
	lines []int
}

func readExtract(ctx context.Context, path string) (*extract, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return parseExtract(ctx, path, file)
}

func parseExtract(ctx context.Context, path string, r io.Reader) (*extract, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file: %w", path, ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	index, err := columnIndex(header, rawColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := &extract{path: path}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		line, _ := reader.FieldPos(0)
		out.rows = append(out.rows, models.RawTransaction{
			Product:  record[index[ColProduct]],
			Price:    record[index[ColPrice]],
			Quantity: record[index[ColQuantity]],
			Date:     record[index[ColDate]],
			Region:   record[index[ColRegion]],
		})
		out.lines = append(out.lines, line)
	}

	return out, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		i, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s) %s: %w", strings.Join(missing, ", "), ErrSchemaMismatch)
	}
	return index, nil
}
