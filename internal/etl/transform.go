package etl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/config"
)

const maxReaders = 4

// Row is one consolidated output row.
type Row struct {
	Sales  decimal.Decimal
	Date   string
	Region string
}

type Result struct {
	Inputs   []string
	Output   string
	RowsRead int
	Rows     []Row
	Duration time.Duration
}

func (r *Result) RowsKept() int {
	return len(r.Rows)
}

// Transformer turns raw daily extracts into the consolidated sales dataset
// for a single product.
type Transformer struct {
	product string
	logger  *slog.Logger
	report  io.Writer
}

// NewTransformer returns a Transformer for product. The console report is
// written to report; a nil report disables it.
func NewTransformer(product string, logger *slog.Logger, report io.Writer) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		product: product,
		logger:  logger,
		report:  report,
	}
}

// Run reads inputs in order, filters and derives the sales rows and replaces
// output with the result. Nothing is written unless every input parses.
func (t *Transformer) Run(ctx context.Context, inputs []string, output string) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	start := time.Now()
	t.logger.Info("processing sales extracts", "inputs", len(inputs), "product", t.product)

	extracts, err := t.readAll(ctx, inputs)
	if err != nil {
		return nil, err
	}

	rows, read, err := t.transform(extracts)
	if err != nil {
		return nil, err
	}

	if err := writeConsolidated(output, rows); err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}

	result := &Result{
		Inputs:   inputs,
		Output:   output,
		RowsRead: read,
		Rows:     rows,
		Duration: time.Since(start),
	}

	t.logger.Info("sales extracts processed",
		"rows_read", result.RowsRead,
		"rows_kept", result.RowsKept(),
		"output", output,
		"duration", result.Duration,
	)

	if t.report != nil {
		if err := writeReport(t.report, t.product, result); err != nil {
			t.logger.Warn("failed to write report", "error", err)
		}
	}

	return result, nil
}

// readAll reads every extract concurrently. The returned slice keeps the
// order of inputs.
func (t *Transformer) readAll(ctx context.Context, inputs []string) ([]*extract, error) {
	extracts := make([]*extract, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReaders)

	for i, path := range inputs {
		g.Go(func() error {
			ex, err := readExtract(gctx, path)
			if err != nil {
				return err
			}
			t.logger.Debug("extract read", "path", path, "rows", len(ex.rows))
			extracts[i] = ex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return extracts, nil
}

func (t *Transformer) transform(extracts []*extract) ([]Row, int, error) {
	var rows []Row
	read := 0

	for _, ex := range extracts {
		read += len(ex.rows)
		for i, raw := range ex.rows {
			if !strings.EqualFold(raw.Product, t.product) {
				continue
			}

			row, err := deriveRow(raw.Price, raw.Quantity, raw.Date, raw.Region)
			if err != nil {
				return nil, 0, fmt.Errorf("%s line %d: %w", ex.path, ex.lines[i], err)
			}
			rows = append(rows, row)
		}
	}

	return rows, read, nil
}

func deriveRow(price, quantity, date, region string) (Row, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return Row{}, err
	}

	q, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return Row{}, fmt.Errorf("%w %q", ErrQuantityParse, quantity)
	}

	d, err := time.Parse(config.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Row{}, fmt.Errorf("%w %q", ErrDateParse, date)
	}

	return Row{
		Sales:  p.Mul(decimal.NewFromInt(int64(q))),
		Date:   d.Format(config.DateLayout),
		Region: region,
	}, nil
}

// ParsePrice strips a leading "$" and parses the remainder.
func ParsePrice(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrPriceParse, s)
	}
	return d, nil
}
