package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/etl"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/services"
)

const commandTimeout = 60 * time.Second

type ProcessCmd struct {
	inputs  []string
	output  string
	product string
	logger  *slog.Logger
}

func NewProcessCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	pc := &ProcessCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Filter the daily sales files into the consolidated CSV",
		RunE:  pc.run,
	}

	cmd.Flags().StringSliceVar(&pc.inputs, "input", cfg.Sales.RawFiles, "Raw daily sales files, in order")
	cmd.Flags().StringVar(&pc.output, "output", cfg.Sales.DataFile, "Path of the consolidated CSV")
	cmd.Flags().StringVar(&pc.product, "product", cfg.Sales.Product, "Product to keep (case-insensitive)")

	return cmd
}

func (pc *ProcessCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	t := etl.NewTransformer(pc.product, pc.logger, cmd.OutOrStdout())
	if _, err := t.Run(ctx, pc.inputs, pc.output); err != nil {
		return fmt.Errorf("process sales data: %w", err)
	}
	return nil
}

type ExportCmd struct {
	dataFile string
	region   string
	out      string
	cutover  time.Time
	logger   *slog.Logger
}

func NewExportCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	ec := &ExportCmd{logger: logger, cutover: cfg.CutoverDate()}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the before/after view for a region to an Excel workbook",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.dataFile, "data", cfg.Sales.DataFile, "Consolidated CSV to read")
	cmd.Flags().StringVar(&ec.region, "region", services.SelectAll, "Region to export (north, south, east, west or all)")
	cmd.Flags().StringVar(&ec.out, "out", "", "Path of the .xlsx file to write")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	ds, err := services.LoadDataset(ctx, ec.dataFile)
	if err != nil {
		return fmt.Errorf("load consolidated data: %w", err)
	}

	dashboard := services.NewDashboard(ds, ec.cutover, ec.logger, nil)
	view := dashboard.Render(ctx, ec.region)

	if err := export.WriteFile(view, ec.out); err != nil {
		return err
	}

	ec.logger.Info("workbook written",
		"path", ec.out,
		"region", view.Region,
		"series", len(view.Chart.Series),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s view to %s\n", services.DisplayName(view.Region), ec.out)
	return nil
}
