package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
)

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "salesctl",
		Short:         "Consolidate and export Pink Morsel sales data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewProcessCmd(cfg, logger),
		NewExportCmd(cfg, logger),
	)
	return root
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)
	slog.SetDefault(logger)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
