package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8050 {
		t.Errorf("Port = %d, want 8050", cfg.Server.Port)
	}
	if cfg.Sales.Product != "pink morsel" {
		t.Errorf("Product = %q, want %q", cfg.Sales.Product, "pink morsel")
	}
	if len(cfg.Sales.RawFiles) != 3 {
		t.Errorf("RawFiles = %v, want 3 entries", cfg.Sales.RawFiles)
	}

	want := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := cfg.CutoverDate(); !got.Equal(want) {
		t.Errorf("CutoverDate() = %v, want %v", got, want)
	}
	if cfg.Address() != "localhost:8050" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SALES_CUTOVER_DATE", "2022-03-01")
	t.Setenv("SALES_RAW_FILES", "a.csv,b.csv")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if len(cfg.Sales.RawFiles) != 2 || cfg.Sales.RawFiles[1] != "b.csv" {
		t.Errorf("RawFiles = %v", cfg.Sales.RawFiles)
	}
	if got := cfg.CutoverDate(); got.Format(DateLayout) != "2022-03-01" {
		t.Errorf("CutoverDate() = %v", got)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Logger.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad cutover", "SALES_CUTOVER_DATE", "15/01/2021"},
		{"zero rps", "SECURITY_RATE_LIMIT_RPS", "0"},
		{"bad exporter", "TRACING_EXPORTER", "jaeger"},
		{"non-numeric port", "SERVER_PORT", "eighty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
