package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

type Config struct {
	Server   ServerConfig
	Sales    SalesConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Tracing  TracingConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"localhost" validate:"required"`
	Port            int           `env:"SERVER_PORT" envDefault:"8050" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type SalesConfig struct {
	DataFile    string   `env:"SALES_DATA_FILE" envDefault:"data/processed_sales_data.csv" validate:"required"`
	RawFiles    []string `env:"SALES_RAW_FILES" envSeparator:"," envDefault:"data/daily_sales_data_0.csv,data/daily_sales_data_1.csv,data/daily_sales_data_2.csv" validate:"min=1,dive,required"`
	Product     string   `env:"SALES_PRODUCT" envDefault:"pink morsel" validate:"required"`
	CutoverDate string   `env:"SALES_CUTOVER_DATE" envDefault:"2021-01-15" validate:"required,datetime=2006-01-02"`
}

type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `env:"SECURITY_RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS    int      `env:"SECURITY_RATE_LIMIT_RPS" envDefault:"100" validate:"gt=0"`
	RateLimitBurst  int      `env:"SECURITY_RATE_LIMIT_BURST" envDefault:"10" validate:"gt=0"`
	AllowedOrigins  []string `env:"SECURITY_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8050"`
	TrustedProxies  []string `env:"SECURITY_TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.1"`
}

type TracingConfig struct {
	Enabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	Exporter string `env:"TRACING_EXPORTER" envDefault:"none" validate:"oneof=none stdout"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	return validate.Struct(c)
}

// CutoverDate is the first day counted in the "after" partition.
func (c *Config) CutoverDate() time.Time {
	t, err := time.Parse(DateLayout, c.Sales.CutoverDate)
	if err != nil {
		// validate() rejects unparseable dates, so this only happens on hand-built configs
		return time.Time{}
	}
	return t
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
