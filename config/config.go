// Package config loads agent configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the agent, parsed from
// DRPET_-prefixed environment variables.
type Config struct {
	ServiceName string `env:"DRPET_SERVICE_NAME" envDefault:"drpet-agent"`
	Host        string `env:"DRPET_HOST" envDefault:""`
	Port        int    `env:"DRPET_PORT" envDefault:"8080"`

	LogLevel string `env:"DRPET_LOG_LEVEL" envDefault:"info"`

	MetricsExporter  string  `env:"DRPET_METRICS_EXPORTER" envDefault:"prometheus"`
	TracingExporter  string  `env:"DRPET_TRACING_EXPORTER" envDefault:"none"`
	TracingSamplePct float64 `env:"DRPET_TRACING_SAMPLE_PCT" envDefault:"1.0"`

	HealthCheckInterval time.Duration `env:"DRPET_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	AlertInterval       time.Duration `env:"DRPET_ALERT_INTERVAL" envDefault:"30s"`

	ShutdownTimeout time.Duration `env:"DRPET_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	EngineTimeout      time.Duration `env:"DRPET_ENGINE_TIMEOUT" envDefault:"30s"`
	EngineMaxRetries   int           `env:"DRPET_ENGINE_MAX_RETRIES" envDefault:"2"`
	EngineRatePerSec   float64       `env:"DRPET_ENGINE_RATE_PER_SEC" envDefault:"50"`
	CircuitMaxFailures int           `env:"DRPET_CIRCUIT_MAX_FAILURES" envDefault:"5"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	return cfg, nil
}
