// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the payrun server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC API.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint; empty disables it.
//   - DatabaseDriver / DatabaseDSN: "pgx" with a PostgreSQL DSN, or "sqlite" with a file path.
//   - LogLevel / LogFormat: slog level and "json" or "text" output.
//   - S3*: object storage for run receipts; an empty bucket disables archiving.
//   - ReceiptPrefix: key prefix for receipts inside the bucket.
//   - ShutdownTimeout: how long a graceful stop may take.
type Config struct {
	EndpointAddrGRPC string
	MetricsAddr      string
	DatabaseDriver   string
	DatabaseDSN      string
	LogLevel         string
	LogFormat        string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	ReceiptPrefix    string
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with development defaults: an embedded
// sqlite ledger and no receipt archiving.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "data/payrun.db"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.S3Region = "us-east-1"
	c.ReceiptPrefix = "receipts"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.EndpointAddrGRPC == "" {
		return fmt.Errorf("gRPC address is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
