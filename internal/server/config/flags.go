package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/payrun/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        gRPC bind address (e.g., ":50051")
//	-m string        metrics bind address, "" disables
//	-driver string   database driver, "pgx" or "sqlite"
//	-d string        database DSN
//	-l string        log level
//	-f string        log format, "json" or "text"
//	-u / -p string   S3 access key / secret key
//	-b string        S3 bucket for run receipts
//	-g string        S3 region
//	-e string        S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-x string        receipt key prefix
//	-t duration      graceful shutdown timeout (e.g., "15s")
//
// Arguments are first narrowed with flagx.FilterArgs so -c/-config and
// unknown flags do not break parsing.
func parseFlags(config *Config, args []string) error {
	names := []string{"-a", "-m", "-driver", "-d", "-l", "-f", "-u", "-p", "-b", "-g", "-e", "-x", "-t"}
	filtered := flagx.FilterArgs(args, names)

	fs := flag.NewFlagSet("payrun-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 receipt bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.ReceiptPrefix, "x", config.ReceiptPrefix, "receipt key prefix")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "shutdown timeout")

	return fs.Parse(filtered)
}
