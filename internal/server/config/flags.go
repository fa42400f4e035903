package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/flagx"
)

var knownFlags = []string{"-a", "-l", "-k", "-d", "-s", "-t", "-m", "-x", "-f", "-u", "-p", "-b", "-g", "-e", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-l string   gRPC health bind address (e.g., ":50051")
//	-k string   database driver: postgres or sqlite
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-m int      maximum upload size, megabytes
//	-x string   blob backend: memory, filesystem or s3
//	-f string   blob directory for the filesystem backend
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-v string   log level
//
// Arguments other than these flags are dropped by flagx.FilterArgs first,
// so -c/-config and foreign flags do not trip the parser.
func parseFlags(config *Config, osArgs []string) error {
	args := flagx.FilterArgs(osArgs, knownFlags)

	fs := flag.NewFlagSet("photodiary", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCAddr, "l", config.GRPCAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (postgres|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	maxUploadMB := fs.Int64("m", config.MaxUploadBytes>>20, "maximum upload size (in megabytes)")

	fs.StringVar(&config.BlobBackend, "x", config.BlobBackend, "blob backend (memory|filesystem|s3)")
	fs.StringVar(&config.BlobDir, "f", config.BlobDir, "blob directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Unit conversions only apply to flags that were given, so values from
	// JSON or env that are not whole minutes/megabytes survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "m":
			config.MaxUploadBytes = *maxUploadMB << 20
		}
	})
	return nil
}
