package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvHTTPAddr        = "DIARY_HTTP_ADDR"
	EnvGRPCAddr        = "DIARY_GRPC_ADDR"
	EnvDatabaseDriver  = "DIARY_DB_DRIVER"
	EnvDatabaseDSN     = "DIARY_DATABASE_DSN"
	EnvSecretKey       = "DIARY_SECRET_KEY"
	EnvTokenValidity   = "DIARY_TOKEN_TTL"
	EnvShutdownTimeout = "DIARY_SHUTDOWN_TIMEOUT"
	EnvMaxUploadBytes  = "DIARY_MAX_UPLOAD_BYTES"
	EnvBlobBackend     = "DIARY_BLOB_BACKEND"
	EnvBlobDir         = "DIARY_BLOB_DIR"
	EnvS3RootUser      = "DIARY_S3_USER"
	EnvS3RootPassword  = "DIARY_S3_PASSWORD"
	EnvS3Bucket        = "DIARY_S3_BUCKET"
	EnvS3Region        = "DIARY_S3_REGION"
	EnvS3BaseEndpoint  = "DIARY_S3_ENDPOINT"
	EnvLogLevel        = "DIARY_LOG_LEVEL"
)

// loadDotEnv copies variables from a dotenv file into the process
// environment. Variables that are already set win over the file, and a
// missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays DIARY_* variables onto config. lookup is os.LookupEnv in
// production.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvHTTPAddr:       &config.HTTPAddr,
		EnvGRPCAddr:       &config.GRPCAddr,
		EnvDatabaseDriver: &config.DatabaseDriver,
		EnvDatabaseDSN:    &config.DatabaseDSN,
		EnvSecretKey:      &config.SecretKey,
		EnvBlobBackend:    &config.BlobBackend,
		EnvBlobDir:        &config.BlobDir,
		EnvS3RootUser:     &config.S3RootUser,
		EnvS3RootPassword: &config.S3RootPassword,
		EnvS3Bucket:       &config.S3Bucket,
		EnvS3Region:       &config.S3Region,
		EnvS3BaseEndpoint: &config.S3BaseEndpoint,
		EnvLogLevel:       &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		EnvTokenValidity:   &config.TokenValidityDuration,
		EnvShutdownTimeout: &config.ShutdownTimeout,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}

	if v, ok := lookup(EnvMaxUploadBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadBytes, err)
		}
		config.MaxUploadBytes = n
	}
	return nil
}
