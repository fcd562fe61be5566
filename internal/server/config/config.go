// Package config handles configuration for the truproof server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	BlobBackendFS = "fs"
	BlobBackendS3 = "s3"
)

// Config holds runtime settings for the truproof server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API and verification pages.
//   - BaseURL: public origin embedded in QR codes as {BaseURL}/verify/{id}.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - BlobBackend: "fs" stores artifacts under UploadDir, "s3" in S3Bucket.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - MaxUploadSize: largest accepted artifact in bytes.
//   - QRCodeSize: edge length of generated QR PNGs in pixels.
//   - ShutdownTimeout: grace period for in-flight requests on SIGTERM.
//   - LogLevel: minimum level of the JSON logger (debug, info, warn, error).
type Config struct {
	EndpointAddrHTTP string
	BaseURL          string
	DatabaseDriver   string
	DatabaseDSN      string
	BlobBackend      string
	UploadDir        string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	MaxUploadSize    int64
	QRCodeSize       int
	ShutdownTimeout  time.Duration
	LogLevel         string
}

// LoadDefaults populates Config with development defaults: an embedded
// SQLite database and artifacts on the local filesystem.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.BaseURL = "http://localhost:8080"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:truproof.db?_pragma=busy_timeout(5000)"
	c.BlobBackend = BlobBackendFS
	c.UploadDir = "public/uploads"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "certifications"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.MaxUploadSize = 10 << 20
	c.QRCodeSize = 256
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
