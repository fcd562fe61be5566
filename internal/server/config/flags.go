package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/truproof/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   public base URL embedded in QR codes
//	-k string   database driver: "sqlite" or "pgx"
//	-d string   database DSN
//	-s string   blob backend: "fs" or "s3"
//	-f string   upload directory for the fs backend
//	-u string   S3 root user
//	-p string   S3 root password
//	-n string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-m int      max upload size, bytes
//	-q int      QR code size, pixels
//	-t int      shutdown timeout, seconds
//	-l string   log level
//
// Only these flags are looked at, so -c/-config and unknown flags do not
// make parsing fail.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-k", "-d", "-s", "-f", "-u", "-p", "-n", "-g", "-e", "-m", "-q", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL for verification links")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BlobBackend, "s", config.BlobBackend, "blob backend (fs|s3)")
	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "upload directory")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "n", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size (bytes)")
	fs.IntVar(&config.QRCodeSize, "q", config.QRCodeSize, "QR code size (pixels)")
	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
