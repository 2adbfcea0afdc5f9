package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/triptales/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    HTTP bind address (e.g., ":8000")
//	-grpc string gRPC health bind address
//	-d string    PostgreSQL DSN
//	-s string    session token HMAC secret
//	-t int       token TTL, seconds
//	-m int       max proof photo size, bytes
//	-n int       max number of stored itineraries
//	-l string    log level
//	-storage     photo storage backend: local | s3
//	-upload-dir  directory of the local photo store
//	-u, -p       S3 access key / secret key
//	-b, -r, -e   S3 bucket / region / base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-grpc", "-d", "-s", "-t", "-m", "-n", "-l",
		"-storage", "-upload-dir", "-u", "-p", "-b", "-r", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port of the HTTP API")
	fs.StringVar(&config.GRPCAddr, "grpc", config.GRPCAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	ttl := fs.Int64("t", int64(config.TokenTTL/time.Second), "token ttl (in seconds)")
	fs.Int64Var(&config.MaxImageBytes, "m", config.MaxImageBytes, "max proof photo size (in bytes)")
	fs.Int64Var(&config.MaxItineraries, "n", config.MaxItineraries, "max stored itineraries")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.PhotoStorage, "storage", config.PhotoStorage, "photo storage backend (local|s3)")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "local photo directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*ttl) * time.Second
}
