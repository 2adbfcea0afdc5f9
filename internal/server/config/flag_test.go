package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-grpc", ":6000", "-d", "db", "-s", "secret",
			"-t", "60", "-m", "2048", "-n", "10", "-l", "debug",
			"-storage", "s3", "-upload-dir", "/tmp/up",
			"-u", "user", "-p", "password", "-b", "bucket", "-r", "us-west-1", "-e", "http://endpoint",
		}, expected: &Config{
			HTTPAddr:       "127.0.0.1:9090",
			GRPCAddr:       ":6000",
			DatabaseDSN:    "db",
			SecretKey:      "secret",
			TokenTTL:       time.Minute,
			MaxImageBytes:  2048,
			MaxItineraries: 10,
			LogLevel:       "debug",
			PhotoStorage:   "s3",
			UploadDir:      "/tmp/up",
			S3RootUser:     "user",
			S3RootPassword: "password",
			S3Bucket:       "bucket",
			S3Region:       "us-west-1",
			S3BaseEndpoint: "http://endpoint",
		}},
		{name: "non numeric ttl", args: []string{"cmd", "-t", "week"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
