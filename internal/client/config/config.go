package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the client.
type Config struct {
	// APIBaseURL is the backend origin, e.g. https://api.example.org.
	APIBaseURL string
	// DBPath is the SQLite file holding the admin flag and banner state.
	DBPath string
	// ExportDir receives registration CSV/PDF exports.
	ExportDir string

	// StaleTime is how long a cached read is served without a refetch.
	StaleTime time.Duration
	// CacheTTL evicts an entry this long after it was last written, whether
	// or not it has been read since.
	CacheTTL     time.Duration
	CacheSize    int
	QueryRetries int
	// RequestTimeout bounds every HTTP call; zero disables the cutoff.
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
	// MetricsAddr, when set, serves Prometheus metrics on /metrics.
	MetricsAddr string

	// AdminPasscodeHash is a bcrypt hash checked by the CLI login command.
	AdminPasscodeHash string

	// S3 settings are optional; when S3Bucket is set media goes straight to
	// the bucket instead of the backend upload endpoints.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000"
	c.DBPath = "ministry.db"
	c.ExportDir = "."
	c.StaleTime = 5 * time.Minute
	c.CacheTTL = 30 * time.Minute
	c.CacheSize = 256
	c.QueryRetries = 1
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// UseS3 reports whether direct object storage is configured.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, config file, environment and
// os.Args, in that order.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
