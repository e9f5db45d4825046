package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/ministrysync/internal/flagx"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Pointer fields distinguish "absent" from
// zero so a file only overrides what it mentions.
type fileConfig struct {
	APIBaseURL        *string   `json:"api_base_url" yaml:"api_base_url"`
	DBPath            *string   `json:"db_path" yaml:"db_path"`
	ExportDir         *string   `json:"export_dir" yaml:"export_dir"`
	StaleTime         *Duration `json:"stale_time" yaml:"stale_time"`
	CacheTTL          *Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheSize         *int      `json:"cache_size" yaml:"cache_size"`
	QueryRetries      *int      `json:"query_retries" yaml:"query_retries"`
	RequestTimeout    *Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel          *string   `json:"log_level" yaml:"log_level"`
	LogFormat         *string   `json:"log_format" yaml:"log_format"`
	MetricsAddr       *string   `json:"metrics_addr" yaml:"metrics_addr"`
	AdminPasscodeHash *string   `json:"admin_passcode_hash" yaml:"admin_passcode_hash"`
	S3Bucket          *string   `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region          *string   `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint    *string   `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey       *string   `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey       *string   `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3PublicURL       *string   `json:"s3_public_url" yaml:"s3_public_url"`
}

// parseFile overlays cfg with the file named by -c/-config or
// $MINISTRY_CONFIG. No file means no changes.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return err
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.ExportDir, fc.ExportDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.AdminPasscodeHash, fc.AdminPasscodeHash)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	setString(&cfg.S3PublicURL, fc.S3PublicURL)

	if fc.StaleTime != nil {
		cfg.StaleTime = fc.StaleTime.Duration
	}
	if fc.CacheTTL != nil {
		cfg.CacheTTL = fc.CacheTTL.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CacheSize != nil {
		cfg.CacheSize = *fc.CacheSize
	}
	if fc.QueryRetries != nil {
		cfg.QueryRetries = *fc.QueryRetries
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
