package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/letterpress/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value alone.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	CacheDSN          string         `json:"cache_dsn"`
	CacheDriver       string         `json:"cache_driver"`
	MemoryCacheSizeMB int            `json:"memory_cache_size_mb"`
	SaveTimeout       timex.Duration `json:"save_timeout"`
	LogLevel          string         `json:"log_level"`
	TraceStdout       *bool          `json:"trace_stdout"`
	S3                struct {
		Endpoint  string `json:"endpoint"`
		Region    string `json:"region"`
		Bucket    string `json:"bucket"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
		PublicURL string `json:"public_url"`
	} `json:"s3"`
}

// parseJson overlays cfg with the JSON file at path. An empty path is a
// no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.CacheDSN, jc.CacheDSN)
	setString(&cfg.CacheDriver, jc.CacheDriver)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.MemoryCacheSizeMB != 0 {
		cfg.MemoryCacheSizeMB = jc.MemoryCacheSizeMB
	}
	if jc.SaveTimeout.Duration != 0 {
		cfg.SaveTimeout = jc.SaveTimeout.Duration
	}
	if jc.TraceStdout != nil {
		cfg.TraceStdout = *jc.TraceStdout
	}

	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	setString(&cfg.S3.PublicURL, jc.S3.PublicURL)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
