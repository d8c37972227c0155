package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/letterpress/internal/flagx"
)

// Cache drivers.
const (
	CacheDriverSQLite = "sqlite"
	CacheDriverMemory = "memory"
)

// Config holds runtime settings for the letterpress editor.
type Config struct {
	APIBaseURL        string        `validate:"required,url"`
	CacheDSN          string        `validate:"required"`
	CacheDriver       string        `validate:"oneof=sqlite memory"`
	MemoryCacheSizeMB int           `validate:"required_if=CacheDriver memory,gte=0"`
	SaveTimeout       time.Duration `validate:"gt=0"`
	LogLevel          string        `validate:"oneof=debug info warn error"`
	TraceStdout       bool

	S3 S3Config
}

// S3Config enables uploading generated images to object storage. With an
// empty Bucket images are embedded in the document as data URLs.
type S3Config struct {
	Endpoint  string `validate:"omitempty,url"`
	Region    string `validate:"required_with=Bucket"`
	Bucket    string
	AccessKey string `validate:"required_with=Bucket"`
	SecretKey string `validate:"required_with=Bucket"`
	PublicURL string `validate:"omitempty,url"`
}

// Enabled reports whether images go to object storage.
func (s S3Config) Enabled() bool { return s.Bucket != "" }

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000"
	c.CacheDSN = "letterpress.db"
	c.CacheDriver = CacheDriverSQLite
	c.MemoryCacheSizeMB = 32
	c.SaveTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
}

// Validate checks c against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (or
// LETTERPRESS_CONFIG), then flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
