// Package config loads runtime configuration for the letterpress editor.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or LETTERPRESS_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// The result is validated with go-playground/validator struct tags.
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "https://news.example.com",
//	  "cache_dsn": "letterpress.db",
//	  "cache_driver": "sqlite",
//	  "save_timeout": "30s",
//	  "log_level": "info",
//	  "s3": {"bucket": "images", "region": "us-east-1", "access_key": "...",
//	         "secret_key": "...", "public_url": "https://cdn.example.com/images"}
//	}
package config
