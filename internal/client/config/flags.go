package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/letterpress/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-k", "-m", "-t", "-l", "-trace"}

// parseFlags overlays cfg with command-line flags.
//
//	-a string     API base URL
//	-d string     local database DSN
//	-k string     cache driver: sqlite or memory
//	-m int        memory cache size in MB
//	-t duration   save timeout
//	-l string     log level
//	-trace        print finished spans to stderr
//
// Unknown arguments (such as -c) are filtered out first with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("letterpress", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local database DSN")
	fs.StringVar(&cfg.CacheDriver, "k", cfg.CacheDriver, "cache driver (sqlite|memory)")
	fs.IntVar(&cfg.MemoryCacheSizeMB, "m", cfg.MemoryCacheSizeMB, "memory cache size in MB")
	fs.DurationVar(&cfg.SaveTimeout, "t", cfg.SaveTimeout, "save timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.TraceStdout, "trace", cfg.TraceStdout, "print finished spans")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
