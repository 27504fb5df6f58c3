package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/userfetcher/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed here are parsed; -c/-config/-env belong to the
// earlier stages.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-cache", "-backend", "-log", "-layout"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "cache file path")
	fs.StringVar(&cfg.CacheBackend, "backend", cfg.CacheBackend, "cache backend (json|sqlite)")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "table layout (full|compact)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
