package main

import (
	"fmt"
	"io"
	"strings"

	log "github.com/xuperchain/log15"
	"github.com/xyproto/env/v2"
)

// Config holds settings that can come from the environment or from flags.
// Flags win over environment variables.
type Config struct {
	Verbose   bool   // YELLOWCAKE_VERBOSE: log every emitted instruction
	LogFormat string // YELLOWCAKE_LOG_FORMAT: logfmt or json
	Entry     string // YELLOWCAKE_ENTRY: overrides the function name of a listing
}

func configFromEnv() Config {
	return Config{
		Verbose:   env.Bool("YELLOWCAKE_VERBOSE"),
		LogFormat: env.Str("YELLOWCAKE_LOG_FORMAT", "logfmt"),
		Entry:     env.Str("YELLOWCAKE_ENTRY"),
	}
}

// setupLogging routes all package loggers to w
func setupLogging(cfg *Config, w io.Writer) error {
	var format log.Format
	switch strings.ToLower(cfg.LogFormat) {
	case "", "logfmt":
		format = log.LogfmtFormat()
	case "json":
		format = log.JsonFormat()
	default:
		return fmt.Errorf("unknown log format %q (use logfmt or json)", cfg.LogFormat)
	}

	lvl := log.LvlWarn
	if cfg.Verbose {
		lvl = log.LvlDebug
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, format)))
	return nil
}
