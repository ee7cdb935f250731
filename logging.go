package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kattameya/rockdash/config"
	"pkt.systems/pslog"
)

// logOptions maps a config log level onto structured pslog options.
func logOptions(level string) (pslog.Options, error) {
	opts := pslog.Options{Mode: pslog.ModeStructured, NoColor: true}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "", "info":
		opts.MinLevel = pslog.InfoLevel
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		return opts, fmt.Errorf("unknown log level %q", level)
	}
	return opts, nil
}

// openLog opens the log file for appending. The terminal belongs to the
// UI while it runs, so nothing is written to stderr.
func openLog(cfg config.LogConfig) (pslog.Logger, func(), error) {
	opts, err := logOptions(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(f),
		pslog.WithEnvOptions(opts),
	)
	return logger, func() { _ = f.Close() }, nil
}
