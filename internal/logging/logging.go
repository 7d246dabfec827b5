// Package logging builds the process-wide zap logger.
//
// main constructs exactly one *zap.Logger and hands it (or a Named child)
// to every component; nothing else in the module creates loggers.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level, encoding and an optional extra file sink.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is "console" or "json". Empty means console.
	Format string
	// File, when set, receives a copy of every entry next to stderr.
	File string
}

// New builds a logger from opt.
func New(opt Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if s := strings.TrimSpace(opt.Level); s != "" {
		l, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(opt.Format)) {
	case "", "console", "text":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Sampling = nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q (want console or json)", opt.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if opt.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opt.File)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return log, nil
}
