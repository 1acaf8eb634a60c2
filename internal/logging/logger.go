// Package logging builds the categorized zap loggers used across addressbook.
// Every subsystem logs through a named child of the root logger so a log file
// can be filtered per category.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"addressbook/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // HTTP requests to the backend
	CategorySync   Category = "sync"   // Reloads and mutation reconciliation
	CategoryUI     Category = "ui"     // Interactive mode events
	CategoryImport Category = "import" // Import uploads and row errors
	CategoryConfig Category = "config" // Config watcher
)

// Options controls how New builds the root logger.
type Options struct {
	// Verbose forces debug level regardless of the configured level.
	Verbose bool
	// Interactive means the terminal belongs to the TUI: without a log file
	// nothing is logged at all.
	Interactive bool
}

// New builds the root logger from the logging section of the config.
func New(cfg config.LoggingConfig, opts Options) (*zap.Logger, error) {
	if opts.Interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var zc zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		// Colors are noise in a file.
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// For returns the child logger for a category.
func For(l *zap.Logger, cat Category) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.Named(string(cat))
}
