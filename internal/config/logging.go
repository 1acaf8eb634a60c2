package config

import (
	"fmt"
	"strings"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty = stderr for commands, nowhere for the TUI
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if !oneOf(c.Level, validLevels) {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Level, validLevels)
	}
	if !oneOf(c.Format, validFormats) {
		return fmt.Errorf("invalid logging.format: %s (valid: %v)", c.Format, validFormats)
	}
	return nil
}

// oneOf treats the empty string as "use the default".
func oneOf(v string, allowed []string) bool {
	if v == "" {
		return true
	}
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
