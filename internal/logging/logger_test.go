package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"addressbook/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_InteractiveWithoutFileIsSilent(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "debug"}, Options{Interactive: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "error"}, Options{Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addressbook.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path}, Options{Interactive: true})
	require.NoError(t, err)

	For(logger, CategorySync).Info("reload applied", zap.Int("contacts", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"logger":"sync"`)
	assert.Contains(t, line, `"contacts":3`)
}

func TestFor_NamesChild(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	For(zap.New(core), CategoryImport).Warn("row rejected")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "import", logs.All()[0].LoggerName)

	assert.NotNil(t, For(nil, CategoryUI))
}
