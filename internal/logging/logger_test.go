package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/casedesk/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "casedesk.log")
	log, level, err := New(config.LogConfig{Path: path, Level: "info", MaxSizeMB: 1})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("case changed", zap.String("case_id", "A"))
	require.True(t, SetLevel(level, "debug"))
	log.Debug("now visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"message":"case changed"`)
	require.Contains(t, out, `"case_id":"A"`)
	require.Contains(t, out, `"level":"INFO"`)
	require.Contains(t, out, "now visible")
	require.Equal(t, 2, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(config.LogConfig{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	require.Error(t, err)
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	t.Parallel()

	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	require.False(t, SetLevel(level, "nope"))
	require.Equal(t, zapcore.WarnLevel, level.Level())
}
