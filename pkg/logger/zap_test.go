package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("Create debug logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("Create optional logger", func(t *testing.T) {
		require.NotNil(t, NewOptionalLogger(false))
	})

	t.Run("Create logger with rotated file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "reconciler.log")
		logger, err := NewLoggerWithFile(false, logFile)
		require.NoError(t, err)

		WithCorrelationID(logger, "abc").Info("file entry")
		_ = logger.Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(content), "file entry")
		require.Contains(t, string(content), `"correlation-id":"abc"`)
	})
}
