package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLogger(t *testing.T) {
	t.Run("WritesCommonLogFormatLine", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "access.log")
		accessLog := NewAccessLogger(true, logPath)

		accessLog.Log("127.0.0.1:54321", "GET", "/index.html", 200, 1234)

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)

		line := string(data)
		assert.Contains(t, line, "127.0.0.1:54321 - - [")
		assert.Contains(t, line, `"GET /index.html HTTP/1.1" 200 1234`)
	})

	t.Run("AppendsAcrossCalls", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "access.log")
		accessLog := NewAccessLogger(true, logPath)

		accessLog.Log("127.0.0.1:1", "GET", "/a", 200, 1)
		accessLog.Log("127.0.0.1:2", "GET", "/b", 404, 2)

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "/a")
		assert.Contains(t, string(data), "/b")
	})

	t.Run("DisabledLoggerWritesNothing", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "access.log")
		accessLog := NewAccessLogger(false, logPath)

		accessLog.Log("127.0.0.1:1", "GET", "/", 200, 0)

		_, err := os.Stat(logPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("NilLoggerIsSafe", func(t *testing.T) {
		var accessLog *AccessLogger
		accessLog.Log("127.0.0.1:1", "GET", "/", 200, 0)
	})

	t.Run("UnwritablePathIsSwallowed", func(t *testing.T) {
		accessLog := NewAccessLogger(true, filepath.Join(t.TempDir(), "no", "such", "dir", "access.log"))
		accessLog.Log("127.0.0.1:1", "GET", "/", 200, 0)
	})
}
