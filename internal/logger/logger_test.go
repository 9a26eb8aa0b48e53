package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugSuppressedAtInfo", func(t *testing.T) {
		buf := capture(t)
		SetLevel("INFO")

		Debug("hidden %d", 1)
		Info("visible %d", 2)

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "visible 2")
	})

	t.Run("ErrorAlwaysPasses", func(t *testing.T) {
		buf := capture(t)
		SetLevel("ERROR")

		Warn("dropped")
		Error("kept")

		out := buf.String()
		assert.NotContains(t, out, "dropped")
		assert.Contains(t, out, "kept")
	})

	t.Run("LevelNamesAreCaseInsensitive", func(t *testing.T) {
		buf := capture(t)
		SetLevel("debug")

		Debug("now visible")
		assert.Contains(t, buf.String(), "now visible")
	})

	t.Run("LinesCarryLevelTag", func(t *testing.T) {
		buf := capture(t)
		SetLevel("INFO")

		Info("tagged")
		assert.Contains(t, buf.String(), "[INFO]")
	})
}
