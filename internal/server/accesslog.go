package server

import (
	"fmt"
	"os"
	"time"

	"github.com/xener/xener/internal/logger"
)

// AccessLogger writes one Common Log Format line per completed request.
// It is fire-and-forget: write failures are swallowed and never reported
// back to the connection loop. A nil or disabled logger drops everything.
type AccessLogger struct {
	enabled bool
	path    string
}

// NewAccessLogger returns a logger appending to path, or to stdout when
// path is empty.
func NewAccessLogger(enabled bool, path string) *AccessLogger {
	return &AccessLogger{enabled: enabled, path: path}
}

func (a *AccessLogger) Log(client, method, path string, status, size int) {
	if a == nil || !a.enabled {
		return
	}

	line := fmt.Sprintf("%s - - [%s] \"%s %s HTTP/1.1\" %d %d",
		client, time.Now().Format("02/Jan/2006:15:04:05 -0700"), method, path, status, size)

	if a.path == "" {
		fmt.Println(line)
		return
	}

	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Debug("Access log open failed: %v", err)
		return
	}
	defer file.Close()

	_, _ = fmt.Fprintln(file, line)
}
