// Package content defines the ContentProvider boundary: resolving a raw
// request path into a complete HTTP response. The server core treats
// providers as black boxes and imposes no timeout on them.
package content

import (
	"path/filepath"
	"strings"

	"github.com/xener/xener/internal/protocol/http"
)

// Provider resolves a request path into a Response. Serve is invoked
// synchronously from the connection loop; implementations must not block
// indefinitely. Missing or unreadable resources are reported as ordinary
// 404/403 responses, never as errors.
type Provider interface {
	Serve(path string) *http.Response
}

// ContentTypeFor maps a file extension to its MIME type, defaulting to
// application/octet-stream.
func ContentTypeFor(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "html", "htm":
		return "text/html"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "json":
		return "application/json"
	case "txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
