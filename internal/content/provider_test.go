package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"/index.html":     "text/html",
		"/page.HTM":       "text/html",
		"/style.css":      "text/css",
		"/app.js":         "application/javascript",
		"/photo.jpg":      "image/jpeg",
		"/photo.jpeg":     "image/jpeg",
		"/icon.png":       "image/png",
		"/anim.gif":       "image/gif",
		"/logo.svg":       "image/svg+xml",
		"/data.json":      "application/json",
		"/readme.txt":     "text/plain",
		"/archive.tar.gz": "application/octet-stream",
		"/no-extension":   "application/octet-stream",
	}

	for path, expected := range cases {
		assert.Equal(t, expected, ContentTypeFor(path), "path %q", path)
	}
}
