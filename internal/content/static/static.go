// Package static serves files from a document root on the local
// filesystem.
package static

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xener/xener/internal/content"
	"github.com/xener/xener/internal/logger"
	"github.com/xener/xener/internal/protocol/http"
)

// Provider maps request paths onto files under a document root. Lookups
// never escape the root: path components that could climb out are dropped
// during normalization.
type Provider struct {
	docRoot      string
	defaultIndex string
}

func New(docRoot, defaultIndex string) *Provider {
	if defaultIndex == "" {
		defaultIndex = "index.html"
	}

	return &Provider{
		docRoot:      docRoot,
		defaultIndex: defaultIndex,
	}
}

func (p *Provider) Serve(path string) *http.Response {
	filePath := filepath.Join(p.docRoot, p.normalizePath(path))

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Debug("Error serving file %s: %v", filePath, err)
		return http.NotFoundResponse(path)
	}

	return http.NewResponse().
		WithStatus(http.StatusOK).
		WithContentType(content.ContentTypeFor(filePath)).
		WithBody(data)
}

// normalizePath keeps only plain path components (no ".", "..", or empty
// segments) and substitutes the default index for directory requests.
func (p *Provider) normalizePath(path string) string {
	var kept []string
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch part {
		case "", ".", "..":
		default:
			kept = append(kept, part)
		}
	}

	if len(kept) == 0 || strings.HasSuffix(path, "/") {
		kept = append(kept, p.defaultIndex)
	}

	return filepath.Join(kept...)
}
