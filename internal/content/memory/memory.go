// Package memory is an in-memory content provider backed by a path map.
// It exists for tests and fixture serving; nothing touches the disk.
package memory

import (
	"strings"
	"sync"

	"github.com/xener/xener/internal/content"
	"github.com/xener/xener/internal/protocol/http"
)

type document struct {
	contentType string
	data        []byte
}

// Provider serves fixed documents keyed by normalized path.
type Provider struct {
	mu           sync.RWMutex
	documents    map[string]document
	defaultIndex string
}

func New(defaultIndex string) *Provider {
	if defaultIndex == "" {
		defaultIndex = "index.html"
	}

	return &Provider{
		documents:    make(map[string]document),
		defaultIndex: defaultIndex,
	}
}

// Put registers a document. An empty contentType is inferred from the
// path's extension.
func (p *Provider) Put(path, contentType string, data []byte) {
	if contentType == "" {
		contentType = content.ContentTypeFor(path)
	}

	p.mu.Lock()
	p.documents[normalize(path, p.defaultIndex)] = document{contentType: contentType, data: data}
	p.mu.Unlock()
}

func (p *Provider) Serve(path string) *http.Response {
	p.mu.RLock()
	doc, ok := p.documents[normalize(path, p.defaultIndex)]
	p.mu.RUnlock()

	if !ok {
		return http.NotFoundResponse(path)
	}

	return http.NewResponse().
		WithStatus(http.StatusOK).
		WithContentType(doc.contentType).
		WithBody(doc.data)
}

func normalize(path, defaultIndex string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return defaultIndex
	}
	return trimmed
}
