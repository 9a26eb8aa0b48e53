package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xener/xener/internal/protocol/http"
)

func newTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	docRoot := t.TempDir()

	files := map[string]string{
		"index.html":     "<h1>Welcome</h1>",
		"style.css":      "body { margin: 0; }",
		"docs/guide.txt": "read me",
	}
	for name, body := range files {
		path := filepath.Join(docRoot, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	// A file outside the root that traversal must never reach.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(docRoot), "secret.txt"), []byte("secret"), 0644))

	return New(docRoot, ""), docRoot
}

func TestServe(t *testing.T) {
	provider, _ := newTestProvider(t)

	t.Run("ServesExistingFile", func(t *testing.T) {
		resp := provider.Serve("/index.html")

		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "text/html", resp.Headers["Content-Type"])
		assert.Equal(t, "<h1>Welcome</h1>", string(resp.Body))
	})

	t.Run("ServesNestedFile", func(t *testing.T) {
		resp := provider.Serve("/docs/guide.txt")

		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "text/plain", resp.Headers["Content-Type"])
	})

	t.Run("RootServesDefaultIndex", func(t *testing.T) {
		resp := provider.Serve("/")

		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "<h1>Welcome</h1>", string(resp.Body))
	})

	t.Run("DirectoryRequestServesIndex", func(t *testing.T) {
		resp := provider.Serve("/docs/")

		// docs/ has no index.html
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("MissingFileIs404", func(t *testing.T) {
		resp := provider.Serve("/nope.html")

		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Contains(t, string(resp.Body), "/nope.html")
	})

	t.Run("InfersContentType", func(t *testing.T) {
		resp := provider.Serve("/style.css")
		assert.Equal(t, "text/css", resp.Headers["Content-Type"])
	})
}

func TestTraversalDefense(t *testing.T) {
	provider, _ := newTestProvider(t)

	attempts := []string{
		"/../secret.txt",
		"/../../secret.txt",
		"/docs/../../secret.txt",
		"/./../secret.txt",
	}
	for _, path := range attempts {
		t.Run(path, func(t *testing.T) {
			resp := provider.Serve(path)
			assert.NotEqual(t, "secret", string(resp.Body))
			assert.NotEqual(t, http.StatusOK, resp.Status)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	provider := New("/var/www", "index.html")

	cases := map[string]string{
		"/index.html":       "index.html",
		"/":                 "index.html",
		"/docs/guide.txt":   filepath.Join("docs", "guide.txt"),
		"/../etc/passwd":    filepath.Join("etc", "passwd"),
		"//double//slash":   filepath.Join("double", "slash"),
		"/docs/":            filepath.Join("docs", "index.html"),
		"/./hidden/../file": filepath.Join("hidden", "file"),
	}
	for input, expected := range cases {
		assert.Equal(t, expected, provider.normalizePath(input), "input %q", input)
	}
}
