package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"

	"github.com/xener/xener/internal/content"
	"github.com/xener/xener/internal/content/memory"
	"github.com/xener/xener/internal/content/static"
)

// CreateProvider builds the content provider selected by cfg.Type,
// decoding the matching type-specific option map.
func CreateProvider(cfg *ContentConfig) (content.Provider, error) {
	switch cfg.Type {
	case "static":
		return createStaticProvider(cfg.Static)
	case "memory":
		return createMemoryProvider(cfg.Memory)
	default:
		return nil, fmt.Errorf("unknown content provider type: %q", cfg.Type)
	}
}

func createStaticProvider(options map[string]any) (content.Provider, error) {
	type staticProviderConfig struct {
		DocRoot      string `mapstructure:"doc_root"`
		DefaultIndex string `mapstructure:"default_index"`
	}

	var providerCfg staticProviderConfig
	if err := mapstructure.Decode(options, &providerCfg); err != nil {
		return nil, fmt.Errorf("failed to decode static provider config: %w", err)
	}

	if providerCfg.DocRoot == "" {
		return nil, fmt.Errorf("static provider: doc_root is required")
	}

	docRoot, err := normalizeDocRoot(providerCfg.DocRoot)
	if err != nil {
		return nil, fmt.Errorf("static provider: %w", err)
	}

	return static.New(docRoot, providerCfg.DefaultIndex), nil
}

func createMemoryProvider(options map[string]any) (content.Provider, error) {
	type memoryProviderConfig struct {
		DefaultIndex string            `mapstructure:"default_index"`
		Files        map[string]string `mapstructure:"files"`
	}

	var providerCfg memoryProviderConfig
	if err := mapstructure.Decode(options, &providerCfg); err != nil {
		return nil, fmt.Errorf("failed to decode memory provider config: %w", err)
	}

	provider := memory.New(providerCfg.DefaultIndex)
	for path, body := range providerCfg.Files {
		provider.Put(path, "", []byte(body))
	}

	return provider, nil
}

// normalizeDocRoot resolves the document root to an absolute path and
// creates it if missing.
func normalizeDocRoot(docRoot string) (string, error) {
	if !filepath.IsAbs(docRoot) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		docRoot = filepath.Join(cwd, docRoot)
	}

	if err := os.MkdirAll(docRoot, 0755); err != nil {
		return "", fmt.Errorf("create doc_root: %w", err)
	}

	return docRoot, nil
}
