package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("LoadsCompleteFile", func(t *testing.T) {
		path := writeConfigFile(t, `
logging:
  level: DEBUG
  access_log: true
  access_log_path: /tmp/access.log
server:
  ip: 0.0.0.0
  port: 9090
  max_connections: 50
  thread_count: 8
  read_timeout: 10s
  write_timeout: 10s
  keep_alive_timeout: 5s
  max_requests_per_connection: 200
content:
  type: memory
  memory:
    default_index: home.html
    files:
      /home.html: "<h1>Hi</h1>"
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "DEBUG", cfg.Logging.Level)
		assert.True(t, cfg.Logging.AccessLog)
		assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
		assert.Equal(t, 50, cfg.Server.MaxConnections)
		assert.Equal(t, 8, cfg.Server.ThreadCount)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 5*time.Second, cfg.Server.KeepAliveTimeout)
		assert.Equal(t, 200, cfg.Server.MaxRequestsPerConnection)
		assert.Equal(t, "memory", cfg.Content.Type)
	})

	t.Run("AppliesDefaultsToPartialFile", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 8085
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "INFO", cfg.Logging.Level)
		assert.Equal(t, DefaultIP, cfg.Server.IP)
		assert.Equal(t, 8085, cfg.Server.Port)
		assert.Equal(t, DefaultMaxConnections, cfg.Server.MaxConnections)
		assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
		assert.Equal(t, DefaultMaxRequestsPerConnection, cfg.Server.MaxRequestsPerConnection)
		assert.Equal(t, runtime.NumCPU()*2, cfg.Server.ThreadCount)
		assert.Equal(t, "static", cfg.Content.Type)
		assert.Equal(t, DefaultDocRoot, cfg.Content.Static["doc_root"])
	})

	t.Run("NormalizesLogLevelCase", func(t *testing.T) {
		path := writeConfigFile(t, `
logging:
  level: debug
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "DEBUG", cfg.Logging.Level)
	})

	t.Run("RejectsInvalidIP", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  ip: not-an-ip
`)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("RejectsOutOfRangePort", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 70000
`)

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("RejectsUnknownProviderType", func(t *testing.T) {
		path := writeConfigFile(t, `
content:
  type: carrier-pigeon
`)

		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("RejectsMalformedYAML", func(t *testing.T) {
		path := writeConfigFile(t, "logging: [broken")

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestValidateCustomRules(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	t.Run("AcceptsDefaults", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})

	t.Run("RateLimitNeedsRate", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.Enabled = true

		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requests_per_second")
	})

	t.Run("StaticProviderNeedsDocRoot", func(t *testing.T) {
		cfg := base()
		cfg.Content.Static["doc_root"] = ""

		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "doc_root")
	})
}
