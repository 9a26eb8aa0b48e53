package config

import (
	"runtime"
	"strings"
	"time"
)

// Defaults mirror the long-standing server behavior: 30 second socket
// timeouts, 1000 requests per keep-alive connection, 100 concurrent
// connections.
const (
	DefaultIP                       = "127.0.0.1"
	DefaultPort                     = 8080
	DefaultMaxConnections           = 100
	DefaultReadTimeout              = 30 * time.Second
	DefaultWriteTimeout             = 30 * time.Second
	DefaultKeepAliveTimeout         = 30 * time.Second
	DefaultMaxRequestsPerConnection = 1000
	DefaultDocRoot                  = "./static"
	DefaultIndex                    = "index.html"
)

// ApplyDefaults fills in every unset field. Zero values are replaced;
// explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyContentDefaults(&cfg.Content)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.IP == "" {
		cfg.IP = DefaultIP
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}
	if cfg.ThreadCount == 0 {
		cfg.ThreadCount = runtime.NumCPU() * 2
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.KeepAliveTimeout == 0 {
		cfg.KeepAliveTimeout = DefaultKeepAliveTimeout
	}
	if cfg.MaxRequestsPerConnection == 0 {
		cfg.MaxRequestsPerConnection = DefaultMaxRequestsPerConnection
	}
}

func applyContentDefaults(cfg *ContentConfig) {
	if cfg.Type == "" {
		cfg.Type = "static"
	}
	if cfg.Type == "static" {
		if cfg.Static == nil {
			cfg.Static = map[string]any{}
		}
		if _, ok := cfg.Static["doc_root"]; !ok {
			cfg.Static["doc_root"] = DefaultDocRoot
		}
		if _, ok := cfg.Static["default_index"]; !ok {
			cfg.Static["default_index"] = DefaultIndex
		}
	}
}
