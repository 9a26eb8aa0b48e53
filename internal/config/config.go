// Package config loads, defaults, and validates the Xener configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (XENER_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// The server core never touches this package's loading machinery; it
// receives a fully-resolved ServerConfig and reads it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete Xener configuration.
type Config struct {
	// Logging controls the leveled logger and the access log sink
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains the connection-engine settings
	Server ServerConfig `mapstructure:"server"`

	// Content selects the content provider and its type-specific options
	Content ContentConfig `mapstructure:"content"`

	// RateLimit bounds the accept rate; disabled by default
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// AccessLog enables the per-request Common Log Format sink
	AccessLog bool `mapstructure:"access_log"`

	// AccessLogPath is the access log file; empty means stdout
	AccessLogPath string `mapstructure:"access_log_path"`
}

// ServerConfig contains everything the connection engine consumes. It is
// read-only to the server core.
type ServerConfig struct {
	// IP is the address to bind to
	IP string `mapstructure:"ip" validate:"required,ip"`

	// Port is the TCP port to listen on
	Port int `mapstructure:"port" validate:"required,gte=1,lte=65535"`

	// MaxConnections caps concurrently admitted connections
	MaxConnections int `mapstructure:"max_connections" validate:"required,gt=0"`

	// ThreadCount is the worker pool size; 0 means twice the CPU count
	ThreadCount int `mapstructure:"thread_count" validate:"gte=0"`

	// ReadTimeout bounds each socket read
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"required,gt=0"`

	// WriteTimeout bounds each socket write
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required,gt=0"`

	// KeepAliveTimeout is how long a connection may sit idle between
	// requests before it is considered expired
	KeepAliveTimeout time.Duration `mapstructure:"keep_alive_timeout" validate:"required,gt=0"`

	// MaxRequestsPerConnection is the per-connection request quota
	MaxRequestsPerConnection int `mapstructure:"max_requests_per_connection" validate:"required,gt=0"`
}

// Address returns the listener address in host:port form.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.IP, c.Port)
}

// ContentConfig selects a content provider. Only the section matching Type
// is consulted.
type ContentConfig struct {
	// Type specifies the provider implementation
	// Valid values: static, memory
	Type string `mapstructure:"type" validate:"required,oneof=static memory"`

	// Static holds static-provider options (doc_root, default_index)
	// Only used when Type = "static"
	Static map[string]any `mapstructure:"static"`

	// Memory holds memory-provider options (default_index, files)
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`
}

// RateLimitConfig bounds the rate at which new connections are accepted.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerSecond is the sustained accept rate
	RequestsPerSecond uint `mapstructure:"requests_per_second"`

	// Burst is the token bucket capacity
	Burst uint `mapstructure:"burst"`
}

// Load reads configuration from file and environment, applies defaults,
// and validates the result. An empty configPath searches for config.yaml
// in the working directory and /etc/xener.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	// Example: XENER_SERVER_PORT=8085
	v.SetEnvPrefix("XENER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.AddConfigPath(".")
	v.AddConfigPath("/etc/xener")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults carry the day
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
