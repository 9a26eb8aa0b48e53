package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xener/xener/internal/config"
	"github.com/xener/xener/internal/logger"
	"github.com/xener/xener/internal/ratelimiter"
	"github.com/xener/xener/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml, /etc/xener/config.yaml)")
	logLevel := flag.String("log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	fmt.Println("Starting Xener Server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logger.SetLevel(level)
	logger.Info("Log level set to: %s", level)

	provider, err := config.CreateProvider(&cfg.Content)
	if err != nil {
		logger.Error("Failed to create content provider: %v", err)
		os.Exit(1)
	}
	logger.Info("Content provider: %s", cfg.Content.Type)

	accessLog := server.NewAccessLogger(cfg.Logging.AccessLog, cfg.Logging.AccessLogPath)

	srv := server.New(&cfg.Server, provider, accessLog)
	if cfg.RateLimit.Enabled {
		srv.SetRateLimiter(ratelimiter.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		logger.Info("Accept rate limiting enabled: %d req/s (burst %d)",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server configured to listen on %s. Press Ctrl+C to stop.", cfg.Server.Address())

	select {
	case <-sigChan:
		logger.Info("Shutting down server...")
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}

	logger.Info("Server shutdown successfully")
}
