// Command mcp-server exposes the gometric tools over HTTP for AI agent
// frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080 -config gometric.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/njchilds90/gometric/internal/config"
	"github.com/njchilds90/gometric/internal/logging"
	"github.com/njchilds90/gometric/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "Path to a gometric.yaml config file")
	port := flag.Int("port", 0, "Port to listen on (overrides server.port)")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *port)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Development)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// loadConfig reads the config file and applies a non-zero port flag,
// validating the result again.
func loadConfig(path string, port int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if port != 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	dispatcher := tools.NewDispatcher(logger, tools.Defaults{
		MaxOrder: cfg.Notation.MaxOrder,
		UseDots:  cfg.Notation.UseDots,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, dispatcher),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gometric MCP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
