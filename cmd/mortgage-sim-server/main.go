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

	"github.com/iwvelando/mortgage-sim/internal/cache"
	"github.com/iwvelando/mortgage-sim/internal/logging"
	"github.com/iwvelando/mortgage-sim/internal/server"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, closeStore := newCache(cfg.Cache, logger)
	defer closeStore()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadLimit(), version, store, cfg.Cache.TTLDuration()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", zap.String("op", "main"))
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// newCache selects the result store. A Redis server that cannot be reached at
// startup falls back to process memory.
func newCache(cfg server.CacheConfig, logger *zap.Logger) (cache.Repository, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}
	if cfg.RedisAddress == "" {
		return cache.NewMemoryCache(), func() {}
	}

	rc := cache.NewRedisCache(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, caching in memory",
			zap.String("op", "main"),
			zap.String("address", cfg.RedisAddress),
			zap.Error(err),
		)
		_ = rc.Close()
		return cache.NewMemoryCache(), func() {}
	}
	return rc, func() { _ = rc.Close() }
}
