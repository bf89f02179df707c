package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammadpnp/roster-import/internal/bootstrap"
	"github.com/mohammadpnp/roster-import/internal/config"
	"github.com/mohammadpnp/roster-import/internal/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure logging: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, pool, err := bootstrap.OpenPostgres(ctx, cfg)
	if err != nil {
		logging.LogError(logger, "api", "main", "open database", nil, err)
		os.Exit(1)
	}
	defer pool.Close()

	locker, closeLocker, err := bootstrap.NewRunLocker(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "api", "main", "connect redis", cfg.Redis.Address, err)
		os.Exit(1)
	}
	defer closeLocker()

	importer := bootstrap.NewPostgresImporter(cfg, db, pool, locker, logger)
	server := bootstrap.NewHTTPServer(importer, logger)

	go func() {
		logger.WithField("port", cfg.Port).Info("http server listening")
		if err := server.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "api", "main", "serve http", nil, err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "api", "main", "graceful shutdown", nil, err)
		os.Exit(1)
	}
	logger.Info("http server stopped")
}
