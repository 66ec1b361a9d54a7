package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covidash/internal"
	"covidash/internal/config"
	"covidash/internal/container"
	"covidash/ui"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load application configuration (reads .env when present)
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.GinMode)

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	defer func() { _ = logger.Sync() }()

	// Create dependency injection container
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial load; failed datasets are reported and can be reloaded via the API
	if _, err := appContainer.Dashboard.Reload(ctx); err != nil {
		logger.Error("Initial dataset load interrupted: %v", err)
		return
	}

	// Start pprof server for performance profiling
	if appConfig.PprofEnabled {
		go func() {
			logger.Info("Performance profiling server starting on :%s", appConfig.PprofPort)
			if err := http.ListenAndServe(":"+appConfig.PprofPort, nil); err != nil {
				logger.Error("pprof server failed: %v", err)
			}
		}()
	}

	server := ui.NewServer(appContainer.Dashboard, appContainer.Metrics, logger).HTTPServer(appConfig.Addr())
	go func() {
		logger.Info("Starting COVID-19 dashboard API on http://localhost%s", appConfig.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
