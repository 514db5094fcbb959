package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voicecart/backend/config"
	"github.com/voicecart/backend/internal/app"
	httpDelivery "github.com/voicecart/backend/internal/delivery/http"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is a development convenience; production gets real env vars
	if os.Getenv("VOICECART_SERVER_ENVIRONMENT") != "production" {
		if err := config.LoadEnvFile(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync(zlog)

	zlog.Info("starting VoiceCart backend",
		zap.String("version", domain.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Int("rate_limit_per_ip", cfg.RateLimit.PerIP),
		zap.Bool("parser_debug", cfg.Parser.DebugLogging))

	// Initialize cache and parse service
	application, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(application.ParseService, zlog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
