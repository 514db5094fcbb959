// Command mcp serves the VoiceCart tools over the MCP stdio transport.
package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/voicecart/backend/config"
	"github.com/voicecart/backend/internal/app"
	mcpDelivery "github.com/voicecart/backend/internal/delivery/mcp"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/logger"
	"go.uber.org/zap"
)

func main() {
	// stdout carries the protocol; keep the std logger on stderr
	log.SetOutput(os.Stderr)

	if os.Getenv("VOICECART_SERVER_ENVIRONMENT") != "production" {
		if err := config.LoadEnvFile(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync(zlog)

	application, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	srv := mcpDelivery.NewServer(application.ParseService, domain.Version)

	zlog.Info("serving MCP over stdio")
	if err := server.ServeStdio(srv); err != nil {
		zlog.Error("mcp server stopped", zap.Error(err))
	}
}
