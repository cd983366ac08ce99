package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/bridge"
	"github.com/jojohnathon/canvas-mcp/internal/canvas"
	"github.com/jojohnathon/canvas-mcp/internal/config"
	"github.com/jojohnathon/canvas-mcp/internal/handler"
	"github.com/jojohnathon/canvas-mcp/internal/mcp"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The stdio transport owns stdout, so process logs go to stderr.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppEnv == "production" {
		logger = logger.Level(zerolog.InfoLevel)
	}

	client, err := canvas.New(canvas.Config{
		BaseURL:        cfg.BaseURL,
		APIToken:       cfg.APIToken,
		RequestTimeout: cfg.RequestTimeout,
		PageSize:       cfg.PageSize,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create canvas client: %v", err)
	}

	registry := tools.NewRegistry(logger)
	handler.RegisterAll(registry, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var app *fiber.App
	if address := cfg.HTTPAddress(); address != "" {
		app = bridge.New(registry, cfg.AppName, logger).App()
		go func() {
			logger.Info().Str("address", address).Msg("http bridge listening")
			if err := app.Listen(address); err != nil {
				logger.Error().Err(err).Msg("http bridge stopped")
			}
		}()
	}

	server := mcp.NewServer(registry, cfg.AppName, version, logger)
	logger.Info().Int("tools", len(registry.List())).Msg("mcp server ready on stdio")
	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("mcp server stopped")
	}

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("graceful bridge shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
}
