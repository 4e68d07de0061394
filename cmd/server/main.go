package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/recipe-engine/backend/internal/api"
	"github.com/recipe-engine/backend/internal/config"
	"github.com/recipe-engine/backend/internal/engine"
	"github.com/recipe-engine/backend/internal/logging"
	"github.com/recipe-engine/backend/internal/storage"
)

func main() {
	// 1. Config
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("Failed to load environment: %v", err)
	}
	cfg := config.Load()

	// Setup Logging
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	entry := logger.WithField("service", "recipe-api")

	if err := cfg.Validate(); err != nil {
		entry.Fatalf("Invalid configuration: %v", err)
	}
	entry.Info("Starting Recipe Recommendation API Service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	store, err := storage.New(ctx, cfg.Artifacts)
	if err != nil {
		entry.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// 3. Engine
	eng, err := engine.Load(ctx, store, cfg, entry.WithField("component", "engine"))
	if err != nil {
		entry.Fatalf("Failed to load recommendation engine: %v", err)
	}

	// 4. API Server
	server := api.NewServer(eng, cfg.Server, entry.WithField("component", "api"))
	if err := server.Run(ctx); err != nil {
		entry.Fatal(err)
	}
	entry.WithField("addr", cfg.Server.Addr).Info("API Server stopped")
}
