// brokerd serves the matrimonial brokerage: HTTP API, vetting pipeline
// orchestration, and the negotiation engine.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rishta-council/brokerd/pkg/api"
	"github.com/rishta-council/brokerd/pkg/broker"
	"github.com/rishta-council/brokerd/pkg/config"
	"github.com/rishta-council/brokerd/pkg/events"
	"github.com/rishta-council/brokerd/pkg/pipeline"
	"github.com/rishta-council/brokerd/pkg/reasoning"
	"github.com/rishta-council/brokerd/pkg/store"
	"github.com/rishta-council/brokerd/pkg/tools"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env from the config directory; absence is fine.
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("Starting brokerd",
		"http_port", cfg.HTTP.Port,
		"db_path", cfg.Database.Path,
		"config_dir", *configDir)

	// 2. Store
	st, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Error closing store", "error", err)
		}
	}()

	if err := st.Seed(ctx, cfg.Seed.Grooms, cfg.Seed.Brides, nil); err != nil {
		logger.Error("Failed to seed profiles", "error", err)
		os.Exit(1)
	}

	// 3. Reasoning client
	client := reasoning.NewHTTPClient(cfg.Reasoning.Endpoint, cfg.Reasoning.Timeout)
	defer func() { _ = client.Close() }()

	// 4. Tool dispatcher and catalogue
	scorer, err := tools.NewUtilityScorer(cfg.Scoring.Expression, cfg.Scoring.SuccessThreshold)
	if err != nil {
		logger.Error("Failed to compile utility expression", "error", err)
		os.Exit(1)
	}

	dispatcher := tools.NewDispatcher(st, &events.LogPublisher{Logger: logger}, logger)
	catalogue := &tools.Catalogue{
		Store:   st,
		Scorer:  scorer,
		Vetting: cfg.Vetting,
		Logger:  logger,
		Intn:    rand.Intn,
	}
	if err := catalogue.Register(dispatcher); err != nil {
		logger.Error("Failed to register tools", "error", err)
		os.Exit(1)
	}
	logger.Info("Tools registered", "tools", dispatcher.Names())

	// 5. Orchestration engine and session manager
	composer := pipeline.NewComposer(cfg)
	engine := broker.NewEngine(composer, client, dispatcher, logger)
	sessions := broker.NewSessionManager()

	// 6. HTTP server, runs until SIGINT/SIGTERM
	server := api.NewServer(cfg.HTTP, engine, sessions, st, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
