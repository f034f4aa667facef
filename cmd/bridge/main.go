package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/workflowkit/notion-bridge/internal/bridge"
	"github.com/workflowkit/notion-bridge/internal/config"
	"github.com/workflowkit/notion-bridge/internal/identity"
	"github.com/workflowkit/notion-bridge/internal/notion"
	"github.com/workflowkit/notion-bridge/internal/server"
	"github.com/workflowkit/notion-bridge/internal/slack"
	"github.com/workflowkit/notion-bridge/internal/storage"
	sqlitestore "github.com/workflowkit/notion-bridge/internal/storage/sqlite"
	"github.com/workflowkit/notion-bridge/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize OpenTelemetry
	shutdownTracer, err := telemetry.InitTracer("notion-bridge", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var notionOpts []notion.ClientOption
	if cfg.Notion.BaseURL != "" {
		notionOpts = append(notionOpts, notion.WithBaseURL(cfg.Notion.BaseURL))
	}
	notionClient := notion.NewClient(cfg.Notion.Token, notionOpts...)

	var slackOpts []slack.ClientOption
	if cfg.Slack.BaseURL != "" {
		slackOpts = append(slackOpts, slack.WithBaseURL(cfg.Slack.BaseURL))
	}
	slackClient := slack.NewClient(cfg.Slack.Token, slackOpts...)

	directory := identity.NewDirectory(notionClient, identity.WithTTL(cfg.CacheTTL()))
	resolver := identity.NewResolver(slackClient, directory)

	var store storage.InvocationStore
	var bridgeOpts []bridge.Option
	if cfg.Storage.Path != "" {
		s, err := sqlitestore.New(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open invocation store: %v", err)
		}
		defer s.Close()
		store = s
		bridgeOpts = append(bridgeOpts, bridge.WithStore(store))
	}

	b := bridge.New(notionClient, resolver, bridgeOpts...)
	handler := bridge.NewHandler(b, store)

	srv := server.New(cfg.Server.Port, logger)
	srv.Router.Post("/v1/functions/create_item", handler.HandleCreateItem)
	srv.Router.Post("/v1/functions/update_item", handler.HandleUpdateItem)
	srv.Router.Get("/v1/invocations", handler.HandleListInvocations)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-sigChan:
		logger.Info("shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server shutdown complete")
}
