package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oncofeed/oncofeed/app/api"
	"github.com/oncofeed/oncofeed/app/cfg"
	"github.com/oncofeed/oncofeed/app/database"
	"github.com/oncofeed/oncofeed/app/enrichment"
	"github.com/oncofeed/oncofeed/app/feed"
	"github.com/oncofeed/oncofeed/app/ingest"
	"github.com/oncofeed/oncofeed/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting OncoFeed server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	feedRepo := database.NewFeedRepository(db)
	articleRepo := database.NewArticleRepository(db)
	categoryRepo := database.NewCategoryRepository(db)

	classifier, err := feed.NewClassifier()
	if err != nil {
		slog.Error("Failed to load category taxonomy", "error", err)
		os.Exit(1)
	}

	var completionClient enrichment.CompletionClient
	if client := enrichment.NewCohereClient(appCfg.EnrichmentAPIKey, appCfg.EnrichmentModel); client != nil {
		completionClient = client
		slog.Info("Article enrichment enabled", "model", appCfg.EnrichmentModel)
	} else {
		slog.Warn("COHERE_API_KEY not set, articles will use fallback summaries")
	}

	service := ingest.NewService(
		feed.NewFetcher(&http.Client{}, appCfg.UserAgent, time.Duration(appCfg.FetchTimeout)*time.Second),
		feed.NewParser(),
		classifier,
		feed.NewPageExtractor(),
		enrichment.NewEnricher(completionClient),
		feedRepo,
		articleRepo,
		categoryRepo,
	)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "tick_interval", appCfg.TickInterval)
	scheduler := tasks.NewScheduler(service, feedRepo)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(service, feedRepo, articleRepo, categoryRepo, scheduler)
	router := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
