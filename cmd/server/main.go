package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/meur/logroll/internal/api"
	"github.com/meur/logroll/internal/cache"
	"github.com/meur/logroll/internal/config"
	"github.com/meur/logroll/internal/roll"
	"github.com/meur/logroll/internal/temple"
	"github.com/meur/logroll/internal/wiki"
)

func main() {
	// Parse flags
	configPath := flag.String("config", getEnv("LOGROLL_CONFIG", "logroll.yaml"), "Config file path")
	port := flag.String("port", getEnv("PORT", ""), "Server port (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Wire the pipeline
	store := cache.New(cfg.Wiki.CachePath, logger)
	scraper := wiki.New(cfg.Wiki.URL, cfg.Wiki.UserAgent, logger)
	players := temple.NewClient(cfg.Temple.BaseURL, temple.Options{
		UserAgent: cfg.Temple.UserAgent,
		Timeout:   cfg.TempleTimeout(),
		CacheDir:  cfg.Temple.CacheDir,
		CacheTTL:  cfg.TempleCacheTTL(),
	}, logger)

	// Warm the catalog before serving. Failure is not fatal; handlers retry
	// on demand and fall back to an error response.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if catalog, err := cache.EnsureCatalog(ctx, store, scraper); err != nil {
		logger.Warn("could not warm catalog, will retry per request", "error", err)
	} else {
		logger.Info("catalog ready", "unique_items", catalog.Len(), "total_slots", catalog.TotalSlots)
	}
	cancel()

	server := api.New(store, scraper, players, roll.New(), logger)

	logger.Info("collection log roller listening", "addr", "http://localhost:"+cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
