// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/llm"
	"github.com/reviewlens/reviewlens/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := llm.NewRegistry(context.Background(), cfg)

	store, err := cache.New(cfg.Cache.Directory)
	if err != nil {
		log.Fatalf("failed to open result cache: %v", err)
	}

	fetcher := github.NewFetcher(cfg.GitHub.Token)

	analyzer := analyzer.New(registry, store, fetcher)

	srv := server.New(*cfg, analyzer)
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"providers", len(registry.Available()),
	)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
