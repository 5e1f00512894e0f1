package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/config"
)

type Server struct {
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
	analyzer *analyzer.Analyzer
}

func New(cfg config.Config, analyzer *analyzer.Analyzer) *Server {
	s := &Server{
		cfg:      cfg.Server,
		router:   chi.NewRouter(),
		analyzer: analyzer,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	// Provider round trips dominate; the timeout covers a full fan-out.
	s.router.Use(middleware.Timeout(2 * time.Minute))

	// The dashboard is a static bundle; it only renders these responses.
	fs := http.FileServer(http.Dir("web/static"))
	s.router.Handle("/*", fs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/providers", s.handleProviders)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/all", s.handleAnalyzeAll)
		r.Post("/analyze/repository", s.handleAnalyzeRepository)
		r.Post("/compare", s.handleCompare)
		r.Get("/health", s.handleHealth)
	})
}

func (s *Server) Run() error {
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("starting shutdown", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
