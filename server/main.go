package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndelchev/newsfront/internal/cache"
	"github.com/ndelchev/newsfront/internal/cms"
	"github.com/ndelchev/newsfront/internal/config"
	"github.com/ndelchev/newsfront/internal/logger"
	"github.com/ndelchev/newsfront/internal/render"
	"github.com/ndelchev/newsfront/internal/search"
)

func main() {
	log := logger.New("server")
	cfg, err := config.LoadServer()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := search.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	// The cache is optional; the site works without Redis, only slower.
	var store *cache.Client
	if cfg.RedisAddr != "" {
		store, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, log)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", slog.Any("err", err))
			store = nil
		}
	}

	tmpl, err := newTemplates()
	if err != nil {
		log.Error("parse templates", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:   log,
		cfg:   cfg,
		cms:   cms.New(cfg.CMSEndpoint, cfg.CMSTimeout, log),
		index: esClient,
		cache: store,
		rnd:   render.New(log),
		tmpl:  tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", srv.handleHome)
	r.Get("/health", srv.handleHealth)
	r.Get("/search", srv.handleSearch)
	r.Get("/api/breaking-news", srv.handleBreakingNews)
	r.Get("/{category}", srv.handleCategory)
	r.Get("/{category}/{topic}", srv.handleTopic)
	r.Get("/{category}/{topic}/{slug}", srv.handleArticle)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
	if store != nil {
		_ = store.Close()
	}
}
