package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Rankboard/internal/api"
	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/config"
	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
	"github.com/MikeSquared-Agency/Rankboard/internal/hermes"
	"github.com/MikeSquared-Agency/Rankboard/internal/store"
)

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Processing-time store
	var st store.Store
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		st = db
		logger.Info("connected to database")
	} else {
		st = store.NewMemoryStore()
		logger.Info("no database configured, keeping processing times in memory")
	}
	defer st.Close()

	// Hermes (optional)
	var hermesClient hermes.Client = hermes.Noop{}
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	backendClient := backend.NewHTTPClient(cfg.Backend.URL, cfg.Backend.Token, cfg.BackendTimeout(), logger)

	svc := dashboard.New(backendClient, hermesClient, st, cfg, logger)
	svc.Start(ctx)
	defer svc.Stop()
	svc.SetupSubscriptions()
	logger.Info("dashboard started",
		"backend", cfg.Backend.URL,
		"cache_ttl", cfg.CacheTTL(),
		"duplicates", svc.DuplicateMode(),
		"origin", svc.Origin(),
	)

	// API server
	router := api.NewRouter(svc, cfg.Server, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
