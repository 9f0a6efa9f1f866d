// Package main is the entry point for the volunteer matching API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/voluntarios/foodbank/internal/api"
	"github.com/voluntarios/foodbank/internal/cache"
	"github.com/voluntarios/foodbank/internal/config"
	"github.com/voluntarios/foodbank/internal/health"
	"github.com/voluntarios/foodbank/internal/matching"
	"github.com/voluntarios/foodbank/internal/middleware"
	"github.com/voluntarios/foodbank/internal/roster"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Food Bank Volunteer Matching API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	// Store: Postgres when configured, in-memory otherwise.
	var store roster.Store
	var dbChecker api.HealthChecker
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		store = roster.NewPostgresStore(db, logger)
		dbChecker = health.NewDBChecker(db)
		logger.Info("using Postgres store")
	} else {
		store = roster.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Cache: Redis when configured, in-process otherwise.
	var matchCache cache.Cache
	var cacheChecker api.HealthChecker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}()
		matchCache = cache.NewRedisCache(client)
		cacheChecker = health.NewRedisChecker(client)
		logger.Info("using Redis match cache", "addr", cfg.RedisAddr)
	} else {
		matchCache = cache.NewMemoryCache()
		logger.Warn("REDIS_ADDR not set, using in-process match cache")
	}

	// Scoring weights, optionally calibrated from a JSON file.
	weights := matching.DefaultWeights()
	if cfg.MatchCalibrationPath != "" {
		loaded, err := matching.LoadCalibration(cfg.MatchCalibrationPath)
		if err != nil {
			logger.Warn("failed to load calibration, using defaults",
				"path", cfg.MatchCalibrationPath, "error", err)
		}
		weights = loaded
	}

	// Metrics registry with matching and HTTP collectors.
	registry := prometheus.NewRegistry()
	matchMetrics := matching.NewMetrics()
	if err := matchMetrics.Register(registry); err != nil {
		logger.Error("failed to register matching metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register HTTP metrics", "error", err)
		os.Exit(1)
	}

	engine := matching.NewEngine(store, matchCache, matching.EngineConfig{
		Weights:        weights,
		Metrics:        matchMetrics,
		Logger:         logger,
		CacheTTL:       time.Duration(cfg.MatchCacheTTLMinutes) * time.Minute,
		ScoreThreshold: cfg.MatchScoreThreshold,
		MaxResults:     cfg.MatchMaxResults,
	})

	matchHandlers := api.NewMatchHandlers(engine, store)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		CacheChecker: cacheChecker,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandlers.Health)
	mux.HandleFunc("GET /ready", healthHandlers.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /events/{id}/matches", matchHandlers.MatchVolunteersForEvent)
	mux.HandleFunc("GET /volunteers/{id}/matches", matchHandlers.MatchEventsForVolunteer)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"foodbank-matching-api","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Apply middleware: RequestID -> Logging -> HTTPMetrics
	handler := middleware.RequestID(
		middleware.Logging(logger)(
			middleware.HTTPMetrics(httpMetrics)(mux)))

	port := strconv.Itoa(cfg.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
