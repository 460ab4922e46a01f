package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hansardlab/policyrag/internal/config"
	dbRedis "github.com/hansardlab/policyrag/internal/db/redis"
	"github.com/hansardlab/policyrag/internal/domain"
	logpkg "github.com/hansardlab/policyrag/internal/logger"
	"github.com/hansardlab/policyrag/internal/metrics"
	catalogrepo "github.com/hansardlab/policyrag/internal/repository/catalog"
	"github.com/hansardlab/policyrag/internal/repository/embcache"
	snippetrepo "github.com/hansardlab/policyrag/internal/repository/snippet"
	chiTransport "github.com/hansardlab/policyrag/internal/transport/chi"
	openaiProv "github.com/hansardlab/policyrag/internal/transport/openai"
	billsuc "github.com/hansardlab/policyrag/internal/usecase/bills"
	cataloguc "github.com/hansardlab/policyrag/internal/usecase/catalog"
	healthuc "github.com/hansardlab/policyrag/internal/usecase/health"
	positionuc "github.com/hansardlab/policyrag/internal/usecase/position"
	"github.com/hansardlab/policyrag/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting policyrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	// Build the embedder chain — composition root
	baseEmbedder := openaiProv.NewEmbedder(&openaiProv.EmbedderConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.EmbeddingDimensions,
		Timeout:    time.Duration(cfg.OpenAI.RequestTimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = baseEmbedder
	if cfg.OpenAI.CacheEmbeddings {
		embedder = embcache.New(
			baseEmbedder, store,
			cfg.Retrieval.KeyPrefix, cfg.OpenAI.EmbeddingModel,
			metrics.EmbeddingCacheTotal, logger,
		)
		logger.Info("Embedding cache enabled")
	}

	summarizer := openaiProv.NewSummarizer(&openaiProv.SummarizerConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.SummaryModel,
		Timeout: time.Duration(cfg.OpenAI.RequestTimeoutSec) * time.Second,
		Logger:  logger,
	})

	logger.Info("Providers created",
		zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
		zap.String("summary_model", cfg.OpenAI.SummaryModel),
		zap.Int("dimensions", cfg.OpenAI.EmbeddingDimensions),
	)

	// Repositories
	snippetRepo := snippetrepo.New(store, cfg.Retrieval.KeyPrefix)
	catalogRepo := catalogrepo.New(store, cfg.Retrieval.KeyPrefix, logger)

	// Use case services
	positionSvc := positionuc.New(
		embedder, snippetRepo, summarizer,
		cfg.Retrieval.PositionsIndex, cfg.Retrieval.PositionsTopK,
	)
	billsSvc := billsuc.New(
		embedder, snippetRepo,
		cfg.Retrieval.BillsIndex, cfg.Retrieval.BillsTopK,
	)
	catalogSvc := cataloguc.New(catalogRepo)
	healthSvc := healthuc.New(store, baseEmbedder)

	server := chiTransport.NewServer(positionSvc, billsSvc, catalogSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
