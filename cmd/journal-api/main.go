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
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/auth"
	"github.com/whispers-app/journal-api/internal/config"
	dbRedis "github.com/whispers-app/journal-api/internal/db/redis"
	logpkg "github.com/whispers-app/journal-api/internal/logger"
	"github.com/whispers-app/journal-api/internal/metrics"
	"github.com/whispers-app/journal-api/internal/repository/memlog"
	sessionrepo "github.com/whispers-app/journal-api/internal/repository/session"
	"github.com/whispers-app/journal-api/internal/transport/algolia"
	"github.com/whispers-app/journal-api/internal/transport/assemblyai"
	chiTransport "github.com/whispers-app/journal-api/internal/transport/chi"
	openaiGen "github.com/whispers-app/journal-api/internal/transport/openai"
	contextualuc "github.com/whispers-app/journal-api/internal/usecase/contextual"
	entryuc "github.com/whispers-app/journal-api/internal/usecase/entry"
	healthuc "github.com/whispers-app/journal-api/internal/usecase/health"
	promptuc "github.com/whispers-app/journal-api/internal/usecase/prompt"
	sessionuc "github.com/whispers-app/journal-api/internal/usecase/session"
	statsuc "github.com/whispers-app/journal-api/internal/usecase/stats"
	summaryuc "github.com/whispers-app/journal-api/internal/usecase/summary"
	"github.com/whispers-app/journal-api/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting journal API server",
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

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register collaborator metrics explicitly (no init())
	metrics.RegisterExternalMetrics()

	// External collaborators — composition root
	generator := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	index := algolia.New(&algolia.Config{
		AppID:     cfg.SearchIndex.AppID,
		APIKey:    cfg.SearchIndex.APIKey,
		SearchKey: cfg.SearchIndex.SearchKey,
		IndexName: cfg.SearchIndex.IndexName,
		Timeout:   time.Duration(cfg.SearchIndex.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	transcription := assemblyai.New(&assemblyai.Config{
		APIKey:     cfg.Transcription.APIKey,
		Timeout:    time.Duration(cfg.Transcription.TimeoutSec) * time.Second,
		ExpiresSec: cfg.Transcription.ExpiresSec,
	})
	logger.Info("External collaborators created",
		zap.String("generation_model", cfg.Generation.Model),
		zap.String("index_name", cfg.SearchIndex.IndexName),
	)

	// Repositories
	memory := memlog.New(store, cfg.Memory.Key, logger)
	sessions := sessionrepo.New(store)

	// Use case services
	searchSvc := contextualuc.New(generator, index, memory, metrics.MemoryCacheTotal, logger)
	summarySvc := summaryuc.New(generator, logger)
	sessionSvc := sessionuc.New(sessions, index, logger)
	entrySvc := entryuc.New(index, logger)
	statsSvc := statsuc.New(sessions, logger)
	promptSvc := promptuc.New()
	healthSvc := healthuc.New(store, generator)

	server := chiTransport.NewServer(
		searchSvc, summarySvc, sessionSvc, entrySvc,
		statsSvc, promptSvc, transcription, healthSvc,
		logger,
	)

	// Auth is disabled when no JWT secret is configured (local only).
	authMW := chiTransport.AuthMiddleware(nil)
	if cfg.Auth.JWTSecret != "" {
		authMW = chiTransport.AuthMiddleware(auth.NewVerifier(cfg.Auth.JWTSecret))
	} else {
		logger.Warn("JWT secret not set, authentication disabled")
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if !cfg.RateLimit.Disabled {
		r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
		// Token issuing gets a stricter bucket to slow down brute force.
		r.Use(strictPathLimiter(cfg.RateLimit.AuthRequestsPerMinute, "/token"))
	}
	r.Use(authMW)
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

// strictPathLimiter rate limits only the given paths, by IP.
func strictPathLimiter(requestsPerMinute int, paths ...string) func(next http.Handler) http.Handler {
	limited := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		limited[p] = struct{}{}
	}
	limiter := httprate.LimitByIP(requestsPerMinute, time.Minute)

	return func(next http.Handler) http.Handler {
		limitedNext := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := limited[r.URL.Path]; ok {
				limitedNext.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
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
