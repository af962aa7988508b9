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
	"go.uber.org/zap"

	"github.com/kailas-cloud/bcpredict/internal/config"
	"github.com/kailas-cloud/bcpredict/internal/db"
	dbRedis "github.com/kailas-cloud/bcpredict/internal/db/redis"
	logpkg "github.com/kailas-cloud/bcpredict/internal/logger"
	"github.com/kailas-cloud/bcpredict/internal/metrics"
	artifactrepo "github.com/kailas-cloud/bcpredict/internal/repository/artifact"
	"github.com/kailas-cloud/bcpredict/internal/repository/predcache"
	chiTransport "github.com/kailas-cloud/bcpredict/internal/transport/chi"
	healthuc "github.com/kailas-cloud/bcpredict/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/bcpredict/internal/usecase/prediction"
	"github.com/kailas-cloud/bcpredict/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	var logFile *logpkg.FileConfig
	if cfg.Logging.File != "" {
		logFile = &logpkg.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		}
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, logFile)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bcpredict API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model_source", cfg.Model.Source),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// The store is optional: only the store-backed artifact source and the
	// shared cache tier need it.
	var store db.Store
	if cfg.NeedsStore() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			Standalone: cfg.Database.Standalone,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()

		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("db_driver", cfg.Database.Driver),
			zap.Strings("db_addrs", cfg.Database.Addrs),
		)
		store = s
	}

	// Register prediction metrics explicitly (no init())
	metrics.RegisterPredictionMetrics()

	// Load the model once; the service refuses to start without it.
	var source artifactrepo.Source
	switch cfg.Model.Source {
	case config.SourceStore:
		source = artifactrepo.NewStoreSource(store, cfg.Model.StoreKey)
	default:
		source = artifactrepo.FileSource{Path: cfg.Model.Path}
	}
	provider := artifactrepo.NewProvider(source, cfg.Model.Name, logger)

	art, err := provider.Get(ctx)
	if err != nil {
		logger.Fatal("Failed to load model artifact",
			zap.Stringer("source", source),
			zap.Error(err),
		)
	}

	predictionSvc, err := predictionuc.New(art)
	if err != nil {
		logger.Fatal("Failed to build prediction service", zap.Error(err))
	}
	if cfg.Cache.Enabled {
		predictionSvc.WithCache(buildCache(cfg.Cache, store, logger))
	}

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(provider, pinger)

	server := chiTransport.NewServer(predictionSvc, healthSvc, chiTransport.Options{
		RootMessage:       cfg.HTTP.RootMessage,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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
		logger.Info("Starting HTTP server",
			zap.String("addr", addr),
			zap.String("model", predictionSvc.ModelName()),
			zap.Int("n_features", predictionSvc.FeatureNames().Len()),
		)
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

// buildCache assembles the prediction cache: in-process LRU, optionally
// backed by the shared store.
func buildCache(cfg config.CacheConfig, store db.Store, logger *zap.Logger) *predcache.Cache {
	var cache *predcache.Cache
	var err error
	if cfg.UseStore && store != nil {
		cache, err = predcache.New(cfg.Size, store, time.Duration(cfg.StoreTTLSec)*time.Second,
			metrics.PredictionCacheTotal, logger)
	} else {
		cache, err = predcache.New(cfg.Size, nil, 0, metrics.PredictionCacheTotal, logger)
	}
	if err != nil {
		logger.Fatal("Failed to create prediction cache", zap.Error(err))
	}
	logger.Info("Prediction cache enabled",
		zap.Int("size", cfg.Size),
		zap.Bool("shared", cfg.UseStore && store != nil),
	)
	return cache
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:   chiTransport.CodeInternal,
						Detail: "internal error",
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
