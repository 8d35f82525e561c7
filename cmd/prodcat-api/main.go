package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/api"
	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/cache"
	"github.com/lzjever/prodcat/internal/observability"
	"github.com/lzjever/prodcat/internal/store"
	"github.com/lzjever/prodcat/internal/upload"
)

func main() {
	var cfg api.Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := observability.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Replace global logger
	zap.ReplaceGlobals(log)

	reg := prometheus.DefaultRegisterer
	observability.RegisterAll(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	rec := audit.NewRecorder(
		audit.NewDBSink(store.New(pool)),
		audit.NewFileSink(cfg.AuditLogPath),
		log.Named("audit"),
		audit.WithDefaultActor(cfg.DefaultActor),
	)

	// Redis is optional; without it /api/content is built on every request.
	rdb, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, content cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}
	content := cache.NewContentCache(rdb, cfg.ContentCacheTTL, log.Named("cache"))

	files := upload.NewLocalStorage(cfg.UploadDir)

	// Main API server
	apiHandler := api.NewAPI(pool, rec, files, content, cfg, log).Router()

	// Uploaded files are served from the upload root at the URLs stored in
	// the catalog.
	site := http.NewServeMux()
	site.Handle("/api/", apiHandler)
	site.Handle("/healthz", apiHandler)
	site.Handle("/readyz", apiHandler)
	site.Handle("/", http.FileServer(http.Dir(files.Root())))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      site,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	go func() {
		log.Info("metrics server starting", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("API server starting",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.Env),
			zap.String("audit_log", cfg.AuditLogPath),
			zap.Bool("content_cache", content != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down API server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("API server stopped")
}
