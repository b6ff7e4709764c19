package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	apprisk "github.com/bryanwahyu/bcrisk/internal/application/risk"
	"github.com/bryanwahyu/bcrisk/internal/config"
	domain "github.com/bryanwahyu/bcrisk/internal/domain/risk"
	"github.com/bryanwahyu/bcrisk/internal/infra/classifier"
	"github.com/bryanwahyu/bcrisk/internal/infra/httpserver"
	"github.com/bryanwahyu/bcrisk/internal/infra/storage"
	"github.com/bryanwahyu/bcrisk/internal/logging"
)

func main() {
	// .env opsional, env asli tetap menang
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// load model sekali di awal, dipakai bersama oleh semua request
	model, err := classifier.New(cfg.Model.Type, cfg.Model.Path, cfg.Model.URL)
	if err != nil {
		logger.Fatal("classifier init error", zap.Error(err))
	}

	// results dir untuk unknown_predictions.csv
	if err := os.MkdirAll(cfg.Storage.ResultsDir, 0o755); err != nil {
		logger.Fatal("results dir error", zap.Error(err))
	}

	// init minio (opsional)
	var artifacts domain.ArtifactStore
	if cfg.Storage.Minio.Enabled {
		store, err := storage.NewMinio(ctx,
			cfg.Storage.Minio.Endpoint,
			cfg.Storage.Minio.Region,
			cfg.Storage.Minio.BucketName,
			cfg.Storage.Minio.AccessKey,
			cfg.Storage.Minio.SecretKey,
			cfg.Storage.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		artifacts = store
	}

	// init service
	svc := &apprisk.Service{
		Model:      model,
		Artifacts:  artifacts,
		Clock:      apprisk.SystemClock{},
		Log:        logger,
		ResultsDir: cfg.Storage.ResultsDir,
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("model_type", cfg.Model.Type),
			zap.String("model_path", cfg.Model.Path),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
