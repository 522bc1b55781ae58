//	@title			Upload Gallery API
//	@version		1.0
//	@description	Signed direct-to-host image uploads and the gallery of recent uploads.
//
//	@host		localhost:3000
//	@BasePath	/api

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

	"go.uber.org/zap"

	"github.com/uploadgallery/service/internal/config"
	"github.com/uploadgallery/service/internal/db"
	"github.com/uploadgallery/service/internal/image"
	"github.com/uploadgallery/service/internal/logger"
	"github.com/uploadgallery/service/internal/server"
	"github.com/uploadgallery/service/internal/signature"
	"github.com/uploadgallery/service/internal/storage"
	"github.com/uploadgallery/service/internal/web"

	_ "github.com/uploadgallery/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	l, err := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Path:        cfg.LogPath,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = l.Sync() }()

	if err := cfg.Validate(); err != nil {
		l.Fatal("configuration rejected", zap.Error(err))
	}

	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, cfg, l)
	if err != nil {
		l.Fatal("database init failed", zap.Error(err))
	}
	defer closeRepo()

	var opts []image.Option
	if cfg.RedisURL != "" {
		cache, err := image.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			l.Fatal("redis cache init failed", zap.Error(err))
		}
		defer cache.Close()
		opts = append(opts, image.WithCache(cache))
		l.Info("gallery cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	signer, err := newSigner(ctx, cfg, l)
	if err != nil {
		l.Fatal("upload provider init failed", zap.Error(err))
	}

	// Wire dependencies: repository → service → handler
	imageSvc := image.NewService(repo, l, opts...)
	imageHandler := image.NewHandler(imageSvc, l)

	sigSvc := signature.NewService(signer, nil)
	sigHandler := signature.NewHandler(sigSvc, l)

	page, err := web.NewPage(imageSvc, time.Local, l)
	if err != nil {
		l.Fatal("page template init failed", zap.Error(err))
	}

	r := server.NewRouter(server.Deps{
		Signature:      sigHandler,
		Images:         imageHandler,
		Page:           page,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         l,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		l.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("provider", cfg.UploadProvider),
			zap.String("backend", cfg.DatabaseBackend()),
		)
		l.Info("swagger UI", zap.String("url", fmt.Sprintf("http://localhost:%s/swagger/", cfg.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	l.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("forced shutdown", zap.Error(err))
		return
	}

	l.Info("server stopped")
}

// openRepository connects the backend named by the database URL scheme, runs
// its migrations and returns a release func for shutdown.
func openRepository(ctx context.Context, cfg *config.Config, l *zap.Logger) (image.Repository, func(), error) {
	switch cfg.DatabaseBackend() {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, l)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(cfg.DatabaseURL, l); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return image.NewPostgresRepository(pool), pool.Close, nil

	case config.BackendMemory:
		l.Warn("using in-memory store; records are lost on restart")
		return image.NewMemoryRepository(), func() {}, nil

	default:
		client, err := db.ConnectMongo(ctx, cfg.DatabaseURL, l)
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				l.Warn("mongodb disconnect", zap.Error(err))
			}
		}
		if err := db.MigrateMongo(cfg.DatabaseURL, cfg.DatabaseName, l); err != nil {
			disconnect()
			return nil, nil, err
		}
		return image.NewMongoRepository(client.Database(cfg.DatabaseName)), disconnect, nil
	}
}

func newSigner(ctx context.Context, cfg *config.Config, l *zap.Logger) (signature.Signer, error) {
	if cfg.UploadProvider == config.ProviderS3 {
		store, err := storage.NewMinioStorage(ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageRegion,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
			l,
		)
		if err != nil {
			return nil, err
		}
		return signature.NewS3Signer(store, cfg.StoragePolicyTTL, cfg.StorageMaxUpload), nil
	}

	return signature.NewCloudinarySigner(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryAPIBase,
	), nil
}
