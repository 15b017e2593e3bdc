package api

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/handler"
	"vidros-backend/internal/app/middleware"
	"vidros-backend/internal/app/redis"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/storage"
	"vidros-backend/internal/pkg"

	"github.com/sirupsen/logrus"
)

// StartServer monta as dependências uma vez e injeta-as nos handlers
func StartServer() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	config.ConfigureLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()
	logrus.Info("database connected")

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	var photos handler.PhotoStorage
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			logrus.WithError(err).Warn("minio unavailable, file uploads disabled")
		} else {
			photos = minioClient
		}
	}

	authHandler := handler.NewAuthHandler(repo, cfg)
	apiHandler := handler.NewAPIHandler(repo, repo, photos, authHandler)

	app := pkg.NewApp(
		cfg,
		pkg.NewRouter(cfg),
		handler.NewHandler(),
		apiHandler,
		middleware.NewAuthMiddleware(cfg),
		limiter,
	)

	return app.RunApp(ctx)
}

// newLimiter Redis partilha a janela entre instâncias; sem Redis fica em memória
func newLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func()) {
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis)
		if err == nil {
			logrus.Info("rate limiter using redis")
			return client.SlidingWindow(cfg.RateLimit.Max, cfg.RateLimit.Window), func() { _ = client.Close() }
		}
		logrus.WithError(err).Warn("redis unavailable, using in-memory rate limiter")
	}
	return middleware.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window), func() {}
}
