package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const (
	ingredientCacheSize = 4096
	revokedTokenLimit   = 100000
	limiterKeyLimit     = 10000
)

func main() {
	logger.Init("foodgram-api", config.IsDevelopment())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	tokens, limiter := sessionBackends(ctx, cfg)

	images, mediaRoot := imageStore(ctx, cfg)

	store := repository.NewGormStore(db)
	ingredients, err := service.NewIngredientService(store, ingredientCacheSize)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create ingredient service")
	}

	srv := server.New(cfg, db, api.Services{
		Auth:                service.NewAuthService(store, tokens, cfg.JWTSecret, cfg.TokenTTL),
		Users:               service.NewUserService(store, images),
		Ingredients:         ingredients,
		Recipes:             service.NewRecipeService(store, images, cfg.BaseURL),
		Relations:           service.NewRelationService(store, images),
		ShoppingList:        service.NewShoppingListService(store),
		RecipeCreateLimiter: limiter,
	}, server.Options{MediaRoot: mediaRoot})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Logger.Info().Str("signal", sig.String()).Msg("received signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server shutdown error")
	}
	logger.Logger.Info().Msg("server stopped")
}

// sessionBackends uses Redis for token revocation and rate limiting when it
// is configured, and per-process fallbacks otherwise.
func sessionBackends(ctx context.Context, cfg *config.Config) (service.TokenStore, middleware.Limiter) {
	limitCfg := middleware.RecipeCreationConfig(cfg.RecipeCreateLimit, cfg.RecipeCreateWindow)

	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		return service.NewRedisTokenStore(client), middleware.NewRedisLimiter(client, limitCfg)
	}

	logger.Logger.Warn().Msg("redis not configured, using in-process token revocation and rate limiting")
	tokens, err := service.NewMemoryTokenStore(revokedTokenLimit)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create token store")
	}
	limiter, err := middleware.NewLocalLimiter(limitCfg, limiterKeyLimit)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create rate limiter")
	}
	return tokens, limiter
}

// imageStore returns the configured backend and, for local storage, the
// directory the server should expose under MEDIA_URL.
func imageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string) {
	switch cfg.StorageBackend {
	case "s3":
		s3cfg, err := cfg.NewS3Config(ctx)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to configure S3")
		}
		if err := s3cfg.BucketExists(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to reach S3 bucket")
		}
		return storage.NewS3Store(s3cfg), ""
	default:
		local, err := storage.NewLocalStore(cfg.MediaRoot, cfg.BaseURL+cfg.MediaURL)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to prepare media directory")
		}
		return local, local.Root()
	}
}
