// Command api serves the blog HTTP API.
//
//	@title						Blog API
//	@version					1.0
//	@description				Authors, posts and comments with password, token and Google sign-in.
//	@BasePath					/
//	@securityDefinitions.basic	BasicAuth
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell/blog-api/internal/api"
	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/core/service"
	"github.com/inkwell/blog-api/internal/infrastructure/config"
	mongostore "github.com/inkwell/blog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/inkwell/blog-api/internal/infrastructure/db/redis"
	"github.com/inkwell/blog-api/internal/infrastructure/oauth"
	"github.com/inkwell/blog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("api exited")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	authors := mongostore.NewAuthorRepository(db)
	blogs := mongostore.NewBlogRepository(db)

	credentials := service.NewCredentialStore(authors, cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(credentials, authors, tokens, logger.For("auth")).
		WithLoginThrottle(redisstore.NewLoginThrottle(rdb, cfg.Auth.MaxFailures, cfg.Auth.FailureWindow))

	google := oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	}
	if google.Enabled() {
		authService.WithOAuth(oauth.NewGoogle(google), redisstore.NewStateStore(rdb, redisstore.DefaultStateTTL))
		log.Info().Msg("google sign-in enabled")
	}

	e := api.NewRouter(api.Deps{
		Log:         logger.For("http"),
		Auth:        authService,
		Authors:     service.NewAuthorService(authors, blogs, credentials, logger.For("authors")),
		Blogs:       service.NewBlogService(blogs, authors, logger.For("blogs")),
		Tokens:      tokens,
		Credentials: credentials,
		Checks: map[string]handler.Check{
			"mongo": mongostore.Ping(mongoClient),
			"redis": redisstore.Ping(rdb),
		},
		PublicBaseURL: cfg.PublicBaseURL,
		FrontendURL:   cfg.Google.FrontendURL,
		CORSOrigins:   cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
