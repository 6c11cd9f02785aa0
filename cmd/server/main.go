// Command server runs the restoration tracker access-control API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/bcgov/restoration-tracker/internal/api"
	"github.com/bcgov/restoration-tracker/internal/app"
	"github.com/bcgov/restoration-tracker/internal/config"
	"github.com/bcgov/restoration-tracker/internal/db"
	"github.com/bcgov/restoration-tracker/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	writeDB, readDB, err := db.OpenSQLitePair(cfg.DBPath, 0)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := db.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	application, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}

	validator, err := buildValidator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("token validator: %w", err)
	}

	handler := api.NewHandler(application.Users, application.Participations, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		Authenticate: middleware.Authenticate(validator, application.Users, application.ServiceAccountID, logger),
		Decider:      application.Evaluator,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildValidator picks OIDC validation when an issuer or JWKS URL is
// configured, falling back to the shared HS256 dev secret otherwise.
func buildValidator(ctx context.Context, cfg *config.Config) (middleware.JWTValidator, error) {
	switch {
	case cfg.Auth.JWKSURL != "":
		return middleware.NewOIDCValidatorFromJWKS(ctx, cfg.Auth.JWKSURL, cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
	case cfg.Auth.IssuerURL != "":
		return middleware.NewOIDCValidator(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
	default:
		return middleware.NewHS256Validator(cfg.Auth.JWTSecret)
	}
}
