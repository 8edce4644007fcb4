// @title                       Identity API
// @version                     1.0
// @description                 User registration, authentication and admin user management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/adminpanel/identity-api/internal/api"
	"github.com/adminpanel/identity-api/internal/api/handler"
	"github.com/adminpanel/identity-api/internal/core/service"
	"github.com/adminpanel/identity-api/internal/infrastructure/config"
	"github.com/adminpanel/identity-api/internal/infrastructure/store"
	"github.com/adminpanel/identity-api/pkg/logger"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "identity-api",
		Version: version,
	})

	stores, err := store.Open(ctx, cfg, true, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open stores")
	}

	checks := make([]handler.Check, 0, len(stores.Probes))
	for _, p := range stores.Probes {
		checks = append(checks, handler.Check{Name: p.Name, Ping: p.Ping})
	}

	e := api.NewRouter(api.Deps{
		Users:        stores.Users,
		Sessions:     stores.Sessions,
		Hasher:       service.NewBcryptHasher(cfg.BcryptCost),
		Tokens:       service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Logger:       log,
		Checks:       checks,
		Version:      version,
		Environment:  cfg.Env,
		SecureCookie: cfg.CookieSecure,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("http server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := stores.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close stores")
	}
	log.Info().Msg("server stopped")
}
