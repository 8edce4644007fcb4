// Command seed-users creates the default admin and regular accounts. Existing
// emails are left untouched, so it is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
	"github.com/adminpanel/identity-api/internal/core/service"
	"github.com/adminpanel/identity-api/internal/infrastructure/config"
	"github.com/adminpanel/identity-api/internal/infrastructure/store"
	"github.com/adminpanel/identity-api/pkg/logger"
)

const defaultPassword = "password"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed-users"})

	if cfg.StoreDriver == config.DriverMemory {
		log.Fatal().Msg("seeding the memory driver has no lasting effect; pick mongo, postgres or sqlite")
	}

	stores, err := store.Open(ctx, cfg, false, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer stores.Close(context.Background())

	admin := service.NewAdminService(stores.Users, service.NewBcryptHasher(cfg.BcryptCost), log)

	created := 0
	for _, seed := range defaultUsers() {
		_, err := admin.CreateUser(ctx, seed)
		switch {
		case err == nil:
			created++
			log.Info().Str("email", *seed.Email).Strs("roles", seed.Roles).Msg("user created")
		case errors.Is(err, domain.ErrDuplicateEmail):
			log.Info().Str("email", *seed.Email).Msg("user already exists, skipping")
		default:
			log.Error().Err(err).Str("email", *seed.Email).Msg("create user")
			os.Exit(1)
		}
	}

	log.Info().Int("created", created).Msg("seeding finished")
}

func defaultUsers() []ports.UserFields {
	return []ports.UserFields{
		seed("admin@example.com", "admin", "Admin", "User", domain.RoleAdmin, domain.RoleUser),
		seed("user@example.com", "user", "Regular", "User", domain.RoleUser),
	}
}

func seed(email, username, first, last string, roles ...string) ports.UserFields {
	password := defaultPassword
	active := true
	return ports.UserFields{
		Email:     &email,
		Username:  &username,
		Password:  &password,
		FirstName: &first,
		LastName:  &last,
		Roles:     roles,
		IsActive:  &active,
	}
}
