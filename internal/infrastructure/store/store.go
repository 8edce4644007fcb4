// Package store opens the user store and the session store selected by
// configuration.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/core/ports"
	"github.com/adminpanel/identity-api/internal/infrastructure/config"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/memory"
	mongostore "github.com/adminpanel/identity-api/internal/infrastructure/db/mongo"
	redisstore "github.com/adminpanel/identity-api/internal/infrastructure/db/redis"
	"github.com/adminpanel/identity-api/internal/infrastructure/db/sqlstore"
)

// Probe is a named connectivity check.
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

// Stores holds the opened adapters and what it takes to close them.
type Stores struct {
	Users    ports.UserRepository
	Sessions ports.SessionStore
	Probes   []Probe

	closers []func(context.Context) error
}

// Open connects the user store and, when withSessions is set, the session
// store. The memory driver keeps both in process.
func Open(ctx context.Context, cfg *config.Config, withSessions bool, log zerolog.Logger) (*Stores, error) {
	s := &Stores{}
	if err := s.openUsers(ctx, cfg, log); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	if withSessions {
		if err := s.openSessions(ctx, cfg); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

func (s *Stores) openUsers(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "identity-api",
		})
		if err != nil {
			return err
		}
		s.closers = append(s.closers, client.Disconnect)

		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		s.Users = repo
		s.Probes = append(s.Probes, Probe{Name: "mongodb", Ping: func(ctx context.Context) error {
			return mongostore.Ping(ctx, db)
		}})

	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.SQL.DatabaseURL
		if cfg.StoreDriver == config.DriverSQLite {
			dsn = cfg.SQL.SQLitePath
		}
		db, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.StoreDriver, DSN: dsn}, log.With().Str("component", "gorm").Logger())
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		s.Users = sqlstore.NewUserRepository(db)
		s.Probes = append(s.Probes, Probe{Name: cfg.StoreDriver, Ping: func(ctx context.Context) error {
			return sqlstore.Ping(ctx, db)
		}})

	case config.DriverMemory:
		s.Users = memory.NewUserRepository()

	default:
		return fmt.Errorf("store: unsupported driver %q", cfg.StoreDriver)
	}
	return nil
}

func (s *Stores) openSessions(ctx context.Context, cfg *config.Config) error {
	if cfg.StoreDriver == config.DriverMemory {
		s.Sessions = memory.NewSessionStore()
		return nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	s.Sessions = redisstore.NewSessionStore(client, cfg.TokenTTL)
	s.Probes = append(s.Probes, Probe{Name: "redis", Ping: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}})
	return nil
}

// Close releases connections in reverse order of opening.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
