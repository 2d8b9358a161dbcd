// Package app boots the collaborators every CLI command shares: config,
// the base logger and the selected store driver.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close(ctx)
//	return a.Serve(ctx)
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/database/seeders"
	"github.com/jantrick/jantrick/internal/kernel"
	"github.com/jantrick/jantrick/internal/server"
	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/cache"
	"github.com/jantrick/jantrick/pkg/database"
	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/migration"
	"github.com/jantrick/jantrick/pkg/payment"
)

// ErrNoDatabase is returned by commands that need MongoDB when the memory
// driver is selected.
var ErrNoDatabase = errors.New("app: command requires DB_DRIVER=mongo")

// Application holds the booted collaborators.
type Application struct {
	Config *config.Config
	Stores repositories.Stores

	client *mongo.Client
	db     *mongo.Database
	redis  *redis.Client
}

// Boot loads config from the given dotenv paths (".env" by default),
// installs the logger and opens the store.
func Boot(ctx context.Context, envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// New is Boot with an already loaded config.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger.New(cfg.AppEnv)

	a := &Application{Config: cfg}
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		a.Stores = repositories.NewMemoryStores()
	} else {
		client, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.client = client
		a.db = database.Database(client, cfg)
		a.Stores = repositories.NewMongoStores(a.db)
		logger.Info("connected to MongoDB", "database", cfg.DBName)
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unreachable, cache and rate limiter fail open until it recovers",
				"addr", cfg.RedisAddr, "error", err)
		}
		a.redis = rdb
		if cfg.CacheTTL > 0 {
			a.Stores.Tools = repositories.WithToolCache(a.Stores.Tools, cache.New(rdb, "jantrick:", cfg.CacheTTL))
		}
	}
	return a, nil
}

// Close releases the database and Redis connections.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.client != nil {
		errs = append(errs, a.client.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

// Migrator returns a runner over the registered migrations.
func (a *Application) Migrator() (*migration.Runner, error) {
	if a.db == nil {
		return nil, ErrNoDatabase
	}
	return migration.New(a.db, migration.Default), nil
}

// Processor returns the Stripe processor, or one that rejects every intent
// when no secret key is configured.
func (a *Application) Processor() payment.Processor {
	if a.Config.PaymentSecretKey == "" {
		logger.Warn("STRIP_SECRET_KEY is not set, payment intents will fail")
		return payment.Unconfigured{}
	}
	return payment.NewStripe(a.Config.PaymentSecretKey, nil)
}

// Auth returns the auth service over the user store.
func (a *Application) Auth() *services.AuthService {
	return services.NewAuthService(a.Stores.Users, auth.NewTokens(a.Config.TokenSecret))
}

// Seed runs the registered seeders, reporting progress to w.
func (a *Application) Seed(ctx context.Context, w io.Writer) error {
	return seeders.Default.RunAll(ctx, seeders.Target{
		Stores:     a.Stores,
		AdminEmail: a.Config.SeedAdminEmail,
	}, w)
}

// Serve applies pending migrations, then serves HTTP until ctx is done or
// the process is signalled.
func (a *Application) Serve(ctx context.Context) error {
	if a.db != nil {
		m, _ := a.Migrator()
		n, err := m.Run(ctx)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if n > 0 {
			logger.Info("migrations applied", "count", n)
		}
	}

	k := kernel.NewHTTPKernel(a.Config, kernel.Deps{
		Stores:    a.Stores,
		Processor: a.Processor(),
		Limiter:   kernel.NewLimiter(a.Config, a.redis),
	})

	return server.Run(ctx, server.Options{
		Addr:            a.Config.Addr(),
		Handler:         k.Handler(),
		ShutdownTimeout: a.Config.ShutdownTimeout,
	})
}
