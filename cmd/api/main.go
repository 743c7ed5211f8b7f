// Command api runs the storefront HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/panaderia/storefront-api/internal/api"
	"github.com/panaderia/storefront-api/internal/api/handler"
	"github.com/panaderia/storefront-api/internal/core/ports"
	"github.com/panaderia/storefront-api/internal/core/service"
	"github.com/panaderia/storefront-api/internal/infrastructure/config"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/memory"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/postgres"
	"github.com/panaderia/storefront-api/internal/infrastructure/db/redis"
	"github.com/panaderia/storefront-api/internal/infrastructure/session"
	"github.com/panaderia/storefront-api/pkg/logger"
)

// @title        Storefront API
// @version      1.0
// @description  Ordering backend for a small bakery storefront: catalog,
// @description  checkout, session auth, and the admin console API.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	checks := map[string]handler.Pinger{}

	// --- Storage backend ---
	var store ports.Store
	switch cfg.StorageDriver {
	case "postgres":
		db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return err
		}
		defer db.Close()

		pgStore := postgres.New(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pgStore
		checks["postgres"] = db.PingContext
	case "memory":
		store = memory.New()
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// --- Session backend ---
	var sessions ports.SessionStore
	switch cfg.SessionDriver {
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()

		sessions = session.NewRedisStore(client, cfg.SessionTTL)
		checks["redis"] = redisPinger(client)
	case "memory":
		memSessions := session.NewMemoryStore(cfg.SessionTTL)
		defer memSessions.Close()
		sessions = memSessions
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
	}

	// --- First-run bootstrap ---
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := store.Seed(ctx, ports.SeedAdmin{
		Username:     cfg.AdminUsername,
		Password:     string(adminHash),
		SecurityCode: cfg.AdminSecurityCode,
	}); err != nil {
		return err
	}

	// --- Services and router ---
	authService := service.NewAuthService(store, sessions, cfg.SessionSecret, cfg.AdminSecurityCode, log)
	catalogService := service.NewCatalogService(store, log)
	orderService := service.NewOrderService(store, log)

	e := api.NewRouter(authService, catalogService, orderService, api.RouterConfig{
		GoogleMapsAPIKey: cfg.GoogleMapsAPIKey,
		SecureCookies:    cfg.Env != "development",
		SwaggerEnabled:   cfg.SwaggerEnabled,
		RateLimitMax:     cfg.RateLimit.Max,
		RateLimitWindow:  cfg.RateLimit.Window,
		ReadinessChecks:  checks,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageDriver).
			Str("sessions", cfg.SessionDriver).
			Msg("storefront api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func redisPinger(client *goredis.Client) handler.Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
