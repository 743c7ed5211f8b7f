package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs the session cookie token. Required outside dev.
	SessionSecret string        `env:"SESSION_SECRET, default=dev-session-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`

	// AdminSecurityCode is the shared secret gating admin registration and the
	// literal "admin" login.
	AdminSecurityCode string `env:"ADMIN_SECURITY_CODE, default=BAKER2024"`

	// AdminUsername/AdminPassword seed the bootstrap administrator on first
	// run. The password is bcrypt-hashed before it reaches the store.
	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`

	// StorageDriver selects the persistence backend: memory | postgres.
	StorageDriver string `env:"STORAGE_DRIVER, default=memory"`
	DatabaseURL   string `env:"DATABASE_URL,   default=postgres://localhost:5432/storefront?sslmode=disable"`

	// SessionDriver selects the session backend: memory | redis.
	SessionDriver string `env:"SESSION_DRIVER, default=memory"`

	// GoogleMapsAPIKey is handed to the client verbatim; when empty the map
	// features degrade to address-text-only mode.
	GoogleMapsAPIKey string `env:"GOOGLE_MAPS_API_KEY"`

	SwaggerEnabled bool `env:"SWAGGER_ENABLED, default=false"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
