package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// minProductionSecretLen is the shortest HS256 secret accepted in production.
const minProductionSecretLen = 32

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"APP_ENV"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Session   SessionConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig

	ModerationWorkers int `env:"MODERATION_WORKERS, default=4"`
}

type SessionConfig struct {
	Secret        string        `env:"SESSION_SECRET, required"`
	TTL           time.Duration `env:"SESSION_TTL, default=24h"`
	LookupTimeout time.Duration `env:"SESSION_LOOKUP_TIMEOUT, default=2s"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE, default=true"`
}

type RateLimitConfig struct {
	// LoginPerMinute caps /auth/login and /auth/register requests per client IP.
	LoginPerMinute int `env:"LOGIN_RATE_LIMIT, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=appfounders"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the process runs with production safeguards.
// Only an explicit "development" or "test" environment turns them off.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "development", "test":
		return false
	default:
		return true
	}
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if c.IsProduction() && len(c.Session.Secret) < minProductionSecretLen {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes in production", minProductionSecretLen)
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.Session.LookupTimeout <= 0 {
		return errors.New("config: SESSION_LOOKUP_TIMEOUT must be positive")
	}
	if c.ModerationWorkers < 1 {
		return errors.New("config: MODERATION_WORKERS must be at least 1")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
