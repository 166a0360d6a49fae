package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	JWTAlgorithm     string        `env:"JWT_ALGORITHM,      default=HS256"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL,   default=30m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL,  default=168h"`
	PasswordHashCost int           `env:"PASSWORD_HASH_COST, default=12"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=healthcare"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether the process runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith resolves configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported (HS256, HS384, HS512)", c.Auth.JWTAlgorithm))
	}
	if !c.IsDevelopment() && len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes outside development", minSecretLength))
	}
	if c.Auth.AccessTokenTTL < time.Second {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be at least 1s"))
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}
	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		errs = append(errs, errors.New("PASSWORD_HASH_COST must be between 4 and 31"))
	}

	return errors.Join(errs...)
}
