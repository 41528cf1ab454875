package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port    string `env:"PORT" envDefault:"5000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string        `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string        `env:"DB_PORT" envDefault:"5432"`
	DBUser     string        `env:"DB_USER" envDefault:"taskuser"`
	DBPassword string        `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName     string        `env:"DB_NAME" envDefault:"taskboard"`
	DBSSLMode  string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBTimeout  time.Duration `env:"DB_TIMEOUT" envDefault:"10s"`

	JWTSecret  string        `env:"JWT_SECRET" envDefault:"default-secret-key-change-me"`
	JWTIssuer  string        `env:"JWT_ISSUER" envDefault:"taskboard-api"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AuthRateLimit      float64  `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst      int      `env:"AUTH_RATE_BURST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// Load reads configuration from the environment, loading .env first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
