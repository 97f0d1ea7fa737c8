package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-super-secret-key-change-in-production"

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Address  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Channel  string `env:"NOTIFY_CHANNEL" envDefault:"proposal-status"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`

	DatabaseURL    string `env:"DATABASE_URL" envDefault:"postgresql://postgres@localhost:5432/cfp"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`
	DBLogLevel     string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"your-super-secret-key-change-in-production"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	SentryDSN string `env:"SENTRY_DSN"`

	Redis RedisConfig

	// Review scoring locks the proposal row and is retried on serialization
	// failures and deadlocks up to ReviewMaxAttempts times. Serializable
	// isolation is opt-in.
	ReviewSerializable bool          `env:"REVIEW_SERIALIZABLE" envDefault:"false"`
	ReviewMaxAttempts  int           `env:"REVIEW_MAX_ATTEMPTS" envDefault:"3"`
	ReviewRetryDelay   time.Duration `env:"REVIEW_RETRY_DELAY" envDefault:"20ms"`

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

func Load() (*Config, error) {
	// A missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.ReviewMaxAttempts < 1 {
		return fmt.Errorf("REVIEW_MAX_ATTEMPTS must be at least 1, got %d", c.ReviewMaxAttempts)
	}
	return nil
}
