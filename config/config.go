// config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is read from the environment, optionally seeded from a .env file
type Config struct {
	Port           string        `env:"PORT,default=8080"`
	Env            string        `env:"ENV,default=development"`
	MongoURI       string        `env:"MONGO_URI"`
	MongoURIAlt    string        `env:"MONGODB_URI"`
	DBName         string        `env:"DB_NAME,default=admarket"`
	Store          string        `env:"STORE,default=mongo"`
	RedisAddr      string        `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB,default=0"`
	JWTSecret      string        `env:"JWT_SECRET"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogFormat      string        `env:"LOG_FORMAT,default=json"`
	LogOutput      string        `env:"LOG_OUTPUT,default=stdout"`
	CORSOrigins    string        `env:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
}

// Load reads .env when present and decodes the environment
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = cfg.MongoURIAlt
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" && !c.IsDevelopment() {
			return errors.New("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreMongo, StoreMemory, c.Store)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
