package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const minSecretLength = 32

type Config struct {
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Sales    Sales    `envPrefix:"SALES_"`
	Log      Log      `envPrefix:"LOG_"`

	// env keys that were filled from their envDefault tag
	defaulted map[string]bool
}

type HTTP struct {
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
}

type Database struct {
	DSN string `env:"DSN" envDefault:"host=localhost user=postgres password=postgres dbname=supermercado port=5432 sslmode=disable"`
}

// JWT holds the signing secret and token lifetime. The secret is read once
// at startup; changing it invalidates every issued token.
type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"30m"`
}

type Auth struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type Sales struct {
	// TrustClientPrice makes the sale use the unit price sent by the caller
	// instead of the catalog price at sale time.
	TrustClientPrice bool `env:"TRUST_CLIENT_PRICE" envDefault:"false"`
}

type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{defaulted: map[string]bool{}}
	err := env.ParseWithOptions(cfg, env.Options{
		OnSet: func(key string, _ any, isDefault bool) {
			if isDefault {
				cfg.defaulted[key] = true
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Warnings lists settings that still carry development defaults.
func (c *Config) Warnings() []string {
	var w []string
	if c.defaulted["DATABASE_DSN"] {
		w = append(w, "DATABASE_DSN uses the development default")
	}
	if c.defaulted["HTTP_CORS_ALLOWED_ORIGINS"] {
		w = append(w, "HTTP_CORS_ALLOWED_ORIGINS uses the development default")
	}
	return w
}
