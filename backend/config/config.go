package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development fallback signing secret. Any deployment
// still using it can have its tokens forged.
const DefaultJWTSecret = "change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"quizmaster"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBPath     string `env:"DB_PATH" envDefault:"quizmaster.db"`
	DBLogMode  bool   `env:"DB_LOG_MODE" envDefault:"false"`

	JWTSecret  string        `env:"JWT_SECRET" envDefault:"change-me"`
	TokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"3h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	ExternalAPIBase    string        `env:"EXTERNAL_API_BASE" envDefault:"https://opentdb.com"`
	ExternalAPITimeout time.Duration `env:"EXTERNAL_API_TIMEOUT" envDefault:"10s"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`

	SeedDemoUser bool `env:"SEED_DEMO_USER" envDefault:"false"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Validate rejects settings the server cannot run with. In production the
// default signing secret counts as one of them.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.ExternalAPITimeout <= 0 {
		return errors.New("EXTERNAL_API_TIMEOUT must be positive")
	}
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET is set to the insecure default in production")
	}
	return nil
}

// Warnings lists insecure settings that are tolerated outside production.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.JWTSecret == DefaultJWTSecret {
		warnings = append(warnings, "JWT_SECRET uses the insecure default, tokens can be forged")
	}
	if c.GoogleClientID == "" {
		warnings = append(warnings, "GOOGLE_CLIENT_ID is not set, Google login is disabled")
	}
	if c.IsProduction() && c.CORSAllowOrigins == "*" {
		warnings = append(warnings, "CORS_ALLOW_ORIGINS allows every origin")
	}
	return warnings
}

// PostgresDSN builds the key/value DSN understood by gorm.io/driver/postgres.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
