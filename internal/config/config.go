package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aquaguard/pkg/database"
	"aquaguard/pkg/logging"
)

// Config holds all service settings, populated from environment variables
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Model    ModelConfig
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig configures the database connection
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level string
}

// ModelConfig configures the remote prediction model. An empty URL disables
// predictions.
type ModelConfig struct {
	URL     string
	Timeout time.Duration
}

// LoadConfig reads configuration from the environment, applying defaults
// where unset. Variables from a .env file (or ENV_FILE) are loaded first and
// never override the real environment.
func LoadConfig() (*Config, error) {
	envFile := envOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	p := &parser{}
	cfg := &Config{
		Server: ServerConfig{
			Host:            envOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:            p.int("SERVER_PORT", 8080),
			ReadTimeout:     p.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    p.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     p.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          envOrDefault("DB_DRIVER", database.DriverSQLite),
			Host:            envOrDefault("DB_HOST", "localhost"),
			Port:            p.int("DB_PORT", 5432),
			User:            envOrDefault("DB_USER", "aquaguard"),
			Password:        os.Getenv("DB_PASSWORD"),
			Database:        envOrDefault("DB_NAME", "aquaguard"),
			SSLMode:         envOrDefault("DB_SSLMODE", "disable"),
			Path:            envOrDefault("DB_PATH", "aquaguard.db"),
			MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: p.duration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Logging: LoggingConfig{
			Level: envOrDefault("LOG_LEVEL", "info"),
		},
		Model: ModelConfig{
			URL:     os.Getenv("MODEL_URL"),
			Timeout: p.duration("MODEL_TIMEOUT", 10*time.Second),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.Database.Driver {
	case database.DriverPostgres:
		if c.Database.Host == "" {
			return errors.New("DB_HOST is required for postgres")
		}
		if c.Database.Database == "" {
			return errors.New("DB_NAME is required for postgres")
		}
	case database.DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("database connection limits must not be negative")
	}
	if c.Database.MaxOpenConns > 0 && c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must not exceed DB_MAX_OPEN_CONNS")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Model.URL != "" {
		if !strings.HasPrefix(c.Model.URL, "http://") && !strings.HasPrefix(c.Model.URL, "https://") {
			return fmt.Errorf("MODEL_URL must be an http(s) URL, got %q", c.Model.URL)
		}
		if c.Model.Timeout <= 0 {
			return errors.New("MODEL_TIMEOUT must be positive")
		}
	}

	return nil
}

// DatabaseConnConfig converts the settings into a database.Config
func (c *Config) DatabaseConnConfig() *database.Config {
	return &database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SSLMode:         c.Database.SSLMode,
		Path:            c.Database.Path,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser reads typed variables and keeps the first parse failure
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: %w", key, s, err))
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: %w", key, s, err))
		return fallback
	}
	return d
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
