package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaguard/pkg/database"
)

// isolate points ENV_FILE at a missing file so a developer .env cannot leak
// into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "aquaguard.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Model.URL)
	assert.Equal(t, 10*time.Second, cfg.Model.Timeout)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MODEL_URL", "http://model:5000")
	t.Setenv("MODEL_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "http://model:5000", cfg.Model.URL)
	assert.Equal(t, 2*time.Second, cfg.Model.Timeout)

	dbCfg := cfg.DatabaseConnConfig()
	assert.Equal(t, database.DriverPostgres, dbCfg.Driver)
	assert.Equal(t, "db.internal", dbCfg.Host)
	assert.Equal(t, "secret", dbCfg.Password)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=7070\nLOG_LEVEL=warn\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	// The real environment wins over the file.
	t.Setenv("LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port", key: "SERVER_PORT", value: "eighty"},
		{name: "shutdown timeout", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "model timeout", key: "MODEL_TIMEOUT", value: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
			Database: DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1},
			Logging:  LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "postgres without host", mutate: func(c *Config) {
			c.Database.Driver = database.DriverPostgres
			c.Database.Database = "aquaguard"
		}},
		{name: "idle above open", mutate: func(c *Config) { c.Database.MaxIdleConns = 5 }},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "model url scheme", mutate: func(c *Config) { c.Model = ModelConfig{URL: "model:5000", Timeout: time.Second} }},
		{name: "model without timeout", mutate: func(c *Config) { c.Model = ModelConfig{URL: "http://model:5000"} }},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
