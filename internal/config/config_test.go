package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DatasetTTL)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9100
database:
  driver: postgres
  host: db.internal
cache:
  dataset_ttl: 90s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("MEDSPA_SERVER_PORT", "9200")
	t.Setenv("MEDSPA_CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 90*time.Second, cfg.Cache.DatasetTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8000},
			Database: DatabaseConfig{Driver: DriverMemory, SeedDir: "./seed"},
			Cache:    CacheConfig{DatasetTTL: time.Minute},
		}
	}

	ok := base()
	assert.NoError(t, ok.Validate())

	badPort := base()
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	badDriver := base()
	badDriver.Database.Driver = "sqlite"
	assert.Error(t, badDriver.Validate())

	badTTL := base()
	badTTL.Cache.DatasetTTL = 0
	assert.Error(t, badTTL.Validate())

	badLimit := base()
	badLimit.RateLimit = RateLimitConfig{Enabled: true}
	assert.Error(t, badLimit.Validate())
}
