package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Marketplace.CommissionBriefMinLength)
	assert.True(t, cfg.Marketplace.OrderAllowDuplicates)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("COMMISSION_BRIEF_MIN_LENGTH", "0")
	t.Setenv("ORDER_ALLOW_DUPLICATES", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.Marketplace.CommissionBriefMinLength)
	assert.False(t, cfg.Marketplace.OrderAllowDuplicates)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad ttl":            {"JWT_TTL": "forever"},
		"zero ttl":           {"JWT_TTL": "0s"},
		"negative brief":     {"COMMISSION_BRIEF_MIN_LENGTH": "-1"},
		"unknown storage":    {"STORAGE_DRIVER": "ftp"},
		"minio without keys": {"STORAGE_DRIVER": "minio"},
		"prod default":       {"APP_ENV": "production", "JWT_SECRET": ""},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ARTFOLIO_TEST_MARKER=1\nPORT=7070\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Cleanup(func() { os.Unsetenv("ARTFOLIO_TEST_MARKER") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr())
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
