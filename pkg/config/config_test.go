package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "high_performance_db", cfg.DBName)
	assert.True(t, cfg.EnableCache)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.CacheOpTimeout)
	assert.Equal(t, 50, cfg.PageSizeDefault)
	assert.Equal(t, 1000, cfg.PageSizeMax)
	assert.Equal(t, 100000, cfg.SeedCount)
	assert.False(t, cfg.ReseedDB)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("ENABLE_CACHE", "false")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("API_PREFIX", "/v2/")
	t.Setenv("RESEED_DB", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.False(t, cfg.EnableCache)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "/v2", cfg.APIPrefix)
	assert.True(t, cfg.ReseedDB)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_file\nPAGE_SIZE_DEFAULT=20\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PAGE_SIZE_DEFAULT", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DBName)
	assert.Equal(t, 25, cfg.PageSizeDefault, "environment wins over file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"STORE_BACKEND": "postgres"}},
		{"unknown cache", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"zero ttl", map[string]string{"CACHE_TTL": "0s"}},
		{"default over max", map[string]string{"PAGE_SIZE_DEFAULT": "2000"}},
		{"max over limit", map[string]string{"PAGE_SIZE_MAX": "5000"}},
		{"zero max", map[string]string{"PAGE_SIZE_MAX": "0"}},
		{"missing file", map[string]string{"CONFIG_FILE": "/nonexistent/catalog.env"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DisabledCacheIgnoresBackend(t *testing.T) {
	t.Setenv("ENABLE_CACHE", "false")
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()
	assert.NoError(t, err)
}
