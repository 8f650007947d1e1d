// Package config loads service settings from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// PageSizeLimit is the upper bound PAGE_SIZE_MAX may be set to.
const PageSizeLimit = 1000

// Config holds all service settings.
type Config struct {
	HTTPAddr        string
	APIPrefix       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	StoreBackend        string
	MongoURI            string
	DBName              string
	MongoMaxPool        uint64
	MongoMinPool        uint64
	MongoConnectTimeout time.Duration
	StoreOpTimeout      time.Duration

	EnableCache         bool
	CacheBackend        string
	RedisHost           string
	RedisPort           int
	RedisPassword       string
	RedisDB             int
	RedisPoolSize       int
	CacheTTL            time.Duration
	CacheOpTimeout      time.Duration
	MemoryCacheCapacity int

	PageSizeDefault int
	PageSizeMax     int

	LogLevel  string
	LogPretty bool

	SeedCount     int
	SeedBatchSize int
	ReseedDB      bool
}

// RedisAddr returns host:port of the Redis server.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("STORE_BACKEND", BackendMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "high_performance_db")
	v.SetDefault("MONGO_MAX_POOL", 50)
	v.SetDefault("MONGO_MIN_POOL", 10)
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "5s")
	v.SetDefault("STORE_OP_TIMEOUT", "5s")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("CACHE_BACKEND", BackendRedis)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("CACHE_TTL", "300s")
	v.SetDefault("CACHE_OP_TIMEOUT", "100ms")
	v.SetDefault("MEMORY_CACHE_CAPACITY", 10000)

	v.SetDefault("PAGE_SIZE_DEFAULT", 50)
	v.SetDefault("PAGE_SIZE_MAX", 1000)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("SEED_COUNT", 100000)
	v.SetDefault("SEED_BATCH_SIZE", 1000)
	v.SetDefault("RESEED_DB", false)
}

// Load reads settings from the environment. When CONFIG_FILE is set, that
// file (any format viper understands, e.g. .env or yaml) is read first and
// environment variables still take precedence.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		APIPrefix:       strings.TrimRight(v.GetString("API_PREFIX"), "/"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		StoreBackend:        strings.ToLower(v.GetString("STORE_BACKEND")),
		MongoURI:            v.GetString("MONGO_URI"),
		DBName:              v.GetString("DB_NAME"),
		MongoMaxPool:        v.GetUint64("MONGO_MAX_POOL"),
		MongoMinPool:        v.GetUint64("MONGO_MIN_POOL"),
		MongoConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		StoreOpTimeout:      v.GetDuration("STORE_OP_TIMEOUT"),

		EnableCache:         v.GetBool("ENABLE_CACHE"),
		CacheBackend:        strings.ToLower(v.GetString("CACHE_BACKEND")),
		RedisHost:           v.GetString("REDIS_HOST"),
		RedisPort:           v.GetInt("REDIS_PORT"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		RedisPoolSize:       v.GetInt("REDIS_POOL_SIZE"),
		CacheTTL:            v.GetDuration("CACHE_TTL"),
		CacheOpTimeout:      v.GetDuration("CACHE_OP_TIMEOUT"),
		MemoryCacheCapacity: v.GetInt("MEMORY_CACHE_CAPACITY"),

		PageSizeDefault: v.GetInt("PAGE_SIZE_DEFAULT"),
		PageSizeMax:     v.GetInt("PAGE_SIZE_MAX"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogPretty: v.GetBool("LOG_PRETTY"),

		SeedCount:     v.GetInt("SEED_COUNT"),
		SeedBatchSize: v.GetInt("SEED_BATCH_SIZE"),
		ReseedDB:      v.GetBool("RESEED_DB"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var problems []string
	if c.StoreBackend != BackendMongo && c.StoreBackend != BackendMemory {
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be %s or %s", BackendMongo, BackendMemory))
	}
	if c.EnableCache && c.CacheBackend != BackendRedis && c.CacheBackend != BackendMemory {
		problems = append(problems, fmt.Sprintf("CACHE_BACKEND must be %s or %s", BackendRedis, BackendMemory))
	}
	if c.CacheTTL <= 0 {
		problems = append(problems, "CACHE_TTL must be positive")
	}
	if c.CacheOpTimeout <= 0 {
		problems = append(problems, "CACHE_OP_TIMEOUT must be positive")
	}
	if c.PageSizeMax < 1 || c.PageSizeMax > PageSizeLimit {
		problems = append(problems, fmt.Sprintf("PAGE_SIZE_MAX must be between 1 and %d", PageSizeLimit))
	}
	if c.PageSizeDefault < 1 || c.PageSizeDefault > c.PageSizeMax {
		problems = append(problems, "PAGE_SIZE_DEFAULT must be between 1 and PAGE_SIZE_MAX")
	}
	if c.SeedBatchSize < 1 {
		problems = append(problems, "SEED_BATCH_SIZE must be >= 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
