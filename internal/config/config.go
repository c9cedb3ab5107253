package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Cache backends understood by cache.Open.
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds every setting the server and CLI read from the environment.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8008"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`

	GitHub GitHub
	Gemini Gemini
	Cache  Cache
}

// GitHub configures the profile API. An empty token means anonymous access.
type GitHub struct {
	Token      string `env:"GITHUB_TOKEN"`
	APIURL     string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL" envDefault:"https://api.github.com/graphql"`
	UserAgent  string `env:"GITHUB_USER_AGENT" envDefault:"github-dashboard-api"`
}

// Gemini configures the text-generation API.
type Gemini struct {
	APIKey string `env:"GEMINI_API_KEY"`
	APIURL string `env:"GEMINI_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-preview-05-20"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string `env:"CACHE_BACKEND" envDefault:"redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	BadgerPath    string `env:"BADGER_PATH" envDefault:"data/badger"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"dashboard-cache.db"`

	PurgeInterval time.Duration `env:"CACHE_PURGE_INTERVAL" envDefault:"10m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	switch cfg.Cache.Backend {
	case BackendRedis, BackendBadger, BackendSQLite, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.Cache.Backend)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
