package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type RedisSettings struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ServerConfig struct {
	ServerAddr    string
	DatabasePath  string
	AdminUsername string
	AdminPassword string
	Username      string
	Password      string
	Redis         *RedisSettings
}

type WatchConfig struct {
	// Endpoints is the ordered list of configuration URLs, first usable wins.
	Endpoints      []string
	PollInterval   time.Duration
	RequestTimeout time.Duration

	// Per-endpoint fetch retry configuration
	FetchMaxRetries        int
	FetchInitialBackoff    time.Duration
	FetchMaxBackoff        time.Duration
	FetchBackoffMultiplier float64

	Redis *RedisSettings
}

// LoadServerConfig reads server config from environment or returns defaults
func LoadServerConfig() (*ServerConfig, error) {
	return &ServerConfig{
		ServerAddr:    envOrDefault("SERVER_ADDR", ":8080"),
		DatabasePath:  envOrDefault("DATABASE_PATH", "./data/config.db"),
		AdminUsername: envOrDefault("ADMIN_USER", "admin"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "password"),
		Username:      envOrDefault("AUTH_USER", "service"),
		Password:      envOrDefault("AUTH_PASSWORD", "servicepass"),
		Redis:         loadRedisSettings(),
	}, nil
}

// LoadWatchConfig reads watcher config from environment or returns defaults
func LoadWatchConfig() (*WatchConfig, error) {
	poll := 30 * time.Second
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			poll = time.Duration(i) * time.Second
		}
	}

	reqTimeout := 10 * time.Second
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			reqTimeout = time.Duration(i) * time.Second
		}
	}

	maxRetries := 2
	if v := os.Getenv("FETCH_MAX_RETRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			maxRetries = i
		}
	}

	initialBackoff := 500 * time.Millisecond
	if v := os.Getenv("FETCH_INITIAL_BACKOFF_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			initialBackoff = time.Duration(i) * time.Millisecond
		}
	}

	maxBackoff := 5 * time.Second
	if v := os.Getenv("FETCH_MAX_BACKOFF_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			maxBackoff = time.Duration(i) * time.Millisecond
		}
	}

	multiplier := 2.0
	if v := os.Getenv("FETCH_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			multiplier = f
		}
	}

	var endpoints []string
	for _, e := range strings.Split(envOrDefault("CONFIG_ENDPOINTS", "http://localhost:8080/config"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}

	return &WatchConfig{
		Endpoints:              endpoints,
		PollInterval:           poll,
		RequestTimeout:         reqTimeout,
		FetchMaxRetries:        maxRetries,
		FetchInitialBackoff:    initialBackoff,
		FetchMaxBackoff:        maxBackoff,
		FetchBackoffMultiplier: multiplier,
		Redis:                  loadRedisSettings(),
	}, nil
}

// loadRedisSettings returns nil unless REDIS_HOST is set; Redis is optional
// for both binaries.
func loadRedisSettings() *RedisSettings {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}

	port := 6379
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			port = i
		}
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			db = i
		}
	}

	return &RedisSettings{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
