// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, drafts, site storage, editor and AI settings

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains the draft cache configuration
	Cache CacheConfig

	// Storage contains site storage configuration
	Storage StorageConfig

	// Editor contains editor session configuration
	Editor EditorConfig

	// AI contains generation provider configuration
	AI AIConfig

	// Log contains logger configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// AppURL is the public base URL, used as the footer link target
	AppURL string

	// RateLimit is the number of requests allowed per client per minute
	RateLimit int

	// SupportLine is optional footer text shown under the hosting notice
	SupportLine string
}

// CacheConfig holds draft cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int
}

// StorageConfig holds site storage configuration
type StorageConfig struct {
	// Type specifies the storage backend (memory/sqlite)
	Type string

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string
}

// EditorConfig holds editor session settings
type EditorConfig struct {
	HistoryLimit    int
	DraftDebounceMS int
	DraftTTLHours   int
	SessionTTLMins  int
}

// AIConfig holds the generation provider settings
type AIConfig struct {
	BaseURL        string
	APIKeys        []string
	Model          string
	TimeoutSeconds int
	Workers        int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8000"),
			AppURL:      strings.TrimRight(getEnvOrDefault("APP_URL", "http://localhost:8000"), "/"),
			RateLimit:   getEnvAsIntOrDefault("RATE_LIMIT", 100),
			SupportLine: getEnvOrDefault("FOOTER_SUPPORT_LINE", ""),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				CleanupInterval: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 600),
			},
			SQLitePath: getEnvOrDefault("CACHE_SQLITE_PATH", "drafts.db"),
		},
		Storage: StorageConfig{
			Type:       getEnvOrDefault("STORAGE_TYPE", "memory"),
			SQLitePath: getEnvOrDefault("STORAGE_SQLITE_PATH", "sites.db"),
		},
		Editor: EditorConfig{
			HistoryLimit:    getEnvAsIntOrDefault("HISTORY_LIMIT", 50),
			DraftDebounceMS: getEnvAsIntOrDefault("DRAFT_DEBOUNCE_MS", 1000),
			DraftTTLHours:   getEnvAsIntOrDefault("DRAFT_TTL_HOURS", 168),
			SessionTTLMins:  getEnvAsIntOrDefault("SESSION_TTL_MINUTES", 120),
		},
		AI: AIConfig{
			BaseURL:        getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKeys:        splitList(os.Getenv("AI_API_KEYS")),
			Model:          getEnvOrDefault("AI_MODEL", "gpt-3.5-turbo"),
			TimeoutSeconds: getEnvAsIntOrDefault("AI_TIMEOUT_SECONDS", 120),
			Workers:        getEnvAsIntOrDefault("GENERATION_WORKERS", 2),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}
	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1 request per minute")
	}

	switch c.Cache.Type {
	case "memory", "sqlite":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'sqlite', got %q", c.Cache.Type)
	}

	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage sqlite path cannot be empty")
		}
	default:
		return fmt.Errorf("storage type must be 'memory' or 'sqlite', got %q", c.Storage.Type)
	}

	if c.Editor.HistoryLimit < 1 {
		return errors.New("history limit must be at least 1")
	}
	if c.Editor.DraftDebounceMS < 0 {
		return errors.New("draft debounce cannot be negative")
	}
	if c.AI.Workers < 1 {
		return errors.New("generation workers must be at least 1")
	}
	if c.AI.TimeoutSeconds < 1 {
		return errors.New("AI timeout must be at least 1 second")
	}

	return nil
}

// DraftDebounce returns the autosave delay
func (c *Config) DraftDebounce() time.Duration {
	return time.Duration(c.Editor.DraftDebounceMS) * time.Millisecond
}

// DraftTTL returns how long drafts are kept
func (c *Config) DraftTTL() time.Duration {
	return time.Duration(c.Editor.DraftTTLHours) * time.Hour
}

// SessionTTL returns the idle lifetime of editor sessions
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Editor.SessionTTLMins) * time.Minute
}

// AITimeout returns the bound on one generation call
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
