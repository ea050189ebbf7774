// ABOUTME: Functional options for configuring the HostGenie client
// ABOUTME: Provides a flexible way to set dependencies, storage and editor behaviour

package hostgenie

import (
	"strings"
	"time"

	"hostgenie-api/core/generate"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/workers"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithCache sets the cache drafts are kept in
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		if cache == nil {
			return NewError(ErrorTypeValidation, "cache cannot be nil")
		}
		c.Cache = cache
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for generation calls
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		if client == nil {
			return NewError(ErrorTypeValidation, "HTTP client cannot be nil")
		}
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewError(ErrorTypeValidation, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithQuietMode suppresses all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}

// WithSiteStorage sets where saved sites are persisted
func WithSiteStorage(storage interfaces.SiteStorage) Option {
	return func(c *Config) error {
		if storage == nil {
			return NewError(ErrorTypeValidation, "site storage cannot be nil")
		}
		c.SiteStorage = storage
		return nil
	}
}

// WithGenerator sets the generation provider directly
func WithGenerator(gen interfaces.Generator) Option {
	return func(c *Config) error {
		if gen == nil {
			return NewError(ErrorTypeValidation, "generator cannot be nil")
		}
		c.Generator = gen
		return nil
	}
}

// WithAI enables generation through an OpenAI-compatible provider
func WithAI(cfg generate.Config) Option {
	return func(c *Config) error {
		var keys []string
		for _, k := range cfg.APIKeys {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return NewError(ErrorTypeConfiguration, "at least one API key is required")
		}
		cfg.APIKeys = keys
		c.AI = &cfg
		return nil
	}
}

// WithWorkerConfig bounds concurrent generation calls
func WithWorkerConfig(cfg workers.WorkerConfig) Option {
	return func(c *Config) error {
		c.WorkerConfig = cfg
		return nil
	}
}

// WithFooter sets the link and support line of the saved-site footer
func WithFooter(appURL, supportLine string) Option {
	return func(c *Config) error {
		appURL = strings.TrimRight(strings.TrimSpace(appURL), "/")
		if appURL == "" {
			return NewError(ErrorTypeValidation, "app URL cannot be empty")
		}
		c.AppURL = appURL
		c.SupportLine = supportLine
		return nil
	}
}

// WithHistoryLimit sets how many snapshots each editor keeps
func WithHistoryLimit(limit int) Option {
	return func(c *Config) error {
		if limit < 2 {
			return NewError(ErrorTypeValidation, "history limit must be at least 2").
				WithContext("limit", limit)
		}
		c.HistoryLimit = limit
		return nil
	}
}

// WithAutosave sets the draft debounce delay and retention
func WithAutosave(delay, ttl time.Duration) Option {
	return func(c *Config) error {
		if delay < 0 || ttl < 0 {
			return NewError(ErrorTypeValidation, "autosave durations cannot be negative")
		}
		c.AutosaveDelay = delay
		c.DraftTTL = ttl
		return nil
	}
}

// WithSessionTTL closes editors left idle for longer than ttl
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		c.SessionTTL = ttl
		return nil
	}
}

// CacheType represents the type of draft cache
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeSQLite CacheType = "sqlite"
)

// CacheOption represents cache configuration options
type CacheOption struct {
	Type     CacheType
	FilePath string
}

// WithCacheOption creates the draft cache from opt
func WithCacheOption(opt CacheOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case CacheTypeMemory, "":
			c.Cache = DefaultMemoryCache()
		case CacheTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "hostgenie_cache.db"
			}
			cache, err := DefaultSQLiteCache(opt.FilePath)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open cache").WithCause(err)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache)
		default:
			return NewError(ErrorTypeConfiguration, "invalid cache type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithSQLiteSites persists sites in a SQLite database at path
func WithSQLiteSites(path string) Option {
	return func(c *Config) error {
		if path == "" {
			path = "hostgenie_sites.db"
		}
		store, err := DefaultSQLiteSiteStorage(path)
		if err != nil {
			return NewError(ErrorTypeConfiguration, "failed to open site storage").WithCause(err)
		}
		c.SiteStorage = store
		c.closers = append(c.closers, store)
		return nil
	}
}
