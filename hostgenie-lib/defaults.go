// ABOUTME: Default implementations of the HostGenie library's dependencies
// ABOUTME: Offers ready-made caches, site storage, HTTP client and loggers

package hostgenie

import (
	"time"

	"hostgenie-api/core/interfaces"
	"hostgenie-api/infrastructure/cache/memory"
	sqlitecache "hostgenie-api/infrastructure/cache/sqlite"
	stdhttp "hostgenie-api/infrastructure/http/standard"
	stdlogger "hostgenie-api/infrastructure/logger/standard"
	memstore "hostgenie-api/infrastructure/storage/memory"
	sqlitestore "hostgenie-api/infrastructure/storage/sqlite"
)

// DefaultHTTPClient creates the HTTP client used for generation calls
func DefaultHTTPClient() interfaces.HTTPClient {
	return stdhttp.NewStandardHTTPClient(2 * time.Minute)
}

// DefaultMemoryCache creates an in-memory draft cache
func DefaultMemoryCache() interfaces.Cache {
	return memory.NewMemoryCacheWithCleanup(10 * time.Minute)
}

// DefaultSQLiteCache creates a SQLite-backed draft cache
func DefaultSQLiteCache(filePath string) (*sqlitecache.Client, error) {
	return sqlitecache.NewSQLiteCache(filePath, interfaces.NopLogger{})
}

// DefaultSiteStorage creates in-memory site storage
func DefaultSiteStorage() interfaces.SiteStorage {
	return memstore.NewSiteStore()
}

// DefaultSQLiteSiteStorage opens SQLite site storage at path
func DefaultSQLiteSiteStorage(path string) (*sqlitestore.SiteStore, error) {
	return sqlitestore.NewSiteStore(path)
}

// DefaultLogger creates the library's default logger
func DefaultLogger() interfaces.Logger {
	return stdlogger.NewStandardLogger()
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return interfaces.NopLogger{}
}

// defaultConfig returns the default client configuration.
// Cache and site storage are created by validateConfig when no option set them.
func defaultConfig() Config {
	return Config{
		HTTPClient: DefaultHTTPClient(),
		Logger:     DefaultLogger(),
		AppURL:     "http://localhost:8000",
	}
}
