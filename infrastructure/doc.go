// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: draft caches, site storage, the outbound HTTP
// client used by the generator, and the logger.
//
// The infrastructure package is organized by technical concern:
//
//   - cache/memory: in-process draft cache on go-cache
//   - cache/redis: Redis draft cache shared between instances
//   - cache/sqlite: file-backed draft cache that survives restarts
//   - storage/memory, storage/sqlite: SiteStorage backends
//   - http/standard: HTTP client with retry for the AI provider
//   - logger/standard: logrus-backed structured logger
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "draft:user-1", data, 7*24*time.Hour)
//	value, err := cache.Get(ctx, "draft:user-1")
//
// A missing or expired key returns interfaces.ErrCacheMiss from every backend.
//
// # Site Storage
//
//	store, err := sqlite.NewSiteStore("sites.db")
//	err = store.Save(ctx, site)
//
// # Logger
//
//	logger := standard.NewLogger(standard.Config{Level: "debug", Format: "json"})
//	logger.Info("Editor session opened", map[string]interface{}{
//	    "session_id": id,
//	})
package infrastructure
