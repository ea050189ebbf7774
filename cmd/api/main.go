// ABOUTME: Main entry point for the HostGenie API server
// ABOUTME: Wires configuration, storage, the editor core and the HTTP surface, then serves until signalled

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"hostgenie-api/api"
	"hostgenie-api/api/handlers"
	"hostgenie-api/core/draft"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/footer"
	"hostgenie-api/core/generate"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/patch"
	"hostgenie-api/core/site"
	"hostgenie-api/core/workers"
	"hostgenie-api/infrastructure/cache/memory"
	"hostgenie-api/infrastructure/cache/redis"
	sqlitecache "hostgenie-api/infrastructure/cache/sqlite"
	stdhttp "hostgenie-api/infrastructure/http/standard"
	stdlogger "hostgenie-api/infrastructure/logger/standard"
	memstore "hostgenie-api/infrastructure/storage/memory"
	sqlitestore "hostgenie-api/infrastructure/storage/sqlite"
	"hostgenie-api/pkg/config"
	"hostgenie-api/pkg/featureflags"
)

// closer is released on shutdown
type closer interface {
	Close() error
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := stdlogger.NewLogger(stdlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	logger.Info("Starting HostGenie API", map[string]interface{}{
		"port":         cfg.Server.Port,
		"app_url":      cfg.Server.AppURL,
		"cache_type":   cfg.Cache.Type,
		"storage_type": cfg.Storage.Type,
	})

	var closers []closer

	cache, c := newCache(cfg, logger)
	if c != nil {
		closers = append(closers, c)
	}

	sites, c, err := newSiteStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open site storage: %v", err)
	}
	if c != nil {
		closers = append(closers, c)
	}

	flags := featureflags.NewEnvManager("FEATURE_")

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: stdhttp.NewStandardHTTPClient(cfg.AITimeout()),
		Logger:     logger,
		Sites:      sites,
	}

	var generator interfaces.Generator
	var pool *workers.GenerationWorker
	if len(cfg.AI.APIKeys) > 0 {
		client := generate.NewClient(generate.Config{
			BaseURL: cfg.AI.BaseURL,
			APIKeys: cfg.AI.APIKeys,
			Model:   cfg.AI.Model,
		}, deps)
		wcfg := workers.DefaultWorkerConfig()
		wcfg.MaxWorkers = cfg.AI.Workers
		pool = workers.NewGenerationWorker(client, logger, wcfg)
		if err := pool.Start(); err != nil {
			log.Fatalf("Failed to start generation workers: %v", err)
		}
		generator = pool
	} else {
		logger.Warn("No AI_API_KEYS configured, generation is disabled", nil)
	}

	siteService := site.NewService(deps, footer.New(cfg.Server.AppURL, "", cfg.Server.SupportLine))
	editorDeps := editor.Deps{
		Engine:          patch.NewEngine(patch.DefaultFontCatalog(), logger),
		Sites:           siteService,
		Drafts:          draft.NewService(deps, cfg.DraftTTL()),
		Generator:       generator,
		Logger:          logger,
		HistoryLimit:    cfg.Editor.HistoryLimit,
		AutosaveDelay:   cfg.DraftDebounce(),
		GenerateTimeout: cfg.AITimeout(),
	}
	store := editor.NewStore(cfg.SessionTTL(), logger)

	apiConfig := api.APIConfig{Logger: logger}
	if flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled) {
		apiConfig.RateLimit = cfg.Server.RateLimit
		apiConfig.RateWindow = time.Minute
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewSessionHandler(store, editorDeps, flags, cfg.Server.AppURL).RegisterRoutes(humaAPI)
	handlers.NewPreviewHandler(store, flags, logger).RegisterRoutes(router)
	siteHandler := handlers.NewSiteHandler(siteService, flags, cfg.Server.AppURL, logger)
	siteHandler.RegisterRoutes(humaAPI)
	siteHandler.RegisterPublicRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// stop taking requests, then flush drafts of open sessions, then release backends
	err = srv.Shutdown(ctx)
	store.Close()
	if pool != nil {
		err = multierr.Append(err, pool.Stop())
	}
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	if err != nil {
		logger.Error("Shutdown finished with errors", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the draft cache. A failing redis falls back to memory.
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, closer) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache, redisCache
	case "sqlite":
		sqlCache, err := sqlitecache.NewSQLiteCache(cfg.Cache.SQLitePath, logger)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"path":  cfg.Cache.SQLitePath,
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLitePath,
		})
		return sqlCache, sqlCache
	}

	logger.Info("Using memory cache", nil)
	interval := time.Duration(cfg.Cache.Memory.CleanupInterval) * time.Second
	return memory.NewMemoryCacheWithCleanup(interval), nil
}

// newSiteStorage builds the site storage backend
func newSiteStorage(cfg *config.Config) (interfaces.SiteStorage, closer, error) {
	if cfg.Storage.Type == "sqlite" {
		store, err := sqlitestore.NewSiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite site storage at %s: %w", cfg.Storage.SQLitePath, err)
		}
		return store, store, nil
	}
	return memstore.NewSiteStore(), nil, nil
}

func init() {
	fmt.Println(`
    __  __           __  ______           _
   / / / /___  _____/ /_/ ____/__  ____  (_)__
  / /_/ / __ \/ ___/ __/ / __/ _ \/ __ \/ / _ \
 / __  / /_/ (__  ) /_/ /_/ /  __/ / / / /  __/
/_/ /_/\____/____/\__/\____/\___/_/ /_/_/\___/
	`)
}
