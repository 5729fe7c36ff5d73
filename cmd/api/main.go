package main

import (
	"context"
	"net/http"
	"time"

	"matchday/internal/assets"
	"matchday/internal/config"
	"matchday/internal/httpapi"
	"matchday/internal/httpapi/handlers"
	"matchday/internal/jobstore"
	"matchday/internal/pkg/logger"
	"matchday/internal/pkg/shutdown"
	"matchday/internal/render"
	"matchday/internal/render/engine"
	"matchday/internal/storage"
)

func main() {
	log := logger.NewDefault()

	log.Info("starting matchday API", "version", "0.1.0")

	cfg, err := config.Load()
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}
	log.Info("configuration loaded",
		"render_mode", cfg.RenderMode,
		"job_store", cfg.JobStore,
		"storage_provider", cfg.StorageProvider,
	)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Render job registry
	store, err := jobstore.New(ctx, cfg)
	if err != nil {
		log.LogFatal("failed to initialize job store", err)
	}
	shutdownMgr.Register("jobstore", func(ctx context.Context) error {
		return store.Close()
	})
	log.Info("job store ready", "backend", cfg.JobStore)

	// Asset storage
	sp, err := storage.NewProvider(ctx, cfg)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider ready", "provider", sp.Provider())

	// Render pipeline
	eng := engine.NewHTTPClient(cfg.EngineBaseURL)
	dispatcher := render.NewDispatcher(cfg, eng, store, log)
	tracker := render.NewTracker(eng, store)
	resolver := assets.NewResolver(cfg.AssetBaseURL, cfg.AssetBucket, sp)

	h := handlers.New(cfg, log, dispatcher, tracker, resolver, sp)
	router := httpapi.NewRouter(cfg, log, h)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 20 * time.Minute, // local renders run inside the request
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
