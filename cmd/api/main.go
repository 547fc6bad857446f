package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vetcare-api/internal/adapters/auth/gatekeeper"
	pg "vetcare-api/internal/adapters/storage/postgres"
	"vetcare-api/internal/config"
	"vetcare-api/internal/platform/httpclient"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/staticcache"
	"vetcare-api/internal/router"
	"vetcare-api/internal/ports/auth"
)

// @title VetCare API
// @version 1.0
// @description API de gestión de mascotas, historial clínico y turnos.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{App: "vetcare-api"}).Error("config load failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "vetcare-api",
	})

	// Verifier externo solo si está configurado; sin él corre en modo dev
	// con identidad por headers de debug.
	var verifier auth.AuthVerifier
	if cfg.Auth.BaseURL != "" {
		client, err := gatekeeper.NewClient(gatekeeper.Config{
			BaseURL: cfg.Auth.BaseURL,
			APIKey:  cfg.Auth.APIKey,
			Timeout: cfg.Auth.Timeout,
		})
		if err != nil {
			log.Error("auth client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = gatekeeper.NewVerifier(client)
	} else {
		log.Warn("no auth verifier configured, running in dev mode", nil)
	}

	opts := router.Options{
		AuthVerifier:      verifier,
		Logger:            log,
		DisposableDomains: cfg.Identity.DisposableDomains(),
		QRBaseURL:         cfg.Pets.QRBaseURL,
	}

	if cfg.Database.DSN != "" {
		db, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := pg.Migrate(db); err != nil {
				log.Error("db migrate failed", map[string]any{"error": err.Error()})
				os.Exit(1)
			}
		}
		opts.DB = db
	} else {
		log.Warn("no DB_DSN configured, using in-memory repositories", nil)
	}

	if cfg.Assets.Origin != "" {
		fetcher, err := httpclient.NewWithBaseURL(cfg.Assets.Origin, httpclient.DefaultTimeout)
		if err != nil {
			log.Error("assets origin invalid", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		cache := staticcache.New(cfg.Assets.Version, fetcher, log)
		if paths := cfg.Assets.PrecachePaths(); len(paths) > 0 {
			n := cache.Precache(context.Background(), paths)
			log.Info("assets precached", map[string]any{"cached": n, "requested": len(paths)})
		}
		opts.Assets = cache
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Server.Addr})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}
