package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lysyi3m/catalog-sync/app/api"
	"github.com/lysyi3m/catalog-sync/app/catalog"
	"github.com/lysyi3m/catalog-sync/app/cfg"
	"github.com/lysyi3m/catalog-sync/app/database"
	"github.com/lysyi3m/catalog-sync/app/sources"
	"github.com/lysyi3m/catalog-sync/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was requested
		return
	}

	setupLogging(c)

	slog.Info("Starting Catalog Sync", "version", c.Version)

	configCache := sources.NewConfigCache(c.CategoriesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load category configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Category configurations loaded", "count", configCache.GetConfigCount())

	client := &http.Client{Timeout: 60 * time.Second}
	srcs := []sources.Source{
		sources.NewJSONSource(client, c.UserAgent),
		sources.NewHTMLSource(client, c.UserAgent),
		sources.NewFeedSource(client, c.UserAgent),
	}
	extractor := sources.NewDescriptionExtractor(client, c.UserAgent)

	store := catalog.NewStore(c.CatalogFile)
	normalizer := catalog.NewNormalizer(c.CurrencySymbol, c.ContactPhone, c.Greeting)
	writer := catalog.NewWriter(c.CatalogFile, c.ReportFile)

	if c.Serve {
		runServer(c, store, normalizer, writer, configCache, srcs, extractor)
		return
	}

	// Default mode: a single synchronization pass. Run history is
	// best-effort here, a broken database must not block the sync.
	var runRepo database.RunRepository
	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Warn("Run history unavailable", "error", err)
	} else {
		defer db.Close()
		if _, _, err := database.RunMigrations(db); err != nil {
			slog.Warn("Run history unavailable", "error", err)
		} else {
			runRepo = database.NewRunRepository(db)
		}
	}

	runner := tasks.NewRunner(store, normalizer, writer, configCache, srcs, extractor, runRepo)

	result, err := runner.Run(context.Background())
	if err != nil {
		slog.Error("Synchronization failed", "error", err)
		os.Exit(1)
	}
	if result.PersistErr != nil {
		os.Exit(1)
	}
}

func runServer(c *cfg.Cfg, store *catalog.Store, normalizer *catalog.Normalizer,
	writer *catalog.Writer, configCache *sources.ConfigCache,
	srcs []sources.Source, extractor *sources.DescriptionExtractor) {
	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "schema_version", version, "dirty", dirty)

	runRepo := database.NewRunRepository(db)
	runner := tasks.NewRunner(store, normalizer, writer, configCache, srcs, extractor, runRepo)

	scheduler := tasks.NewScheduler(runner, time.Duration(c.SyncInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(store, c.ReportFile, configCache, runRepo, scheduler)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// setupLogging routes logs to stdout and, when the log directory is
// writable, to a per-invocation file alongside it.
func setupLogging(c *cfg.Cfg) {
	var out io.Writer = os.Stdout

	if c.LogDir != "" {
		if err := os.MkdirAll(c.LogDir, 0o755); err == nil {
			name := fmt.Sprintf("sync-%s.log", time.Now().Format("20060102-150405"))
			if f, err := os.OpenFile(filepath.Join(c.LogDir, name),
				os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				out = io.MultiWriter(os.Stdout, f)
			}
		}
	}

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
}
