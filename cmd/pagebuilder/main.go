// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/olegiv/pagebuilder/internal/cache"
	"github.com/olegiv/pagebuilder/internal/compiler"
	"github.com/olegiv/pagebuilder/internal/config"
	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/logging"
	"github.com/olegiv/pagebuilder/internal/media"
	"github.com/olegiv/pagebuilder/internal/metrics"
	"github.com/olegiv/pagebuilder/internal/scheduler"
	"github.com/olegiv/pagebuilder/internal/seo"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// options holds the command line flags.
type options struct {
	seedPreset string
	seedTitle  string
	seedSlug   string
	bundleSlug string
	bundleOut  string
}

func main() {
	var opts options

	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	flag.StringVar(&opts.seedPreset, "seed-preset", "", "Create a page from this preset on startup unless the slug exists")
	flag.StringVar(&opts.seedTitle, "seed-title", "Home", "Title of the seeded page")
	flag.StringVar(&opts.seedSlug, "seed-slug", "home", "Slug of the seeded page")
	flag.StringVar(&opts.bundleSlug, "bundle", "", "Write the static site of the page with this slug as a zip archive and exit")
	flag.StringVar(&opts.bundleOut, "out", "", "Output path for -bundle (default: <slug>.zip)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "pagebuilder - block-based page editor and static site compiler\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_DB_PATH           SQLite database path (default: ./data/pagebuilder.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_API_TOKEN         Bearer token for /api (optional, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_UPLOADS_DIR       Directory for uploaded images (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_SITE_URL          Absolute site URL, enables sitemap.xml and robots.txt\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_REDIS_URL         Redis URL for the compile cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGEBUILDER_AUTOSAVE_INTERVAL Autosave quiet period (default: 5s)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(opts, versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(opts options, versionInfo version.Info) error {
	config.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if v, err := store.SchemaVersion(db); err == nil {
		slog.Info("database ready", "schema_version", v)
	}

	pages := store.NewPageStore(db)
	events := store.NewEventStore(db)

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if opts.seedPreset != "" {
		if _, err := store.Seed(ctx, pages, opts.seedPreset, opts.seedTitle, opts.seedSlug); err != nil {
			return fmt.Errorf("seeding page: %w", err)
		}
	}

	cacheResult, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	comp, err := compiler.New(
		compiler.WithLogger(logger),
		compiler.WithMetrics(recorder),
		compiler.WithCache(cacheResult.Cache, cfg.CacheTTLDuration()),
		compiler.WithSite(seo.SiteConfig{SiteName: cfg.SiteName, SiteURL: cfg.SiteURL}),
		compiler.WithGenerator(versionInfo.Generator()),
	)
	if err != nil {
		return fmt.Errorf("initializing compiler: %w", err)
	}

	if opts.bundleSlug != "" {
		return writeBundle(ctx, pages, comp, opts.bundleSlug, opts.bundleOut)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	uploader := media.NewLocalUploader(media.LocalUploaderOptions{
		Dir:       cfg.UploadsDir,
		PublicURL: cfg.UploadsURL,
		MaxWidth:  cfg.ImageMaxWidth,
		Logger:    logger,
	})

	sessions := editor.NewRegistry(pages, editor.Options{
		Uploader:           uploader,
		MaterializeTimeout: cfg.MaterializeTimeout,
		Autosave: editor.AutosaveConfig{
			Interval: cfg.AutosaveInterval,
			MaxWait:  editor.DefaultAutosaveConfig().MaxWait,
		},
		Logger:  logger,
		Metrics: recorder,
	})

	jobs := scheduler.New(logger)
	if cfg.EventRetentionDays > 0 {
		retention := time.Duration(cfg.EventRetentionDays) * 24 * time.Hour
		if err := jobs.Add(scheduler.Job{
			Name:        "prune-events",
			Description: "Delete event log entries past the retention period",
			Schedule:    cfg.MaintenanceSchedule,
			Run:         scheduler.PruneEvents(events, retention, time.Now, logger),
		}); err != nil {
			return fmt.Errorf("scheduling maintenance: %w", err)
		}
	}
	jobs.Start()
	defer jobs.Stop()

	r := newRouter(routerDeps{
		cfg:      cfg,
		db:       db,
		pages:    pages,
		events:   events,
		sessions: sessions,
		compiler: comp,
		cache:    cacheResult.Cache,
		registry: registry,
		version:  versionInfo,
		logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Pending autosaves are flushed before the database closes.
	sessions.CloseAll()
	slog.Info("server stopped")
	return nil
}

// writeBundle compiles the page with the given slug into a zip archive.
func writeBundle(ctx context.Context, pages *store.PageStore, comp *compiler.Compiler, slug, out string) error {
	page, err := pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("loading page: %w", err)
	}
	data, err := comp.Bundle(ctx, compiler.PagesForBundle(page))
	if err != nil {
		return fmt.Errorf("bundling %q: %w", slug, err)
	}
	if out == "" {
		out = slug + ".zip"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	slog.Info("bundle written", "slug", slug, "path", out, "bytes", len(data))
	return nil
}
