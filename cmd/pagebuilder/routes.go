// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegiv/pagebuilder/internal/cache"
	"github.com/olegiv/pagebuilder/internal/compiler"
	"github.com/olegiv/pagebuilder/internal/config"
	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/handler"
	"github.com/olegiv/pagebuilder/internal/metrics"
	"github.com/olegiv/pagebuilder/internal/middleware"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/version"
)

type routerDeps struct {
	cfg      *config.Config
	db       *sql.DB
	pages    *store.PageStore
	events   *store.EventStore
	sessions *editor.Registry
	compiler *compiler.Compiler
	cache    cache.Cache
	registry *prometheus.Registry // nil disables /metrics
	version  version.Info
	logger   *slog.Logger
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())))

	healthHandler := handler.NewHealthHandler(d.db, d.cache, d.cfg.UploadsDir, d.cfg.APIToken, d.version.Version)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	if d.registry != nil {
		r.With(middleware.BearerToken(d.cfg.APIToken)).Handle("/metrics", metrics.HTTPHandler(d.registry))
	}

	api := handler.New(handler.Config{
		Pages:         d.pages,
		Events:        d.events,
		Sessions:      d.sessions,
		Compiler:      d.compiler,
		ImportLimiter: middleware.NewRateLimiter(d.cfg.ImportRate, d.cfg.ImportBurst),
		Author:        d.cfg.SiteName,
		Logger:        d.logger,
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BearerToken(d.cfg.APIToken))
		r.Mount("/", api.Routes())
	})

	// Materialized images are served from the uploads directory.
	if prefix := strings.TrimSuffix(d.cfg.UploadsURL, "/"); strings.HasPrefix(prefix, "/") {
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(d.cfg.UploadsDir))))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteNotFound(w, "Not found")
	})

	return r
}
