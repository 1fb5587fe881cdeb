// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the JSON API for editing, previewing, exporting
// and bundling pages.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pagebuilder/internal/compiler"
	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/middleware"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/transfer"
)

// Route parameters.
const (
	paramPageID      = "pageID"
	paramComponentID = "componentID"
	paramSubPageID   = "subPageID"
	paramRevisionID  = "revisionID"
)

// compileTimeout bounds preview and bundle requests.
const compileTimeout = 30 * time.Second

// Config holds the dependencies of Handler.
type Config struct {
	Pages    *store.PageStore
	Events   *store.EventStore
	Sessions *editor.Registry
	Compiler *compiler.Compiler
	Exporter *transfer.Exporter // defaults to transfer.NewExporter()

	// ImportLimiter limits import requests per client. Nil disables it.
	ImportLimiter *middleware.RateLimiter

	// Author is written into export metadata.
	Author string
	Logger *slog.Logger
}

// Handler serves the page API.
type Handler struct {
	pages         *store.PageStore
	events        *store.EventStore
	sessions      *editor.Registry
	compiler      *compiler.Compiler
	exporter      *transfer.Exporter
	importLimiter *middleware.RateLimiter
	author        string
	logger        *slog.Logger
}

// New creates a Handler.
func New(cfg Config) *Handler {
	if cfg.Exporter == nil {
		cfg.Exporter = transfer.NewExporter()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		pages:         cfg.Pages,
		events:        cfg.Events,
		sessions:      cfg.Sessions,
		compiler:      cfg.Compiler,
		exporter:      cfg.Exporter,
		importLimiter: cfg.ImportLimiter,
		author:        cfg.Author,
		logger:        cfg.Logger,
	}
}

// Routes returns the API router. Mount it under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/presets", h.ListPresets)
	r.Get("/events", h.ListEvents)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)

		r.Route("/{"+paramPageID+"}", func(r chi.Router) {
			r.Get("/", h.GetPage)
			r.Put("/", h.UpdatePage)
			r.Delete("/", h.DeletePage)
			r.Post("/save", h.SavePage)

			r.Get("/revisions", h.ListRevisions)
			r.Get("/revisions/{"+paramRevisionID+"}", h.GetRevision)

			r.Post("/components", h.AddComponent)
			r.Route("/components/{"+paramComponentID+"}", func(r chi.Router) {
				r.Put("/", h.UpdateComponent)
				r.Delete("/", h.DeleteComponent)
				r.Put("/template", h.ChangeTemplate)
				r.Post("/move", h.MoveComponent)
				r.Post("/toggle", h.ToggleComponent)
			})

			r.Post("/subpages", h.AddSubPage)
			r.Route("/subpages/{"+paramSubPageID+"}", func(r chi.Router) {
				r.Delete("/", h.RemoveSubPage)
				r.Post("/toggle", h.ToggleSubPage)
				r.Put("/components", h.SetSubPageComponents)
			})

			r.Post("/preset", h.ApplyPreset)
			r.Get("/export", h.Export)
			r.With(h.limitImports).Post("/import", h.Import)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(compileTimeout))
				r.Get("/preview", h.Preview)
				r.Get("/bundle", h.Bundle)
			})
		})
	})

	return r
}

func (h *Handler) limitImports(next http.Handler) http.Handler {
	if h.importLimiter == nil {
		return next
	}
	return h.importLimiter.Middleware()(next)
}

// session opens the editing session named by the page route parameter.
// It writes the error response and returns nil on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *editor.Session {
	s, err := h.sessions.Open(r.Context(), chi.URLParam(r, paramPageID))
	if err != nil {
		writeError(w, h.logger, err)
		return nil
	}
	return s
}
