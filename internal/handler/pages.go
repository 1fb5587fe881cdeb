// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/transfer"
	"github.com/olegiv/pagebuilder/internal/util"
)

// CreatePageRequest is the body of POST /pages.
type CreatePageRequest struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Preset string `json:"preset,omitempty"`
}

// UpdatePageRequest is the body of PUT /pages/{id}. Omitted fields keep
// their current value.
type UpdatePageRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Slug          *string              `json:"slug"`
	Status        *string              `json:"status"`
	SEO           *model.SEO           `json:"seo"`
	LoadingScreen *model.LoadingScreen `json:"loading_screen"`
	MultiPage     *bool                `json:"multi_page"`
}

// PageResponse wraps a page with its editing state.
type PageResponse struct {
	*model.Page
	Dirty   bool       `json:"dirty"`
	SavedAt *time.Time `json:"saved_at,omitempty"`
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit == 0 || limit > 200 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)

	pages, err := h.pages.ListPages(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	total, err := h.pages.CountPages(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if pages == nil {
		pages = []store.PageSummary{}
	}
	WriteSuccess(w, pages, &Meta{Total: total, Limit: limit, Offset: offset})
}

// CreatePage handles POST /pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	fieldErrors := map[string]string{}
	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		fieldErrors["slug"] = "Slug must contain only lowercase letters, numbers and hyphens"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, "Validation failed", fieldErrors)
		return
	}

	page := model.NewPage(req.Title, req.Slug)
	if req.Preset != "" {
		if err := transfer.ApplyPreset(page, req.Preset); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	s, err := h.sessions.Create(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("page created", "page_id", page.ID, "slug", page.Slug, "preset", req.Preset)
	WriteCreated(w, pageResponse(s.Page(), false, s.SavedAt()))
}

// GetPage handles GET /pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	WriteSuccess(w, pageResponse(s.Page(), s.Dirty(), s.SavedAt()), nil)
}

// UpdatePage handles PUT /pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req UpdatePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if s == nil {
		return
	}

	if req.Slug != nil {
		if err := s.SetSlug(*req.Slug); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	if req.Status != nil {
		if err := s.SetStatus(*req.Status); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	if req.Title != nil || req.Description != nil || req.SEO != nil || req.LoadingScreen != nil {
		cur := s.Page()
		title, desc, seo, loading := cur.Title, cur.Description, cur.SEO, cur.LoadingScreen
		if req.Title != nil {
			title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			desc = *req.Description
		}
		if req.SEO != nil {
			seo = *req.SEO
		}
		if req.LoadingScreen != nil {
			loading = *req.LoadingScreen
		}
		s.SetDetails(title, desc, seo, loading)
	}
	if req.MultiPage != nil {
		s.SetMultiPage(*req.MultiPage)
	}

	WriteSuccess(w, pageResponse(s.Page(), s.Dirty(), s.SavedAt()), nil)
}

// DeletePage handles DELETE /pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramPageID)
	h.sessions.Forget(id)
	if err := h.pages.DeletePage(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("page deleted", "page_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// SavePage handles POST /pages/{id}/save.
func (h *Handler) SavePage(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Save(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, pageResponse(s.Page(), s.Dirty(), s.SavedAt()), nil)
}

// ListRevisions handles GET /pages/{id}/revisions.
func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	revs, err := h.pages.ListRevisions(r.Context(), chi.URLParam(r, paramPageID))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, revs, nil)
}

// GetRevision handles GET /pages/{id}/revisions/{rev}.
func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	revID, err := strconv.ParseInt(chi.URLParam(r, paramRevisionID), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid revision ID")
		return
	}
	page, err := h.pages.GetRevision(r.Context(), chi.URLParam(r, paramPageID), revID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// AddSubPageRequest is the body of POST /pages/{id}/subpages.
type AddSubPageRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// AddSubPage handles POST /pages/{id}/subpages.
func (h *Handler) AddSubPage(w http.ResponseWriter, r *http.Request) {
	var req AddSubPageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if s == nil {
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	sp, err := s.AddSubPage(strings.TrimSpace(req.Title), req.Slug)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteCreated(w, sp)
}

// RemoveSubPage handles DELETE /pages/{id}/subpages/{sid}.
func (h *Handler) RemoveSubPage(w http.ResponseWriter, r *http.Request) {
	h.subPageEdit(w, r, func(id string, s *editor.Session) error { return s.RemoveSubPage(id) })
}

// ToggleSubPage handles POST /pages/{id}/subpages/{sid}/toggle.
func (h *Handler) ToggleSubPage(w http.ResponseWriter, r *http.Request) {
	h.subPageEdit(w, r, func(id string, s *editor.Session) error { return s.ToggleSubPage(id) })
}

// SetSubPageComponents handles PUT /pages/{id}/subpages/{sid}/components.
func (h *Handler) SetSubPageComponents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Components []model.Component `json:"components"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.subPageEdit(w, r, func(id string, s *editor.Session) error {
		return s.SetSubPageComponents(id, req.Components)
	})
}

func (h *Handler) subPageEdit(w http.ResponseWriter, r *http.Request, fn func(id string, s *editor.Session) error) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := fn(chi.URLParam(r, paramSubPageID), s); err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, s.Page(), nil)
}

func pageResponse(p *model.Page, dirty bool, savedAt time.Time) PageResponse {
	resp := PageResponse{Page: p, Dirty: dirty}
	if !savedAt.IsZero() {
		resp.SavedAt = &savedAt
	}
	return resp
}
