// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/model"
)

// AddComponentRequest is the body of POST /pages/{id}/components.
type AddComponentRequest struct {
	Type   model.ComponentType `json:"type"`
	Config model.Config        `json:"config"`
}

// MoveComponentRequest is the body of POST .../move. Either Direction
// ("up" or "down") or Index is set.
type MoveComponentRequest struct {
	Direction string `json:"direction,omitempty"`
	Index     *int   `json:"index,omitempty"`
}

// AddComponent handles POST /pages/{id}/components.
func (h *Handler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var req AddComponentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		WriteValidationError(w, "Validation failed", map[string]string{"type": "Type is required"})
		return
	}
	s := h.session(w, r)
	if s == nil {
		return
	}

	c, err := s.AddComponent(req.Type, req.Config)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !req.Type.IsKnown() {
		h.logger.Warn("component of unknown type added", "page_id", s.Page().ID, "type", req.Type)
	}
	WriteCreated(w, c)
}

// UpdateComponent handles PUT /pages/{id}/components/{cid}.
func (h *Handler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Config model.Config `json:"config"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.componentEdit(w, r, func(id string, s *editor.Session) error { return s.UpdateConfig(id, req.Config) })
}

// ChangeTemplate handles PUT /pages/{id}/components/{cid}/template.
func (h *Handler) ChangeTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template model.Config `json:"template"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.componentEdit(w, r, func(id string, s *editor.Session) error { return s.ChangeTemplate(id, req.Template) })
}

// MoveComponent handles POST /pages/{id}/components/{cid}/move.
func (h *Handler) MoveComponent(w http.ResponseWriter, r *http.Request) {
	var req MoveComponentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var move func(id string, s *editor.Session) error
	switch {
	case req.Index != nil:
		index := *req.Index
		move = func(id string, s *editor.Session) error { return s.Reorder(id, index) }
	case req.Direction == "up":
		move = func(id string, s *editor.Session) error { return s.MoveUp(id) }
	case req.Direction == "down":
		move = func(id string, s *editor.Session) error { return s.MoveDown(id) }
	default:
		WriteValidationError(w, "Validation failed", map[string]string{"direction": `Use "up", "down" or an index`})
		return
	}
	h.componentEdit(w, r, move)
}

// ToggleComponent handles POST /pages/{id}/components/{cid}/toggle.
func (h *Handler) ToggleComponent(w http.ResponseWriter, r *http.Request) {
	h.componentEdit(w, r, func(id string, s *editor.Session) error { return s.ToggleVisibility(id) })
}

// DeleteComponent handles DELETE /pages/{id}/components/{cid}.
func (h *Handler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	h.componentEdit(w, r, func(id string, s *editor.Session) error { return s.DeleteComponent(id) })
}

// componentEdit applies fn to the component named in the route and responds
// with the updated component list.
func (h *Handler) componentEdit(w http.ResponseWriter, r *http.Request, fn func(id string, s *editor.Session) error) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := fn(chi.URLParam(r, paramComponentID), s); err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, s.Page().Components, nil)
}
