// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/transfer"
)

// PresetResponse describes a starter template.
type PresetResponse struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Components  int    `json:"components"`
}

// ImportResponse summarizes an applied import.
type ImportResponse struct {
	Version    string             `json:"version"`
	Components int                `json:"components"`
	Metadata   *transfer.Metadata `json:"metadata,omitempty"`
	Page       []model.Component  `json:"page"`
}

// ListPresets handles GET /presets.
func (h *Handler) ListPresets(w http.ResponseWriter, _ *http.Request) {
	presets, err := transfer.Presets()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, PresetResponse{
			Name:        p.Name,
			Title:       p.Title,
			Description: p.Description,
			Components:  len(p.Components),
		})
	}
	WriteSuccess(w, out, nil)
}

// ApplyPreset handles POST /pages/{id}/preset.
func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.ApplyPreset(req.Name); err != nil {
		writeError(w, h.logger, err)
		return
	}
	WriteSuccess(w, s.Page().Components, nil)
}

// Export handles GET /pages/{id}/export. The document is sent as an
// attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	page := s.Page()
	data, err := s.Export(h.exporter, h.author)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.json", page.Slug, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

// Import handles POST /pages/{id}/import. The body is an export document;
// on success it replaces the page's blocks.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r.Body, transfer.MaxImportSize)
	if errors.Is(err, errBodyTooLarge) {
		WriteTooLarge(w, err.Error())
		return
	}
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	s := h.session(w, r)
	if s == nil {
		return
	}

	doc, err := s.Import(data)
	if err != nil {
		h.logger.Warn("import rejected", "page_id", s.Page().ID, "error", err)
		writeError(w, h.logger, err)
		return
	}

	page := s.Page()
	h.logger.Info("import applied", "page_id", page.ID, "components", len(doc.Components))
	WriteSuccess(w, ImportResponse{
		Version:    doc.Version,
		Components: len(doc.Components),
		Metadata:   doc.Metadata,
		Page:       page.Components,
	}, nil)
}
