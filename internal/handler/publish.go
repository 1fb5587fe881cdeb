// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/olegiv/pagebuilder/internal/compiler"
)

// Preview handles GET /pages/{id}/preview. It renders the home document, or
// the subpage named by ?slug= in multi-page mode.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	slug := r.URL.Query().Get("slug")
	if slug == "" {
		slug = "home"
	}

	var in *compiler.PageInput
	inputs := compiler.PagesForBundle(s.Page())
	for i := range inputs {
		if inputs[i].Slug == slug {
			in = &inputs[i]
			break
		}
	}
	if in == nil {
		WriteNotFound(w, fmt.Sprintf("no document for slug %q", slug))
		return
	}

	doc, err := h.compiler.Compile(r.Context(), *in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc.HTML))
}

// Bundle handles GET /pages/{id}/bundle. The site is sent as a zip archive.
func (h *Handler) Bundle(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	page := s.Page()

	data, err := h.compiler.Bundle(r.Context(), compiler.PagesForBundle(page))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", page.Slug+".zip"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
