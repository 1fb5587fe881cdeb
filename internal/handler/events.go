// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/pagebuilder/internal/model"
)

// ListEvents handles GET /events. ?page_id= filters by page and ?limit=
// caps the result (default 100).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	if limit == 0 || limit > 1000 {
		limit = 100
	}

	events, err := h.events.ListEvents(r.Context(), r.URL.Query().Get("page_id"), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	WriteSuccess(w, events, nil)
}
