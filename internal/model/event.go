// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryPage    = "page"
	EventCategoryMedia   = "media"
	EventCategoryCompile = "compile"
	EventCategoryImport  = "import"
	EventCategoryConfig  = "config"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)

// Event is an audit log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	PageID    string    `json:"page_id,omitempty"`
	Metadata  string    `json:"metadata"` // JSON object
	CreatedAt time.Time `json:"created_at"`
}
