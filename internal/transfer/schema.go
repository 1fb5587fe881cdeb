// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports and imports component lists as portable JSON
// documents and provides the catalog of starter presets.
package transfer

import (
	"errors"
	"fmt"

	"github.com/olegiv/pagebuilder/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// MaxImportSize bounds the size of an import document.
const MaxImportSize = 10 << 20

// ExportData is the export document.
type ExportData struct {
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	Components []model.Component `json:"components"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
}

// Metadata describes the exported document.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
}

// ErrInvalidImport is matched by every *ValidationError.
var ErrInvalidImport = errors.New("invalid import document")

// ValidationError explains why an import document was rejected.
type ValidationError struct {
	Field  string // JSON path of the offending value, e.g. components[2].config
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid import: " + e.Reason
	}
	return fmt.Sprintf("invalid import: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidImport.
func (e *ValidationError) Unwrap() error { return ErrInvalidImport }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
