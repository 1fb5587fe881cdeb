// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olegiv/pagebuilder/internal/model"
)

// Exporter writes export documents.
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an Exporter stamped with the wall clock.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// NewExporterWithClock creates an Exporter with a fixed time source.
func NewExporterWithClock(now func() time.Time) *Exporter {
	return &Exporter{now: now}
}

// Build assembles the export document. Components are deep copied and a nil
// config is written as an empty object so the result always re-imports.
func (e *Exporter) Build(components []model.Component, meta *Metadata) *ExportData {
	comps := model.CloneComponents(components)
	if comps == nil {
		comps = []model.Component{}
	}
	for i := range comps {
		if comps[i].Config == nil {
			comps[i].Config = model.Config{}
		}
	}

	data := &ExportData{
		Version:    ExportVersion,
		Timestamp:  e.now().UTC().Format(time.RFC3339),
		Components: comps,
	}
	if meta != nil {
		m := *meta
		data.Metadata = &m
	}
	return data
}

// Export returns the indented JSON export of components.
func (e *Exporter) Export(components []model.Component, meta *Metadata) ([]byte, error) {
	out, err := json.MarshalIndent(e.Build(components, meta), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return out, nil
}

// ExportToWriter writes the JSON export of components to w.
func (e *Exporter) ExportToWriter(w io.Writer, components []model.Component, meta *Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Build(components, meta)); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ExportPage exports a page's components with its title and description.
func (e *Exporter) ExportPage(page *model.Page, author string) ([]byte, error) {
	return e.Export(page.Components, &Metadata{
		Title:       page.Title,
		Description: page.Description,
		Author:      author,
	})
}
