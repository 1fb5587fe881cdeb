// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/model"
)

// Parse decodes and validates an export document. Numbers inside configs
// are kept as json.Number so they re-export byte for byte.
func Parse(data []byte) (*ExportData, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader is Parse for a stream. At most MaxImportSize bytes are read.
func ParseReader(r io.Reader) (*ExportData, error) {
	dec := json.NewDecoder(io.LimitReader(r, MaxImportSize+1))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, invalid("", "document is empty or truncated")
		}
		return nil, invalid("", "malformed JSON: %v", err)
	}
	if dec.InputOffset() > MaxImportSize {
		return nil, invalid("", "document exceeds %d bytes", MaxImportSize)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("", "unexpected data after document")
	}

	return validate(raw)
}

func validate(raw any) (*ExportData, error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("", "document must be an object")
	}

	version, ok := root["version"].(string)
	if !ok {
		return nil, invalid("version", "must be a string")
	}
	timestamp, ok := root["timestamp"].(string)
	if !ok {
		return nil, invalid("timestamp", "must be a string")
	}
	items, ok := root["components"].([]any)
	if !ok {
		return nil, invalid("components", "must be a list")
	}

	out := &ExportData{
		Version:    version,
		Timestamp:  timestamp,
		Components: make([]model.Component, 0, len(items)),
	}

	seen := make(map[string]bool, len(items))
	headers := 0
	for i, item := range items {
		c, err := validateComponent(i, item)
		if err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, invalid(fmt.Sprintf("components[%d].id", i), "duplicate id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Type == model.TypeHeader {
			headers++
			if headers > 1 {
				return nil, invalid(fmt.Sprintf("components[%d].type", i), "only one header is allowed")
			}
		}
		out.Components = append(out.Components, c)
	}

	if m, ok := root["metadata"]; ok && m != nil {
		meta, err := validateMetadata(m)
		if err != nil {
			return nil, err
		}
		out.Metadata = meta
	}
	return out, nil
}

func validateComponent(i int, item any) (model.Component, error) {
	field := func(name string) string { return fmt.Sprintf("components[%d].%s", i, name) }

	obj, ok := item.(map[string]any)
	if !ok {
		return model.Component{}, invalid(fmt.Sprintf("components[%d]", i), "must be an object")
	}
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return model.Component{}, invalid(field("id"), "must be a non-empty string")
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return model.Component{}, invalid(field("type"), "must be a string")
	}
	cfg, ok := obj["config"].(map[string]any)
	if !ok {
		return model.Component{}, invalid(field("config"), "must be an object")
	}

	c := model.Component{
		ID:      id,
		Type:    model.ComponentType(typ),
		Order:   i,
		Visible: true,
		Config:  model.Config(cfg),
	}

	if v, ok := obj["order"]; ok {
		n, isNum := v.(json.Number)
		if !isNum {
			return model.Component{}, invalid(field("order"), "must be an integer")
		}
		order, err := n.Int64()
		if err != nil {
			return model.Component{}, invalid(field("order"), "must be an integer")
		}
		c.Order = int(order)
	}
	if v, ok := obj["visible"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return model.Component{}, invalid(field("visible"), "must be a boolean")
		}
		c.Visible = b
	}
	return c, nil
}

func validateMetadata(v any) (*Metadata, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("metadata", "must be an object")
	}
	var meta Metadata
	for key, dst := range map[string]*string{
		"title":       &meta.Title,
		"description": &meta.Description,
		"author":      &meta.Author,
	} {
		raw, present := obj[key]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("metadata."+key, "must be a string")
		}
		*dst = s
	}
	return &meta, nil
}

// ImportInto validates data and, only if it is valid, replaces the page's
// components with the imported ones. The page is left untouched on error.
func ImportInto(page *model.Page, data []byte) (*ExportData, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	page.Components = model.CloneComponents(doc.Components)
	layout.Normalize(page)
	return doc, nil
}
