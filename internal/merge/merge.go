// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package merge reconciles a block's existing content with a newly chosen
// template. The template supplies structure and defaults; user content is
// carried over field by field, whole values only.
package merge

import (
	"strings"

	"github.com/olegiv/pagebuilder/internal/model"
)

// scalarFields are copied from the old config when non-empty.
var scalarFields = []string{
	"title", "subtitle", "description", "content", "image", "logo",
	"tagline", "email", "phone", "address", "copyright",
}

// listFields replace the template's list when the old list is non-empty.
var listFields = []string{
	"features", "testimonials", "plans", "stats", "faqs", "members",
	"images", "logos", "columns", "tabs", "fields",
}

// ctaFields are copied from the old config as whole objects.
var ctaFields = []string{"primaryCTA", "secondaryCTA", "cta", "ctaButton"}

// verbatimFields are always carried over when present.
var verbatimFields = []string{"spacing", "contactInfo", "videoUrl"}

// defaultBackgroundColors are treated as "not customized".
var defaultBackgroundColors = map[string]bool{
	"":            true,
	"white":       true,
	"#fff":        true,
	"#ffffff":     true,
	"gray-50":     true,
	"#f9fafb":     true,
	"gray-100":    true,
	"#f3f4f6":     true,
	"transparent": true,
}

// Merge returns newCfg with the user content of oldCfg carried over. When
// either side is nil the other is returned. Neither input is modified.
func Merge(oldCfg, newCfg model.Config) model.Config {
	if oldCfg == nil {
		return newCfg.Clone()
	}
	if newCfg == nil {
		return oldCfg.Clone()
	}

	out := newCfg.Clone()

	for _, k := range scalarFields {
		if v, ok := oldCfg[k]; ok && !model.IsEmpty(v) {
			out[k] = model.CloneValue(v)
		}
	}

	for _, k := range listFields {
		if l := oldCfg.List(k); len(l) > 0 {
			out[k] = model.CloneValue(l)
		}
	}

	for _, k := range ctaFields {
		if v, ok := oldCfg[k]; ok && v != nil {
			out[k] = model.CloneValue(v)
		}
	}

	if bg := oldCfg.Map("background"); bg != nil && customBackground(bg) {
		out["background"] = model.CloneValue(bg)
	}

	if anim := oldCfg.Map("animation"); anim != nil && model.ToString(anim["type"]) != "none" {
		out["animation"] = model.CloneValue(anim)
	}

	for _, k := range verbatimFields {
		if v, ok := oldCfg[k]; ok && v != nil {
			out[k] = model.CloneValue(v)
		}
	}
	if social := oldCfg.List("social"); len(social) > 0 {
		out["social"] = model.CloneValue(social)
	}

	return out
}

// customBackground reports whether a background looks user-customized.
func customBackground(bg map[string]any) bool {
	if model.ToString(bg["type"]) != "solid" {
		return true
	}
	color := strings.ToLower(strings.TrimSpace(model.ToString(bg["color"])))
	return !defaultBackgroundColors[color]
}
