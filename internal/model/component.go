// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ComponentType identifies the kind of a content block. The set is open:
// values outside the constants below must be tolerated everywhere.
type ComponentType string

// Known component types.
const (
	TypeHeader       ComponentType = "header"
	TypeHero         ComponentType = "hero"
	TypeFeatures     ComponentType = "features"
	TypePricing      ComponentType = "pricing"
	TypeTestimonials ComponentType = "testimonials"
	TypeCTA          ComponentType = "cta"
	TypeFooter       ComponentType = "footer"
	TypeStats        ComponentType = "stats"
	TypeTeam         ComponentType = "team"
	TypeFAQ          ComponentType = "faq"
	TypeGallery      ComponentType = "gallery"
	TypeLogoCloud    ComponentType = "logo-cloud"
	TypeContact      ComponentType = "contact"
	TypeContent      ComponentType = "content"
	TypeNewsletter   ComponentType = "newsletter"
	TypeVideo        ComponentType = "video"
)

// KnownTypes lists the component types with dedicated support.
var KnownTypes = []ComponentType{
	TypeHeader, TypeHero, TypeFeatures, TypePricing, TypeTestimonials, TypeCTA,
	TypeFooter, TypeStats, TypeTeam, TypeFAQ, TypeGallery, TypeLogoCloud,
	TypeContact, TypeContent, TypeNewsletter, TypeVideo,
}

// IsKnown reports whether t has dedicated support.
func (t ComponentType) IsKnown() bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Component is one content block on a page.
type Component struct {
	ID      string        `json:"id"`
	Type    ComponentType `json:"type"`
	Order   int           `json:"order"`
	Visible bool          `json:"visible"`
	Config  Config        `json:"config"`
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	c.Config = c.Config.Clone()
	return c
}

// CloneComponents deep copies a component list.
func CloneComponents(cs []Component) []Component {
	if cs == nil {
		return nil
	}
	out := make([]Component, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}
