// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

// Page is a document assembled from ordered content blocks.
type Page struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ThemeID       string        `json:"theme_id"`
	Status        string        `json:"status"`
	SEO           SEO           `json:"seo"`
	LoadingScreen LoadingScreen `json:"loading_screen"`
	Components    []Component   `json:"components"`
	SubPages      []SubPage     `json:"sub_pages,omitempty"`
	MultiPage     bool          `json:"multi_page"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewPage creates an empty draft page with a fresh ID.
func NewPage(title, slug string) *Page {
	now := time.Now().UTC()
	return &Page{
		ID:         NewID(),
		Slug:       slug,
		Title:      title,
		Status:     PageStatusDraft,
		Components: []Component{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// IsArchived returns true if the page is archived.
func (p *Page) IsArchived() bool {
	return p.Status == PageStatusArchived
}

// ValidStatus reports whether s is a known page status.
func ValidStatus(s string) bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}

// FindComponent returns the index of the component with the given ID, or -1.
func (p *Page) FindComponent(id string) int {
	for i := range p.Components {
		if p.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// Header returns the page's header component, if any.
func (p *Page) Header() *Component {
	for i := range p.Components {
		if p.Components[i].Type == TypeHeader {
			return &p.Components[i]
		}
	}
	return nil
}

// FindSubPage returns the index of the subpage with the given ID, or -1.
func (p *Page) FindSubPage(id string) int {
	for i := range p.SubPages {
		if p.SubPages[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	cp := *p
	cp.Components = CloneComponents(p.Components)
	if p.SubPages != nil {
		cp.SubPages = make([]SubPage, len(p.SubPages))
		for i, sp := range p.SubPages {
			sp.Components = CloneComponents(sp.Components)
			cp.SubPages[i] = sp
		}
	}
	return &cp
}

// SEO holds search engine metadata for a page.
type SEO struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
	OGImage         string `json:"og_image,omitempty"`
	Canonical       string `json:"canonical,omitempty"`
	NoIndex         bool   `json:"no_index,omitempty"`
	NoFollow        bool   `json:"no_follow,omitempty"`
}

// LoadingScreen configures the optional splash shown while a page loads.
type LoadingScreen struct {
	Enabled    bool   `json:"enabled"`
	Style      string `json:"style,omitempty"` // spinner, dots, bar
	Color      string `json:"color,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

// SubPage is an additional page of a multi-page site with its own blocks.
type SubPage struct {
	ID          string      `json:"id"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Visible     bool        `json:"visible"`
	Description string      `json:"description,omitempty"`
	Components  []Component `json:"components"`
}

// HeaderTab is a navigation entry derived from the page structure.
type HeaderTab struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Link string `json:"link"`
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}
