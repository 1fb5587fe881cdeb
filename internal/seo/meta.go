// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, structured data, robots.txt and sitemaps
// for compiled static sites.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
)

// Meta holds all SEO meta tag data for a compiled document.
type Meta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Keywords      string // Meta keywords
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute when a site URL is known)
	OGType        string // Open Graph type
	OGURL         string // Open Graph URL
	Robots        string // Robots directive (index,follow / noindex,nofollow)
}

// PageData contains the document information used for meta tags.
type PageData struct {
	Title           string
	Description     string
	Filename        string
	MetaTitle       string
	MetaDescription string
	Keywords        string
	OGImage         string
	Canonical       string
	NoIndex         bool
	NoFollow        bool
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName string
	SiteURL  string
}

// BuildMeta creates a Meta struct from document and site data with fallbacks:
// meta title before page title, meta description before page description,
// explicit canonical before the generated one.
func BuildMeta(page PageData, site SiteConfig) *Meta {
	meta := &Meta{OGType: "website"}

	meta.Title = page.Title
	if page.MetaTitle != "" {
		meta.Title = page.MetaTitle
	}
	if meta.Title == "" {
		meta.Title = site.SiteName
	}
	meta.OGTitle = meta.Title

	meta.Description = page.Description
	if page.MetaDescription != "" {
		meta.Description = page.MetaDescription
	}
	meta.Description = truncateText(meta.Description, 160)
	meta.OGDescription = meta.Description

	meta.Keywords = page.Keywords

	if page.Canonical != "" {
		meta.Canonical = page.Canonical
	} else if site.SiteURL != "" && page.Filename != "" {
		meta.Canonical = makeAbsoluteURL(page.Filename, site.SiteURL)
	}
	meta.OGURL = meta.Canonical

	if page.OGImage != "" {
		if site.SiteURL != "" {
			meta.OGImage = makeAbsoluteURL(page.OGImage, site.SiteURL)
		} else {
			meta.OGImage = page.OGImage
		}
	}

	meta.Robots = buildRobotsDirective(page.NoIndex, page.NoFollow)
	return meta
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	var parts []string

	if noIndex {
		parts = append(parts, "noindex")
	} else {
		parts = append(parts, "index")
	}

	if noFollow {
		parts = append(parts, "nofollow")
	} else {
		parts = append(parts, "follow")
	}

	return strings.Join(parts, ",")
}

// WebSiteSchema represents JSON-LD WebSite structured data.
type WebSiteSchema struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// BuildWebSiteSchema creates JSON-LD WebSite data for a document.
func BuildWebSiteSchema(meta *Meta, site SiteConfig) template.JS {
	name := site.SiteName
	if name == "" {
		name = meta.Title
	}
	return marshalJSONLD(WebSiteSchema{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        name,
		URL:         site.SiteURL,
		Description: meta.Description,
	})
}

// marshalJSONLD marshals structured data for a <script type="application/ld+json">.
// json.Marshal escapes <, > and & so the output cannot close the script element.
func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data) // #nosec G203
}

// truncateText truncates text to maxLen characters at word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
