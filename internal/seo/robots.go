// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for the sitemap reference
	DisallowAll   bool     // Block all crawlers (noindex sites)
	DisallowPaths []string // Paths to disallow
}

// BuildRobots generates robots.txt content for an exported site.
func BuildRobots(config RobotsConfig) string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if config.DisallowAll {
		sb.WriteString("Disallow: /\n")
	} else {
		for _, path := range config.DisallowPaths {
			sb.WriteString("Disallow: ")
			sb.WriteString(path)
			sb.WriteString("\n")
		}
		sb.WriteString("Allow: /\n")
	}

	if config.SiteURL != "" && !config.DisallowAll {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(config.SiteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}
