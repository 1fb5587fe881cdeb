// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestNewSitemapBuilder(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com/")
	if builder.siteURL != "https://example.com" {
		t.Errorf("siteURL = %q, want %q", builder.siteURL, "https://example.com")
	}
	if builder.Len() != 0 {
		t.Errorf("Len() = %d, want 0", builder.Len())
	}
}

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage(time.Time{})

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}

	url := builder.urls[0]
	if url.Loc != "https://example.com/" {
		t.Errorf("Loc = %q, want %q", url.Loc, "https://example.com/")
	}
	if url.Priority != "1.0" {
		t.Errorf("Priority = %q, want %q", url.Priority, "1.0")
	}
	if url.LastMod != "" {
		t.Errorf("LastMod = %q, want empty", url.LastMod)
	}
}

func TestSitemapBuilderAddDocument(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	updatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	builder.AddDocument("pricing.html", updatedAt)

	url := builder.urls[0]
	if url.Loc != "https://example.com/pricing.html" {
		t.Errorf("Loc = %q", url.Loc)
	}
	if url.LastMod != "2025-01-15T10:00:00Z" {
		t.Errorf("LastMod = %q", url.LastMod)
	}
	if url.ChangeFreq != ChangeFreqWeekly {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqWeekly)
	}
}

func TestSitemapBuild(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage(time.Time{})
	builder.AddDocument("pricing.html", time.Time{})

	out, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := string(out)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		`<loc>https://example.com/</loc>`,
		`<loc>https://example.com/pricing.html</loc>`,
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("Build() missing %q in:\n%s", want, xml)
		}
	}
}
