// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compiler

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/seo"
	"github.com/olegiv/pagebuilder/internal/util"
)

// Bundle errors.
var (
	ErrNoPages       = errors.New("no pages to bundle")
	ErrDuplicateSlug = errors.New("duplicate page slug")
	ErrReservedSlug  = errors.New("reserved page slug")
)

// File names added to every bundle besides the page documents.
const (
	SitemapHTML = "sitemap.html"
	SitemapXML  = "sitemap.xml"
	RobotsTXT   = "robots.txt"
)

// Bundle compiles every page and packs the documents into a zip archive
// together with a sitemap document. When the compiler knows the site URL,
// sitemap.xml and robots.txt are added as well. Slugs are checked before
// anything is compiled.
func (c *Compiler) Bundle(ctx context.Context, pages []PageInput) ([]byte, error) {
	start := time.Now()
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		name := Filename(p.Slug)
		if name == SitemapHTML {
			return nil, fmt.Errorf("%w: %q", ErrReservedSlug, p.Slug)
		}
		if name != "index.html" && !util.IsValidSlug(p.Slug) {
			return nil, fmt.Errorf("%w: %q", layout.ErrInvalidSlug, p.Slug)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrDuplicateSlug, prev, p.Slug, name)
		}
		seen[name] = p.Slug
	}

	docs := make([]*Document, 0, len(pages))
	for _, p := range pages {
		doc, err := c.Compile(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	modified := time.Now().UTC()

	write := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		_, err = w.Write(data)
		return err
	}

	for _, doc := range docs {
		if err := write(doc.Filename, []byte(doc.HTML)); err != nil {
			return nil, err
		}
	}

	sitemap, err := c.sitemapDocument(docs)
	if err != nil {
		return nil, err
	}
	if err := write(SitemapHTML, sitemap); err != nil {
		return nil, err
	}

	if c.site.SiteURL != "" {
		xmlData, err := c.sitemapXML(docs, modified)
		if err != nil {
			return nil, err
		}
		if err := write(SitemapXML, xmlData); err != nil {
			return nil, err
		}
		robots := seo.BuildRobots(seo.RobotsConfig{SiteURL: c.site.SiteURL})
		if err := write(RobotsTXT, []byte(robots)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	c.recorder.ObserveBundle(time.Since(start), len(docs))
	c.logger.InfoContext(ctx, "site bundled", "documents", len(docs), "bytes", buf.Len())
	return buf.Bytes(), nil
}

type sitemapEntry struct {
	Filename    string
	Title       string
	Description string
}

func (c *Compiler) sitemapDocument(docs []*Document) ([]byte, error) {
	data := struct {
		Lang    string
		Title   string
		Entries []sitemapEntry
	}{Lang: "en", Title: c.site.SiteName}

	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = d.Filename
		}
		if d.Filename == "index.html" && data.Title == "" {
			data.Title = d.Title
		}
		data.Entries = append(data.Entries, sitemapEntry{Filename: d.Filename, Title: title, Description: d.Description})
	}

	var out bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&out, "sitemap", data); err != nil {
		return nil, fmt.Errorf("rendering sitemap: %w", err)
	}
	return out.Bytes(), nil
}

func (c *Compiler) sitemapXML(docs []*Document, modified time.Time) ([]byte, error) {
	b := seo.NewSitemapBuilder(c.site.SiteURL)
	for _, d := range docs {
		if d.Filename == "index.html" {
			b.AddHomepage(modified)
		} else {
			b.AddDocument(d.Filename, modified)
		}
	}
	data, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("building sitemap.xml: %w", err)
	}
	return data, nil
}

// PagesForBundle expands a page into compiler inputs. The page itself becomes
// the home document. In multi-page mode every visible subpage becomes its own
// document that reuses the home header and footer, with same-page anchors
// rewritten to point back at index.html. In single-page mode visible
// subpages are appended to the home document as anchored sections.
func PagesForBundle(page *model.Page) []PageInput {
	home := PageInput{
		Slug:          "home",
		Title:         page.Title,
		Description:   page.Description,
		SEO:           page.SEO,
		LoadingScreen: page.LoadingScreen,
		Components:    model.CloneComponents(page.Components),
	}

	if !page.MultiPage {
		for _, sp := range page.SubPages {
			if !sp.Visible {
				continue
			}
			home.Sections = append(home.Sections, Section{
				Anchor:     sp.Slug,
				Title:      sp.Title,
				Components: model.CloneComponents(sp.Components),
			})
		}
		return []PageInput{home}
	}

	pages := []PageInput{home}
	header := page.Header()
	footer := findType(page.Components, model.TypeFooter)

	for _, sp := range page.SubPages {
		if !sp.Visible {
			continue
		}

		var comps []model.Component
		if header != nil && findType(sp.Components, model.TypeHeader) == nil {
			h := header.Clone()
			rewriteAnchors(h.Config)
			comps = append(comps, h)
		}
		comps = append(comps, layout.Sorted(model.CloneComponents(sp.Components))...)
		if footer != nil && findType(sp.Components, model.TypeFooter) == nil {
			f := footer.Clone()
			rewriteAnchors(f.Config)
			comps = append(comps, f)
		}
		for i := range comps {
			comps[i].Order = i
		}

		title := sp.Title
		if title == "" {
			title = page.Title
		}
		seoCfg := page.SEO
		seoCfg.MetaTitle, seoCfg.MetaDescription, seoCfg.Canonical = "", "", ""

		pages = append(pages, PageInput{
			Slug:          sp.Slug,
			Title:         title,
			Description:   sp.Description,
			SEO:           seoCfg,
			LoadingScreen: page.LoadingScreen,
			Components:    comps,
		})
	}
	return pages
}

func findType(cs []model.Component, t model.ComponentType) *model.Component {
	for i := range cs {
		if cs[i].Type == t {
			return &cs[i]
		}
	}
	return nil
}

// rewriteAnchors walks a config and points every "link" value starting with
// '#' at index.html.
func rewriteAnchors(cfg model.Config) {
	for k, v := range cfg {
		cfg[k] = rewriteValue(k, v)
	}
}

func rewriteValue(key string, v any) any {
	switch t := v.(type) {
	case string:
		if key == "link" && strings.HasPrefix(t, "#") && len(t) > 1 {
			return "index.html" + t
		}
		return t
	case map[string]any:
		for k, inner := range t {
			t[k] = rewriteValue(k, inner)
		}
		return t
	case model.Config:
		rewriteAnchors(t)
		return t
	case []any:
		for i, inner := range t {
			t[i] = rewriteValue("", inner)
		}
		return t
	}
	return v
}
