// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package compiler turns a page's component list into a standalone HTML
// document and bundles several documents into a zip archive.
package compiler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/pagebuilder/internal/cache"
	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/metrics"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/seo"
)

//go:embed templates/*.html templates/blocks/*.html
var templatesFS embed.FS

// Generator is the default value of the generator meta tag.
const Generator = "pagebuilder"

// cacheVersion invalidates cached documents when rendering changes.
const cacheVersion = "v1"

// PageInput is everything needed to compile one document.
type PageInput struct {
	Slug          string              `json:"slug"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Lang          string              `json:"lang"`
	SEO           model.SEO           `json:"seo"`
	LoadingScreen model.LoadingScreen `json:"loading_screen"`
	Components    []model.Component   `json:"components"`

	// Sections are rendered inline before the footer. Single-page sites use
	// them to show subpages as same-page anchors.
	Sections []Section `json:"sections,omitempty"`
}

// Section is a group of components rendered under an anchor.
type Section struct {
	Anchor     string            `json:"anchor"`
	Title      string            `json:"title"`
	Components []model.Component `json:"components"`
}

// Document is a compiled HTML file.
type Document struct {
	Slug        string `json:"slug"`
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HTML        string `json:"html"`
}

// Compiler renders pages. It is safe for concurrent use.
type Compiler struct {
	tmpl      *template.Template
	logger    *slog.Logger
	recorder  metrics.Recorder
	docs      *cache.TypedCache[Document]
	markdown  *markdownRenderer
	site      seo.SiteConfig
	generator string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for render warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Compiler) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithCache caches compiled documents keyed by a hash of their input.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Compiler) {
		if store != nil {
			c.docs = cache.NewTypedCache[Document](store, ttl)
		}
	}
}

// WithSite sets the site name and absolute URL used for canonical links,
// structured data and sitemap.xml.
func WithSite(site seo.SiteConfig) Option {
	return func(c *Compiler) {
		site.SiteURL = strings.TrimSuffix(site.SiteURL, "/")
		c.site = site
	}
}

// WithGenerator overrides the generator meta tag, usually with the build
// version.
func WithGenerator(name string) Option {
	return func(c *Compiler) {
		if name != "" {
			c.generator = name
		}
	}
}

// New parses the embedded templates and applies opts.
func New(opts ...Option) (*Compiler, error) {
	tmpl, err := template.New("pagebuilder").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/blocks/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	c := &Compiler{
		tmpl:      tmpl,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		markdown:  newMarkdownRenderer(),
		generator: Generator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Filename returns the output file name for a slug. The home page and an
// empty slug map to index.html.
func Filename(slug string) string {
	if slug == "" || slug == "home" || slug == "index" {
		return "index.html"
	}
	return slug + ".html"
}

// Compile renders one document. Components that fail to render are replaced
// by a placeholder comment; only a failure of the document shell is an error.
func (c *Compiler) Compile(ctx context.Context, in PageInput) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.docs == nil {
		return c.compile(ctx, in)
	}

	key, err := c.inputKey(in)
	if err != nil {
		return c.compile(ctx, in)
	}
	doc, hit, err := c.docs.GetOrSet(ctx, key, func() (*Document, error) {
		return c.compile(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		c.logger.Debug("compiled document served from cache", "slug", in.Slug)
	}
	return doc, nil
}

func (c *Compiler) compile(ctx context.Context, in PageInput) (*Document, error) {
	start := time.Now()

	blocks := visibleSorted(in.Components)
	rendered := len(blocks)

	sheet := NewStylesheet()
	var body bytes.Buffer
	writeBlock := func(comp model.Component) {
		if body.Len() > 0 {
			body.WriteByte('\n')
		}
		body.WriteString(string(c.renderBlock(ctx, comp, sheet)))
	}
	writeSections := func() {
		for _, sec := range in.Sections {
			comps := visibleSorted(sec.Components)
			rendered += len(comps)
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			fmt.Fprintf(&body, `<div id="%s" class="subpage">`, template.HTMLEscapeString(sec.Anchor))
			if sec.Title != "" {
				fmt.Fprintf(&body, "\n<h2 class=\"subpage-title\">%s</h2>", template.HTMLEscapeString(sec.Title))
			}
			for _, comp := range comps {
				writeBlock(comp)
			}
			body.WriteString("\n</div>")
		}
	}

	footerAt := len(blocks)
	for i, comp := range blocks {
		if comp.Type == model.TypeFooter {
			footerAt = i
			break
		}
	}
	for i, comp := range blocks {
		if i == footerAt {
			writeSections()
		}
		writeBlock(comp)
	}
	if footerAt == len(blocks) {
		writeSections()
	}

	filename := Filename(in.Slug)
	meta := seo.BuildMeta(seo.PageData{
		Title:           in.Title,
		Description:     in.Description,
		Filename:        filename,
		MetaTitle:       in.SEO.MetaTitle,
		MetaDescription: in.SEO.MetaDescription,
		Keywords:        in.SEO.Keywords,
		OGImage:         in.SEO.OGImage,
		Canonical:       in.SEO.Canonical,
		NoIndex:         in.SEO.NoIndex,
		NoFollow:        in.SEO.NoFollow,
	}, c.site)
	if meta.OGImage != "" && !SafeImageURL(meta.OGImage) {
		meta.OGImage = ""
	}

	lang := in.Lang
	if lang == "" {
		lang = "en"
	}

	data := documentData{
		Lang:       lang,
		Meta:       meta,
		Schema:     seo.BuildWebSiteSchema(meta, c.site),
		Generator:  c.generator,
		Stylesheet: sheet.CSS(),
		Loading:    in.LoadingScreen,
		// Body is assembled from block templates that escape their input.
		Body: template.HTML(body.String()), // #nosec G203
	}
	if in.LoadingScreen.Enabled {
		data.LoadingKind, data.LoadingStyle = loadingScreen(in.LoadingScreen)
	}

	var out bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&out, "document", data); err != nil {
		return nil, fmt.Errorf("rendering document %q: %w", filename, err)
	}

	c.recorder.ObserveCompile(time.Since(start), rendered)
	return &Document{
		Slug:        in.Slug,
		Filename:    filename,
		Title:       meta.Title,
		Description: meta.Description,
		HTML:        out.String(),
	}, nil
}

type documentData struct {
	Lang         string
	Meta         *seo.Meta
	Schema       template.JS
	Generator    string
	Stylesheet   template.CSS
	Loading      model.LoadingScreen
	LoadingKind  string
	LoadingStyle template.CSS
	Body         template.HTML
}

var loadingKinds = map[string]bool{"spinner": true, "bar": true, "dots": true}

// loadingScreen returns the indicator kind and the CSS variables of the
// overlay. Durations are clamped to 0-10s.
func loadingScreen(ls model.LoadingScreen) (string, template.CSS) {
	kind := ls.Style
	if !loadingKinds[kind] {
		kind = "spinner"
	}
	ms := ls.DurationMS
	switch {
	case ms <= 0:
		ms = 1000
	case ms > 10000:
		ms = 10000
	}
	color := "blue-600"
	if ls.Color != "" {
		color = ls.Color
	}
	css := fmt.Sprintf("--pb-loading-color:%s;--pb-loading-delay:%dms", ResolveColor(color), ms)
	return kind, template.CSS(css) // #nosec G203
}

func visibleSorted(cs []model.Component) []model.Component {
	var out []model.Component
	for _, comp := range cs {
		if comp.Visible {
			out = append(out, comp)
		}
	}
	return layout.Sorted(out)
}

// inputKey hashes the input together with the site settings, which also
// shape the output.
func (c *Compiler) inputKey(in PageInput) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write([]byte(c.site.SiteName + "\x00" + c.site.SiteURL + "\x00" + c.generator))
	sum := h.Sum(nil)
	return "doc:" + cacheVersion + ":" + hex.EncodeToString(sum[:]), nil
}
