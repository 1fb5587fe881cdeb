// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compiler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/util"
)

// Placeholder reasons reported to metrics.
const (
	reasonUnsupported = "unsupported"
	reasonFailed      = "failed"
)

// blockData is passed to every block template.
type blockData struct {
	ID    string
	Class string
	V     model.Variant

	// Type specific extras.
	Rich        template.HTML
	Contact     model.ContactInfo
	Embed       string
	EmbedIsFile bool
}

var commentUnsafe = strings.NewReplacer("--", "", "<", "", ">", "")

// commentSafe strips sequences that could terminate an HTML comment.
func commentSafe(s string) string {
	return commentUnsafe.Replace(s)
}

func unsupportedPlaceholder(t model.ComponentType) template.HTML {
	return template.HTML("<!-- unsupported component: " + commentSafe(string(t)) + " -->") // #nosec G203
}

func failedPlaceholder(id string) template.HTML {
	return template.HTML("<!-- component " + commentSafe(id) + " failed to render -->") // #nosec G203
}

// renderBlock renders one component. It never fails: unknown types, decode
// errors, template errors and panics all yield a placeholder comment.
func (c *Compiler) renderBlock(ctx context.Context, comp model.Component, sheet *Stylesheet) (out template.HTML) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WarnContext(ctx, "component render panicked",
				"component_id", comp.ID, "type", comp.Type, "panic", r)
			c.recorder.IncBlockPlaceholder(string(comp.Type), reasonFailed)
			out = failedPlaceholder(comp.ID)
		}
	}()

	if !comp.Type.IsKnown() {
		c.logger.WarnContext(ctx, "unsupported component type", "component_id", comp.ID, "type", comp.Type)
		c.recorder.IncBlockPlaceholder(string(comp.Type), reasonUnsupported)
		return unsupportedPlaceholder(comp.Type)
	}

	html, v, err := c.executeBlock(comp)
	if err != nil {
		c.logger.WarnContext(ctx, "component failed to render",
			"component_id", comp.ID, "type", comp.Type, "error", err)
		c.recorder.IncBlockPlaceholder(string(comp.Type), reasonFailed)
		return failedPlaceholder(comp.ID)
	}

	style := v.Styling()
	sheet.AddType(comp.Type, typeCSS[comp.Type])
	sheet.AddBlock(util.CSSIdent(comp.ID), BackgroundCSS(style.Background)+SpacingCSS(style.Spacing))
	return html
}

func (c *Compiler) executeBlock(comp model.Component) (template.HTML, model.Variant, error) {
	v, err := model.DecodeVariant(comp.Type, comp.Config)
	if err != nil {
		return "", nil, err
	}

	data := blockData{ID: comp.ID, V: v}
	data.Class = util.CSSIdent(comp.ID)
	if anim := AnimationClass(v.Styling().Animation); anim != "" {
		data.Class += " " + anim
	}

	switch cfg := v.(type) {
	case model.ContentConfig:
		if strings.EqualFold(cfg.Format.String(), "markdown") {
			rich, err := c.markdown.Render(cfg.Content.String())
			if err != nil {
				return "", nil, fmt.Errorf("rendering markdown: %w", err)
			}
			data.Rich = rich
		}
	case model.ContactConfig:
		data.Contact = contactDetails(cfg)
	case model.VideoConfig:
		data.Embed, data.EmbedIsFile = videoEmbed(cfg.VideoURL.String())
	}

	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, string(comp.Type), data); err != nil {
		return "", nil, err
	}
	// Block templates are html/template and escape all config values.
	return template.HTML(buf.String()), v, nil // #nosec G203
}

// contactDetails prefers the nested contactInfo object and falls back to the
// flat fields.
func contactDetails(cfg model.ContactConfig) model.ContactInfo {
	info := model.ContactInfo{Email: cfg.Email, Phone: cfg.Phone, Address: cfg.Address}
	if ci := cfg.ContactInfo; ci != nil {
		if ci.Email != "" {
			info.Email = ci.Email
		}
		if ci.Phone != "" {
			info.Phone = ci.Phone
		}
		if ci.Address != "" {
			info.Address = ci.Address
		}
	}
	return info
}

// videoEmbed turns a video URL into an embeddable source. YouTube and Vimeo
// links become privacy-friendly player URLs; other http(s) URLs are played
// with a <video> element. Anything else is dropped.
func videoEmbed(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id), false
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok && rest != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(rest), false
		}
		return "", false
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id), false
		}
		return "", false
	case "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return "https://player.vimeo.com/video/" + url.PathEscape(id), false
		}
		return "", false
	case "player.vimeo.com", "youtube-nocookie.com":
		return u.String(), false
	}
	return u.String(), true
}

var funcMap = template.FuncMap{
	"img":        imageSource,
	"btnClass":   buttonClass,
	"inputType":  inputType,
	"paragraphs": paragraphs,
}

func text(v any) string {
	switch t := v.(type) {
	case model.Text:
		return t.String()
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// imageSource returns a usable image source or "" when the URL is not
// allowed. Inline base64 images are marked safe so html/template keeps them.
func imageSource(v any) any {
	u := strings.TrimSpace(text(v))
	if !SafeImageURL(u) {
		return ""
	}
	if dataImage.MatchString(u) {
		return template.URL(u) // #nosec G203
	}
	return u
}

func buttonClass(style any) string {
	switch text(style) {
	case "secondary":
		return "btn btn-secondary"
	case "outline":
		return "btn btn-outline"
	}
	return "btn"
}

var inputTypes = map[string]bool{
	"text": true, "email": true, "tel": true, "url": true, "number": true, "date": true,
}

func inputType(v any) string {
	if t := text(v); inputTypes[t] {
		return t
	}
	return "text"
}

// paragraphs splits plain text on blank lines.
func paragraphs(v any) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text(v), "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
