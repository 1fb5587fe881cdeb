// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compiler

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/olegiv/pagebuilder/internal/model"
)

// cssURLChars is the set of characters allowed inside url(...). It excludes
// quotes, parentheses, backslashes and whitespace.
var cssURLChars = regexp.MustCompile(`^[A-Za-z0-9/:._~%?=&+,;@!$*#-]+$`)

// dataImage matches inline base64 images.
var dataImage = regexp.MustCompile(`^data:image/(?:png|jpeg|jpg|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)

// SafeImageURL reports whether u may be used as an image source: relative
// paths, http(s) URLs and inline base64 images.
func SafeImageURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	if dataImage.MatchString(u) {
		return true
	}
	if !cssURLChars.MatchString(u) {
		return false
	}
	lower := strings.ToLower(u)
	if i := strings.Index(lower, ":"); i >= 0 {
		// A colon before any slash means a scheme.
		if j := strings.Index(lower, "/"); j < 0 || i < j {
			return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
		}
	}
	return true
}

// BackgroundCSS renders a background as CSS declarations. An empty string
// means no background rule.
func BackgroundCSS(bg *model.Background) string {
	if bg == nil {
		return ""
	}
	switch bg.Type {
	case "solid":
		return "background-color:" + ResolveColor(bg.Color.String()) + ";"
	case "gradient":
		return fmt.Sprintf("background-image:linear-gradient(%s,%s,%s);",
			ResolveDirection(bg.Direction.String()),
			ResolveColor(bg.From.String()),
			ResolveColor(bg.To.String()))
	case "image":
		img := strings.TrimSpace(bg.Image.String())
		if !SafeImageURL(img) {
			return ""
		}
		decl := fmt.Sprintf(`background-image:url("%s");background-position:%s;background-size:%s;background-repeat:no-repeat;`,
			img, ResolvePosition(bg.Position.String()), ResolveSize(bg.Size.String()))
		if bg.Overlay != "" {
			decl = fmt.Sprintf(`background-image:linear-gradient(%[1]s,%[1]s),url("%[2]s");`, overlayColor(bg.Overlay.String()), img) +
				fmt.Sprintf("background-position:%s;background-size:%s;background-repeat:no-repeat;",
					ResolvePosition(bg.Position.String()), ResolveSize(bg.Size.String()))
		}
		return decl
	}
	return ""
}

// overlayColor darkens image backgrounds; only "dark" and "light" exist.
func overlayColor(token string) string {
	if token == "light" {
		return "rgba(255,255,255,0.6)"
	}
	return "rgba(0,0,0,0.5)"
}

// SpacingCSS renders padding declarations for a block.
func SpacingCSS(s *model.Spacing) string {
	top, bottom := defaultSpacing, defaultSpacing
	if s != nil {
		if s.PaddingTop != "" {
			top = s.PaddingTop.String()
		}
		if s.PaddingBottom != "" {
			bottom = s.PaddingBottom.String()
		}
	}
	return fmt.Sprintf("padding-top:%dpx;padding-bottom:%dpx;", ResolveSpacing(top), ResolveSpacing(bottom))
}

// AnimationClass returns the CSS class for an entrance animation, or "".
func AnimationClass(a *model.Animation) string {
	if a == nil {
		return ""
	}
	t := strings.TrimSpace(a.Type.String())
	if !animations[t] {
		return ""
	}
	return "anim-" + t
}

// Stylesheet collects the CSS of one document. Type rules are added once
// per component type; block rules are scoped to a single block class.
type Stylesheet struct {
	typeRules  []string
	seenTypes  map[model.ComponentType]bool
	blockRules []string
}

// NewStylesheet creates an empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{seenTypes: make(map[model.ComponentType]bool)}
}

// AddType adds the shared rules of a component type once.
func (s *Stylesheet) AddType(t model.ComponentType, css string) {
	if s.seenTypes[t] || css == "" {
		return
	}
	s.seenTypes[t] = true
	s.typeRules = append(s.typeRules, fmt.Sprintf("/* %s */\n%s", t, css))
}

// AddBlock adds declarations scoped to one block class.
func (s *Stylesheet) AddBlock(class, decls string) {
	if decls == "" {
		return
	}
	s.blockRules = append(s.blockRules, "."+class+"{"+decls+"}")
}

// CSS returns the full stylesheet: base rules, type rules, block rules.
func (s *Stylesheet) CSS() template.CSS {
	var b strings.Builder
	b.WriteString(baseCSS)
	for _, r := range s.typeRules {
		b.WriteString("\n")
		b.WriteString(r)
	}
	for _, r := range s.blockRules {
		b.WriteString("\n")
		b.WriteString(r)
	}
	b.WriteString("\n")
	// All values are built from token tables or validated URLs.
	return template.CSS(b.String()) // #nosec G203
}
