// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"github.com/olegiv/pagebuilder/internal/model"
)

// displayNames maps component types to the label shown in navigation.
var displayNames = map[model.ComponentType]string{
	model.TypeHeader:       "Header",
	model.TypeHero:         "Home",
	model.TypeFeatures:     "Features",
	model.TypePricing:      "Pricing",
	model.TypeTestimonials: "Testimonials",
	model.TypeCTA:          "Get Started",
	model.TypeFooter:       "Footer",
	model.TypeStats:        "Stats",
	model.TypeTeam:         "Team",
	model.TypeFAQ:          "FAQ",
	model.TypeGallery:      "Gallery",
	model.TypeLogoCloud:    "Partners",
	model.TypeContact:      "Contact",
	model.TypeContent:      "About",
	model.TypeNewsletter:   "Newsletter",
	model.TypeVideo:        "Video",
}

// DisplayName returns the navigation label for a component type, falling
// back to the raw type string.
func DisplayName(t model.ComponentType) string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// SubPageLink returns the link a navigation tab uses for a subpage.
func SubPageLink(sp model.SubPage, multiPage bool) string {
	if multiPage {
		return sp.Slug + ".html"
	}
	return "#" + sp.Slug
}

// NavigationTabs computes the header tabs for the given structure. It is a
// pure function: the result depends only on its arguments.
func NavigationTabs(components []model.Component, subPages []model.SubPage, multiPage bool) []model.HeaderTab {
	tabs := make([]model.HeaderTab, 0, len(components)+len(subPages))
	for _, c := range Sorted(components) {
		if !c.Visible || c.Type == model.TypeHeader || c.Type == model.TypeFooter {
			continue
		}
		tabs = append(tabs, model.HeaderTab{
			ID:   c.ID,
			Text: DisplayName(c.Type),
			Link: "#" + c.ID,
		})
	}
	for _, sp := range subPages {
		if !sp.Visible {
			continue
		}
		text := sp.Title
		if text == "" {
			text = sp.Slug
		}
		tabs = append(tabs, model.HeaderTab{
			ID:   sp.ID,
			Text: text,
			Link: SubPageLink(sp, multiPage),
		})
	}
	return tabs
}

// SyncNavigation replaces the header's tabs with the tabs derived from the
// page's current components and subpages. Pages without a header are left
// untouched. Running it twice yields the same result.
func SyncNavigation(page *model.Page) {
	header := page.Header()
	if header == nil {
		return
	}
	tabs := NavigationTabs(page.Components, page.SubPages, page.MultiPage)

	list := make([]any, len(tabs))
	for i, t := range tabs {
		list[i] = map[string]any{
			"id":   t.ID,
			"text": t.Text,
			"link": t.Link,
		}
	}
	if header.Config == nil {
		header.Config = model.Config{}
	}
	header.Config["tabs"] = list
}
