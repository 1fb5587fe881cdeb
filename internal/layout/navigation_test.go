// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagebuilder/internal/model"
)

func TestNavigationExcludesHiddenComponents(t *testing.T) {
	page := &model.Page{Components: []model.Component{
		{ID: "H", Type: model.TypeHeader, Order: 0, Visible: true, Config: model.Config{}},
		{ID: "A", Type: model.TypeFeatures, Order: 1, Visible: true},
		{ID: "B", Type: model.TypePricing, Order: 2, Visible: false},
		{ID: "C", Type: model.TypeFAQ, Order: 3, Visible: true},
		{ID: "F", Type: model.TypeFooter, Order: 4, Visible: true},
	}}

	SyncNavigation(page)

	want := []any{
		map[string]any{"id": "A", "text": "Features", "link": "#A"},
		map[string]any{"id": "C", "text": "FAQ", "link": "#C"},
	}
	assert.Equal(t, want, page.Header().Config["tabs"])
}

func TestNavigationSubPages(t *testing.T) {
	comps := []model.Component{{ID: "A", Type: model.TypeHero, Visible: true}}
	subs := []model.SubPage{
		{ID: "s1", Slug: "pricing", Title: "Pricing", Visible: true},
		{ID: "s2", Slug: "hidden", Title: "Hidden", Visible: false},
		{ID: "s3", Slug: "blog", Visible: true},
	}

	multi := NavigationTabs(comps, subs, true)
	require.Len(t, multi, 3)
	assert.Equal(t, model.HeaderTab{ID: "A", Text: "Home", Link: "#A"}, multi[0])
	assert.Equal(t, model.HeaderTab{ID: "s1", Text: "Pricing", Link: "pricing.html"}, multi[1])
	assert.Equal(t, model.HeaderTab{ID: "s3", Text: "blog", Link: "blog.html"}, multi[2])

	single := NavigationTabs(comps, subs, false)
	require.Len(t, single, 3)
	assert.Equal(t, "#pricing", single[1].Link)
}

func TestNavigationFollowsOrderNotListPosition(t *testing.T) {
	comps := []model.Component{
		{ID: "late", Type: model.TypeFAQ, Order: 9, Visible: true},
		{ID: "early", Type: model.TypeHero, Order: 1, Visible: true},
	}

	tabs := NavigationTabs(comps, nil, false)

	require.Len(t, tabs, 2)
	assert.Equal(t, "early", tabs[0].ID)
	assert.Equal(t, "late", tabs[1].ID)
}

func TestSyncNavigationIdempotent(t *testing.T) {
	page, _ := newPage(t, model.TypeHeader, model.TypeHero, model.TypeContact)
	page.Header().Config["tabs"] = []any{map[string]any{"id": "stale"}}

	SyncNavigation(page)
	first := page.Clone()
	SyncNavigation(page)

	assert.Equal(t, first, page)
	assert.Len(t, page.Header().Config.List("tabs"), 2)
}

func TestSyncNavigationWithoutHeader(t *testing.T) {
	page, _ := newPage(t, model.TypeHero)
	before := page.Clone()

	SyncNavigation(page)

	assert.Equal(t, before, page)
}

func TestToggleVisibilityResyncs(t *testing.T) {
	page, added := newPage(t, model.TypeHeader, model.TypeHero, model.TypeFAQ)

	require.NoError(t, ToggleVisibility(page, added[1]))

	tabs := page.Header().Config.List("tabs")
	require.Len(t, tabs, 1)
	assert.Equal(t, added[2], tabs[0].(map[string]any)["id"])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Partners", DisplayName(model.TypeLogoCloud))
	assert.Equal(t, "timeline", DisplayName("timeline"))
}

func TestMultiPageSwitchRelinksSubPages(t *testing.T) {
	page, _ := newPage(t, model.TypeHeader)
	_, err := AddSubPage(page, "Docs", "docs")
	require.NoError(t, err)

	SetMultiPage(page, true)
	tabs := page.Header().Config.List("tabs")
	require.Len(t, tabs, 1)
	assert.Equal(t, "docs.html", tabs[0].(map[string]any)["link"])

	SetMultiPage(page, false)
	tabs = page.Header().Config.List("tabs")
	assert.Equal(t, "#docs", tabs[0].(map[string]any)["link"])
}
