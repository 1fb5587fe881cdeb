// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package layout keeps a page's block order and its header navigation
// consistent under edits. Every mutating function leaves the components
// sorted, densely numbered where the operation requires it, and the header
// tabs recomputed.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/olegiv/pagebuilder/internal/merge"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/util"
)

var (
	// ErrDuplicateHeader is returned when adding a second header.
	ErrDuplicateHeader = errors.New("page already has a header")
	// ErrComponentNotFound is returned for an unknown component ID.
	ErrComponentNotFound = errors.New("component not found")
	// ErrSubPageNotFound is returned for an unknown subpage ID.
	ErrSubPageNotFound = errors.New("subpage not found")
	// ErrSlugCollision is returned when a subpage slug is already taken.
	ErrSlugCollision = errors.New("slug already in use")
	// ErrInvalidSlug is returned when a slug is empty or reserved.
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrDuplicateComponent is returned when a component list repeats an ID.
	ErrDuplicateComponent = errors.New("duplicate component id")
)

// reservedSlugs are output names used by the site bundler.
var reservedSlugs = map[string]bool{
	"home":    true,
	"index":   true,
	"sitemap": true,
}

// Sorted returns the components ordered by Order. Equal orders keep their
// relative list position. The input slice is not modified.
func Sorted(components []model.Component) []model.Component {
	out := make([]model.Component, len(components))
	copy(out, components)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Normalize sorts the page's components, pins the header first and
// renumbers them 0..n-1, then re-syncs navigation.
func Normalize(page *model.Page) {
	sorted := Sorted(page.Components)
	if hi := headerIndex(sorted); hi > 0 {
		h := sorted[hi]
		copy(sorted[1:hi+1], sorted[:hi])
		sorted[0] = h
	}
	page.Components = sorted
	renumber(page.Components)
	SyncNavigation(page)
}

// AddComponent appends a new component of type t seeded from cfg. A header
// is inserted first and shifts every other component down by one.
func AddComponent(page *model.Page, t model.ComponentType, cfg model.Config) (*model.Component, error) {
	if t == model.TypeHeader && page.Header() != nil {
		return nil, ErrDuplicateHeader
	}
	if cfg == nil {
		cfg = model.Config{}
	}

	c := model.Component{
		ID:      model.NewID(),
		Type:    t,
		Visible: true,
		Config:  cfg.Clone(),
	}

	page.Components = Sorted(page.Components)
	if t == model.TypeHeader {
		for i := range page.Components {
			page.Components[i].Order++
		}
		c.Order = 0
		page.Components = append([]model.Component{c}, page.Components...)
	} else {
		c.Order = maxOrder(page.Components) + 1
		page.Components = append(page.Components, c)
	}

	SyncNavigation(page)
	idx := page.FindComponent(c.ID)
	return &page.Components[idx], nil
}

// MoveUp swaps the component with its predecessor. Moving the first
// component, or moving a component above the header, is a no-op.
func MoveUp(page *model.Page, id string) error {
	return moveBy(page, id, -1)
}

// MoveDown swaps the component with its successor.
func MoveDown(page *model.Page, id string) error {
	return moveBy(page, id, 1)
}

func moveBy(page *model.Page, id string, delta int) error {
	page.Components = Sorted(page.Components)
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	j := i + delta
	if j >= 0 && j < len(page.Components) &&
		page.Components[i].Type != model.TypeHeader &&
		page.Components[j].Type != model.TypeHeader {
		page.Components[i], page.Components[j] = page.Components[j], page.Components[i]
	}
	renumber(page.Components)
	SyncNavigation(page)
	return nil
}

// Reorder moves the component to position index (clamped to the valid
// range) and renumbers all components. The header always stays first.
func Reorder(page *model.Page, id string, index int) error {
	page.Components = Sorted(page.Components)
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}

	c := page.Components[i]
	rest := append(page.Components[:i:i], page.Components[i+1:]...)

	lo := 0
	if c.Type == model.TypeHeader {
		index = 0
	} else if headerIndex(rest) == 0 {
		lo = 1
	}
	index = max(lo, min(index, len(rest)))

	out := make([]model.Component, 0, len(page.Components))
	out = append(out, rest[:index]...)
	out = append(out, c)
	out = append(out, rest[index:]...)
	page.Components = out

	renumber(page.Components)
	SyncNavigation(page)
	return nil
}

// ToggleVisibility flips the component's visible flag.
func ToggleVisibility(page *model.Page, id string) error {
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	page.Components[i].Visible = !page.Components[i].Visible
	SyncNavigation(page)
	return nil
}

// DeleteComponent removes the component and renumbers the rest.
func DeleteComponent(page *model.Page, id string) error {
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	page.Components = append(page.Components[:i], page.Components[i+1:]...)
	page.Components = Sorted(page.Components)
	renumber(page.Components)
	SyncNavigation(page)
	return nil
}

// UpdateConfig replaces the component's config.
func UpdateConfig(page *model.Page, id string, cfg model.Config) error {
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	if cfg == nil {
		cfg = model.Config{}
	}
	page.Components[i].Config = cfg.Clone()
	SyncNavigation(page)
	return nil
}

// ChangeTemplate applies a new structural template to the component while
// carrying over the content the user entered.
func ChangeTemplate(page *model.Page, id string, template model.Config) error {
	i := page.FindComponent(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	page.Components[i].Config = merge.Merge(page.Components[i].Config, template)
	SyncNavigation(page)
	return nil
}

// AddSubPage creates a visible subpage. The slug defaults to the title and
// is normalized; empty, reserved and duplicate slugs are rejected.
func AddSubPage(page *model.Page, title, slug string) (*model.SubPage, error) {
	if slug == "" {
		slug = title
	}
	slug = util.Slugify(slug)
	if slug == "" || reservedSlugs[slug] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	if slug == page.Slug {
		return nil, fmt.Errorf("%w: %q", ErrSlugCollision, slug)
	}
	for _, sp := range page.SubPages {
		if sp.Slug == slug {
			return nil, fmt.Errorf("%w: %q", ErrSlugCollision, slug)
		}
	}

	page.SubPages = append(page.SubPages, model.SubPage{
		ID:         model.NewID(),
		Slug:       slug,
		Title:      title,
		Visible:    true,
		Components: []model.Component{},
	})
	SyncNavigation(page)
	return &page.SubPages[len(page.SubPages)-1], nil
}

// RemoveSubPage deletes a subpage.
func RemoveSubPage(page *model.Page, id string) error {
	i := page.FindSubPage(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSubPageNotFound, id)
	}
	page.SubPages = append(page.SubPages[:i], page.SubPages[i+1:]...)
	SyncNavigation(page)
	return nil
}

// ToggleSubPage flips a subpage's visible flag.
func ToggleSubPage(page *model.Page, id string) error {
	i := page.FindSubPage(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSubPageNotFound, id)
	}
	page.SubPages[i].Visible = !page.SubPages[i].Visible
	SyncNavigation(page)
	return nil
}

// SetSubPageComponents replaces a subpage's blocks with a copy of comps.
// Orders follow the given sequence, except that a header is pinned first.
// Duplicate IDs or a second header fail without touching the page.
func SetSubPageComponents(page *model.Page, id string, comps []model.Component) error {
	i := page.FindSubPage(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSubPageNotFound, id)
	}

	seen := make(map[string]bool, len(comps))
	headers := 0
	for _, c := range comps {
		if c.ID != "" && seen[c.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.ID)
		}
		seen[c.ID] = true
		if c.Type == model.TypeHeader {
			headers++
			if headers > 1 {
				return ErrDuplicateHeader
			}
		}
	}

	cs := model.CloneComponents(comps)
	if cs == nil {
		cs = []model.Component{}
	}
	for j := range cs {
		if cs[j].ID == "" {
			cs[j].ID = model.NewID()
		}
		if cs[j].Config == nil {
			cs[j].Config = model.Config{}
		}
	}
	if hi := headerIndex(cs); hi > 0 {
		h := cs[hi]
		copy(cs[1:hi+1], cs[:hi])
		cs[0] = h
	}
	renumber(cs)
	page.SubPages[i].Components = cs
	return nil
}

// SetMultiPage switches between single-page anchors and separate documents.
func SetMultiPage(page *model.Page, multi bool) {
	page.MultiPage = multi
	SyncNavigation(page)
}

func renumber(cs []model.Component) {
	for i := range cs {
		cs[i].Order = i
	}
}

func maxOrder(cs []model.Component) int {
	m := -1
	for _, c := range cs {
		if c.Order > m {
			m = c.Order
		}
	}
	return m
}

func headerIndex(cs []model.Component) int {
	for i, c := range cs {
		if c.Type == model.TypeHeader {
			return i
		}
	}
	return -1
}
