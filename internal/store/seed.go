// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/transfer"
)

// Seed creates a page from a preset unless a page with the slug exists.
func Seed(ctx context.Context, pages *PageStore, presetName, title, slug string) (*model.Page, error) {
	existing, err := pages.GetPageBySlug(ctx, slug)
	if err == nil {
		slog.Info("page already exists, skipping seed", "slug", slug, "id", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, ErrPageNotFound) {
		return nil, fmt.Errorf("checking for page: %w", err)
	}

	page := model.NewPage(title, slug)
	if err := transfer.ApplyPreset(page, presetName); err != nil {
		return nil, err
	}
	if err := pages.SavePage(ctx, page); err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	slog.Info("seeded page from preset",
		"id", page.ID,
		"slug", page.Slug,
		"preset", presetName,
		"components", len(page.Components),
	)
	return page, nil
}
