// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the pagebuilder project.
package testutil

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary migrated database that is closed when the
// test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "pagebuilder-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// SamplePage returns a page with a header, a hero and a footer.
func SamplePage(title, slug string) *model.Page {
	p := model.NewPage(title, slug)
	p.Components = []model.Component{
		{ID: "header", Type: model.TypeHeader, Order: 0, Visible: true, Config: model.Config{"title": title}},
		{ID: "hero", Type: model.TypeHero, Order: 1, Visible: true, Config: model.Config{"title": "Welcome to " + title}},
		{ID: "footer", Type: model.TypeFooter, Order: 2, Visible: true, Config: model.Config{"copyright": "(c) " + title}},
	}
	return p
}
