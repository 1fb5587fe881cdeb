// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/store"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

type memoryEvents struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (m *memoryEvents) CreateEvent(_ context.Context, e model.Event) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.events = append(m.events, e)
	return int64(len(m.events)), nil
}

func TestEventLogHandler_Levels(t *testing.T) {
	events := &memoryEvents{}
	logger := slog.New(NewEventLogHandler(discardHandler{}, events))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	if len(events.events) != 2 {
		t.Fatalf("got %d events, want 2", len(events.events))
	}
	if events.events[0].Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", events.events[0].Level)
	}
	if events.events[1].Level != model.EventLevelError {
		t.Errorf("Level = %q, want error", events.events[1].Level)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	events := &memoryEvents{}
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, events, slog.LevelError))

	logger.Warn("warn message")
	logger.Error("error message")

	if len(events.events) != 1 || events.events[0].Message != "error message" {
		t.Errorf("events = %+v", events.events)
	}
}

func TestEventLogHandler_Attributes(t *testing.T) {
	events := &memoryEvents{}
	logger := slog.New(NewEventLogHandler(discardHandler{}, events)).With("page_id", "p1")

	logger.Warn(`say "hi"`, "category", model.EventCategoryCache, "images", 3, "path", `a\b`)

	if len(events.events) != 1 {
		t.Fatalf("got %d events, want 1", len(events.events))
	}
	e := events.events[0]
	if e.PageID != "p1" {
		t.Errorf("PageID = %q, want p1", e.PageID)
	}
	if e.Category != model.EventCategoryCache {
		t.Errorf("Category = %q, want cache", e.Category)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v (%s)", err, e.Metadata)
	}
	if meta["images"] != "3" || meta["path"] != `a\b` {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_StoreFailureIsIgnored(t *testing.T) {
	events := &memoryEvents{err: errors.New("db closed")}
	h := NewEventLogHandler(discardHandler{}, events)

	r := slog.Record{Level: slog.LevelError, Message: "boom"}
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"image materialization failed", model.EventCategoryMedia},
		{"component failed to render", model.EventCategoryCompile},
		{"Import rejected", model.EventCategoryImport},
		{"failed to save page", model.EventCategoryPage},
		{"Redis unavailable", model.EventCategoryCache},
		{"config reloaded", model.EventCategoryConfig},
		{"something else", model.EventCategorySystem},
	}
	for _, tt := range tests {
		if got := inferCategory(tt.msg); got != tt.want {
			t.Errorf("inferCategory(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestEventLogHandler_WithStore(t *testing.T) {
	db, err := store.NewDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	events := store.NewEventStore(db)
	logger := slog.New(NewEventLogHandler(discardHandler{}, events))
	logger.Warn("autosave failed, will retry", "page_id", "abc", "error", "disk full")
	logger.Error("failed to save page", "page_id", "other")

	got, err := events.ListEvents(context.Background(), "abc", 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Category != model.EventCategoryPage || got[0].Level != model.EventLevelWarning {
		t.Errorf("event = %+v", got[0])
	}

	all, err := events.ListEvents(context.Background(), "", 10)
	if err != nil || len(all) != 2 {
		t.Errorf("ListEvents(all) = %d, %v", len(all), err)
	}
}
