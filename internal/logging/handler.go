// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that copies warnings and errors
// into the persistent event log.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/pagebuilder/internal/model"
)

// EventWriter stores events. *store.EventStore implements it.
type EventWriter interface {
	CreateEvent(ctx context.Context, e model.Event) (int64, error)
}

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level
	attrs  []slog.Attr // attributes bound with WithAttrs
}

// NewEventLogHandler creates a handler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, events EventWriter) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, events, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, events: events, level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	bound = append(bound, h.attrs...)
	bound = append(bound, attrs...)
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
		attrs:  bound,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
		attrs:  h.attrs,
	}
}

// writeEvent stores the record. A background context is used so the event
// survives a canceled request, and failures are dropped to avoid recursion.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	e := model.Event{
		Level:     levelName(r.Level),
		Message:   r.Message,
		CreatedAt: r.Time,
	}
	meta := make(map[string]string, len(attrs))
	for _, a := range attrs {
		switch a.Key {
		case "category":
			e.Category = a.Value.String()
		case "page_id":
			e.PageID = a.Value.String()
		default:
			meta[a.Key] = a.Value.String()
		}
	}
	if e.Category == "" {
		e.Category = inferCategory(r.Message)
	}
	if b, err := json.Marshal(meta); err == nil {
		e.Metadata = string(b)
	}

	_, _ = h.events.CreateEvent(context.Background(), e)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from the message text.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "image") || strings.Contains(msg, "upload") || strings.Contains(msg, "materializ"):
		return model.EventCategoryMedia
	case strings.Contains(msg, "compile") || strings.Contains(msg, "render") || strings.Contains(msg, "bundle"):
		return model.EventCategoryCompile
	case strings.Contains(msg, "import") || strings.Contains(msg, "export"):
		return model.EventCategoryImport
	case strings.Contains(msg, "page") || strings.Contains(msg, "save"):
		return model.EventCategoryPage
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return model.EventCategoryCache
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return model.EventCategoryConfig
	default:
		return model.EventCategorySystem
	}
}
