// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/pagebuilder/internal/model"
)

// EventStore persists audit events.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// CreateEvent stores an event and returns its ID.
func (s *EventStore) CreateEvent(ctx context.Context, e model.Event) (int64, error) {
	if e.Metadata == "" {
		e.Metadata = "{}"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, page_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Level, e.Category, e.Message, e.PageID, e.Metadata, formatTime(e.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("creating event: %w", err)
	}
	return res.LastInsertId()
}

// ListEvents returns the most recent events, optionally for one page.
func (s *EventStore) ListEvents(ctx context.Context, pageID string, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, level, category, message, page_id, metadata, created_at FROM events`
	args := []any{}
	if pageID != "" {
		query += ` WHERE page_id = ?`
		args = append(args, pageID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var created string
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.PageID, &e.Metadata, &created); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEventsBefore removes events older than t and returns how many.
func (s *EventStore) DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, formatTime(t))
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return res.RowsAffected()
}
