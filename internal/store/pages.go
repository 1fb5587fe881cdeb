// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/pagebuilder/internal/model"
)

var (
	// ErrPageNotFound is returned when no page matches.
	ErrPageNotFound = errors.New("page not found")
	// ErrSlugTaken is returned when another page already uses the slug.
	ErrSlugTaken = errors.New("page slug already in use")
)

// DefaultRevisionLimit is how many revisions are kept per page.
const DefaultRevisionLimit = 20

// PageSummary is a page listing entry.
type PageSummary struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	MultiPage bool      `json:"multi_page"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Revision is a stored snapshot of a page.
type Revision struct {
	ID        int64     `json:"id"`
	PageID    string    `json:"page_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PageStore reads and writes pages as JSON documents.
type PageStore struct {
	db            *sql.DB
	revisionLimit int
	now           func() time.Time
}

// NewPageStore creates a PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db, revisionLimit: DefaultRevisionLimit, now: time.Now}
}

// SetRevisionLimit changes how many revisions are kept. Zero disables
// revision history.
func (s *PageStore) SetRevisionLimit(n int) {
	s.revisionLimit = n
}

// SavePage inserts or replaces the page and records a revision, in one
// transaction.
func (s *PageStore) SavePage(ctx context.Context, page *model.Page) error {
	if page.ID == "" {
		return fmt.Errorf("saving page: missing id")
	}
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}

	created := page.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	updated := page.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}
	status := page.Status
	if status == "" {
		status = model.PageStatusDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (id, slug, title, status, multi_page, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			status = excluded.status,
			multi_page = excluded.multi_page,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		page.ID, page.Slug, page.Title, status, page.MultiPage, string(data),
		formatTime(created), formatTime(updated),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrSlugTaken, page.Slug)
		}
		return fmt.Errorf("saving page: %w", err)
	}

	if s.revisionLimit > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO page_revisions (page_id, data, created_at) VALUES (?, ?, ?)`,
			page.ID, string(data), formatTime(s.now()),
		); err != nil {
			return fmt.Errorf("recording revision: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM page_revisions
			WHERE page_id = ? AND id NOT IN (
				SELECT id FROM page_revisions WHERE page_id = ? ORDER BY id DESC LIMIT ?
			)`, page.ID, page.ID, s.revisionLimit,
		); err != nil {
			return fmt.Errorf("pruning revisions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing page: %w", err)
	}
	return nil
}

// GetPage returns the page with the given ID.
func (s *PageStore) GetPage(ctx context.Context, id string) (*model.Page, error) {
	return s.getBy(ctx, "id", id)
}

// GetPageBySlug returns the page with the given slug.
func (s *PageStore) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return s.getBy(ctx, "slug", slug)
}

func (s *PageStore) getBy(ctx context.Context, column, value string) (*model.Page, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM pages WHERE `+column+` = ?`, value).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, value)
	}
	if err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}
	return decodePage(data)
}

// ListPages returns page summaries, most recently updated first.
func (s *PageStore) ListPages(ctx context.Context, limit, offset int) ([]PageSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, status, multi_page, updated_at
		FROM pages ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []PageSummary
	for rows.Next() {
		var p PageSummary
		var updated string
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Status, &p.MultiPage, &updated); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountPages returns the number of stored pages.
func (s *PageStore) CountPages(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// DeletePage removes a page and its revisions.
func (s *PageStore) DeletePage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return nil
}

// ListRevisions returns a page's revisions, newest first.
func (s *PageStore) ListRevisions(ctx context.Context, pageID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, page_id, created_at FROM page_revisions WHERE page_id = ? ORDER BY id DESC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var r Revision
		var created string
		if err := rows.Scan(&r.ID, &r.PageID, &created); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRevision returns the page as stored in a revision.
func (s *PageStore) GetRevision(ctx context.Context, pageID string, revisionID int64) (*model.Page, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM page_revisions WHERE page_id = ? AND id = ?`, pageID, revisionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: revision %d", ErrPageNotFound, revisionID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading revision: %w", err)
	}
	return decodePage(data)
}

func decodePage(data string) (*model.Page, error) {
	var p model.Page
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}
	if p.Components == nil {
		p.Components = []model.Component{}
	}
	return &p, nil
}

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
