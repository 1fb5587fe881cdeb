// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor holds one in-memory page per editing session, applies
// structural edits through the layout engine and persists the page with a
// debounced autosave.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/media"
	"github.com/olegiv/pagebuilder/internal/metrics"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/transfer"
	"github.com/olegiv/pagebuilder/internal/util"
)

// ErrInvalidStatus is returned for an unknown page status.
var ErrInvalidStatus = errors.New("invalid page status")

// Saver persists a page. Atomicity of the write is the Saver's concern.
type Saver interface {
	SavePage(ctx context.Context, page *model.Page) error
}

// SaveError is returned when persisting fails.
type SaveError struct {
	Elapsed time.Duration
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save failed after %s: %v", e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Options configures a Session.
type Options struct {
	Uploader           media.Uploader // nil skips image materialization
	MaterializeTimeout time.Duration
	Autosave           AutosaveConfig
	DisableAutosave    bool
	Logger             *slog.Logger
	Metrics            metrics.Recorder
	Now                func() time.Time
}

// Session owns one page. All methods are safe for concurrent use; the
// background autosave works on snapshots.
type Session struct {
	mu       sync.Mutex
	page     *model.Page
	saver    Saver
	opts     Options
	autosave *Autosaver
	savedAt  time.Time
	edits    uint64 // bumped by every successful edit
	saved    uint64 // edits value captured by the last successful save
}

// NewSession starts editing page. The session takes ownership of page.
func NewSession(page *model.Page, saver Saver, opts Options) *Session {
	if opts.MaterializeTimeout <= 0 {
		opts.MaterializeTimeout = media.DefaultTimeout
	}
	if opts.Autosave.Interval <= 0 {
		opts.Autosave = DefaultAutosaveConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if page.Components == nil {
		page.Components = []model.Component{}
	}

	s := &Session{page: page, saver: saver, opts: opts}
	if !opts.DisableAutosave {
		s.autosave = NewAutosaver(s.save, opts.Autosave, opts.Logger.With("page_id", page.ID))
	}
	return s
}

// Page returns a snapshot of the current page.
func (s *Session) Page() *model.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.Clone()
}

// SavedAt returns the time of the last successful save.
func (s *Session) SavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAt
}

// Dirty reports whether the page has edits that no save has persisted yet.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edits != s.saved
}

// edit applies fn under the lock and, when it succeeds, stamps the page and
// schedules an autosave. Operations must leave the page untouched on error.
func (s *Session) edit(fn func(p *model.Page) error) error {
	s.mu.Lock()
	err := fn(s.page)
	if err == nil {
		s.page.UpdatedAt = s.opts.Now().UTC()
		s.edits++
	}
	s.mu.Unlock()

	if err == nil && s.autosave != nil {
		s.autosave.Schedule()
	}
	return err
}

// AddComponent adds a block and returns a copy of it.
func (s *Session) AddComponent(t model.ComponentType, cfg model.Config) (model.Component, error) {
	var added model.Component
	err := s.edit(func(p *model.Page) error {
		c, err := layout.AddComponent(p, t, cfg)
		if err != nil {
			return err
		}
		added = c.Clone()
		return nil
	})
	return added, err
}

// MoveUp moves a block one position up.
func (s *Session) MoveUp(id string) error {
	return s.edit(func(p *model.Page) error { return layout.MoveUp(p, id) })
}

// MoveDown moves a block one position down.
func (s *Session) MoveDown(id string) error {
	return s.edit(func(p *model.Page) error { return layout.MoveDown(p, id) })
}

// Reorder moves a block to index.
func (s *Session) Reorder(id string, index int) error {
	return s.edit(func(p *model.Page) error { return layout.Reorder(p, id, index) })
}

// ToggleVisibility shows or hides a block.
func (s *Session) ToggleVisibility(id string) error {
	return s.edit(func(p *model.Page) error { return layout.ToggleVisibility(p, id) })
}

// DeleteComponent removes a block.
func (s *Session) DeleteComponent(id string) error {
	return s.edit(func(p *model.Page) error { return layout.DeleteComponent(p, id) })
}

// UpdateConfig replaces a block's config.
func (s *Session) UpdateConfig(id string, cfg model.Config) error {
	return s.edit(func(p *model.Page) error { return layout.UpdateConfig(p, id, cfg) })
}

// ChangeTemplate merges a new template into a block's config.
func (s *Session) ChangeTemplate(id string, template model.Config) error {
	return s.edit(func(p *model.Page) error { return layout.ChangeTemplate(p, id, template) })
}

// AddSubPage adds a subpage and returns a copy of it.
func (s *Session) AddSubPage(title, slug string) (model.SubPage, error) {
	var added model.SubPage
	err := s.edit(func(p *model.Page) error {
		sp, err := layout.AddSubPage(p, title, slug)
		if err != nil {
			return err
		}
		added = *sp
		return nil
	})
	return added, err
}

// RemoveSubPage deletes a subpage.
func (s *Session) RemoveSubPage(id string) error {
	return s.edit(func(p *model.Page) error { return layout.RemoveSubPage(p, id) })
}

// ToggleSubPage shows or hides a subpage.
func (s *Session) ToggleSubPage(id string) error {
	return s.edit(func(p *model.Page) error { return layout.ToggleSubPage(p, id) })
}

// SetSubPageComponents replaces a subpage's blocks.
func (s *Session) SetSubPageComponents(id string, comps []model.Component) error {
	return s.edit(func(p *model.Page) error { return layout.SetSubPageComponents(p, id, comps) })
}

// SetMultiPage switches the site between anchors and separate documents.
func (s *Session) SetMultiPage(multi bool) {
	_ = s.edit(func(p *model.Page) error {
		layout.SetMultiPage(p, multi)
		return nil
	})
}

// SetDetails updates the page's title, description, SEO and loading screen.
func (s *Session) SetDetails(title, description string, seo model.SEO, loading model.LoadingScreen) {
	_ = s.edit(func(p *model.Page) error {
		p.Title = title
		p.Description = description
		p.SEO = seo
		p.LoadingScreen = loading
		return nil
	})
}

// SetSlug changes the page slug.
func (s *Session) SetSlug(slug string) error {
	return s.edit(func(p *model.Page) error {
		if !util.IsValidSlug(slug) {
			return fmt.Errorf("%w: %q", layout.ErrInvalidSlug, slug)
		}
		p.Slug = slug
		return nil
	})
}

// SetStatus moves the page between draft, published and archived.
func (s *Session) SetStatus(status string) error {
	return s.edit(func(p *model.Page) error {
		if !model.ValidStatus(status) {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		p.Status = status
		return nil
	})
}

// Import replaces the page's blocks with an export document. Nothing changes
// when the document is invalid.
func (s *Session) Import(data []byte) (*transfer.ExportData, error) {
	var doc *transfer.ExportData
	err := s.edit(func(p *model.Page) error {
		var err error
		doc, err = transfer.ImportInto(p, data)
		return err
	})
	return doc, err
}

// ApplyPreset replaces the page's blocks with a preset.
func (s *Session) ApplyPreset(name string) error {
	return s.edit(func(p *model.Page) error { return transfer.ApplyPreset(p, name) })
}

// Export returns the export document of the page's blocks.
func (s *Session) Export(exp *transfer.Exporter, author string) ([]byte, error) {
	return exp.ExportPage(s.Page(), author)
}

// Save persists the page now, superseding any pending autosave.
func (s *Session) Save(ctx context.Context) error {
	if s.autosave != nil {
		s.autosave.Cancel()
		s.autosave.Lock()
		defer s.autosave.Unlock()
	}
	return s.save(ctx)
}

// save materializes inline images under the configured timeout and hands
// the snapshot to the Saver. A failed materialization is logged and the
// page is saved with its inline images.
func (s *Session) save(ctx context.Context) error {
	start := time.Now()
	s.mu.Lock()
	snapshot := s.page.Clone()
	version := s.edits
	s.mu.Unlock()

	if s.opts.Uploader != nil {
		out, res, err := media.MaterializePage(ctx, snapshot, s.opts.Uploader, s.opts.MaterializeTimeout)
		switch {
		case err != nil:
			s.opts.Metrics.IncMaterialize(metrics.ResultFailed, res.Found)
			s.opts.Logger.Warn("image materialization failed, saving inline images",
				"page_id", snapshot.ID,
				"images", res.Found,
				"timeout", errors.Is(err, media.ErrTimeout),
				"error", err)
		case res.Found == 0:
			s.opts.Metrics.IncMaterialize(metrics.ResultSkipped, 0)
		default:
			s.opts.Metrics.IncMaterialize(metrics.ResultSuccess, len(res.Applied))
			snapshot = out
			s.adopt(res.Applied)
		}
	}

	if err := s.saver.SavePage(ctx, snapshot); err != nil {
		elapsed := time.Since(start)
		s.opts.Metrics.ObserveSave(elapsed, false)
		s.opts.Logger.Error("failed to save page", "page_id", snapshot.ID, "elapsed", elapsed, "error", err)
		return &SaveError{Elapsed: elapsed, Err: err}
	}

	elapsed := time.Since(start)
	s.opts.Metrics.ObserveSave(elapsed, true)
	s.mu.Lock()
	s.savedAt = s.opts.Now()
	// Edits that landed during the save stay dirty.
	if version > s.saved {
		s.saved = version
	}
	s.mu.Unlock()
	s.opts.Logger.Debug("page saved", "page_id", snapshot.ID, "elapsed", elapsed)
	return nil
}

// adopt rewrites uploaded images in the live page so later saves do not
// upload them again.
func (s *Session) adopt(repl map[string]string) {
	if len(repl) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Components, _ = media.Substitute(s.page.Components, repl)
	for i := range s.page.SubPages {
		s.page.SubPages[i].Components, _ = media.Substitute(s.page.SubPages[i].Components, repl)
	}
}

// Close flushes a pending autosave and waits for it.
func (s *Session) Close() {
	if s.autosave != nil {
		s.autosave.Stop()
	}
}
