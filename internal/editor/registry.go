// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"sync"

	"github.com/olegiv/pagebuilder/internal/model"
)

// Store loads and persists pages.
type Store interface {
	Saver
	GetPage(ctx context.Context, id string) (*model.Page, error)
}

// Registry keeps one open Session per page so concurrent requests edit the
// same in-memory page.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store
	opts     Options
}

// NewRegistry creates a Registry whose sessions share opts.
func NewRegistry(store Store, opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		opts:     opts,
	}
}

// Open returns the session for a page, loading it from the store on first
// use.
func (r *Registry) Open(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	page, err := r.store.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	s := NewSession(page, r.store, r.opts)
	r.sessions[id] = s
	return s, nil
}

// Create persists a new page and opens a session for it.
func (r *Registry) Create(ctx context.Context, page *model.Page) (*Session, error) {
	s := NewSession(page, r.store, r.opts)
	if err := s.Save(ctx); err != nil {
		s.Close()
		return nil, err
	}

	r.mu.Lock()
	r.sessions[page.ID] = s
	r.mu.Unlock()
	return s, nil
}

// Forget drops the session for a page without saving it. Used after the
// page was deleted.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	if s.autosave != nil {
		s.autosave.Cancel()
	}
	s.Close()
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll flushes pending autosaves and closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
