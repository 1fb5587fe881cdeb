// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagebuilder/internal/model"
)

var errMissing = errors.New("missing")

type fakeStore struct {
	fakeSaver
	pages map[string]*model.Page
	loads int
}

func (f *fakeStore) GetPage(_ context.Context, id string) (*model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	p, ok := f.pages[id]
	if !ok {
		return nil, errMissing
	}
	return p.Clone(), nil
}

func TestRegistry_OpenReusesSession(t *testing.T) {
	page := model.NewPage("Home", "home")
	st := &fakeStore{pages: map[string]*model.Page{page.ID: page}}
	reg := NewRegistry(st, Options{DisableAutosave: true})
	defer reg.CloseAll()

	s1, err := reg.Open(context.Background(), page.ID)
	require.NoError(t, err)
	s2, err := reg.Open(context.Background(), page.ID)
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, st.loads)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_OpenMissing(t *testing.T) {
	reg := NewRegistry(&fakeStore{}, Options{DisableAutosave: true})

	_, err := reg.Open(context.Background(), "nope")
	require.ErrorIs(t, err, errMissing)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_CreateSaves(t *testing.T) {
	st := &fakeStore{pages: map[string]*model.Page{}}
	reg := NewRegistry(st, Options{DisableAutosave: true})
	defer reg.CloseAll()

	page := model.NewPage("New", "new")
	s, err := reg.Create(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, 1, st.count())
	assert.Equal(t, "new", st.last().Slug)

	again, err := reg.Open(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 0, st.loads)
}

func TestRegistry_CreateFailureNotRegistered(t *testing.T) {
	st := &fakeStore{fakeSaver: fakeSaver{fails: 1, err: errors.New("disk full")}}
	reg := NewRegistry(st, Options{DisableAutosave: true})

	_, err := reg.Create(context.Background(), model.NewPage("New", "new"))
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ForgetDropsPendingAutosave(t *testing.T) {
	page := model.NewPage("Home", "home")
	st := &fakeStore{pages: map[string]*model.Page{page.ID: page}}
	reg := NewRegistry(st, Options{Autosave: AutosaveConfig{Interval: time.Minute, MaxWait: 2 * time.Minute}})

	s, err := reg.Open(context.Background(), page.ID)
	require.NoError(t, err)
	_, err = s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)
	require.True(t, s.Dirty())

	reg.Forget(page.ID)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, st.count(), "forgotten session must not save")
}

func TestRegistry_CloseAllFlushes(t *testing.T) {
	page := model.NewPage("Home", "home")
	st := &fakeStore{pages: map[string]*model.Page{page.ID: page}}
	reg := NewRegistry(st, Options{Autosave: AutosaveConfig{Interval: time.Minute, MaxWait: 2 * time.Minute}})

	s, err := reg.Open(context.Background(), page.ID)
	require.NoError(t, err)
	_, err = s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)

	reg.CloseAll()
	assert.Equal(t, 1, st.count())
	assert.Equal(t, 0, reg.Len())
}
