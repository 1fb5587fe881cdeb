// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/media"
	"github.com/olegiv/pagebuilder/internal/metrics"
	"github.com/olegiv/pagebuilder/internal/model"
)

const inlineImg = "data:image/png;base64,AAAA"

type fakeSaver struct {
	mu    sync.Mutex
	saved []*model.Page
	fails int // number of calls to fail before succeeding
	err   error
}

func (f *fakeSaver) SavePage(_ context.Context, page *model.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return f.err
	}
	f.saved = append(f.saved, page.Clone())
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeSaver) last() *model.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

type saveRecorder struct {
	metrics.NoopRecorder
	mu          sync.Mutex
	saves       map[bool]int
	materialize map[string]int
}

func (r *saveRecorder) ObserveSave(_ time.Duration, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saves == nil {
		r.saves = map[bool]int{}
	}
	r.saves[ok]++
}

func (r *saveRecorder) IncMaterialize(result string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.materialize == nil {
		r.materialize = map[string]int{}
	}
	r.materialize[result]++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T, saver Saver, opts Options) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.Autosave.Interval == 0 {
		opts.Autosave = AutosaveConfig{Interval: 30 * time.Millisecond}
	}
	s := NewSession(model.NewPage("Test", "test"), saver, opts)
	t.Cleanup(s.Close)
	return s
}

func TestEditsCoalesceIntoOneAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver, Options{})

	hero, err := s.AddComponent(model.TypeHero, model.Config{"title": "A"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.UpdateConfig(hero.ID, model.Config{"title": "edit"}))
	}
	assert.True(t, s.Dirty())

	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, "edit", saver.last().Components[0].Config["title"])
	assert.False(t, s.Dirty())
	assert.False(t, s.SavedAt().IsZero())
}

func TestExplicitSaveSupersedesAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver, Options{Autosave: AutosaveConfig{Interval: 50 * time.Millisecond}})

	_, err := s.AddComponent(model.TypeCTA, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background()))

	assert.Equal(t, 1, saver.count())
	assert.False(t, s.Dirty())
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestFailedEditDoesNotScheduleAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver, Options{})

	assert.ErrorIs(t, s.MoveUp("missing"), layout.ErrComponentNotFound)
	_, err := s.Import([]byte(`{"version":1}`))
	assert.Error(t, err)
	assert.False(t, s.Dirty())
}

func TestSaveMaterializesImages(t *testing.T) {
	saver := &fakeSaver{}
	rec := &saveRecorder{}
	calls := 0
	up := media.UploaderFunc(func(_ context.Context, refs []string) ([]media.Replacement, error) {
		calls++
		return []media.Replacement{{Original: refs[0], URL: "/uploads/pages/a.png"}}, nil
	})
	s := newSession(t, saver, Options{Uploader: up, Metrics: rec, DisableAutosave: true})

	hero, err := s.AddComponent(model.TypeHero, model.Config{"image": inlineImg})
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background()))

	assert.Equal(t, "/uploads/pages/a.png", saver.last().Components[0].Config["image"])
	assert.Equal(t, "/uploads/pages/a.png", s.Page().Components[0].Config["image"], "live page adopts stored URL")
	assert.Equal(t, hero.ID, saver.last().Components[0].ID)

	// Nothing left to upload on the next save.
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rec.materialize[metrics.ResultSuccess])
	assert.Equal(t, 1, rec.materialize[metrics.ResultSkipped])
	assert.Equal(t, 2, rec.saves[true])
}

func TestSaveProceedsWhenMaterializationTimesOut(t *testing.T) {
	saver := &fakeSaver{}
	rec := &saveRecorder{}
	block := make(chan struct{})
	defer close(block)
	up := media.UploaderFunc(func(context.Context, []string) ([]media.Replacement, error) {
		<-block
		return nil, nil
	})
	s := newSession(t, saver, Options{
		Uploader:           up,
		MaterializeTimeout: 20 * time.Millisecond,
		Metrics:            rec,
		DisableAutosave:    true,
	})

	_, err := s.AddComponent(model.TypeHero, model.Config{"image": inlineImg})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.Save(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, inlineImg, saver.last().Components[0].Config["image"])
	assert.Equal(t, 1, rec.materialize[metrics.ResultFailed])
}

func TestSaveErrorCarriesElapsed(t *testing.T) {
	boom := errors.New("db down")
	saver := &fakeSaver{fails: 1, err: boom}
	rec := &saveRecorder{}
	s := newSession(t, saver, Options{Metrics: rec, DisableAutosave: true})

	err := s.Save(context.Background())
	require.Error(t, err)

	var se *SaveError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
	assert.GreaterOrEqual(t, se.Elapsed, time.Duration(0))
	assert.Contains(t, err.Error(), "save failed after")
	assert.Equal(t, 1, rec.saves[false])
	assert.True(t, s.SavedAt().IsZero())
}

func TestAutosaveRetriesAfterFailure(t *testing.T) {
	saver := &fakeSaver{fails: 1, err: errors.New("transient")}
	s := newSession(t, saver, Options{})

	_, err := s.AddComponent(model.TypeFAQ, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return saver.count() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestCloseFlushesPendingAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := NewSession(model.NewPage("P", "p"), saver, Options{
		Logger:   quietLogger(),
		Autosave: AutosaveConfig{Interval: time.Hour},
	})

	_, err := s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)
	s.Close()

	assert.Equal(t, 1, saver.count())

	assert.False(t, s.Dirty())

	// Edits after Close are not scheduled and stay unsaved.
	_, err = s.AddComponent(model.TypeCTA, nil)
	require.NoError(t, err)
	assert.True(t, s.Dirty())
	assert.Equal(t, 1, saver.count())
}

func TestDirtyWithoutAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver, Options{DisableAutosave: true})
	assert.False(t, s.Dirty())

	_, err := s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)
	assert.True(t, s.Dirty())

	require.NoError(t, s.Save(context.Background()))
	assert.False(t, s.Dirty())

	// A failed save leaves the edits unsaved.
	_, err = s.AddComponent(model.TypeCTA, nil)
	require.NoError(t, err)
	saver.mu.Lock()
	saver.fails, saver.err = 1, errors.New("disk full")
	saver.mu.Unlock()
	assert.Error(t, s.Save(context.Background()))
	assert.True(t, s.Dirty())
}

// blockingSaver holds SavePage until release is closed.
type blockingSaver struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSaver) SavePage(context.Context, *model.Page) error {
	close(b.started)
	<-b.release
	return nil
}

func TestEditDuringSaveStaysDirty(t *testing.T) {
	saver := &blockingSaver{started: make(chan struct{}), release: make(chan struct{})}
	s := newSession(t, saver, Options{DisableAutosave: true})

	_, err := s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-saver.started

	_, err = s.AddComponent(model.TypeCTA, nil)
	require.NoError(t, err)
	close(saver.release)
	require.NoError(t, <-done)

	assert.True(t, s.Dirty())
}

func TestSessionStructuralEdits(t *testing.T) {
	s := newSession(t, &fakeSaver{}, Options{DisableAutosave: true})

	hero, err := s.AddComponent(model.TypeHero, nil)
	require.NoError(t, err)
	faq, err := s.AddComponent(model.TypeFAQ, nil)
	require.NoError(t, err)
	header, err := s.AddComponent(model.TypeHeader, nil)
	require.NoError(t, err)
	_, err = s.AddComponent(model.TypeHeader, nil)
	assert.ErrorIs(t, err, layout.ErrDuplicateHeader)

	require.NoError(t, s.MoveUp(faq.ID))
	page := s.Page()
	assert.Equal(t, []string{header.ID, faq.ID, hero.ID}, []string{
		page.Components[0].ID, page.Components[1].ID, page.Components[2].ID,
	})

	sp, err := s.AddSubPage("Pricing", "")
	require.NoError(t, err)
	assert.Equal(t, "pricing", sp.Slug)
	require.NoError(t, s.SetSubPageComponents(sp.ID, []model.Component{
		{ID: "p", Type: model.TypePricing, Order: 7, Visible: true},
	}))
	assert.ErrorIs(t, s.SetSubPageComponents("nope", nil), layout.ErrSubPageNotFound)

	// Invalid lists leave the subpage as it was.
	err = s.SetSubPageComponents(sp.ID, []model.Component{
		{ID: "a", Type: model.TypeHero}, {ID: "h1", Type: model.TypeHeader},
		{ID: "h2", Type: model.TypeHeader}, {ID: "b", Type: model.TypeCTA},
	})
	assert.ErrorIs(t, err, layout.ErrDuplicateHeader)
	err = s.SetSubPageComponents(sp.ID, []model.Component{
		{ID: "a", Type: model.TypeHero}, {ID: "a", Type: model.TypeCTA},
	})
	assert.ErrorIs(t, err, layout.ErrDuplicateComponent)
	got := s.Page().SubPages[0].Components
	require.Len(t, got, 1)
	assert.Equal(t, "p", got[0].ID)

	s.SetMultiPage(true)
	page = s.Page()
	assert.Equal(t, 0, page.SubPages[0].Components[0].Order)
	tabs := page.Header().Config.List("tabs")
	require.Len(t, tabs, 3)
	assert.Equal(t, "pricing.html", tabs[2].(map[string]any)["link"])

	// Snapshots are independent of the live page.
	page.Components[0].Config["title"] = "mutated"
	assert.NotEqual(t, "mutated", s.Page().Components[0].Config["title"])
}

func TestSessionPresetAndImport(t *testing.T) {
	s := newSession(t, &fakeSaver{}, Options{DisableAutosave: true})

	require.NoError(t, s.ApplyPreset("portfolio"))
	assert.Equal(t, model.TypeHeader, s.Page().Components[0].Type)

	doc, err := s.Import([]byte(`{"version":"1.0","timestamp":"2026-01-01T00:00:00Z","components":[{"id":"x","type":"hero","config":{"title":"Hi"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)
	require.Len(t, s.Page().Components, 1)
	assert.Equal(t, "x", s.Page().Components[0].ID)
}
