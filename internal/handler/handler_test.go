// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagebuilder/internal/compiler"
	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/middleware"
	"github.com/olegiv/pagebuilder/internal/model"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/testutil"
	"github.com/olegiv/pagebuilder/internal/transfer"
)

type testEnv struct {
	router   http.Handler
	pages    *store.PageStore
	events   *store.EventStore
	sessions *editor.Registry
}

func newTestEnv(t *testing.T, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	pages := store.NewPageStore(db)
	events := store.NewEventStore(db)
	sessions := editor.NewRegistry(pages, editor.Options{
		DisableAutosave: true,
		Logger:          testutil.TestLoggerSilent(),
	})
	t.Cleanup(sessions.CloseAll)

	comp, err := compiler.New(compiler.WithLogger(testutil.TestLoggerSilent()))
	require.NoError(t, err)

	h := New(Config{
		Pages:         pages,
		Events:        events,
		Sessions:      sessions,
		Compiler:      comp,
		ImportLimiter: limiter,
		Author:        "tester",
		Logger:        testutil.TestLoggerSilent(),
	})
	return &testEnv{router: h.Routes(), pages: pages, events: events, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// seedPage stores a page with a header, a hero and a footer.
func (e *testEnv) seedPage(t *testing.T) *model.Page {
	t.Helper()
	p := testutil.SamplePage("Acme", "acme")
	require.NoError(t, e.pages.SavePage(context.Background(), p))
	return p
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T     `json:"data"`
		Meta *Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.APIError {
	t.Helper()
	var apiErr middleware.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr), rec.Body.String())
	return apiErr
}

func TestCreateAndGetPage(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/pages", `{"title":"  My Site "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[model.Page](t, rec)
	assert.Equal(t, "My Site", created.Title)
	assert.Equal(t, "my-site", created.Slug)
	assert.Equal(t, model.PageStatusDraft, created.Status)

	stored, err := env.pages.GetPage(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-site", stored.Slug)

	rec = env.do(t, http.MethodGet, "/pages/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[model.Page](t, rec)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreatePageValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing title", `{"slug":"ok"}`, http.StatusUnprocessableEntity, "title"},
		{"bad slug", `{"title":"T","slug":"Not A Slug"}`, http.StatusUnprocessableEntity, "slug"},
		{"empty body", ``, http.StatusBadRequest, ""},
		{"malformed", `{"title":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/pages", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				assert.Contains(t, decodeError(t, rec).Error.Details, tt.field)
			}
		})
	}
}

func TestCreatePageFromPreset(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/pages", `{"title":"Launch","preset":"startup"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	page := decodeData[model.Page](t, rec)
	assert.NotEmpty(t, page.Components)

	rec = env.do(t, http.MethodPost, "/pages", `{"title":"Launch 2","preset":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePageSlugTaken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedPage(t)

	rec := env.do(t, http.MethodPost, "/pages", `{"title":"Other","slug":"acme"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, 0, env.sessions.Len())
}

func TestListPages(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/pages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	env.seedPage(t)
	require.NoError(t, env.pages.SavePage(context.Background(), testutil.SamplePage("Beta", "beta")))

	rec = env.do(t, http.MethodGet, "/pages?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []store.PageSummary `json:"data"`
		Meta Meta                `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Limit)
}

func TestGetPageNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/pages/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

func TestUpdatePage(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	path := "/pages/" + p.ID

	rec := env.do(t, http.MethodPut, path, `{"title":"Acme Inc","slug":"acme-inc","status":"published","multi_page":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got PageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &struct {
		Data *PageResponse `json:"data"`
	}{Data: &got}))
	assert.Equal(t, "Acme Inc", got.Title)
	assert.Equal(t, "acme-inc", got.Slug)
	assert.Equal(t, model.PageStatusPublished, got.Status)
	assert.True(t, got.MultiPage)
	assert.True(t, got.Dirty)

	rec = env.do(t, http.MethodPut, path, `{"status":"deleted"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPut, path, `{"slug":"Bad Slug"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, path+"/save", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := env.pages.GetPage(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme-inc", stored.Slug)

	rec = env.do(t, http.MethodGet, path+"/revisions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	revs := decodeData[[]store.Revision](t, rec)
	require.NotEmpty(t, revs)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("%s/revisions/%d", path, revs[0].ID), "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, path+"/revisions/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePage(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)

	rec := env.do(t, http.MethodGet, "/pages/"+p.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, env.sessions.Len())

	rec = env.do(t, http.MethodDelete, "/pages/"+p.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, env.sessions.Len())

	rec = env.do(t, http.MethodGet, "/pages/"+p.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/pages/"+p.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComponentLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	base := "/pages/" + p.ID + "/components"

	rec := env.do(t, http.MethodPost, base, `{"type":"features","config":{"title":"Why us"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decodeData[model.Component](t, rec)
	assert.Equal(t, model.TypeFeatures, added.Type)
	assert.Equal(t, 3, added.Order)
	assert.True(t, added.Visible)

	rec = env.do(t, http.MethodPost, base+"/"+added.ID+"/move", `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comps := decodeData[[]model.Component](t, rec)
	sorted := layout.Sorted(comps)
	assert.Equal(t, []string{"header", "hero", added.ID, "footer"}, ids(sorted))

	rec = env.do(t, http.MethodPost, base+"/"+added.ID+"/move", `{"index":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"header", added.ID, "hero", "footer"}, ids(layout.Sorted(decodeData[[]model.Component](t, rec))))

	rec = env.do(t, http.MethodPost, base+"/"+added.ID+"/move", `{"direction":"sideways"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPut, base+"/"+added.ID, `{"config":{"subtitle":"Fast"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, base+"/"+added.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range decodeData[[]model.Component](t, rec) {
		if c.ID == added.ID {
			assert.False(t, c.Visible)
			assert.Equal(t, model.Config{"subtitle": "Fast"}, c.Config)
		}
	}

	rec = env.do(t, http.MethodDelete, base+"/"+added.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, ids(decodeData[[]model.Component](t, rec)), added.ID)

	rec = env.do(t, http.MethodDelete, base+"/"+added.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddComponentErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	base := "/pages/" + p.ID + "/components"

	rec := env.do(t, http.MethodPost, base, `{"type":"header"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, base, `{"config":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, base, `{"type":"carousel"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSubPages(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	base := "/pages/" + p.ID + "/subpages"

	rec := env.do(t, http.MethodPost, base, `{"title":"About Us"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sp := decodeData[model.SubPage](t, rec)
	assert.Equal(t, "about-us", sp.Slug)

	rec = env.do(t, http.MethodPost, base, `{"title":"About","slug":"about-us"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, base+"/"+sp.ID+"/components", `{"components":[{"type":"content","visible":true,"config":{"title":"Story"}}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decodeData[model.Page](t, rec)
	require.Len(t, page.SubPages, 1)
	require.Len(t, page.SubPages[0].Components, 1)
	assert.NotEmpty(t, page.SubPages[0].Components[0].ID)

	rec = env.do(t, http.MethodPut, base+"/"+sp.ID+"/components", `{"components":[{"id":"x","type":"hero"},{"id":"x","type":"cta"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = env.do(t, http.MethodPut, base+"/"+sp.ID+"/components", `{"components":[{"id":"h1","type":"header"},{"id":"h2","type":"header"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/"+sp.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[model.Page](t, rec).SubPages[0].Visible)

	rec = env.do(t, http.MethodDelete, base+"/"+sp.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[model.Page](t, rec).SubPages)

	rec = env.do(t, http.MethodDelete, base+"/"+sp.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPresets(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)

	rec := env.do(t, http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	presets := decodeData[[]PresetResponse](t, rec)
	require.NotEmpty(t, presets)

	rec = env.do(t, http.MethodPost, "/pages/"+p.ID+"/preset", `{"name":"`+presets[0].Name+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]model.Component](t, rec), presets[0].Components)

	rec = env.do(t, http.MethodPost, "/pages/"+p.ID+"/preset", `{"name":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)

	rec := env.do(t, http.MethodGet, "/pages/"+p.ID+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="acme-`)
	exported := rec.Body.String()

	doc, err := transfer.Parse([]byte(exported))
	require.NoError(t, err)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "tester", doc.Metadata.Author)

	other := testutil.SamplePage("Other", "other")
	other.Components = nil
	require.NoError(t, env.pages.SavePage(context.Background(), other))

	rec = env.do(t, http.MethodPost, "/pages/"+other.ID+"/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeData[ImportResponse](t, rec)
	assert.Equal(t, transfer.ExportVersion, resp.Version)
	assert.Equal(t, 3, resp.Components)
	assert.Equal(t, []string{"header", "hero", "footer"}, ids(layout.Sorted(resp.Page)))
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	path := "/pages/" + p.ID + "/import"

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"not json", `{"version":`, ""},
		{"missing components", `{"version":"1.0","timestamp":"2026-01-01T00:00:00Z"}`, "components"},
		{"two headers", `{"version":"1.0","timestamp":"t","components":[
			{"id":"a","type":"header","config":{}},
			{"id":"b","type":"header","config":{}}]}`, "components[1].type"},
		{"duplicate id", `{"version":"1.0","timestamp":"t","components":[
			{"id":"a","type":"hero","config":{}},
			{"id":"a","type":"cta","config":{}}]}`, "components[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, path, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			details := decodeError(t, rec).Error.Details
			assert.Contains(t, details, tt.field)
		})
	}

	rec := env.do(t, http.MethodGet, "/pages/"+p.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[model.Page](t, rec)
	assert.Equal(t, []string{"header", "hero", "footer"}, ids(page.Components))
}

func TestImportTooLarge(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)

	body := strings.Repeat(" ", transfer.MaxImportSize+1)
	rec := env.do(t, http.MethodPost, "/pages/"+p.ID+"/import", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestImportRateLimited(t *testing.T) {
	env := newTestEnv(t, middleware.NewRateLimiter(0.001, 1))
	p := env.seedPage(t)
	path := "/pages/" + p.ID + "/import"

	rec := env.do(t, http.MethodPost, path, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, path, `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)

	rec := env.do(t, http.MethodGet, "/pages/"+p.ID+"/preview", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Welcome to Acme")

	rec = env.do(t, http.MethodGet, "/pages/"+p.ID+"/preview?slug=pricing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBundle(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedPage(t)
	base := "/pages/" + p.ID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, base, `{"multi_page":true}`).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, base+"/subpages", `{"title":"Pricing"}`).Code)

	rec := env.do(t, http.MethodGet, base+"/bundle", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="acme.zip"`)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "index.html")
	assert.Contains(t, names, "pricing.html")

	rec = env.do(t, http.MethodGet, base+"/preview?slug=pricing", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.events.CreateEvent(ctx, model.Event{Level: model.EventLevelWarning, Category: model.EventCategoryImport, Message: "import rejected", PageID: "p1", Metadata: "{}"})
	require.NoError(t, err)
	_, err = env.events.CreateEvent(ctx, model.Event{Level: model.EventLevelError, Category: model.EventCategoryPage, Message: "save failed", PageID: "p2", Metadata: "{}"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]model.Event](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/events?page_id=p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeData[[]model.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "import rejected", events[0].Message)

	rec = env.do(t, http.MethodGet, "/events?page_id=none", "")
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", store.ErrPageNotFound), http.StatusNotFound},
		{layout.ErrComponentNotFound, http.StatusNotFound},
		{transfer.ErrPresetNotFound, http.StatusNotFound},
		{layout.ErrDuplicateHeader, http.StatusConflict},
		{store.ErrSlugTaken, http.StatusConflict},
		{compiler.ErrDuplicateSlug, http.StatusConflict},
		{layout.ErrInvalidSlug, http.StatusUnprocessableEntity},
		{editor.ErrInvalidStatus, http.StatusUnprocessableEntity},
		{compiler.ErrNoPages, http.StatusUnprocessableEntity},
		{&transfer.ValidationError{Field: "version", Reason: "must be a string"}, http.StatusUnprocessableEntity},
		{&editor.SaveError{Err: errors.New("disk full")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, testutil.TestLoggerSilent(), tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	db := testutil.TestDB(t)
	dir := t.TempDir()

	t.Run("open", func(t *testing.T) {
		h := NewHealthHandler(db, nil, dir, "", "1.2.3")
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, statusHealthy, status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.Contains(t, status.Checks, "database")
		assert.Contains(t, status.Checks, "disk")
	})

	t.Run("token hides details", func(t *testing.T) {
		h := NewHealthHandler(db, nil, dir, "secret", "1.2.3")
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

		req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec = httptest.NewRecorder()
		h.Health(rec, req)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.NotNil(t, status.System)
	})

	t.Run("liveness and readiness", func(t *testing.T) {
		h := NewHealthHandler(db, nil, dir, "", "1.2.3")
		rec := httptest.NewRecorder()
		h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func ids(cs []model.Component) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
