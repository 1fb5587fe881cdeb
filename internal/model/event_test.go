// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventJSONOmitsEmptyPage(t *testing.T) {
	e := Event{
		ID:        7,
		Level:     EventLevelWarning,
		Category:  EventCategoryCompile,
		Message:   "compile slow",
		Metadata:  "{}",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "page_id") {
		t.Errorf("page_id should be omitted for system events: %s", data)
	}

	e.PageID = "p1"
	data, _ = json.Marshal(e)
	if !strings.Contains(string(data), `"page_id":"p1"`) {
		t.Errorf("page_id missing: %s", data)
	}
}

func TestEventLevelsAndCategoriesDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range []string{
		EventCategoryPage, EventCategoryMedia, EventCategoryCompile, EventCategoryImport,
		EventCategoryConfig, EventCategoryCache, EventCategorySystem,
	} {
		if seen[v] {
			t.Errorf("duplicate category %q", v)
		}
		seen[v] = true
	}

	levels := map[string]bool{EventLevelInfo: true, EventLevelWarning: true, EventLevelError: true}
	if len(levels) != 3 {
		t.Errorf("event levels collide: %v", levels)
	}
}
