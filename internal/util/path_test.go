// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		elems   []string
		want    string
		wantErr bool
	}{
		{name: "single file", elems: []string{"a.webp"}, want: filepath.Join(base, "a.webp")},
		{name: "nested", elems: []string{"2026", "10", "a.png"}, want: filepath.Join(base, "2026", "10", "a.png")},
		{name: "base itself", elems: nil, want: base},
		{name: "parent escape", elems: []string{"..", "etc", "passwd"}, wantErr: true},
		{name: "hidden escape", elems: []string{"img", "..", "..", "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(base, tt.elems...)
			if tt.wantErr {
				if !errors.Is(err, ErrPathTraversal) {
					t.Fatalf("SafeJoin(%v) error = %v, want ErrPathTraversal", tt.elems, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoin(%v) unexpected error: %v", tt.elems, err)
			}
			if got != tt.want {
				t.Errorf("SafeJoin(%v) = %q, want %q", tt.elems, got, tt.want)
			}
		})
	}
}

func TestWithinBasePrefixSibling(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	if err := WithinBase(base, base+"-evil/x"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("sibling directory accepted: %v", err)
	}
}
