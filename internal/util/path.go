// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a joined path leaves its base directory.
var ErrPathTraversal = errors.New("path escapes base directory")

// WithinBase reports an error unless target resolves inside base.
func WithinBase(base, target string) error {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}
	absTarget, err := filepath.Abs(filepath.Clean(target))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// The trailing separator keeps /uploads-evil from matching /uploads.
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}

// SafeJoin joins elems onto base and fails if the result escapes base.
func SafeJoin(base string, elems ...string) (string, error) {
	full := filepath.Join(append([]string{base}, elems...)...)
	if err := WithinBase(base, full); err != nil {
		return "", err
	}
	return full, nil
}
