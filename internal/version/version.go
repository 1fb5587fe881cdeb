// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the version the way -version prints it.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("pagebuilder %s (commit: %s, built: %s)", v, orUnknown(i.GitCommit), orUnknown(i.BuildTime))
}

// Generator is the value of the generator meta tag in compiled documents.
func (i Info) Generator() string {
	if i.Version == "" || i.Version == "dev" {
		return "pagebuilder"
	}
	return "pagebuilder " + i.Version
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
