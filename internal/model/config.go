// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Config is the type-specific settings tree of a component. Leaves are
// strings, numbers (float64, int or json.Number), booleans, lists ([]any)
// and maps (map[string]any). It is the only untyped representation and is
// kept so that unknown fields survive import/export.
type Config map[string]any

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies a structured value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = CloneValue(vv)
		}
		return m
	case Config:
		return t.Clone()
	case []any:
		l := make([]any, len(t))
		for i, vv := range t {
			l[i] = CloneValue(vv)
		}
		return l
	default:
		return v
	}
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// String returns the string value of key, or "" when missing or not a string.
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// List returns the list value of key, or nil.
func (c Config) List(key string) []any {
	l, _ := c[key].([]any)
	return l
}

// Map returns the map value of key, or nil.
func (c Config) Map(key string) map[string]any {
	switch m := c[key].(type) {
	case map[string]any:
		return m
	case Config:
		return m
	}
	return nil
}

// Bool returns the boolean value of key.
func (c Config) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}

// Int returns the numeric value of key truncated to int.
func (c Config) Int(key string) int {
	n, _ := ToInt(c[key])
	return n
}

// ToInt converts a numeric structured value to int.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

// ToString renders a scalar structured value as text.
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// IsEmpty reports whether a structured value carries no content.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case Config:
		return len(t) == 0
	}
	return false
}
