// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compiler

import (
	"regexp"
	"strings"
)

// DefaultColor is used when a color token cannot be resolved.
const DefaultColor = "#ffffff"

// colors maps symbolic color tokens to CSS colors.
var colors = map[string]string{
	"white":       "#ffffff",
	"black":       "#000000",
	"transparent": "transparent",
	"gray-50":     "#f9fafb",
	"gray-100":    "#f3f4f6",
	"gray-200":    "#e5e7eb",
	"gray-500":    "#6b7280",
	"gray-800":    "#1f2937",
	"gray-900":    "#111827",
	"slate-900":   "#0f172a",
	"red-500":     "#ef4444",
	"orange-500":  "#f97316",
	"yellow-400":  "#facc15",
	"green-500":   "#22c55e",
	"emerald-600": "#059669",
	"teal-500":    "#14b8a6",
	"cyan-500":    "#06b6d4",
	"blue-50":     "#eff6ff",
	"blue-500":    "#3b82f6",
	"blue-600":    "#2563eb",
	"blue-900":    "#1e3a8a",
	"indigo-500":  "#6366f1",
	"indigo-600":  "#4f46e5",
	"purple-500":  "#a855f7",
	"purple-600":  "#9333ea",
	"pink-500":    "#ec4899",
	"rose-500":    "#f43f5e",
}

// spacing maps padding tokens to pixel values.
var spacing = map[string]int{
	"none": 0,
	"sm":   16,
	"md":   32,
	"lg":   64,
	"xl":   96,
	"2xl":  128,
}

// defaultSpacing is used for unknown or missing padding tokens.
const defaultSpacing = "lg"

// directions maps gradient direction tokens to CSS directions.
var directions = map[string]string{
	"to-r":  "to right",
	"to-l":  "to left",
	"to-t":  "to top",
	"to-b":  "to bottom",
	"to-tr": "to top right",
	"to-tl": "to top left",
	"to-br": "to bottom right",
	"to-bl": "to bottom left",
}

// defaultDirection is used for unknown gradient directions.
const defaultDirection = "to bottom right"

// positions maps background position tokens to CSS keywords.
var positions = map[string]string{
	"center":       "center",
	"top":          "top",
	"bottom":       "bottom",
	"left":         "left",
	"right":        "right",
	"top-left":     "top left",
	"top-right":    "top right",
	"bottom-left":  "bottom left",
	"bottom-right": "bottom right",
}

// sizes maps background size tokens to CSS keywords.
var sizes = map[string]string{
	"cover":   "cover",
	"contain": "contain",
	"auto":    "auto",
}

// animations lists the entrance animations with a CSS class in the base stylesheet.
var animations = map[string]bool{
	"fade":       true,
	"slide-up":   true,
	"slide-left": true,
	"zoom":       true,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ResolveColor turns a color token or a literal hex color into a CSS color.
func ResolveColor(token string) string {
	token = strings.TrimSpace(token)
	if c, ok := colors[strings.ToLower(token)]; ok {
		return c
	}
	if hexColor.MatchString(token) {
		return strings.ToLower(token)
	}
	return DefaultColor
}

// ResolveSpacing returns the pixel value of a padding token.
func ResolveSpacing(token string) int {
	if px, ok := spacing[strings.TrimSpace(token)]; ok {
		return px
	}
	return spacing[defaultSpacing]
}

// ResolveDirection returns the CSS direction of a gradient token.
func ResolveDirection(token string) string {
	if d, ok := directions[strings.TrimSpace(token)]; ok {
		return d
	}
	return defaultDirection
}

// ResolvePosition returns the CSS background-position keyword.
func ResolvePosition(token string) string {
	if p, ok := positions[strings.TrimSpace(token)]; ok {
		return p
	}
	return "center"
}

// ResolveSize returns the CSS background-size keyword.
func ResolveSize(token string) string {
	if s, ok := sizes[strings.TrimSpace(token)]; ok {
		return s
	}
	return "cover"
}
