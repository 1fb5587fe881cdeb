// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for token authentication,
// rate limiting, security headers and request timeouts.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// BearerToken requires "Authorization: Bearer <token>" on every request.
// An empty token disables the check.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header. Use: Bearer <token>", nil)
				return
			}
			if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasValidToken reports whether the request carries token. It never writes
// a response, so handlers can use it to decide how much detail to return.
func HasValidToken(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	raw, ok := bearer(r)
	return ok && subtle.ConstantTimeCompare([]byte(raw), []byte(token)) == 1
}

func bearer(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
