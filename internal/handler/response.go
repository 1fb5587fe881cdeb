// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/pagebuilder/internal/compiler"
	"github.com/olegiv/pagebuilder/internal/editor"
	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/middleware"
	"github.com/olegiv/pagebuilder/internal/store"
	"github.com/olegiv/pagebuilder/internal/transfer"
)

// maxJSONBody limits request bodies other than imports.
const maxJSONBody = 1 << 20

var errBodyTooLarge = errors.New("request body is too large")

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteBadRequest writes a 400 response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteTooLarge writes a 413 response.
func WriteTooLarge(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusRequestEntityTooLarge, "too_large", message, nil)
}

// WriteInternalError writes a 500 response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 response with field errors.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "validation_error", message, fieldErrors)
}

// writeError maps domain errors to HTTP responses. Unknown errors are
// logged and reported as 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *transfer.ValidationError
	var saveErr *editor.SaveError

	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, "Invalid import document", map[string]string{verr.Field: verr.Reason})
	case errors.Is(err, store.ErrPageNotFound),
		errors.Is(err, layout.ErrComponentNotFound),
		errors.Is(err, layout.ErrSubPageNotFound),
		errors.Is(err, transfer.ErrPresetNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, layout.ErrDuplicateHeader),
		errors.Is(err, layout.ErrDuplicateComponent),
		errors.Is(err, layout.ErrSlugCollision),
		errors.Is(err, store.ErrSlugTaken),
		errors.Is(err, compiler.ErrDuplicateSlug):
		middleware.WriteAPIError(w, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, layout.ErrInvalidSlug),
		errors.Is(err, editor.ErrInvalidStatus),
		errors.Is(err, compiler.ErrReservedSlug),
		errors.Is(err, compiler.ErrNoPages):
		WriteValidationError(w, err.Error(), nil)
	case errors.As(err, &saveErr):
		logger.Error("failed to save page", "error", err)
		WriteInternalError(w, saveErr.Error())
	default:
		logger.Error("request failed", "error", err)
		WriteInternalError(w, "Internal Server Error")
	}
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteBadRequest(w, "Request body is empty")
		} else {
			WriteBadRequest(w, "Invalid JSON body: "+err.Error())
		}
		return false
	}
	return true
}

// readBody reads at most maxBytes of the request body.
func readBody(r io.Reader, maxBytes int64) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w (max %d MB)", errBodyTooLarge, maxBytes/(1<<20))
	}
	return content, nil
}

// queryInt parses a non-negative integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
