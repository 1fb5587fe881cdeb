// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/pagebuilder/internal/util"
)

// MaxInlineImageSize bounds the decoded size of one inline image.
const MaxInlineImageSize = 15 << 20

// LocalUploaderOptions configures a LocalUploader.
type LocalUploaderOptions struct {
	Dir       string // filesystem root for stored images
	PublicURL string // URL prefix the stored files are served under
	SubDir    string // defaults to "pages"
	MaxWidth  int    // 0 keeps the original width
	Quality   int    // JPEG quality, defaults to 85
	Logger    *slog.Logger
}

// LocalUploader stores inline images on the local filesystem.
type LocalUploader struct {
	opts LocalUploaderOptions
}

// NewLocalUploader creates a LocalUploader.
func NewLocalUploader(opts LocalUploaderOptions) *LocalUploader {
	if opts.SubDir == "" {
		opts.SubDir = "pages"
	}
	if opts.Quality == 0 {
		opts.Quality = 85
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.PublicURL = strings.TrimSuffix(opts.PublicURL, "/")
	return &LocalUploader{opts: opts}
}

// Upload implements Uploader. Images that cannot be decoded are logged and
// skipped; write failures abort the whole upload.
func (u *LocalUploader) Upload(ctx context.Context, refs []string) ([]Replacement, error) {
	dir, err := util.SafeJoin(u.opts.Dir, u.opts.SubDir)
	if err != nil {
		return nil, fmt.Errorf("invalid upload directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	out := make([]Replacement, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := DecodeDataURL(ref)
		if err != nil {
			u.opts.Logger.Warn("skipping inline image", "error", err)
			continue
		}
		img, err := ProcessImage(raw, u.opts.MaxWidth, u.opts.Quality)
		if err != nil {
			u.opts.Logger.Warn("skipping inline image", "error", err)
			continue
		}

		name := uuid.NewString() + formatExt(img.Format)
		path, err := util.SafeJoin(dir, name)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, img.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}

		out = append(out, Replacement{
			Original: ref,
			URL:      u.opts.PublicURL + "/" + filepath.ToSlash(filepath.Join(u.opts.SubDir, name)),
		})
		u.opts.Logger.Debug("stored inline image", "file", path, "width", img.Width, "height", img.Height)
	}
	return out, nil
}

// DecodeDataURL returns the bytes of a base64 data:image URL.
func DecodeDataURL(s string) ([]byte, error) {
	loc := inlineImage.FindStringIndex(s)
	if loc == nil {
		return nil, fmt.Errorf("not an inline image")
	}
	payload := s[loc[1]:]
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxInlineImageSize {
		return nil, fmt.Errorf("inline image exceeds %d bytes", MaxInlineImageSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}
