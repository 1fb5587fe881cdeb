// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media replaces inline data-URL images in component configs with
// references to stored files before a page is persisted.
package media

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/olegiv/pagebuilder/internal/model"
)

// DefaultTimeout bounds one materialization pass.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when the uploader does not answer in time.
var ErrTimeout = errors.New("image upload timed out")

var inlineImage = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// IsInlineImage reports whether s is an embedded base64 image.
func IsInlineImage(s string) bool {
	return inlineImage.MatchString(s)
}

// Replacement maps an inline image to its stored reference.
type Replacement struct {
	Original string `json:"original"`
	URL      string `json:"url"`
}

// Uploader stores inline images and returns their new references. It may
// return fewer replacements than refs; unmatched values stay inline.
type Uploader interface {
	Upload(ctx context.Context, refs []string) ([]Replacement, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, refs []string) ([]Replacement, error)

// Upload calls f.
func (f UploaderFunc) Upload(ctx context.Context, refs []string) ([]Replacement, error) {
	return f(ctx, refs)
}

// Result summarizes a materialization pass.
type Result struct {
	Found    int               // distinct inline images
	Replaced int               // config values rewritten
	Applied  map[string]string // inline image to stored URL
}

// Collect returns the distinct inline images of the given component lists
// in a stable order: list order, then sorted config keys, then list index.
func Collect(lists ...[]model.Component) []string {
	seen := map[string]bool{}
	var refs []string
	for _, comps := range lists {
		for _, c := range comps {
			walk(map[string]any(c.Config), func(s string) {
				if IsInlineImage(s) && !seen[s] {
					seen[s] = true
					refs = append(refs, s)
				}
			})
		}
	}
	return refs
}

func walk(v any, visit func(string)) {
	switch t := v.(type) {
	case string:
		visit(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(t[k], visit)
		}
	case model.Config:
		walk(map[string]any(t), visit)
	case []any:
		for _, e := range t {
			walk(e, visit)
		}
	}
}

// Substitute returns a deep copy of comps with every mapped string leaf
// replaced, plus the number of values rewritten.
func Substitute(comps []model.Component, repl map[string]string) ([]model.Component, int) {
	out := model.CloneComponents(comps)
	n := 0
	for i := range out {
		if out[i].Config == nil {
			continue
		}
		out[i].Config = model.Config(substitute(map[string]any(out[i].Config), repl, &n).(map[string]any))
	}
	return out, n
}

func substitute(v any, repl map[string]string, n *int) any {
	switch t := v.(type) {
	case string:
		if r, ok := repl[t]; ok {
			*n++
			return r
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = substitute(e, repl, n)
		}
		return t
	case model.Config:
		return model.Config(substitute(map[string]any(t), repl, n).(map[string]any))
	case []any:
		for i, e := range t {
			t[i] = substitute(e, repl, n)
		}
		return t
	default:
		return v
	}
}

// upload runs the uploader under a deadline and keeps only replacements
// for refs that were asked for.
func upload(ctx context.Context, up Uploader, refs []string, timeout time.Duration) (map[string]string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		repl []Replacement
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		r, err := up.Upload(ctx, refs)
		done <- reply{r, err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, ctx.Err()
	}
	if r.err != nil {
		return nil, fmt.Errorf("uploading images: %w", r.err)
	}

	wanted := make(map[string]bool, len(refs))
	for _, ref := range refs {
		wanted[ref] = true
	}
	out := make(map[string]string, len(r.repl))
	for _, rp := range r.repl {
		if wanted[rp.Original] && rp.URL != "" {
			out[rp.Original] = rp.URL
		}
	}
	return out, nil
}

// Materialize uploads every inline image of comps and returns a copy with
// the stored references substituted. When the upload fails or exceeds
// timeout, the original components are returned unmodified with the error.
func Materialize(ctx context.Context, comps []model.Component, up Uploader, timeout time.Duration) ([]model.Component, Result, error) {
	refs := Collect(comps)
	res := Result{Found: len(refs)}
	if len(refs) == 0 || up == nil {
		return comps, res, nil
	}

	repl, err := upload(ctx, up, refs, timeout)
	if err != nil {
		return comps, res, err
	}
	out, n := Substitute(comps, repl)
	res.Replaced = n
	res.Applied = repl
	return out, res, nil
}

// MaterializePage is Materialize over a page and all of its subpages with a
// single upload. The input page is never modified; on error it is returned
// as is.
func MaterializePage(ctx context.Context, page *model.Page, up Uploader, timeout time.Duration) (*model.Page, Result, error) {
	lists := [][]model.Component{page.Components}
	for _, sp := range page.SubPages {
		lists = append(lists, sp.Components)
	}
	refs := Collect(lists...)
	res := Result{Found: len(refs)}
	if len(refs) == 0 || up == nil {
		return page, res, nil
	}

	repl, err := upload(ctx, up, refs, timeout)
	if err != nil {
		return page, res, err
	}

	out := page.Clone()
	var n int
	out.Components, n = Substitute(out.Components, repl)
	res.Replaced += n
	for i := range out.SubPages {
		out.SubPages[i].Components, n = Substitute(out.SubPages[i].Components, repl)
		res.Replaced += n
	}
	res.Applied = repl
	return out, res, nil
}
