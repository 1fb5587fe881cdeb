// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/pagebuilder/internal/layout"
	"github.com/olegiv/pagebuilder/internal/model"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// ErrPresetNotFound is returned for an unknown preset name.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a ready-made starting document.
type Preset struct {
	Name        string            `yaml:"-" json:"name"`
	Title       string            `yaml:"title" json:"title"`
	Description string            `yaml:"description" json:"description"`
	Components  []PresetComponent `yaml:"components" json:"components"`
}

// PresetComponent is one block of a preset. IDs and orders are assigned
// when the preset is applied.
type PresetComponent struct {
	Type    model.ComponentType `yaml:"type" json:"type"`
	Visible *bool               `yaml:"visible,omitempty" json:"visible,omitempty"`
	Config  map[string]any      `yaml:"config" json:"config"`
}

var loadPresets = sync.OnceValues(func() (map[string]*Preset, error) {
	return readPresets(presetFS, "presets")
})

func readPresets(fsys fs.FS, dir string) (map[string]*Preset, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}

	out := make(map[string]*Preset, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading preset %s: %w", e.Name(), err)
		}
		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing preset %s: %w", e.Name(), err)
		}
		p.Name = strings.TrimSuffix(e.Name(), ".yaml")
		for i := range p.Components {
			cfg, _ := normalizeYAML(p.Components[i].Config).(map[string]any)
			if cfg == nil {
				cfg = map[string]any{}
			}
			p.Components[i].Config = cfg
		}
		out[p.Name] = &p
	}
	return out, nil
}

// normalizeYAML converts the map[any]any values yaml.v3 may produce into
// map[string]any so presets share the JSON config shape.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = normalizeYAML(vv)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[fmt.Sprint(k)] = normalizeYAML(vv)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, vv := range t {
			l[i] = normalizeYAML(vv)
		}
		return l
	default:
		return v
	}
}

// Presets returns the catalog sorted by name.
func Presets() ([]*Preset, error) {
	all, err := loadPresets()
	if err != nil {
		return nil, err
	}
	out := make([]*Preset, 0, len(all))
	for _, p := range all {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetPreset returns the named preset.
func GetPreset(name string) (*Preset, error) {
	all, err := loadPresets()
	if err != nil {
		return nil, err
	}
	p, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return p, nil
}

// Instantiate builds a fresh component list from the preset: new IDs,
// dense orders and deep-copied configs.
func (p *Preset) Instantiate() []model.Component {
	out := make([]model.Component, len(p.Components))
	for i, pc := range p.Components {
		visible := true
		if pc.Visible != nil {
			visible = *pc.Visible
		}
		out[i] = model.Component{
			ID:      model.NewID(),
			Type:    pc.Type,
			Order:   i,
			Visible: visible,
			Config:  model.Config(pc.Config).Clone(),
		}
		if out[i].Config == nil {
			out[i].Config = model.Config{}
		}
	}
	return out
}

// ApplyPreset replaces the page's components with a fresh copy of the
// named preset. The page is untouched if the preset does not exist.
func ApplyPreset(page *model.Page, name string) error {
	p, err := GetPreset(name)
	if err != nil {
		return err
	}
	page.Components = p.Instantiate()
	layout.Normalize(page)
	return nil
}
