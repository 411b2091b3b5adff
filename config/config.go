// seehuhn.de/go/dieline - register and clip artwork to die-line masks
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the configuration file of the maskpat tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/dieline/clip"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/dieline/locate"
	"seehuhn.de/go/dieline/pattern"
	"seehuhn.de/go/dieline/pipeline"
)

// Config holds the full maskpat configuration.
type Config struct {
	OutputDir string        `yaml:"output_dir"`
	Format    string        `yaml:"format"`    // EPS | YAML
	LogFile   string        `yaml:"log_file"`  // empty disables the run log
	Journal   string        `yaml:"journal"`   // SQLite file, empty disables the journal
	Listen    string        `yaml:"listen"`
	InputDir  string        `yaml:"input_dir"` // root for file names in HTTP requests
	Locator   LocatorConfig `yaml:"locator"`
	Clip      ClipConfig    `yaml:"clip"`
	Overlay   OverlayConfig `yaml:"overlay"`
	Patterns  []string      `yaml:"patterns"` // tags of the default batch
}

// LocatorConfig configures the search for the reference geometry.
type LocatorConfig struct {
	Mode       string `yaml:"mode"` // auto | named | positional | single | largest
	CaseLabel  string `yaml:"case_label"`
	BleedLabel string `yaml:"bleed_label"`
}

// ClipConfig configures the clip/cut stage.
type ClipConfig struct {
	Strategy        string `yaml:"strategy"` // hybrid | compound | largest | boolean
	PreserveStrokes bool   `yaml:"preserve_strokes"`
	ClipOverlays    bool   `yaml:"clip_overlays"`
	ItemPolicy      string `yaml:"item_policy"` // keep | fail
}

// OverlayConfig configures the detection of protected text.
type OverlayConfig struct {
	Markers   []string `yaml:"markers"`
	Edge      string   `yaml:"edge"` // top | bottom | both
	Tolerance float64  `yaml:"tolerance"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputDir: pipeline.DefaultOutputDir,
		Format:    string(host.FormatEPS),
		LogFile:   "log.txt",
		Journal:   "",
		Listen:    "localhost:8080",
		InputDir:  ".",
		Locator: LocatorConfig{
			Mode:       locate.Auto.String(),
			CaseLabel:  "CL",
			BleedLabel: "BL",
		},
		Clip: ClipConfig{
			Strategy:     clip.Hybrid.String(),
			ClipOverlays: true,
			ItemPolicy:   clip.KeepOriginal.String(),
		},
		Overlay: OverlayConfig{
			Markers:   append([]string(nil), pattern.DefaultMarkers...),
			Edge:      pattern.EdgeTop.String(),
			Tolerance: pattern.DefaultTolerance,
		},
		Patterns: []string{pipeline.TagColor, pipeline.TagBlack},
	}
}

// Load reads and parses a YAML config file.  Settings missing from the
// file keep their default values, unknown settings are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	switch host.Format(c.Format) {
	case host.FormatEPS, host.FormatYAML:
	default:
		return fmt.Errorf("unsupported format %q (use EPS or YAML)", c.Format)
	}
	if _, err := locate.ParseMode(c.Locator.Mode); err != nil {
		return fmt.Errorf("locator.mode: %w", err)
	}
	if _, err := clip.ParseStrategy(c.Clip.Strategy); err != nil {
		return fmt.Errorf("clip.strategy: %w", err)
	}
	if _, err := clip.ParseItemPolicy(c.Clip.ItemPolicy); err != nil {
		return fmt.Errorf("clip.item_policy: %w", err)
	}
	if _, err := pattern.ParseEdge(c.Overlay.Edge); err != nil {
		return fmt.Errorf("overlay.edge: %w", err)
	}
	if c.Overlay.Tolerance < 0 {
		return fmt.Errorf("overlay.tolerance must be >= 0")
	}
	seen := make(map[string]bool)
	for i, tag := range c.Patterns {
		if tag == "" {
			return fmt.Errorf("patterns[%d]: empty tag", i)
		}
		if seen[tag] {
			return fmt.Errorf("patterns[%d]: duplicate tag %q", i, tag)
		}
		seen[tag] = true
	}
	return nil
}

// Options converts the configuration into pipeline options.
// The configuration must be valid.
func (c *Config) Options() pipeline.Options {
	mode, _ := locate.ParseMode(c.Locator.Mode)
	strategy, _ := clip.ParseStrategy(c.Clip.Strategy)
	policy, _ := clip.ParseItemPolicy(c.Clip.ItemPolicy)
	edge, _ := pattern.ParseEdge(c.Overlay.Edge)

	tolerance := c.Overlay.Tolerance
	if tolerance == 0 {
		tolerance = -1 // zero in the file disables the position check
	}

	return pipeline.Options{
		OutputDir: c.OutputDir,
		Format:    host.Format(c.Format),
		Locator: locate.Options{
			Mode:       mode,
			CaseLabel:  c.Locator.CaseLabel,
			BleedLabel: c.Locator.BleedLabel,
		},
		Clip: clip.Options{
			Strategy:          strategy,
			PreserveStrokes:   c.Clip.PreserveStrokes,
			UnclippedOverlays: !c.Clip.ClipOverlays,
			ItemPolicy:        policy,
		},
		Markers:   c.Overlay.Markers,
		Edge:      edge,
		Tolerance: tolerance,
	}
}
