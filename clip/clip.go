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

// Package clip restricts registered pattern artwork to the outline of a
// die-line mask.
//
// Two approaches are supported.  Clipping strategies place the artwork into
// a group together with a copy of the mask outline and turn the outline
// into a clipping path; the artwork itself is left unchanged.  The boolean
// cut instead intersects every path of the artwork with the mask outline,
// so that the output contains no geometry outside the mask.
package clip

import (
	"fmt"
	"log/slog"
	"strings"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/dieline/locate"
	"seehuhn.de/go/dieline/pattern"
)

// Strategy selects how the clipping boundary is obtained.
type Strategy int

// These are the supported strategies.
const (
	// Hybrid tries CompoundPath first and falls back to LargestPath.
	Hybrid Strategy = iota

	// CompoundPath converts the complete reference outline into a single
	// compound path.  This keeps holes in the outline.
	CompoundPath

	// LargestPath uses the closed path with the largest bounding box
	// inside the reference outline.
	LargestPath

	// BooleanCut intersects every path of the artwork with the reference
	// outline, instead of clipping.
	BooleanCut
)

func (s Strategy) String() string {
	switch s {
	case Hybrid:
		return "hybrid"
	case CompoundPath:
		return "compound"
	case LargestPath:
		return "largest"
	case BooleanCut:
		return "boolean"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts the string representation of a strategy back into
// a Strategy.  The empty string gives Hybrid.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return Hybrid, nil
	}
	for x := Hybrid; x <= BooleanCut; x++ {
		if strings.EqualFold(s, x.String()) {
			return x, nil
		}
	}
	return Hybrid, fmt.Errorf("unknown clip strategy %q", s)
}

// ItemPolicy decides how failures of individual items are handled by
// the boolean cut.
type ItemPolicy int

// These are the supported policies.
const (
	// KeepOriginal keeps the uncut item and logs a warning.
	KeepOriginal ItemPolicy = iota

	// FailFast aborts the cut at the first failed item.
	FailFast
)

func (p ItemPolicy) String() string {
	switch p {
	case KeepOriginal:
		return "keep"
	case FailFast:
		return "fail"
	default:
		return fmt.Sprintf("ItemPolicy(%d)", int(p))
	}
}

// ParseItemPolicy converts the string representation of an item policy
// back into an ItemPolicy.  The empty string gives KeepOriginal.
func ParseItemPolicy(s string) (ItemPolicy, error) {
	switch strings.ToLower(s) {
	case "keep", "":
		return KeepOriginal, nil
	case "fail":
		return FailFast, nil
	}
	return KeepOriginal, fmt.Errorf("unknown item policy %q", s)
}

// Options controls [Engine.Clip].
type Options struct {
	Strategy Strategy

	// PreserveStrokes keeps the stroked outlines of the reference visible
	// on top of the clipped artwork.
	PreserveStrokes bool

	// UnclippedOverlays places the protected text above the clipped
	// artwork instead of inside the clip group, so that the text is
	// never cut off.
	UnclippedOverlays bool

	ItemPolicy ItemPolicy

	Logger *slog.Logger
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	Strategy Strategy
	Err      error
}

// ItemResult records how one item of the artwork was cut.
type ItemResult struct {
	// Source is the item of the original artwork.
	Source artwork.Shape

	// Shapes holds the result of the cut.  If the item could not be cut,
	// this contains Source.  If the item lies completely outside the
	// reference, this is empty.
	Shapes []artwork.Shape

	Err error
}

// Result is the outcome of a successful [Engine.Clip] call.
type Result struct {
	// Group is the final artwork group.  The group is detached.
	Group *artwork.Group

	// Used is the strategy which succeeded.  This is never Hybrid.
	Used Strategy

	// StrokeOutlines lists the preserved stroke outlines.
	StrokeOutlines []artwork.Shape

	// Items lists the per-item results of a boolean cut.
	Items []ItemResult

	// Attempts lists all strategies tried, in order.
	Attempts []Attempt
}

// Engine clips artwork using the operations of a host.
type Engine struct {
	Host host.Host
}

// Clip restricts the pattern artwork in b to the reference outline.  The
// bleed line is used as the outline if present, otherwise the case line.
//
// If all attempted strategies fail, a [*dieline.ClippingFailedError] is
// returned.
func (e *Engine) Clip(doc *artwork.Document, b *pattern.Bundle, ref *locate.Reference, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = dieline.Logger()
	}

	source := ref.BL
	if source == nil {
		source = ref.CL
	}
	if source == nil {
		return nil, &dieline.ClippingFailedError{
			Errs: []error{&dieline.ReferenceNotFoundError{Missing: []string{"CL", "BL"}}},
		}
	}

	c := &clipper{
		Engine: e,
		doc:    doc,
		opt:    opt,
		logger: logger,
		source: source,
	}
	if opt.Strategy == BooleanCut {
		if opt.PreserveStrokes {
			err := c.collectStrokes()
			if err != nil {
				return nil, err
			}
		}
		return c.cut(b)
	}
	return c.clip(b)
}

type clipper struct {
	*Engine
	doc    *artwork.Document
	opt    *Options
	logger *slog.Logger

	source    artwork.Shape
	outlines  []artwork.Shape
	collected bool
}

// collectStrokes duplicates the stroked paths of the reference outline.
func (c *clipper) collectStrokes() error {
	if c.collected {
		return nil
	}
	c.collected = true

	h := c.Host
	for _, leaf := range artwork.Leaves(c.source) {
		if _, isText := leaf.(*artwork.Text); isText {
			continue
		}
		st := artwork.StyleOf(leaf)
		if st == nil || !st.Stroked {
			continue
		}
		dup, err := h.Duplicate(c.doc, leaf)
		if err != nil {
			return err
		}
		err = h.SetPaint(c.doc, dup, false, true)
		if err != nil {
			return err
		}
		c.outlines = append(c.outlines, dup)
	}
	c.logger.Debug("stroke outlines collected", "count", len(c.outlines))
	return nil
}

// finish wraps the artwork group together with the preserved strokes and
// the unclipped overlays, where needed.
func (c *clipper) finish(g *artwork.Group, overlays []artwork.Shape) (*artwork.Group, error) {
	h := c.Host
	var top []artwork.Shape
	if len(c.outlines) > 0 {
		strokes, err := h.Group(c.doc, c.outlines, "Preserved Strokes")
		if err != nil {
			return nil, err
		}
		top = append(top, strokes)
	}
	if c.opt.UnclippedOverlays {
		top = append(top, overlays...)
	}
	if len(top) == 0 {
		return g, nil
	}
	return h.Group(c.doc, append([]artwork.Shape{g}, top...), "Masked Pattern")
}
