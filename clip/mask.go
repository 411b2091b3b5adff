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

package clip

import (
	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/pattern"
)

// clip builds the clip group bottom-up: first the artwork, then the
// overlays, and finally the clipping boundary on top.
func (c *clipper) clip(b *pattern.Bundle) (*Result, error) {
	h := c.Host

	g, err := h.Group(c.doc, []artwork.Shape{b.Artwork}, "Clip Group")
	if err != nil {
		return nil, err
	}
	if !c.opt.UnclippedOverlays {
		for _, o := range b.Overlays {
			err := h.Move(c.doc, o, g, artwork.AtEnd)
			if err != nil {
				return nil, err
			}
		}
	}

	var order []Strategy
	if c.opt.Strategy == Hybrid {
		order = []Strategy{CompoundPath, LargestPath}
	} else {
		order = []Strategy{c.opt.Strategy}
	}

	res := &Result{}
	var errs []error
	for _, s := range order {
		err := c.tryMask(g, s)
		res.Attempts = append(res.Attempts, Attempt{Strategy: s, Err: err})
		if err != nil {
			c.logger.Info("clipping strategy failed", "strategy", s, "error", err)
			errs = append(errs, err)
			continue
		}
		c.logger.Info("clip mask applied", "strategy", s)
		res.Used = s

		final, err := c.finish(g, b.Overlays)
		if err != nil {
			return nil, err
		}
		res.Group = final
		res.StrokeOutlines = c.outlines
		return res, nil
	}
	return nil, &dieline.ClippingFailedError{Errs: errs}
}

// tryMask adds a boundary obtained using strategy s on top of g and turns
// it into a clipping path.  On failure, the boundary is removed again.
func (c *clipper) tryMask(g *artwork.Group, s Strategy) error {
	h := c.Host

	boundary, wasStroked, err := c.boundary(s)
	if err != nil {
		return err
	}
	// A stroked boundary stands in for the stroke outlines, if the
	// reference has no other stroked paths.
	var outline artwork.Shape
	if s == LargestPath && c.opt.PreserveStrokes && len(c.outlines) == 0 && wasStroked {
		outline, err = h.Duplicate(c.doc, boundary)
		if err != nil {
			return err
		}
		err = h.SetPaint(c.doc, outline, false, true)
		if err != nil {
			return err
		}
	}

	err = h.Move(c.doc, boundary, g, artwork.AtEnd)
	if err != nil {
		return err
	}
	err = h.ApplyClipMask(c.doc, g)
	if err != nil {
		if rmErr := h.Remove(c.doc, boundary); rmErr != nil {
			c.logger.Warn("cannot remove failed boundary", "error", rmErr)
		}
		return err
	}
	if outline != nil {
		c.outlines = append(c.outlines, outline)
	}
	return nil
}

// boundary returns a detached copy of the reference outline, obtained using
// strategy s.  The second return value reports whether the chosen outline
// was stroked.
func (c *clipper) boundary(s Strategy) (artwork.Shape, bool, error) {
	h := c.Host
	switch s {
	case CompoundPath:
		if c.opt.PreserveStrokes {
			err := c.collectStrokes()
			if err != nil {
				return nil, false, err
			}
		}
		dup, err := h.Duplicate(c.doc, c.source)
		if err != nil {
			return nil, false, err
		}
		cp, err := h.CompoundPath(c.doc, dup)
		if err != nil {
			return nil, false, err
		}
		return cp, cp.Stroked, nil
	case LargestPath:
		largest, _ := artwork.Largest(c.source)
		if largest == nil {
			return nil, false, &dieline.UnsupportedGeometryError{
				Op:     "largest path",
				Reason: "reference contains no closed path",
			}
		}
		dup, err := h.Duplicate(c.doc, largest)
		if err != nil {
			return nil, false, err
		}
		st := artwork.StyleOf(largest)
		return dup, st != nil && st.Stroked, nil
	default:
		return nil, false, &dieline.UnsupportedGeometryError{
			Op:     "clip",
			Reason: "strategy " + s.String() + " does not produce a clipping boundary",
		}
	}
}
