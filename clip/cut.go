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
	"fmt"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/pattern"
)

// cut intersects every path of the artwork with the reference outline.
// Items which are not paths, for example text, are kept unchanged.
// Nested clipping paths of the artwork are dropped.
func (c *clipper) cut(b *pattern.Bundle) (*Result, error) {
	h := c.Host

	cutter, err := h.Duplicate(c.doc, c.source)
	if err != nil {
		return nil, &dieline.ClippingFailedError{Errs: []error{err}}
	}
	if cp, err := h.CompoundPath(c.doc, cutter); err == nil {
		cutter = cp
	} else {
		c.logger.Info("reference not converted to compound path, cutting with group", "error", err)
	}

	processed, err := h.Group(c.doc, nil, "Processed Pattern")
	if err != nil {
		return nil, err
	}

	res := &Result{Used: BooleanCut}
	failed := 0
	for i, leaf := range artwork.Leaves(b.Artwork) {
		switch leaf := leaf.(type) {
		case *artwork.Path:
			if leaf.Clipping {
				continue
			}
		case *artwork.CompoundPath:
			if leaf.Clipping {
				continue
			}
		default:
			err := h.Move(c.doc, leaf, processed, artwork.AtEnd)
			if err != nil {
				return nil, err
			}
			res.Items = append(res.Items, ItemResult{Source: leaf, Shapes: []artwork.Shape{leaf}})
			continue
		}

		item := ItemResult{Source: leaf}
		shapes, err := c.intersect(leaf, cutter)
		if err != nil {
			if c.opt.ItemPolicy == FailFast {
				res.Attempts = append(res.Attempts, Attempt{Strategy: BooleanCut, Err: err})
				return nil, &dieline.ClippingFailedError{
					Errs: []error{fmt.Errorf("item %d (%s): %w", i, leaf.Kind(), err)},
				}
			}
			c.logger.Warn("item not cut, keeping original",
				"index", i, "kind", leaf.Kind(), "name", leaf.Attrs().Name, "error", err)
			failed++
			item.Err = err
			shapes = []artwork.Shape{leaf}
		}
		for _, s := range shapes {
			err := h.Move(c.doc, s, processed, artwork.AtEnd)
			if err != nil {
				return nil, err
			}
		}
		item.Shapes = shapes
		res.Items = append(res.Items, item)
	}
	res.Attempts = append(res.Attempts, Attempt{Strategy: BooleanCut})

	for _, o := range b.Overlays {
		err := h.Move(c.doc, o, processed, artwork.AtEnd)
		if err != nil {
			return nil, err
		}
	}
	c.logger.Info("boolean cut complete", "items", len(res.Items), "failed", failed)

	// The remaining artwork group holds only the uncut originals.
	err = h.Remove(c.doc, b.Artwork)
	if err != nil {
		return nil, err
	}

	res.Group, err = c.finish(processed, nil)
	if err != nil {
		return nil, err
	}
	res.StrokeOutlines = c.outlines
	return res, nil
}

// intersect cuts one item with a fresh copy of the cutter.
func (c *clipper) intersect(item, cutter artwork.Shape) ([]artwork.Shape, error) {
	h := c.Host
	dup, err := h.Duplicate(c.doc, cutter)
	if err != nil {
		return nil, err
	}
	defer h.Remove(c.doc, dup)
	return h.Intersect(c.doc, item, dup)
}
