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

// Package memhost implements the [host.Host] interface for documents which
// are held in memory and stored as YAML files.
//
// This host is used by the command line tool and by the HTTP service, and
// serves as the reference implementation of the host interface in tests.
// Boolean operations on paths are computed using polygon clipping.
package memhost

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/eps"
	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/geom/matrix"
)

// Host holds a set of open documents.
// A Host is not safe for concurrent use.
type Host struct {
	// Creator is recorded in exported files, if the export options
	// do not specify a creator.
	Creator string

	open map[*artwork.Document]bool
}

var _ host.Host = (*Host)(nil)

// New returns a new host without open documents.
func New() *Host {
	return &Host{
		Creator: "seehuhn.de/go/dieline",
		open:    make(map[*artwork.Document]bool),
	}
}

// ErrNotOpen is returned when an operation refers to a document which is
// not open in the host.
var ErrNotOpen = errors.New("document is not open")

// Open implements the [host.Host] interface.
func (h *Host) Open(path string) (*artwork.Document, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	h.open[doc] = true
	return doc, nil
}

// Adopt registers a document which was constructed in memory, so that the
// host operations can be used on it.
func (h *Host) Adopt(doc *artwork.Document) {
	h.open[doc] = true
}

// NumOpen returns the number of open documents.
func (h *Host) NumOpen() int {
	return len(h.open)
}

// Close implements the [host.Host] interface.
// If discard is false and the document was loaded from a file, the
// document is saved back to this file.
func (h *Host) Close(doc *artwork.Document, discard bool) error {
	if err := h.check(doc); err != nil {
		return err
	}
	delete(h.open, doc)
	if discard || doc.Path == "" {
		return nil
	}
	return WriteFile(doc.Path, doc)
}

func (h *Host) check(doc *artwork.Document) error {
	if doc == nil || !h.open[doc] {
		return ErrNotOpen
	}
	return nil
}

// Layers implements the [host.Host] interface.
func (h *Host) Layers(doc *artwork.Document) []*artwork.Layer {
	if h.check(doc) != nil {
		return nil
	}
	return doc.Layers
}

// AddLayer implements the [host.Host] interface.
func (h *Host) AddLayer(doc *artwork.Document, name string) (*artwork.Layer, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}
	return doc.AddLayer(name), nil
}

// Duplicate implements the [host.Host] interface.
func (h *Host) Duplicate(doc *artwork.Document, s artwork.Shape) (artwork.Shape, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}
	return artwork.Clone(s), nil
}

// Unlock implements the [host.Host] interface.
func (h *Host) Unlock(doc *artwork.Document, s artwork.Shape) error {
	if err := h.check(doc); err != nil {
		return err
	}
	artwork.Unlock(s)
	return nil
}

// SetVisible implements the [host.Host] interface.
func (h *Host) SetVisible(doc *artwork.Document, n artwork.Node, visible bool) error {
	if err := h.check(doc); err != nil {
		return err
	}
	artwork.SetVisible(n, visible)
	return nil
}

// SetPaint implements the [host.Host] interface.
// For groups, the paint flags of all leaf shapes are changed.
func (h *Host) SetPaint(doc *artwork.Document, s artwork.Shape, filled, stroked bool) error {
	if err := h.check(doc); err != nil {
		return err
	}
	for _, leaf := range artwork.Leaves(s) {
		st := artwork.StyleOf(leaf)
		st.Filled = filled
		st.Stroked = stroked
		if stroked && st.StrokeWidth <= 0 {
			st.StrokeWidth = 1
		}
	}
	return nil
}

// Group implements the [host.Host] interface.
func (h *Host) Group(doc *artwork.Document, shapes []artwork.Shape, name string) (*artwork.Group, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}
	g := artwork.NewGroup(name)
	for _, s := range shapes {
		artwork.Insert(g, s, artwork.AtEnd)
	}
	return g, nil
}

// Ungroup implements the [host.Host] interface.
func (h *Host) Ungroup(doc *artwork.Document, g *artwork.Group) ([]artwork.Shape, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}
	items := append([]artwork.Shape(nil), g.Children()...)
	if artwork.Parent(g) == nil {
		for _, s := range items {
			artwork.Detach(s)
		}
		return items, nil
	}
	err := artwork.Replace(g, items...)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Move implements the [host.Host] interface.
func (h *Host) Move(doc *artwork.Document, s artwork.Shape, c artwork.Container, at artwork.Placement) error {
	if err := h.check(doc); err != nil {
		return err
	}
	// Refuse to create cycles.
	for x := c; x != nil; {
		g, isGroup := x.(*artwork.Group)
		if !isGroup {
			break
		}
		if artwork.Shape(g) == s {
			return errors.New("cannot move a group into itself")
		}
		x = artwork.Parent(g)
	}
	artwork.Insert(c, s, at)
	return nil
}

// Remove implements the [host.Host] interface.
func (h *Host) Remove(doc *artwork.Document, s artwork.Shape) error {
	if err := h.check(doc); err != nil {
		return err
	}
	artwork.Detach(s)
	return nil
}

// Transform implements the [host.Host] interface.
func (h *Host) Transform(doc *artwork.Document, s artwork.Shape, m matrix.Matrix) error {
	if err := h.check(doc); err != nil {
		return err
	}
	for _, x := range m {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &dieline.DegenerateGeometryError{What: "transformation matrix", Value: x}
		}
	}
	artwork.Transform(s, m)
	return nil
}

// CompoundPath implements the [host.Host] interface.
//
// The contours of all paths and compound paths in s are collected into a
// single compound path, taking the paint style from the first of these.
// Open paths are closed implicitly.
func (h *Host) CompoundPath(doc *artwork.Document, s artwork.Shape) (*artwork.CompoundPath, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}

	res := &artwork.CompoundPath{}
	styleSet := false
	err := artwork.Walk(s, func(x artwork.Shape) error {
		var contours []artwork.Contour
		switch x := x.(type) {
		case *artwork.Path:
			contours = []artwork.Contour{x.Points}
		case *artwork.CompoundPath:
			contours = x.Contours
		case *artwork.Text:
			return &dieline.UnsupportedGeometryError{
				Op:     "compound path",
				Reason: fmt.Sprintf("cannot convert text %q", x.Content),
			}
		default:
			return nil
		}
		for _, c := range contours {
			if len(c) < 3 {
				return &dieline.UnsupportedGeometryError{
					Op:     "compound path",
					Reason: fmt.Sprintf("contour with %d points", len(c)),
				}
			}
			if geometry.SignedArea(c) == 0 {
				return &dieline.UnsupportedGeometryError{
					Op:     "compound path",
					Reason: "contour encloses no area",
				}
			}
			res.Contours = append(res.Contours, append(artwork.Contour(nil), c...))
		}
		if !styleSet {
			res.Style = *artwork.StyleOf(x)
			styleSet = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(res.Contours) == 0 {
		return nil, &dieline.UnsupportedGeometryError{
			Op:     "compound path",
			Reason: "no paths found",
		}
	}

	res.Name = s.Attrs().Name
	if artwork.Parent(s) != nil {
		err = artwork.Replace(s, res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ApplyClipMask implements the [host.Host] interface.
func (h *Host) ApplyClipMask(doc *artwork.Document, g *artwork.Group) error {
	if err := h.check(doc); err != nil {
		return err
	}
	children := g.Children()
	if len(children) == 0 {
		return &dieline.UnsupportedGeometryError{Op: "clip mask", Reason: "empty group"}
	}
	switch top := children[len(children)-1].(type) {
	case *artwork.Path:
		if len(top.Points) < 3 {
			return &dieline.UnsupportedGeometryError{
				Op:     "clip mask",
				Reason: fmt.Sprintf("clipping path has %d points", len(top.Points)),
			}
		}
		top.Clipping = true
		top.Filled = false
		top.Stroked = false
	case *artwork.CompoundPath:
		if len(top.Contours) == 0 {
			return &dieline.UnsupportedGeometryError{Op: "clip mask", Reason: "empty compound path"}
		}
		top.Clipping = true
		top.Filled = false
		top.Stroked = false
	default:
		return &dieline.UnsupportedGeometryError{
			Op:     "clip mask",
			Reason: fmt.Sprintf("topmost item is a %s", top.Kind()),
		}
	}
	g.Clipped = true
	return nil
}

// Export implements the [host.Host] interface.
func (h *Host) Export(doc *artwork.Document, path string, opt *host.ExportOptions) error {
	if err := h.check(doc); err != nil {
		return err
	}
	if opt == nil {
		opt = &host.ExportOptions{}
	}
	switch opt.Format {
	case host.FormatEPS, "":
		creator := opt.Creator
		if creator == "" {
			creator = h.Creator
		}
		return eps.WriteFile(path, doc, &eps.Options{
			Creator:        creator,
			SingleArtboard: opt.SingleArtboard,
		})
	case host.FormatYAML:
		return WriteFile(path, doc)
	default:
		return fmt.Errorf("unsupported export format %q", opt.Format)
	}
}
