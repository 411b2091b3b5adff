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

// Package artwork implements the shape tree of a vector artwork document.
//
// A [Document] consists of a sequence of [Layer]s.  Layers and [Group]s are
// containers; their children are stored in painting order, so that the
// first child is at the bottom of the stack and the last child is on top.
// The leaves of the tree are [Path], [CompoundPath] and [Text] shapes.
//
// The set of shape types is closed: every [Shape] is one of *Path,
// *CompoundPath, *Group or *Text, and code which needs to distinguish them
// uses a type switch.
package artwork

import (
	"fmt"
	"math"
	"unicode/utf8"

	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Kind identifies the type of a shape.
type Kind int

// These are the supported shape kinds.
const (
	KindPath Kind = iota + 1
	KindCompoundPath
	KindGroup
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindCompoundPath:
		return "compound"
	case KindGroup:
		return "group"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Color is a process color, with all components in the range [0, 1].
type Color struct {
	C, M, Y, K float64
}

// Black is 100% process black.
var Black = Color{K: 1}

// Style describes how a shape is painted.
type Style struct {
	Filled      bool
	Stroked     bool
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// Attributes holds the properties common to all shapes.
type Attributes struct {
	Name   string
	Locked bool
	Hidden bool

	parent Container
}

// Node is a shape or a layer.
type Node interface {
	visible() bool
	setVisible(bool)
	unlock()
}

// Shape is one of *Path, *CompoundPath, *Group or *Text.
type Shape interface {
	Node

	// Kind returns the type of the shape.
	Kind() Kind

	// Attrs gives access to the common shape properties.
	Attrs() *Attributes

	// Bounds returns the geometric bounding box of the shape.
	// The second return value is false for shapes without geometry,
	// for example empty groups.
	Bounds() (rect.Rect, bool)

	isShape()
}

// Parent returns the container which holds s, or nil if s is detached.
func Parent(s Shape) Container {
	return s.Attrs().parent
}

func (a *Attributes) Attrs() *Attributes { return a }
func (a *Attributes) visible() bool      { return !a.Hidden }
func (a *Attributes) setVisible(v bool)  { a.Hidden = !v }
func (a *Attributes) unlock()            { a.Locked = false }
func (a *Attributes) isShape()           {}

// Contour is a closed polygon.  The closing segment from the last point back
// to the first point is implicit.
type Contour []vec.Vec2

// Path is a single polygonal path.
type Path struct {
	Attributes
	Style

	Points []vec.Vec2
	Closed bool

	// Clipping is set if the path acts as the clipping path of its group.
	Clipping bool
}

// Kind implements the [Shape] interface.
func (p *Path) Kind() Kind { return KindPath }

// Bounds implements the [Shape] interface.
func (p *Path) Bounds() (rect.Rect, bool) {
	return geometry.Bounds(p.Points)
}

// CompoundPath is a set of contours which are painted as one shape.  Holes
// are represented by contours inside other contours and are painted using
// the even-odd rule.
type CompoundPath struct {
	Attributes
	Style

	Contours []Contour

	// Clipping is set if the compound path acts as the clipping path of its
	// group.
	Clipping bool
}

// Kind implements the [Shape] interface.
func (c *CompoundPath) Kind() Kind { return KindCompoundPath }

// Bounds implements the [Shape] interface.
func (c *CompoundPath) Bounds() (rect.Rect, bool) {
	var res rect.Rect
	found := false
	for _, contour := range c.Contours {
		b, ok := geometry.Bounds(contour)
		if !ok {
			continue
		}
		if found {
			res = geometry.Union(res, b)
		} else {
			res = b
			found = true
		}
	}
	return res, found
}

// Text is a single line of text.
//
// Text layout is outside the scope of this package.  The bounding box of a
// text shape is estimated from the number of characters and the font size.
type Text struct {
	Attributes
	Style

	Content string
	Origin  vec.Vec2 // start of the baseline
	Size    float64  // font size
}

// Kind implements the [Shape] interface.
func (t *Text) Kind() Kind { return KindText }

// Bounds implements the [Shape] interface.
func (t *Text) Bounds() (rect.Rect, bool) {
	n := utf8.RuneCountInString(t.Content)
	size := math.Abs(t.Size)
	return rect.Rect{
		LLx: t.Origin.X,
		LLy: t.Origin.Y - 0.2*size,
		URx: t.Origin.X + 0.6*size*float64(n),
		URy: t.Origin.Y + 0.8*size,
	}, true
}

// Group is a container for other shapes.
//
// If Clipped is set, the topmost child must be a *Path or *CompoundPath
// with Clipping set; the remaining children are only visible inside this
// clipping path.
type Group struct {
	Attributes
	children

	Clipped bool
}

// Kind implements the [Shape] interface.
func (g *Group) Kind() Kind { return KindGroup }

// Bounds implements the [Shape] interface.
// For clipped groups, this is the bounding box of the clipping path.
func (g *Group) Bounds() (rect.Rect, bool) {
	if clip := g.ClipPath(); clip != nil {
		return clip.Bounds()
	}
	return unionBounds(g.items)
}

// ClipPath returns the clipping path of a clipped group, or nil if the group
// is not clipped.
func (g *Group) ClipPath() Shape {
	if !g.Clipped || len(g.items) == 0 {
		return nil
	}
	top := g.items[len(g.items)-1]
	switch top := top.(type) {
	case *Path:
		if top.Clipping {
			return top
		}
	case *CompoundPath:
		if top.Clipping {
			return top
		}
	}
	return nil
}

// NewGroup returns a new, detached and empty group.
func NewGroup(name string) *Group {
	g := &Group{}
	g.Name = name
	return g
}

func unionBounds(items []Shape) (rect.Rect, bool) {
	var res rect.Rect
	found := false
	for _, s := range items {
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		if found {
			res = geometry.Union(res, b)
		} else {
			res = b
			found = true
		}
	}
	return res, found
}

// IsClosedPath reports whether s is a closed path or a compound path, i.e.
// whether s can serve as a clipping boundary.
func IsClosedPath(s Shape) bool {
	switch s := s.(type) {
	case *Path:
		return s.Closed
	case *CompoundPath:
		return true
	default:
		return false
	}
}

// StyleOf returns the paint style of a leaf shape.
// For groups, nil is returned.
func StyleOf(s Shape) *Style {
	switch s := s.(type) {
	case *Path:
		return &s.Style
	case *CompoundPath:
		return &s.Style
	case *Text:
		return &s.Style
	default:
		return nil
	}
}

// ContourCount returns the number of closed contours contained in s.
func ContourCount(s Shape) int {
	switch s := s.(type) {
	case *Path:
		return 1
	case *CompoundPath:
		return len(s.Contours)
	case *Group:
		n := 0
		for _, c := range s.items {
			n += ContourCount(c)
		}
		return n
	default:
		return 0
	}
}
