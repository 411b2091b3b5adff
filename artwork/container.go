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

package artwork

import (
	"errors"
	"slices"

	"seehuhn.de/go/geom/rect"
)

// Placement specifies where a shape is inserted into a container.
type Placement int

const (
	// AtEnd places the shape on top of all existing children.
	AtEnd Placement = iota

	// AtBeginning places the shape below all existing children.
	AtBeginning
)

func (p Placement) String() string {
	if p == AtBeginning {
		return "beginning"
	}
	return "end"
}

// Container is a *Layer or a *Group.
type Container interface {
	// Children returns the children of the container in painting order.
	// The returned slice must not be modified.
	Children() []Shape

	insert(s Shape, at Placement)
	remove(s Shape) bool
	replace(old Shape, repl []Shape) bool
}

type children struct {
	items []Shape
}

// Children returns the children in painting order, bottom-most first.
func (c *children) Children() []Shape {
	return c.items
}

// Len returns the number of children.
func (c *children) Len() int {
	return len(c.items)
}

func (c *children) insert(s Shape, at Placement) {
	if at == AtBeginning {
		c.items = slices.Insert(c.items, 0, s)
	} else {
		c.items = append(c.items, s)
	}
}

func (c *children) remove(s Shape) bool {
	idx := slices.Index(c.items, s)
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	return true
}

func (c *children) replace(old Shape, repl []Shape) bool {
	idx := slices.Index(c.items, old)
	if idx < 0 {
		return false
	}
	c.items = slices.Replace(c.items, idx, idx+1, repl...)
	return true
}

// Layer is a top-level container of a document.
type Layer struct {
	children

	Name   string
	Hidden bool
	Locked bool
}

// Bounds returns the bounding box of all shapes on the layer.
func (l *Layer) Bounds() (rect.Rect, bool) {
	return unionBounds(l.items)
}

func (l *Layer) visible() bool     { return !l.Hidden }
func (l *Layer) setVisible(v bool) { l.Hidden = !v }
func (l *Layer) unlock()           { l.Locked = false }

// Document is a vector artwork document.
type Document struct {
	// Name is the file name of the document, without directory.
	Name string

	// Path is the location the document was loaded from.
	Path string

	// Artboard is the printable area of the document.
	// If this is the zero rectangle, the bounds of the visible artwork
	// are used instead.
	Artboard rect.Rect

	Layers []*Layer
}

// AddLayer adds a new layer on top of all existing layers.
func (d *Document) AddLayer(name string) *Layer {
	l := &Layer{Name: name}
	d.Layers = append(d.Layers, l)
	return l
}

// ErrNotAttached is returned when a shape is expected to be part of a
// container but is detached.
var ErrNotAttached = errors.New("shape is not attached to a container")

// Insert detaches s from its current parent (if any) and inserts it into c.
func Insert(c Container, s Shape, at Placement) {
	Detach(s)
	c.insert(s, at)
	s.Attrs().parent = c
}

// Detach removes s from its parent container.
// Detaching a shape which has no parent is a no-op.
func Detach(s Shape) {
	a := s.Attrs()
	if a.parent != nil {
		a.parent.remove(s)
		a.parent = nil
	}
}

// Replace puts the shapes repl in the place of s, in the given order.
// The replacement shapes are detached from their previous containers,
// and s is detached.  The list repl must not contain s.
func Replace(s Shape, repl ...Shape) error {
	p := Parent(s)
	if p == nil {
		return ErrNotAttached
	}
	for _, r := range repl {
		if r == s {
			return errors.New("shape cannot replace itself")
		}
		Detach(r)
	}
	p.replace(s, repl)
	s.Attrs().parent = nil
	for _, r := range repl {
		r.Attrs().parent = p
	}
	return nil
}

// Index returns the position of s within its parent container, with 0 for
// the bottom-most child.
func Index(s Shape) (int, error) {
	p := Parent(s)
	if p == nil {
		return -1, ErrNotAttached
	}
	idx := slices.Index(p.Children(), s)
	if idx < 0 {
		return -1, ErrNotAttached
	}
	return idx, nil
}

// SetVisible changes the visibility of a shape or layer.
func SetVisible(n Node, visible bool) {
	n.setVisible(visible)
}

// IsVisible reports whether a shape or layer is visible.
func IsVisible(n Node) bool {
	return n.visible()
}

// Unlock clears the locked and hidden flags of n and, recursively, of all
// its descendants.
func Unlock(n Node) {
	n.unlock()
	n.setVisible(true)
	var items []Shape
	switch n := n.(type) {
	case *Layer:
		items = n.items
	case *Group:
		items = n.items
	}
	for _, c := range items {
		Unlock(c)
	}
}
