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

// Package host defines the interface between the registration pipeline and
// the application which owns the artwork documents.
//
// The host is responsible for document I/O, for boolean operations on paths
// and for encoding the final output.  All methods take the document they
// operate on as an explicit argument; there is no notion of an "active"
// document.  Implementations need not be safe for concurrent use.
package host

import (
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/geom/matrix"
)

// Host gives access to artwork documents.
type Host interface {
	// Open loads the document stored at path.
	Open(path string) (*artwork.Document, error)

	// Close releases the resources associated with doc.  If discard is true,
	// all modifications are dropped without saving.
	Close(doc *artwork.Document, discard bool) error

	// Layers returns the layers of doc, bottom-most first.
	Layers(doc *artwork.Document) []*artwork.Layer

	// AddLayer adds a new layer on top of all existing layers of doc.
	AddLayer(doc *artwork.Document, name string) (*artwork.Layer, error)

	// Duplicate returns a deep copy of s, owned by doc.  The copy is
	// detached; it can be placed using Move.  The source shape may belong
	// to a different document.
	Duplicate(doc *artwork.Document, s artwork.Shape) (artwork.Shape, error)

	// Unlock clears the locked and hidden flags of s and all its
	// descendants.
	Unlock(doc *artwork.Document, s artwork.Shape) error

	// SetVisible shows or hides a shape or a layer.
	SetVisible(doc *artwork.Document, n artwork.Node, visible bool) error

	// SetPaint sets whether the leaf shape s is filled and stroked.
	SetPaint(doc *artwork.Document, s artwork.Shape, filled, stroked bool) error

	// Group creates a new group containing the given shapes, in the given
	// order.  The shapes are removed from their previous containers.  The
	// new group is detached.
	Group(doc *artwork.Document, shapes []artwork.Shape, name string) (*artwork.Group, error)

	// Ungroup replaces g by its children in g's parent container and
	// returns the children.
	Ungroup(doc *artwork.Document, g *artwork.Group) ([]artwork.Shape, error)

	// Move places s into the container c, either on top of all existing
	// children (AtEnd) or below them (AtBeginning).
	Move(doc *artwork.Document, s artwork.Shape, c artwork.Container, at artwork.Placement) error

	// Remove deletes s from doc.
	Remove(doc *artwork.Document, s artwork.Shape) error

	// Transform applies the affine transformation m to s.
	Transform(doc *artwork.Document, s artwork.Shape, m matrix.Matrix) error

	// CompoundPath converts s into a single compound path which retains
	// all contours, including holes.  The result replaces s in its
	// container, if s is attached.  If s cannot be converted, an
	// [*dieline.UnsupportedGeometryError] is returned.
	CompoundPath(doc *artwork.Document, s artwork.Shape) (*artwork.CompoundPath, error)

	// Intersect computes the intersection of the areas of a and b.  The
	// resulting shapes are detached and carry the paint style of a; a and b
	// are not modified.  An empty intersection gives an empty slice.  If
	// the operation fails, a [*dieline.BooleanOpFailedError] is returned.
	Intersect(doc *artwork.Document, a, b artwork.Shape) ([]artwork.Shape, error)

	// ApplyClipMask turns the topmost child of g into a clipping path for
	// the remaining children.  The topmost child must be a path or a
	// compound path.
	ApplyClipMask(doc *artwork.Document, g *artwork.Group) error

	// Export writes doc to path using the given options.
	Export(doc *artwork.Document, path string, opt *ExportOptions) error
}

// ExportOptions controls how a document is written by [Host.Export].
type ExportOptions struct {
	// Format is the output file format.  The zero value selects
	// [FormatEPS].
	Format Format

	// SingleArtboard restricts the output to the artboard of the document.
	SingleArtboard bool

	// Creator, if set, is recorded in the file header.
	Creator string
}

// Format is an output file format.
type Format string

// These are the output formats known to this package.
const (
	FormatEPS  Format = "EPS"
	FormatYAML Format = "YAML"
)
