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

// Package pattern imports the artwork of a pattern document into a mask
// document.
//
// Pattern files often carry copyright notices and similar text near the
// edge of the artwork.  Such text must stay legible and is therefore kept
// out of the registration transform: the importer detaches it from the
// artwork and returns it separately, as overlays.
package pattern

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/geom/rect"
)

// Bundle is the imported pattern artwork.
type Bundle struct {
	// Artwork is the imported artwork, detached and owned by the
	// destination document.
	Artwork *artwork.Group

	// Overlays lists the protected text shapes which were removed from
	// Artwork, in document order.  Overlays are detached.
	Overlays []artwork.Shape
}

// DefaultMarkers lists the text fragments which mark protected text.
var DefaultMarkers = []string{"©", "(c)", "Disney", "Winnie", "Pooh", "Shepard"}

// DefaultTolerance is the default distance from the artwork edge within
// which text is treated as protected.
const DefaultTolerance = 10

// Edge selects which edge of the artwork is used to detect protected text
// by position.
type Edge int

// These are the supported edges.
const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeBoth:
		return "both"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// ParseEdge converts the string representation of an edge back into an
// Edge.  The empty string gives EdgeTop.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(s) {
	case "top", "":
		return EdgeTop, nil
	case "bottom":
		return EdgeBottom, nil
	case "both":
		return EdgeBoth, nil
	}
	return EdgeTop, fmt.Errorf("unknown edge %q", s)
}

// Importer copies pattern artwork between documents.
type Importer struct {
	Host host.Host

	// Markers lists the text fragments which mark protected text.  The
	// comparison ignores case and compatibility differences.  If this is
	// nil, DefaultMarkers is used.
	Markers []string

	// Edge and Tolerance select protected text by position: text is
	// protected if the selected edge of its bounding box lies within
	// Tolerance of the corresponding edge of the artwork.  If Tolerance is
	// zero, DefaultTolerance is used.  A negative tolerance disables
	// the position check.
	Edge      Edge
	Tolerance float64

	Logger *slog.Logger
}

// Import copies all shapes from src into dst.
//
// All shapes in src are unlocked and made visible.  The copies of the
// top-level shapes of all layers are combined into a single group; if there
// is only one top-level shape and this is a group, it is used directly.
// Protected text is detached from the group.  Nothing is placed into dst;
// the caller decides where the artwork goes.
func (im *Importer) Import(src, dst *artwork.Document) (*Bundle, error) {
	h := im.Host
	logger := im.Logger
	if logger == nil {
		logger = dieline.Logger()
	}

	var shapes []artwork.Shape
	for _, l := range h.Layers(src) {
		for _, s := range l.Children() {
			err := h.Unlock(src, s)
			if err != nil {
				return nil, err
			}
			dup, err := h.Duplicate(dst, s)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, dup)
		}
	}
	if len(shapes) == 0 {
		return nil, errNoArtwork
	}

	var art *artwork.Group
	if g, isGroup := shapes[0].(*artwork.Group); isGroup && len(shapes) == 1 {
		art = g
	} else {
		var err error
		art, err = h.Group(dst, shapes, "Pattern")
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("pattern imported", "items", len(shapes))

	bbox, ok := art.Bounds()
	if !ok {
		return nil, errNoArtwork
	}

	res := &Bundle{Artwork: art}
	for _, s := range artwork.Leaves(art) {
		t, isText := s.(*artwork.Text)
		if !isText || !im.isProtected(t, bbox) {
			continue
		}
		err := h.Remove(dst, t)
		if err != nil {
			return nil, err
		}
		res.Overlays = append(res.Overlays, t)
		logger.Info("protected text", "content", t.Content)
	}
	return res, nil
}

var errNoArtwork = errors.New("pattern document contains no artwork")

func (im *Importer) isProtected(t *artwork.Text, art rect.Rect) bool {
	markers := im.Markers
	if markers == nil {
		markers = DefaultMarkers
	}
	if containsAny(t.Content, markers) {
		return true
	}

	tol := im.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if tol < 0 {
		return false
	}
	b, _ := t.Bounds()
	nearTop := b.URy >= art.URy-tol
	nearBottom := b.LLy <= art.LLy+tol
	switch im.Edge {
	case EdgeBottom:
		return nearBottom
	case EdgeBoth:
		return nearTop || nearBottom
	default:
		return nearTop
	}
}

// containsAny reports whether s contains one of the markers.  Both sides are
// NFKC-normalised and case folded before the comparison.
func containsAny(s string, markers []string) bool {
	fold := cases.Fold()
	s = fold.String(norm.NFKC.String(s))
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(s, fold.String(norm.NFKC.String(m))) {
			return true
		}
	}
	return false
}
