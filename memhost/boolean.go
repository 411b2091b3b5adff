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

package memhost

import (
	"errors"
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/geom/vec"
)

// Intersect implements the [host.Host] interface.
//
// Both shapes are converted to polygons, using the even-odd rule for
// compound paths and the union of all members for groups.  A single
// resulting contour gives a closed path, several contours give a compound
// path.
func (h *Host) Intersect(doc *artwork.Document, a, b artwork.Shape) ([]artwork.Shape, error) {
	if err := h.check(doc); err != nil {
		return nil, err
	}

	pa, err := toPolygon(a)
	if err != nil {
		return nil, &dieline.BooleanOpFailedError{Op: "intersect", Reason: err.Error()}
	}
	pb, err := toPolygon(b)
	if err != nil {
		return nil, &dieline.BooleanOpFailedError{Op: "intersect", Reason: err.Error()}
	}

	var contours []artwork.Contour
	for _, c := range pa.Construct(polyclip.INTERSECTION, pb) {
		pts := fromContour(c)
		if len(pts) < 3 || geometry.SignedArea(pts) == 0 {
			continue
		}
		contours = append(contours, pts)
	}

	var style artwork.Style
	if leaves := artwork.Leaves(a); len(leaves) > 0 {
		if st := artwork.StyleOf(leaves[0]); st != nil {
			style = *st
		}
	}
	name := a.Attrs().Name

	switch len(contours) {
	case 0:
		return []artwork.Shape{}, nil
	case 1:
		p := &artwork.Path{Style: style, Points: contours[0], Closed: true}
		p.Name = name
		return []artwork.Shape{p}, nil
	default:
		cp := &artwork.CompoundPath{Style: style, Contours: contours}
		cp.Name = name
		return []artwork.Shape{cp}, nil
	}
}

func toPolygon(s artwork.Shape) (polyclip.Polygon, error) {
	switch s := s.(type) {
	case *artwork.Path:
		if !s.Closed {
			return nil, errors.New("open path")
		}
		c, err := toContour(s.Points)
		if err != nil {
			return nil, err
		}
		return polyclip.Polygon{c}, nil
	case *artwork.CompoundPath:
		var res polyclip.Polygon
		for _, pts := range s.Contours {
			c, err := toContour(pts)
			if err != nil {
				return nil, err
			}
			res = append(res, c)
		}
		if len(res) == 0 {
			return nil, errors.New("empty compound path")
		}
		return res, nil
	case *artwork.Group:
		var res polyclip.Polygon
		for _, child := range s.Children() {
			p, err := toPolygon(child)
			if err != nil {
				return nil, err
			}
			if res == nil {
				res = p
			} else {
				res = res.Construct(polyclip.UNION, p)
			}
		}
		if res == nil {
			return nil, errors.New("empty group")
		}
		return res, nil
	case *artwork.Text:
		return nil, fmt.Errorf("text %q has no outline", s.Content)
	default:
		return nil, fmt.Errorf("unexpected shape type %T", s)
	}
}

func toContour(pts []vec.Vec2) (polyclip.Contour, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("contour with %d points", len(pts))
	}
	res := make(polyclip.Contour, len(pts))
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, errors.New("non-finite coordinate")
		}
		res[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return res, nil
}

func fromContour(c polyclip.Contour) artwork.Contour {
	res := make(artwork.Contour, len(c))
	for i, p := range c {
		res[i] = vec.Vec2{X: p.X, Y: p.Y}
	}
	return res
}
