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
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Clone returns a deep copy of s.  The copy is detached.
func Clone(s Shape) Shape {
	switch s := s.(type) {
	case *Path:
		res := *s
		res.parent = nil
		res.Points = slices.Clone(s.Points)
		return &res
	case *CompoundPath:
		res := *s
		res.parent = nil
		res.Contours = make([]Contour, len(s.Contours))
		for i, c := range s.Contours {
			res.Contours[i] = slices.Clone(c)
		}
		return &res
	case *Text:
		res := *s
		res.parent = nil
		return &res
	case *Group:
		res := &Group{Attributes: s.Attributes, Clipped: s.Clipped}
		res.parent = nil
		for _, c := range s.items {
			Insert(res, Clone(c), AtEnd)
		}
		return res
	default:
		panic(fmt.Sprintf("unexpected shape type %T", s))
	}
}

// Transform applies the affine transformation m to s and all its
// descendants.  Stroke widths and font sizes are scaled by the square root
// of the absolute determinant of m, which is the exact scale factor for
// uniform scalings.
func Transform(s Shape, m matrix.Matrix) {
	lengthScale := math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
	transform(s, m, lengthScale)
}

func transform(s Shape, m matrix.Matrix, lengthScale float64) {
	switch s := s.(type) {
	case *Path:
		applyAll(m, s.Points)
		s.StrokeWidth *= lengthScale
	case *CompoundPath:
		for _, c := range s.Contours {
			applyAll(m, c)
		}
		s.StrokeWidth *= lengthScale
	case *Text:
		s.Origin = geometry.Apply(m, s.Origin)
		s.Size *= lengthScale
		s.StrokeWidth *= lengthScale
	case *Group:
		for _, c := range s.items {
			transform(c, m, lengthScale)
		}
	}
}

func applyAll(m matrix.Matrix, pts []vec.Vec2) {
	for i, p := range pts {
		pts[i] = geometry.Apply(m, p)
	}
}
