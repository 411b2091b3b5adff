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

// Package geometry implements the bounding-box arithmetic used to register
// pattern artwork onto a mask.
//
// All rectangles use the PostScript orientation: y increases upwards, so
// that LLy <= URy for a well-formed rectangle.
package geometry

import (
	"math"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Normalize swaps coordinates as needed so that LLx <= URx and LLy <= URy.
func Normalize(r rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: math.Min(r.LLx, r.URx),
		LLy: math.Min(r.LLy, r.URy),
		URx: math.Max(r.LLx, r.URx),
		URy: math.Max(r.LLy, r.URy),
	}
}

// Width returns the absolute width of r.
func Width(r rect.Rect) float64 {
	return math.Abs(r.URx - r.LLx)
}

// Height returns the absolute height of r.
func Height(r rect.Rect) float64 {
	return math.Abs(r.URy - r.LLy)
}

// Area returns the area of the rectangle r.
func Area(r rect.Rect) float64 {
	return Width(r) * Height(r)
}

// Center returns the center point of r.
func Center(r rect.Rect) vec.Vec2 {
	return vec.Vec2{X: (r.LLx + r.URx) / 2, Y: (r.LLy + r.URy) / 2}
}

// IsFinite reports whether all four coordinates of r are finite.
func IsFinite(r rect.Rect) bool {
	for _, x := range []float64{r.LLx, r.LLy, r.URx, r.URy} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Union returns the smallest rectangle which covers both a and b.
func Union(a, b rect.Rect) rect.Rect {
	a = Normalize(a)
	b = Normalize(b)
	return rect.Rect{
		LLx: math.Min(a.LLx, b.LLx),
		LLy: math.Min(a.LLy, b.LLy),
		URx: math.Max(a.URx, b.URx),
		URy: math.Max(a.URy, b.URy),
	}
}

// Inset shrinks r by d on every side.  Negative values of d enlarge the
// rectangle.
func Inset(r rect.Rect, d float64) rect.Rect {
	return rect.Rect{LLx: r.LLx + d, LLy: r.LLy + d, URx: r.URx - d, URy: r.URy - d}
}

// NearlyEqual reports whether the corner coordinates of two rectangles
// differ by less than eps.
func NearlyEqual(a, b rect.Rect, eps float64) bool {
	return math.Abs(a.LLx-b.LLx) < eps &&
		math.Abs(a.LLy-b.LLy) < eps &&
		math.Abs(a.URx-b.URx) < eps &&
		math.Abs(a.URy-b.URy) < eps
}

// Bounds returns the bounding box of a set of points.
// The second return value is false if pts is empty.
func Bounds(pts []vec.Vec2) (rect.Rect, bool) {
	if len(pts) == 0 {
		return rect.Rect{}, false
	}
	r := rect.Rect{LLx: pts[0].X, LLy: pts[0].Y, URx: pts[0].X, URy: pts[0].Y}
	for _, p := range pts[1:] {
		r.LLx = math.Min(r.LLx, p.X)
		r.LLy = math.Min(r.LLy, p.Y)
		r.URx = math.Max(r.URx, p.X)
		r.URy = math.Max(r.URy, p.Y)
	}
	return r, true
}

// SignedArea returns the area enclosed by the closed polygon pts, using the
// shoelace formula.  The result is positive for counter-clockwise
// orientation.
func SignedArea(pts []vec.Vec2) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var a float64
	for i := range n {
		p, q := pts[i], pts[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Apply transforms the point p by the matrix m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: p.X*m[0] + p.Y*m[2] + m[4],
		Y: p.X*m[1] + p.Y*m[3] + m[5],
	}
}

// TransformRect returns the bounding box of the image of r under m.
func TransformRect(m matrix.Matrix, r rect.Rect) rect.Rect {
	res, _ := Bounds([]vec.Vec2{
		Apply(m, vec.Vec2{X: r.LLx, Y: r.LLy}),
		Apply(m, vec.Vec2{X: r.URx, Y: r.LLy}),
		Apply(m, vec.Vec2{X: r.URx, Y: r.URy}),
		Apply(m, vec.Vec2{X: r.LLx, Y: r.URy}),
	})
	return res
}

// UniformScale returns the factor which maps a length `from` onto a length
// `to`.  Signs are ignored.  A DegenerateGeometryError is returned if either
// length is zero or not finite.
func UniformScale(from, to float64) (float64, error) {
	if err := checkLength("source height", from); err != nil {
		return 0, err
	}
	if err := checkLength("target height", to); err != nil {
		return 0, err
	}
	return math.Abs(to) / math.Abs(from), nil
}

func checkLength(what string, x float64) error {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return &dieline.DegenerateGeometryError{What: what, Value: x}
	}
	return nil
}
