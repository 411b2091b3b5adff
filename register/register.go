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

// Package register computes the transformation which places pattern
// artwork onto the reference geometry of a mask.
package register

import (
	"fmt"
	"math"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// Transform is a uniform scaling followed by a translation.
type Transform struct {
	Scale                  float64
	TranslateX, TranslateY float64
}

// Solve computes the transformation which scales the pattern to the height
// of the reference and moves its center onto the center of the reference.
//
// If either height is zero, or if a coordinate is not finite, a
// [*dieline.DegenerateGeometryError] is returned.
func Solve(pattern, reference rect.Rect) (Transform, error) {
	if err := checkFinite("pattern bounds", pattern); err != nil {
		return Transform{}, err
	}
	if err := checkFinite("reference bounds", reference); err != nil {
		return Transform{}, err
	}

	s, err := geometry.UniformScale(geometry.Height(pattern), geometry.Height(reference))
	if err != nil {
		return Transform{}, err
	}

	pc := geometry.Center(pattern)
	rc := geometry.Center(reference)
	return Transform{
		Scale:      s,
		TranslateX: rc.X - pc.X*s,
		TranslateY: rc.Y - pc.Y*s,
	}, nil
}

func checkFinite(what string, r rect.Rect) error {
	for _, x := range []float64{r.LLx, r.LLy, r.URx, r.URy} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &dieline.DegenerateGeometryError{What: what, Value: x}
		}
	}
	return nil
}

// Matrix returns the transformation as an affine matrix.
func (t Transform) Matrix() matrix.Matrix {
	return matrix.Matrix{t.Scale, 0, 0, t.Scale, t.TranslateX, t.TranslateY}
}

func (t Transform) String() string {
	return fmt.Sprintf("scale %.4f, translate (%.2f, %.2f)", t.Scale, t.TranslateX, t.TranslateY)
}

// Apply transforms s using the host.
func Apply(h host.Host, doc *artwork.Document, s artwork.Shape, t Transform) error {
	return h.Transform(doc, s, t.Matrix())
}
