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

package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/dieline"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func TestUniformScale(t *testing.T) {
	type testCase struct {
		from, to float64
		want     float64
	}
	cases := []testCase{
		{200, 50, 0.25},
		{50, 200, 4},
		{-200, 50, 0.25},
		{200, -50, 0.25},
		{1, 1, 1},
		{3, 1, 1.0 / 3},
	}
	for _, test := range cases {
		got, err := UniformScale(test.from, test.to)
		if err != nil {
			t.Errorf("UniformScale(%g, %g): %v", test.from, test.to, err)
			continue
		}
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("UniformScale(%g, %g) = %g, want %g", test.from, test.to, got, test.want)
		}
		if h := math.Abs(test.from) * got; math.Abs(h-math.Abs(test.to)) > 1e-9 {
			t.Errorf("scaled height %g, want %g", h, math.Abs(test.to))
		}
	}
}

func TestUniformScaleDegenerate(t *testing.T) {
	cases := [][2]float64{
		{0, 50},
		{50, 0},
		{math.NaN(), 1},
		{1, math.Inf(1)},
	}
	for _, test := range cases {
		_, err := UniformScale(test[0], test[1])
		var degenerate *dieline.DegenerateGeometryError
		if !errors.As(err, &degenerate) {
			t.Errorf("UniformScale(%g, %g): got %v, want DegenerateGeometryError", test[0], test[1], err)
		}
	}
}

func TestCenterAndArea(t *testing.T) {
	r := rect.Rect{LLx: 10, LLy: 20, URx: 30, URy: 60}
	if d := cmp.Diff(vec.Vec2{X: 20, Y: 40}, Center(r)); d != "" {
		t.Errorf("Center: %s", d)
	}
	if a := Area(r); a != 800 {
		t.Errorf("Area = %g, want 800", a)
	}
	flipped := rect.Rect{LLx: 30, LLy: 60, URx: 10, URy: 20}
	if a := Area(flipped); a != 800 {
		t.Errorf("Area(flipped) = %g, want 800", a)
	}
	if d := cmp.Diff(r, Normalize(flipped)); d != "" {
		t.Errorf("Normalize: %s", d)
	}
}

func TestUnionAndInset(t *testing.T) {
	a := rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}
	b := rect.Rect{LLx: 5, LLy: -5, URx: 20, URy: 5}
	want := rect.Rect{LLx: 0, LLy: -5, URx: 20, URy: 10}
	if d := cmp.Diff(want, Union(a, b)); d != "" {
		t.Errorf("Union: %s", d)
	}

	bleed := Inset(a, -10)
	if !NearlyEqual(bleed, rect.Rect{LLx: -10, LLy: -10, URx: 20, URy: 20}, 1e-12) {
		t.Errorf("Inset(-10) = %v", bleed)
	}
	if Center(bleed) != Center(a) {
		t.Errorf("Inset moved the center")
	}
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	if ok {
		t.Error("Bounds(nil) reported a bounding box")
	}
	r, ok := Bounds([]vec.Vec2{{X: 1, Y: 5}, {X: -2, Y: 3}, {X: 4, Y: -1}})
	if !ok {
		t.Fatal("Bounds failed")
	}
	if d := cmp.Diff(rect.Rect{LLx: -2, LLy: -1, URx: 4, URy: 5}, r); d != "" {
		t.Error(d)
	}
}

func TestSignedArea(t *testing.T) {
	ccw := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if a := SignedArea(ccw); a != 100 {
		t.Errorf("SignedArea(ccw) = %g, want 100", a)
	}
	cw := []vec.Vec2{ccw[3], ccw[2], ccw[1], ccw[0]}
	if a := SignedArea(cw); a != -100 {
		t.Errorf("SignedArea(cw) = %g, want -100", a)
	}
	if a := SignedArea(ccw[:2]); a != 0 {
		t.Errorf("SignedArea(segment) = %g, want 0", a)
	}
}

func TestTransformRect(t *testing.T) {
	r := rect.Rect{LLx: 0, LLy: 0, URx: 100, URy: 200}
	m := matrix.Matrix{0.5, 0, 0, 0.5, 10, 20}
	got := TransformRect(m, r)
	want := rect.Rect{LLx: 10, LLy: 20, URx: 60, URy: 120}
	if !NearlyEqual(got, want, 1e-12) {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
	if !IsFinite(got) {
		t.Error("finite rectangle reported as non-finite")
	}
	if IsFinite(rect.Rect{URx: math.NaN()}) {
		t.Error("NaN rectangle reported as finite")
	}
}
