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

	"seehuhn.de/go/dieline/geometry"
)

// SkipChildren can be returned by a [WalkFunc] to skip the descendants of
// the current group.
var SkipChildren = errors.New("skip children")

// WalkFunc is called by [Walk] for every shape in a tree.
type WalkFunc func(s Shape) error

// Walk visits s and all its descendants in painting order, parents before
// their children.
func Walk(s Shape, fn WalkFunc) error {
	err := fn(s)
	if err == SkipChildren {
		return nil
	} else if err != nil {
		return err
	}
	g, ok := s.(*Group)
	if !ok {
		return nil
	}
	// Iterate over a copy, so that fn may move shapes around.
	items := append([]Shape(nil), g.items...)
	for _, c := range items {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkLayers visits all shapes on the given layers.
func WalkLayers(layers []*Layer, fn WalkFunc) error {
	for _, l := range layers {
		items := append([]Shape(nil), l.items...)
		for _, s := range items {
			if err := Walk(s, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Groups returns all groups in the tree below the given layers, in
// document order.  Nested groups follow their parent.
func Groups(layers []*Layer) []*Group {
	var res []*Group
	WalkLayers(layers, func(s Shape) error {
		if g, ok := s.(*Group); ok {
			res = append(res, g)
		}
		return nil
	})
	return res
}

// Leaves returns all non-group shapes in the tree rooted at s.
func Leaves(s Shape) []Shape {
	var res []Shape
	Walk(s, func(s Shape) error {
		if _, isGroup := s.(*Group); !isGroup {
			res = append(res, s)
		}
		return nil
	})
	return res
}

// Largest returns the closed path or compound path with the largest bounding
// box area in the tree rooted at s.  The second return value is the area.
// If the tree contains no closed paths of positive area, nil is returned.
func Largest(s Shape) (Shape, float64) {
	return largest(func(fn WalkFunc) { Walk(s, fn) })
}

// LargestInLayers is like [Largest], but searches all given layers.
func LargestInLayers(layers []*Layer) (Shape, float64) {
	return largest(func(fn WalkFunc) { WalkLayers(layers, fn) })
}

func largest(walk func(WalkFunc)) (Shape, float64) {
	var best Shape
	bestArea := 0.0
	walk(func(s Shape) error {
		if !IsClosedPath(s) {
			return nil
		}
		b, ok := s.Bounds()
		if !ok {
			return nil
		}
		if a := geometry.Area(b); a > bestArea {
			best = s
			bestArea = a
		}
		return nil
	})
	return best, bestArea
}
