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

package pattern

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/memhost"
	"seehuhn.de/go/geom/vec"
)

func square(size float64) *artwork.Path {
	p := &artwork.Path{
		Points: []vec.Vec2{{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}},
		Closed: true,
	}
	p.Filled = true
	return p
}

func text(content string, x, y float64) *artwork.Text {
	return &artwork.Text{Content: content, Origin: vec.Vec2{X: x, Y: y}, Size: 10}
}

func setup(items ...artwork.Shape) (*memhost.Host, *artwork.Document, *artwork.Document) {
	h := memhost.New()
	src := &artwork.Document{}
	l := src.AddLayer("Layer 1")
	for _, s := range items {
		artwork.Insert(l, s, artwork.AtEnd)
	}
	dst := &artwork.Document{}
	dst.AddLayer("mask")
	h.Adopt(src)
	h.Adopt(dst)
	return h, src, dst
}

func contents(shapes []artwork.Shape) []string {
	var res []string
	for _, s := range shapes {
		res = append(res, s.(*artwork.Text).Content)
	}
	return res
}

func TestImportWrapsShapes(t *testing.T) {
	a := square(200)
	a.Locked = true
	b := square(100)
	b.Hidden = true
	h, src, dst := setup(a, b)

	im := &Importer{Host: h}
	bundle, err := im.Import(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	art := bundle.Artwork
	if art.Name != "Pattern" || art.Len() != 2 {
		t.Errorf("unexpected artwork group %q with %d items", art.Name, art.Len())
	}
	if artwork.Parent(art) != nil {
		t.Error("artwork is attached")
	}
	if dst.Layers[0].Len() != 0 {
		t.Error("something was placed into the destination document")
	}
	if src.Layers[0].Len() != 2 || a.Locked || b.Hidden {
		t.Error("source not unlocked in place")
	}
	if art.Children()[0] == artwork.Shape(a) {
		t.Error("shape was not duplicated")
	}
}

func TestImportSingleGroup(t *testing.T) {
	g := artwork.NewGroup("art")
	artwork.Insert(g, square(10), artwork.AtEnd)
	h, src, dst := setup(g)

	bundle, err := (&Importer{Host: h}).Import(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Artwork.Name != "art" || bundle.Artwork.Len() != 1 {
		t.Error("single group was wrapped")
	}
}

func TestProtectedText(t *testing.T) {
	cases := []struct {
		name  string
		im    Importer
		items []artwork.Shape
		want  []string
	}{
		{
			name: "markers",
			items: []artwork.Shape{
				square(200),
				text("© 2026 Studio", 50, 100),
				text("WINNIE", 50, 80),
				text("Ｐｏｏｈ", 50, 60), // fullwidth letters
				text("(C) someone", 50, 40),
				text("plain", 50, 120),
			},
			want: []string{"© 2026 Studio", "WINNIE", "Ｐｏｏｈ", "(C) someone"},
		},
		{
			name:  "top edge",
			items: []artwork.Shape{square(200), text("top", 50, 192), text("bottom", 50, 2)},
			want:  []string{"top"},
		},
		{
			name:  "bottom edge",
			im:    Importer{Edge: EdgeBottom},
			items: []artwork.Shape{square(200), text("top", 50, 192), text("bottom", 50, 2)},
			want:  []string{"bottom"},
		},
		{
			name:  "both edges",
			im:    Importer{Edge: EdgeBoth},
			items: []artwork.Shape{square(200), text("top", 50, 192), text("middle", 50, 100), text("bottom", 50, 2)},
			want:  []string{"top", "bottom"},
		},
		{
			name:  "position check disabled",
			im:    Importer{Tolerance: -1},
			items: []artwork.Shape{square(200), text("top", 50, 192), text("Shepard", 50, 100)},
			want:  []string{"Shepard"},
		},
		{
			name:  "custom markers",
			im:    Importer{Markers: []string{"acme"}},
			items: []artwork.Shape{square(200), text("ACME Inc.", 50, 100), text("Disney", 50, 80)},
			want:  []string{"ACME Inc."},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, src, dst := setup(c.items...)
			im := c.im
			im.Host = h
			bundle, err := im.Import(src, dst)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(c.want, contents(bundle.Overlays)); d != "" {
				t.Errorf("overlays (-want +got):\n%s", d)
			}
			for _, o := range bundle.Overlays {
				if artwork.Parent(o) != nil {
					t.Error("overlay still attached")
				}
			}
			if n := bundle.Artwork.Len() + len(bundle.Overlays); n != len(c.items) {
				t.Errorf("%d shapes lost", len(c.items)-n)
			}
		})
	}
}

func TestEmptyPattern(t *testing.T) {
	h, src, dst := setup()
	_, err := (&Importer{Host: h}).Import(src, dst)
	if !errors.Is(err, errNoArtwork) {
		t.Errorf("wrong error %v", err)
	}
}

func TestParseEdge(t *testing.T) {
	for _, e := range []Edge{EdgeTop, EdgeBottom, EdgeBoth} {
		got, err := ParseEdge(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEdge(%q) = %v, %v", e, got, err)
		}
	}
	if _, err := ParseEdge("left"); err == nil {
		t.Error("invalid edge accepted")
	}
}
