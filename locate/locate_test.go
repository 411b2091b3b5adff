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

package locate

import (
	"errors"
	"testing"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/memhost"
	"seehuhn.de/go/geom/vec"
)

func group(name string, size float64) *artwork.Group {
	g := artwork.NewGroup(name)
	p := &artwork.Path{
		Points: []vec.Vec2{{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}},
		Closed: true,
	}
	artwork.Insert(g, p, artwork.AtEnd)
	return g
}

func closedPath(size float64) *artwork.Path {
	return &artwork.Path{
		Points: []vec.Vec2{{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}},
		Closed: true,
	}
}

func newDoc(layers ...[]artwork.Shape) *artwork.Document {
	doc := &artwork.Document{}
	for _, items := range layers {
		l := doc.AddLayer("")
		for _, s := range items {
			artwork.Insert(l, s, artwork.AtEnd)
		}
	}
	return doc
}

func TestPrecedence(t *testing.T) {
	// Each case builds a fresh document, since inserting a shape into a
	// document detaches it from its previous parent.
	type setup func() (doc *artwork.Document, cl, bl artwork.Shape)
	cases := []struct {
		name     string
		build    setup
		mode     Mode
		strategy Mode
	}{
		{
			name: "named beats positional",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				bl := group("Bleed BL", 12)
				cl := group("cl outline", 10)
				nested := artwork.NewGroup("wrapper")
				artwork.Insert(nested, bl, artwork.AtEnd)
				return newDoc([]artwork.Shape{group("first", 1), cl, nested}), cl, bl
			},
			strategy: Named,
		},
		{
			name: "positional",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				first := group("first", 1)
				second := group("second", 2)
				return newDoc([]artwork.Shape{first, second, closedPath(1000)}), first, second
			},
			strategy: Positional,
		},
		{
			name: "positional across layers",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				first := group("first", 1)
				second := group("second", 2)
				return newDoc([]artwork.Shape{first}, []artwork.Shape{second}), first, second
			},
			strategy: Positional,
		},
		{
			name: "single group",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				only := group("only", 3)
				return newDoc([]artwork.Shape{only, closedPath(1000)}), only, only
			},
			strategy: Single,
		},
		{
			name: "largest path",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				large := closedPath(100)
				doc := newDoc([]artwork.Shape{closedPath(5), large, &artwork.Text{Content: "x"}})
				return doc, large, large
			},
			strategy: Largest,
		},
		{
			name: "pinned positional ignores names",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				cl := group("CL", 10)
				bl := group("BL", 12)
				return newDoc([]artwork.Shape{cl, bl}), cl, bl
			},
			mode:     Positional,
			strategy: Positional,
		},
		{
			name: "pinned largest searches inside groups",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				outline := group("outline", 50)
				cutout := group("cutout", 5)
				p := outline.Children()[0]
				return newDoc([]artwork.Shape{outline, cutout}), p, p
			},
			mode:     Largest,
			strategy: Largest,
		},
		{
			name: "pinned largest ignores labels",
			build: func() (*artwork.Document, artwork.Shape, artwork.Shape) {
				big := group("BL", 80)
				p := big.Children()[0]
				return newDoc([]artwork.Shape{group("CL", 10), big}), p, p
			},
			mode:     Largest,
			strategy: Largest,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, wantCL, wantBL := c.build()
			h := memhost.New()
			h.Adopt(doc)
			ref, err := Find(h, doc, &Options{Mode: c.mode})
			if err != nil {
				t.Fatal(err)
			}
			if ref.CL != wantCL {
				t.Errorf("wrong CL %q", ref.CL.Attrs().Name)
			}
			if ref.BL != wantBL {
				t.Errorf("wrong BL %q", ref.BL.Attrs().Name)
			}
			if ref.Strategy != c.strategy {
				t.Errorf("strategy %s, want %s", ref.Strategy, c.strategy)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	cases := []struct {
		name    string
		doc     *artwork.Document
		mode    Mode
		missing string
	}{
		{"partial label", newDoc([]artwork.Shape{group("CL", 1), group("other", 2)}), Auto, "BL"},
		{"only BL", newDoc([]artwork.Shape{group("x", 1), group("bl", 2)}), Auto, "CL"},
		{"empty", newDoc([]artwork.Shape{&artwork.Text{Content: "x"}}), Auto, "CL"},
		{"no layers", newDoc(), Auto, "CL"},
		{"named without labels", newDoc([]artwork.Shape{group("a", 1), group("b", 1)}), Named, "CL"},
		{"single with two groups", newDoc([]artwork.Shape{group("a", 1), group("b", 1)}), Single, "CL"},
		{"positional with one group", newDoc([]artwork.Shape{group("a", 1)}), Positional, "CL"},
		{"largest without closed paths", newDoc([]artwork.Shape{&artwork.Text{Content: "x"}}), Largest, "CL"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := memhost.New()
			h.Adopt(c.doc)
			_, err := Find(h, c.doc, &Options{Mode: c.mode})
			var notFound *dieline.ReferenceNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("wrong error %v", err)
			}
			if notFound.Missing[0] != c.missing {
				t.Errorf("missing %v, want %s first", notFound.Missing, c.missing)
			}
		})
	}
}

func TestCaseFolding(t *testing.T) {
	cl := group("ﬁnal Cl", 1) // the ligature must not confuse matching
	bl := group("bLEED", 1)
	doc := newDoc([]artwork.Shape{cl, bl})
	h := memhost.New()
	h.Adopt(doc)
	ref, err := Find(h, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ref.CL != artwork.Shape(cl) || ref.BL != artwork.Shape(bl) || ref.Strategy != Named {
		t.Errorf("unexpected result %v", ref)
	}

	_, err = Find(h, doc, &Options{CaseLabel: "final", BleedLabel: "bleed"})
	if err != nil {
		t.Errorf("custom labels: %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for m := Auto; m <= Largest; m++ {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("biggest"); err == nil {
		t.Error("invalid mode accepted")
	}
}
