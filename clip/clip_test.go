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

package clip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/locate"
	"seehuhn.de/go/dieline/memhost"
	"seehuhn.de/go/dieline/pattern"
	"seehuhn.de/go/geom/vec"
)

// failingHost is a memhost which can be made to fail selected operations.
type failingHost struct {
	*memhost.Host

	failCompound bool
	failClipMask bool
}

func (h *failingHost) CompoundPath(doc *artwork.Document, s artwork.Shape) (*artwork.CompoundPath, error) {
	if h.failCompound {
		return nil, &dieline.UnsupportedGeometryError{Op: "compound path", Reason: "disabled for testing"}
	}
	return h.Host.CompoundPath(doc, s)
}

func (h *failingHost) ApplyClipMask(doc *artwork.Document, g *artwork.Group) error {
	if h.failClipMask {
		return &dieline.UnsupportedGeometryError{Op: "clip mask", Reason: "disabled for testing"}
	}
	return h.Host.ApplyClipMask(doc, g)
}

func rectPath(llx, lly, urx, ury float64) *artwork.Path {
	return &artwork.Path{
		Points: []vec.Vec2{{X: llx, Y: lly}, {X: urx, Y: lly}, {X: urx, Y: ury}, {X: llx, Y: ury}},
		Closed: true,
	}
}

type fixture struct {
	h      *failingHost
	doc    *artwork.Document
	ref    *locate.Reference
	bundle *pattern.Bundle
	art    *artwork.Path
	text   *artwork.Text
}

// newFixture returns a mask with a CL rectangle and a BL frame with a
// window in the middle, and a pattern which covers the whole mask.
func newFixture() *fixture {
	h := &failingHost{Host: memhost.New()}
	doc := &artwork.Document{}
	h.Adopt(doc)
	l := doc.AddLayer("mask")

	cl := artwork.NewGroup("CL")
	clPath := rectPath(10, 10, 90, 90)
	clPath.Stroked = true
	artwork.Insert(cl, clPath, artwork.AtEnd)
	bl := artwork.NewGroup("BL")
	frame := &artwork.CompoundPath{Contours: []artwork.Contour{
		rectPath(0, 0, 100, 100).Points,
		rectPath(40, 40, 60, 60).Points,
	}}
	frame.Filled = true
	artwork.Insert(bl, frame, artwork.AtEnd)
	artwork.Insert(l, cl, artwork.AtEnd)
	artwork.Insert(l, bl, artwork.AtEnd)

	art := rectPath(-50, -50, 150, 150)
	art.Filled = true
	g := artwork.NewGroup("Pattern")
	artwork.Insert(g, art, artwork.AtEnd)
	text := &artwork.Text{Content: "© 2026", Origin: vec.Vec2{X: 5, Y: 5}, Size: 4}

	return &fixture{
		h:      h,
		doc:    doc,
		ref:    &locate.Reference{CL: cl, BL: bl, Strategy: locate.Named},
		bundle: &pattern.Bundle{Artwork: g, Overlays: []artwork.Shape{text}},
		art:    art,
		text:   text,
	}
}

func (f *fixture) clip(opt *Options) (*Result, error) {
	e := &Engine{Host: f.h}
	return e.Clip(f.doc, f.bundle, f.ref, opt)
}

func TestCompoundPathKeepsHoles(t *testing.T) {
	f := newFixture()
	res, err := f.clip(&Options{Strategy: CompoundPath})
	if err != nil {
		t.Fatal(err)
	}
	if res.Used != CompoundPath {
		t.Errorf("used %s", res.Used)
	}
	g := res.Group
	clipPath := g.ClipPath()
	if clipPath == nil {
		t.Fatal("group is not clipped")
	}
	if got, want := artwork.ContourCount(clipPath), artwork.ContourCount(f.ref.BL); got != want {
		t.Errorf("clip path has %d contours, want %d", got, want)
	}

	// Stacking order: artwork, overlays, boundary.
	want := []artwork.Shape{f.bundle.Artwork, f.text, clipPath}
	got := g.Children()
	if len(got) != len(want) {
		t.Fatalf("clip group has %d children, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d is a %s, want %s", i, got[i].Kind(), want[i].Kind())
		}
	}
}

func TestHybridFallback(t *testing.T) {
	f := newFixture()
	f.h.failCompound = true
	res, err := f.clip(nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Used != LargestPath {
		t.Errorf("used %s, want largest", res.Used)
	}
	if len(res.Attempts) != 2 || res.Attempts[0].Err == nil || res.Attempts[1].Err != nil {
		t.Errorf("unexpected attempts %v", res.Attempts)
	}
	children := res.Group.Children()
	top := children[len(children)-1]
	if top != res.Group.ClipPath() || artwork.ContourCount(top) != 2 {
		t.Error("largest path not used as clip path")
	}
}

func TestFallbackExhausted(t *testing.T) {
	f := newFixture()
	f.h.failCompound = true
	f.h.failClipMask = true
	res, err := f.clip(&Options{Strategy: Hybrid})
	if res != nil {
		t.Error("result returned after failure")
	}
	var clipErr *dieline.ClippingFailedError
	if !errors.As(err, &clipErr) {
		t.Fatalf("wrong error %v", err)
	}
	if len(clipErr.Errs) != 2 {
		t.Errorf("%d errors recorded, want 2", len(clipErr.Errs))
	}
	var unsupported *dieline.UnsupportedGeometryError
	if !errors.As(err, &unsupported) {
		t.Error("cause not reachable through Unwrap")
	}

	// The failed boundaries must have been removed again.
	g := artwork.Parent(f.bundle.Artwork).(*artwork.Group)
	if g.Len() != 2 || g.Clipped {
		t.Errorf("clip group left with %d children", g.Len())
	}
}

func TestUnclippedOverlays(t *testing.T) {
	f := newFixture()
	res, err := f.clip(&Options{UnclippedOverlays: true})
	if err != nil {
		t.Fatal(err)
	}
	children := res.Group.Children()
	if res.Group.Name != "Masked Pattern" || len(children) != 2 {
		t.Fatalf("unexpected result group %q with %d children", res.Group.Name, len(children))
	}
	inner := children[0].(*artwork.Group)
	if !inner.Clipped || children[1] != artwork.Shape(f.text) {
		t.Error("overlay is not above the clip group")
	}
}

func TestPreserveStrokes(t *testing.T) {
	f := newFixture()
	// a stroked path inside BL
	stroked := rectPath(5, 5, 95, 95)
	stroked.Stroked = true
	stroked.Filled = true
	stroked.StrokeWidth = 0.5
	artwork.Insert(f.ref.BL.(*artwork.Group), stroked, artwork.AtEnd)

	res, err := f.clip(&Options{Strategy: CompoundPath, PreserveStrokes: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.StrokeOutlines) != 1 {
		t.Fatalf("%d stroke outlines", len(res.StrokeOutlines))
	}
	outline := res.StrokeOutlines[0].(*artwork.Path)
	if outline.Filled || !outline.Stroked || outline.StrokeWidth != 0.5 || outline == stroked {
		t.Error("outline not duplicated as unfilled stroke")
	}

	children := res.Group.Children()
	if len(children) != 2 {
		t.Fatalf("%d children", len(children))
	}
	strokes := children[1].(*artwork.Group)
	if strokes.Name != "Preserved Strokes" || strokes.Children()[0] != artwork.Shape(outline) {
		t.Error("strokes not placed above the clip group")
	}
	if !children[0].(*artwork.Group).Clipped {
		t.Error("bottom group is not clipped")
	}
}

func TestPreserveStrokesLargest(t *testing.T) {
	f := newFixture()
	f.ref.BL = f.ref.CL // the CL rectangle is stroked
	res, err := f.clip(&Options{Strategy: LargestPath, PreserveStrokes: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.StrokeOutlines) != 1 {
		t.Fatalf("%d stroke outlines", len(res.StrokeOutlines))
	}
	clipPath := res.Group.Children()[0].(*artwork.Group).ClipPath().(*artwork.Path)
	if clipPath.Stroked || !res.StrokeOutlines[0].(*artwork.Path).Stroked {
		t.Error("boundary stroke not moved to the outline")
	}
}

func TestBooleanCut(t *testing.T) {
	f := newFixture()
	outside := rectPath(200, 200, 210, 210)
	outside.Filled = true
	inside := rectPath(20, 20, 30, 30)
	inside.Filled = true
	open := &artwork.Path{Points: []vec.Vec2{{X: 0, Y: 0}, {X: 50, Y: 50}}}
	open.Stroked = true
	label := &artwork.Text{Content: "label", Size: 5}
	for _, s := range []artwork.Shape{outside, inside, open, label} {
		artwork.Insert(f.bundle.Artwork, s, artwork.AtEnd)
	}

	res, err := f.clip(&Options{Strategy: BooleanCut})
	if err != nil {
		t.Fatal(err)
	}
	if res.Used != BooleanCut || res.Group.Name != "Processed Pattern" {
		t.Errorf("unexpected result: %s %q", res.Used, res.Group.Name)
	}

	if len(res.Items) != 5 {
		t.Fatalf("%d item results, want 5", len(res.Items))
	}
	type summary struct {
		Shapes int
		Failed bool
	}
	var got []summary
	for _, it := range res.Items {
		got = append(got, summary{len(it.Shapes), it.Err != nil})
	}
	want := []summary{
		{1, false}, // large square, cut to the frame
		{0, false}, // outside
		{1, false}, // inside
		{1, true},  // open path, kept
		{1, false}, // text passes through
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("item results (-want +got):\n%s", d)
	}

	// The frame has a hole, which must survive the cut.
	if n := artwork.ContourCount(res.Items[0].Shapes[0]); n != 2 {
		t.Errorf("cut square has %d contours, want 2", n)
	}

	// Overlays are on top.
	children := res.Group.Children()
	if children[len(children)-1] != artwork.Shape(f.text) {
		t.Error("overlay not on top")
	}
	if artwork.Parent(f.bundle.Artwork) != nil || res.Items[3].Source != artwork.Shape(open) {
		t.Error("original artwork not cleaned up")
	}
}

func TestBooleanCutFailFast(t *testing.T) {
	f := newFixture()
	open := &artwork.Path{Points: []vec.Vec2{{X: 0, Y: 0}, {X: 50, Y: 50}}}
	artwork.Insert(f.bundle.Artwork, open, artwork.AtEnd)

	_, err := f.clip(&Options{Strategy: BooleanCut, ItemPolicy: FailFast})
	var clipErr *dieline.ClippingFailedError
	if !errors.As(err, &clipErr) {
		t.Fatalf("wrong error %v", err)
	}
	var boolErr *dieline.BooleanOpFailedError
	if !errors.As(err, &boolErr) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestParse(t *testing.T) {
	for s := Hybrid; s <= BooleanCut; s++ {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseStrategy("magic"); err == nil {
		t.Error("invalid strategy accepted")
	}
	for _, p := range []ItemPolicy{KeepOriginal, FailFast} {
		got, err := ParseItemPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseItemPolicy(%q) = %v, %v", p, got, err)
		}
	}
}
