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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// The on-disk form of a document.  Example:
//
//	name: mask
//	artboard: [0, 0, 400, 300]
//	layers:
//	  - name: Layer 1
//	    items:
//	      - kind: group
//	        name: CL
//	        items:
//	          - kind: path
//	            rect: [100, 100, 300, 200]
//	            stroke: [0, 0, 0, 1]
type fileDoc struct {
	Name     string      `yaml:"name,omitempty"`
	Artboard []float64   `yaml:"artboard,omitempty,flow"`
	Layers   []fileLayer `yaml:"layers"`
}

type fileLayer struct {
	Name   string     `yaml:"name"`
	Hidden bool       `yaml:"hidden,omitempty"`
	Locked bool       `yaml:"locked,omitempty"`
	Items  []fileItem `yaml:"items,omitempty"`
}

type fileItem struct {
	Kind   string `yaml:"kind"`
	Name   string `yaml:"name,omitempty"`
	Hidden bool   `yaml:"hidden,omitempty"`
	Locked bool   `yaml:"locked,omitempty"`

	// paths
	Points   [][]float64   `yaml:"points,omitempty,flow"`
	Rect     []float64     `yaml:"rect,omitempty,flow"`
	Closed   bool          `yaml:"closed,omitempty"`
	Contours [][][]float64 `yaml:"contours,omitempty"`
	Clipping bool          `yaml:"clipping,omitempty"`

	// groups
	Items   []fileItem `yaml:"items,omitempty"`
	Clipped bool       `yaml:"clipped,omitempty"`

	// text
	Text string    `yaml:"text,omitempty"`
	At   []float64 `yaml:"at,omitempty,flow"`
	Size float64   `yaml:"size,omitempty"`

	Fill        []float64 `yaml:"fill,omitempty,flow"`
	Stroke      []float64 `yaml:"stroke,omitempty,flow"`
	StrokeWidth float64   `yaml:"stroke_width,omitempty"`
}

// Decode parses a document in YAML form.
func Decode(data []byte) (*artwork.Document, error) {
	var f fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&f)
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty document")
	} else if err != nil {
		return nil, err
	}

	doc := &artwork.Document{Name: f.Name}
	if f.Artboard != nil {
		doc.Artboard, err = decodeRect(f.Artboard)
		if err != nil {
			return nil, fmt.Errorf("artboard: %w", err)
		}
	}
	for i, fl := range f.Layers {
		l := doc.AddLayer(fl.Name)
		l.Hidden = fl.Hidden
		l.Locked = fl.Locked
		for j := range fl.Items {
			s, err := decodeItem(&fl.Items[j])
			if err != nil {
				return nil, fmt.Errorf("layer %d item %d: %w", i, j, err)
			}
			artwork.Insert(l, s, artwork.AtEnd)
		}
	}
	return doc, nil
}

// ReadFile reads a document from the named YAML file.
func ReadFile(name string) (*artwork.Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = filepath.Base(name)
	}
	doc.Path = name
	return doc, nil
}

func decodeItem(it *fileItem) (artwork.Shape, error) {
	var res artwork.Shape
	switch it.Kind {
	case "path":
		p := &artwork.Path{Closed: it.Closed, Clipping: it.Clipping}
		switch {
		case it.Rect != nil && it.Points != nil:
			return nil, errors.New("path has both rect and points")
		case it.Rect != nil:
			r, err := decodeRect(it.Rect)
			if err != nil {
				return nil, err
			}
			p.Points = []vec.Vec2{
				{X: r.LLx, Y: r.LLy}, {X: r.URx, Y: r.LLy},
				{X: r.URx, Y: r.URy}, {X: r.LLx, Y: r.URy},
			}
			p.Closed = true
		default:
			pts, err := decodePoints(it.Points)
			if err != nil {
				return nil, err
			}
			p.Points = pts
		}
		if err := decodeStyle(&p.Style, it); err != nil {
			return nil, err
		}
		res = p
	case "compound":
		c := &artwork.CompoundPath{Clipping: it.Clipping}
		for i, fc := range it.Contours {
			pts, err := decodePoints(fc)
			if err != nil {
				return nil, fmt.Errorf("contour %d: %w", i, err)
			}
			c.Contours = append(c.Contours, pts)
		}
		if err := decodeStyle(&c.Style, it); err != nil {
			return nil, err
		}
		res = c
	case "group":
		g := &artwork.Group{Clipped: it.Clipped}
		for i := range it.Items {
			child, err := decodeItem(&it.Items[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			artwork.Insert(g, child, artwork.AtEnd)
		}
		if g.Clipped && g.ClipPath() == nil {
			return nil, errors.New("clipped group without clipping path on top")
		}
		res = g
	case "text":
		t := &artwork.Text{Content: it.Text, Size: it.Size}
		if it.At != nil {
			pts, err := decodePoints([][]float64{it.At})
			if err != nil {
				return nil, err
			}
			t.Origin = pts[0]
		}
		if t.Size == 0 {
			t.Size = 12
		}
		if err := decodeStyle(&t.Style, it); err != nil {
			return nil, err
		}
		if it.Fill == nil && it.Stroke == nil {
			t.Filled = true
			t.Fill = artwork.Black
		}
		res = t
	default:
		return nil, fmt.Errorf("unknown item kind %q", it.Kind)
	}

	a := res.Attrs()
	a.Name = it.Name
	a.Hidden = it.Hidden
	a.Locked = it.Locked
	return res, nil
}

func decodeRect(x []float64) (rect.Rect, error) {
	if len(x) != 4 {
		return rect.Rect{}, fmt.Errorf("rectangle needs 4 numbers, got %d", len(x))
	}
	return rect.Rect{LLx: x[0], LLy: x[1], URx: x[2], URy: x[3]}, nil
}

func decodePoints(x [][]float64) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, len(x))
	for i, p := range x {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d: need 2 coordinates, got %d", i, len(p))
		}
		res[i] = vec.Vec2{X: p[0], Y: p[1]}
	}
	return res, nil
}

func decodeStyle(st *artwork.Style, it *fileItem) error {
	if it.Fill != nil {
		c, err := decodeColor(it.Fill)
		if err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		st.Filled = true
		st.Fill = c
	}
	if it.Stroke != nil {
		c, err := decodeColor(it.Stroke)
		if err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
		st.Stroked = true
		st.Stroke = c
		st.StrokeWidth = it.StrokeWidth
		if st.StrokeWidth == 0 {
			st.StrokeWidth = 1
		}
	}
	return nil
}

func decodeColor(x []float64) (artwork.Color, error) {
	if len(x) != 4 {
		return artwork.Color{}, fmt.Errorf("CMYK color needs 4 components, got %d", len(x))
	}
	for _, v := range x {
		if v < 0 || v > 1 {
			return artwork.Color{}, fmt.Errorf("color component %g out of range", v)
		}
	}
	return artwork.Color{C: x[0], M: x[1], Y: x[2], K: x[3]}, nil
}

// Encode converts a document into YAML form.
func Encode(doc *artwork.Document) ([]byte, error) {
	f := &fileDoc{Name: doc.Name}
	if !doc.Artboard.IsZero() {
		r := doc.Artboard
		f.Artboard = []float64{r.LLx, r.LLy, r.URx, r.URy}
	}
	for _, l := range doc.Layers {
		fl := fileLayer{Name: l.Name, Hidden: l.Hidden, Locked: l.Locked}
		for _, s := range l.Children() {
			fl.Items = append(fl.Items, encodeItem(s))
		}
		f.Layers = append(f.Layers, fl)
	}

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	err := enc.Encode(f)
	if err != nil {
		return nil, err
	}
	err = enc.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes doc to the named file in YAML form.
func WriteFile(name string, doc *artwork.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0644)
}

func encodeItem(s artwork.Shape) fileItem {
	a := s.Attrs()
	it := fileItem{
		Kind:   s.Kind().String(),
		Name:   a.Name,
		Hidden: a.Hidden,
		Locked: a.Locked,
	}
	switch s := s.(type) {
	case *artwork.Path:
		it.Points = encodePoints(s.Points)
		it.Closed = s.Closed
		it.Clipping = s.Clipping
	case *artwork.CompoundPath:
		for _, c := range s.Contours {
			it.Contours = append(it.Contours, encodePoints(c))
		}
		it.Clipping = s.Clipping
	case *artwork.Group:
		for _, c := range s.Children() {
			it.Items = append(it.Items, encodeItem(c))
		}
		it.Clipped = s.Clipped
	case *artwork.Text:
		it.Text = s.Content
		it.At = []float64{s.Origin.X, s.Origin.Y}
		it.Size = s.Size
	}
	if st := artwork.StyleOf(s); st != nil {
		if st.Filled {
			it.Fill = []float64{st.Fill.C, st.Fill.M, st.Fill.Y, st.Fill.K}
		}
		if st.Stroked {
			it.Stroke = []float64{st.Stroke.C, st.Stroke.M, st.Stroke.Y, st.Stroke.K}
			it.StrokeWidth = st.StrokeWidth
		}
	}
	return it
}

func encodePoints(pts []vec.Vec2) [][]float64 {
	res := make([][]float64, len(pts))
	for i, p := range pts {
		res[i] = []float64{p.X, p.Y}
	}
	return res
}
