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

package eps

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/internal/float"
	"seehuhn.de/go/geom/vec"
)

// writer emits PostScript operators, one operator per line.  After the
// first write error, all further output is suppressed and the error is
// kept in Err.
type writer struct {
	Content io.Writer
	Err     error

	prec int
}

func (w *writer) coord(x float64) string {
	return float.Format(x, w.prec)
}

func (w *writer) emit(args ...any) {
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, args...)
}

// Comment writes a PostScript comment.
func (w *writer) Comment(text string) {
	w.emit("%", text)
}

// Shape writes the PostScript code to paint s.  Hidden shapes are skipped.
func (w *writer) Shape(s artwork.Shape) {
	if s.Attrs().Hidden {
		return
	}
	switch s := s.(type) {
	case *artwork.Path:
		if !w.paintable(&s.Style) {
			return
		}
		w.contour(s.Points, s.Closed)
		w.paint(&s.Style, false)
	case *artwork.CompoundPath:
		if !w.paintable(&s.Style) {
			return
		}
		for _, c := range s.Contours {
			w.contour(c, true)
		}
		w.paint(&s.Style, true)
	case *artwork.Text:
		w.text(s)
	case *artwork.Group:
		w.group(s)
	}
}

func (w *writer) paintable(st *artwork.Style) bool {
	return st.Filled || st.Stroked
}

func (w *writer) group(g *artwork.Group) {
	children := g.Children()
	clipPath := g.ClipPath()
	if clipPath == nil {
		for _, c := range children {
			w.Shape(c)
		}
		return
	}

	w.emit("gsave")
	switch p := clipPath.(type) {
	case *artwork.Path:
		w.contour(p.Points, true)
	case *artwork.CompoundPath:
		for _, c := range p.Contours {
			w.contour(c, true)
		}
	}
	w.emit("eoclip newpath")
	for _, c := range children[:len(children)-1] {
		w.Shape(c)
	}
	w.emit("grestore")
}

// contour appends a subpath to the current path.
func (w *writer) contour(pts []vec.Vec2, closed bool) {
	if len(pts) == 0 {
		return
	}
	w.emit(w.coord(pts[0].X), w.coord(pts[0].Y), "m")
	for _, p := range pts[1:] {
		w.emit(w.coord(p.X), w.coord(p.Y), "l")
	}
	if closed {
		w.emit("h")
	}
}

// paint fills and/or strokes the current path.
func (w *writer) paint(st *artwork.Style, evenOdd bool) {
	fillOp := "fill"
	if evenOdd {
		fillOp = "eofill"
	}
	switch {
	case st.Filled && st.Stroked:
		w.emit("gsave")
		w.color(st.Fill)
		w.emit(fillOp)
		w.emit("grestore")
		w.stroke(st)
	case st.Filled:
		w.color(st.Fill)
		w.emit(fillOp)
	case st.Stroked:
		w.stroke(st)
	}
}

func (w *writer) stroke(st *artwork.Style) {
	w.color(st.Stroke)
	lw := st.StrokeWidth
	if lw <= 0 {
		lw = 1
	}
	w.emit(w.coord(lw), "w")
	w.emit("stroke")
}

func (w *writer) color(c artwork.Color) {
	w.emit(float.Format(c.C, 4), float.Format(c.M, 4), float.Format(c.Y, 4), float.Format(c.K, 4), "k")
}

func (w *writer) text(t *artwork.Text) {
	if t.Content == "" || !t.Filled && !t.Stroked {
		return
	}
	if w.Err != nil {
		return
	}
	latin1, err := charmap.ISO8859_1.NewEncoder().String(t.Content)
	if err != nil {
		w.Err = fmt.Errorf("eps: text %q: %w", t.Content, err)
		return
	}

	fill := t.Fill
	if !t.Filled {
		fill = t.Stroke
	}
	w.color(fill)
	w.emit("Tf", w.coord(t.Size), "scalefont setfont")
	w.emit(w.coord(t.Origin.X), w.coord(t.Origin.Y), "m")
	w.emit(postscript.String(latin1).PS(), "show")
}
