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
	"io"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// Fprint writes a human-readable description of the structure of doc to w.
// This lists every layer with its visibility and lock state, followed by
// the tree of shapes with kind, name, bounding box and child counts.
func Fprint(w io.Writer, doc *Document) error {
	p := &printer{w: w}
	p.printf(0, "document %q", doc.Name)
	if !doc.Artboard.IsZero() {
		p.printf(1, "artboard %s", formatRect(doc.Artboard))
	}
	p.printf(1, "%d layers", len(doc.Layers))
	for i, l := range doc.Layers {
		p.printf(1, "layer %d %q visible=%t locked=%t items=%d",
			i, l.Name, !l.Hidden, l.Locked, l.Len())
		counts := map[Kind]int{}
		for _, s := range l.items {
			counts[s.Kind()]++
		}
		if len(counts) > 0 {
			var parts []string
			for _, k := range []Kind{KindPath, KindCompoundPath, KindGroup, KindText} {
				if counts[k] > 0 {
					parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
				}
			}
			p.printf(2, "top-level: %s", strings.Join(parts, " "))
		}
		for _, s := range l.items {
			p.shape(2, s)
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(indent int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

func (p *printer) shape(indent int, s Shape) {
	a := s.Attrs()
	var b strings.Builder
	b.WriteString(s.Kind().String())
	if a.Name != "" {
		fmt.Fprintf(&b, " %q", a.Name)
	}
	if bbox, ok := s.Bounds(); ok {
		b.WriteString(" ")
		b.WriteString(formatRect(bbox))
	}
	switch s := s.(type) {
	case *Path:
		fmt.Fprintf(&b, " points=%d closed=%t", len(s.Points), s.Closed)
	case *CompoundPath:
		fmt.Fprintf(&b, " contours=%d", len(s.Contours))
	case *Text:
		fmt.Fprintf(&b, " %q", s.Content)
	case *Group:
		fmt.Fprintf(&b, " items=%d", s.Len())
		if s.Clipped {
			b.WriteString(" clipped")
		}
	}
	if st := StyleOf(s); st != nil {
		if st.Filled {
			b.WriteString(" filled")
		}
		if st.Stroked {
			b.WriteString(" stroked")
		}
	}
	if a.Locked {
		b.WriteString(" locked")
	}
	if a.Hidden {
		b.WriteString(" hidden")
	}
	p.printf(indent, "%s", b.String())

	if g, ok := s.(*Group); ok {
		for _, c := range g.items {
			p.shape(indent+1, c)
		}
	}
}

func formatRect(r rect.Rect) string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.LLx, r.LLy, r.URx, r.URy)
}
