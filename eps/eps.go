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

// Package eps writes artwork documents as Encapsulated PostScript.
//
// The output follows version 3.0 of the EPSF format and version 3.0 of the
// Document Structuring Conventions.  Only the features needed for
// registered and clipped artwork are supported: polygonal paths and
// compound paths with CMYK fill and stroke, clipping groups, and single
// lines of text set in Helvetica.  Text is re-encoded to ISO Latin-1;
// characters outside this character set cause an error.
package eps

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"text/template"
	"time"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/geometry"
	"seehuhn.de/go/dieline/internal/float"
	"seehuhn.de/go/geom/rect"
)

// Options controls the output of [Write].
type Options struct {
	// Title is recorded in the file header.  If this is empty, the
	// document name is used.
	Title string

	// Creator is recorded in the file header.
	Creator string

	// CreationDate is recorded in the file header, if non-zero.
	CreationDate time.Time

	// SingleArtboard selects the document artboard as the bounding box.
	// Otherwise, or if the document has no artboard, the bounding box of
	// the visible artwork is used.
	SingleArtboard bool

	// Precision is the number of digits after the decimal point used for
	// coordinates.  The default is 3.
	Precision int
}

// Write writes doc to w as an EPS file.
func Write(w io.Writer, doc *artwork.Document, opt *Options) error {
	if opt == nil {
		opt = &Options{}
	}
	prec := opt.Precision
	if prec <= 0 {
		prec = 3
	}

	bbox, _ := visibleBounds(doc)
	if opt.SingleArtboard && !doc.Artboard.IsZero() {
		bbox = geometry.Normalize(doc.Artboard)
	}
	if !geometry.IsFinite(bbox) {
		return fmt.Errorf("eps: invalid bounding box %v", bbox)
	}

	title := opt.Title
	if title == "" {
		title = doc.Name
	}
	hdr := &header{
		Title:    title,
		Creator:  opt.Creator,
		BBox:     bbox,
		HasText:  hasVisibleText(doc),
		Date:     opt.CreationDate,
		Rounding: prec,
	}
	err := headerTmpl.Execute(w, hdr)
	if err != nil {
		return err
	}

	pw := &writer{Content: w, prec: prec}
	for _, l := range doc.Layers {
		if l.Hidden {
			continue
		}
		pw.Comment("Layer: " + l.Name)
		for _, s := range l.Children() {
			pw.Shape(s)
		}
	}
	if pw.Err != nil {
		return pw.Err
	}

	_, err = io.WriteString(w, trailer)
	return err
}

// WriteFile writes doc to the named file.  The complete output is
// generated in memory before the file is created, so that no partial file
// is left behind if encoding fails.
func WriteFile(name string, doc *artwork.Document, opt *Options) error {
	buf := &bytes.Buffer{}
	err := Write(buf, doc, opt)
	if err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0644)
}

func visibleBounds(doc *artwork.Document) (rect.Rect, bool) {
	var res rect.Rect
	found := false
	for _, l := range doc.Layers {
		if l.Hidden {
			continue
		}
		for _, s := range l.Children() {
			if s.Attrs().Hidden {
				continue
			}
			b, ok := s.Bounds()
			if !ok {
				continue
			}
			if found {
				res = geometry.Union(res, b)
			} else {
				res = b
				found = true
			}
		}
	}
	return res, found
}

func hasVisibleText(doc *artwork.Document) bool {
	found := false
	for _, l := range doc.Layers {
		if l.Hidden {
			continue
		}
		for _, s := range l.Children() {
			artwork.Walk(s, func(s artwork.Shape) error {
				if s.Attrs().Hidden {
					return artwork.SkipChildren
				}
				if _, isText := s.(*artwork.Text); isText {
					found = true
				}
				return nil
			})
		}
	}
	return found
}

type header struct {
	Title    string
	Creator  string
	BBox     rect.Rect
	HasText  bool
	Date     time.Time
	Rounding int
}

var headerTmpl = template.Must(template.New("eps").Funcs(template.FuncMap{
	"PS": func(s string) string {
		x := postscript.String(s)
		return x.PS()
	},
	"PN": func(s string) string {
		x := postscript.Name(s)
		return x.PS()
	},
	"IntBox": func(r rect.Rect) string {
		return fmt.Sprintf("%d %d %d %d",
			int(math.Floor(r.LLx)), int(math.Floor(r.LLy)),
			int(math.Ceil(r.URx)), int(math.Ceil(r.URy)))
	},
	"HiResBox": func(r rect.Rect, prec int) string {
		return float.Format(r.LLx, prec) + " " + float.Format(r.LLy, prec) + " " +
			float.Format(r.URx, prec) + " " + float.Format(r.URy, prec)
	},
}).Parse(`%!PS-Adobe-3.0 EPSF-3.0
%%Title: {{PS .Title}}
{{if .Creator -}}
%%Creator: {{PS .Creator}}
{{end -}}
{{if not .Date.IsZero -}}
%%CreationDate: {{.Date.Format "2006-01-02 15:04:05" | PS}}
{{end -}}
%%BoundingBox: {{IntBox .BBox}}
%%HiResBoundingBox: {{HiResBox .BBox .Rounding}}
%%LanguageLevel: 2
%%Pages: 1
{{if .HasText -}}
%%DocumentNeededResources: font Helvetica
{{end -}}
%%EndComments
%%BeginProlog
/m {moveto} bind def
/l {lineto} bind def
/h {closepath} bind def
/k {setcmykcolor} bind def
/w {setlinewidth} bind def
{{if .HasText -}}
{{PN "Helvetica"}} findfont dup length dict begin
{1 index /FID ne {def} {pop pop} ifelse} forall
/Encoding ISOLatin1Encoding def
currentdict end
/Tf exch {{PN "Helvetica-ISOLatin1"}} exch definefont def
{{end -}}
%%EndProlog
%%Page: 1 1
%%BeginPageSetup
save
%%EndPageSetup
`))

const trailer = `restore
showpage
%%Trailer
%%EOF
`
