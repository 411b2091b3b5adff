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

// Package dieline registers pattern artwork onto die-line masks and clips
// the result to the mask boundary.
//
// A mask document contains two reference shapes: the case-line (CL), which
// marks the trim size, and the bleed-line (BL), which marks the visible
// extent of the printed artwork.  A pattern document contains the artwork.
// The pipeline scales the pattern uniformly so that its height matches the
// height of the case-line, centers it on the case-line, and then clips (or
// cuts) it to the bleed-line:
//
//	h := memhost.New()
//	p := pipeline.New(h, pipeline.Options{OutputDir: "Target"})
//	out, err := p.Run(ctx, pipeline.Job{
//	    Mask:    "2d.yaml",
//	    Pattern: "color.yaml",
//	    Tag:     "PatCol",
//	})
//
// The work is split into the following packages:
//
//	geometry   bounding-box arithmetic
//	artwork    the shape tree (paths, compound paths, groups, text)
//	host       the interface to the document engine
//	locate     finding CL and BL inside a mask document
//	pattern    importing pattern artwork and protecting overlay text
//	register   computing the scale and translation
//	clip       clipping and cutting the pattern to the mask boundary
//	pipeline   running all stages for one or more pattern files
//	memhost    an in-memory document engine
//	eps        writing documents as Encapsulated PostScript
//	journal    recording pipeline runs in an SQLite database
//	config     the configuration file of the maskpat tool
//	runlog     the run log file
//	server     an HTTP interface to the pipeline
//
// This package contains the error types shared by all stages, and the
// default logger used by the library packages.
package dieline
