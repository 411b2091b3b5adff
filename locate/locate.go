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

// Package locate finds the reference geometry of a die-line mask.
//
// A mask document contains a case line ("CL"), which gives the finished
// size of the product, and a bleed line ("BL"), which surrounds the case
// line and marks how far the artwork must extend.  Mask files in the wild
// are not consistently labelled, so several strategies are tried in order
// of decreasing confidence:
//
//  1. groups named "CL" and "BL" anywhere in the document,
//  2. the first two top-level groups, in document order,
//  3. a single group, used for both roles,
//  4. the largest closed path, used for both roles.
package locate

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/host"
)

// Mode selects the strategy used to locate the reference geometry.
type Mode int

// These are the supported modes.  Auto tries all strategies in the order
// given in the package documentation; the other modes pin a single
// strategy.
const (
	Auto Mode = iota
	Named
	Positional
	Single
	Largest
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Named:
		return "named"
	case Positional:
		return "positional"
	case Single:
		return "single"
	case Largest:
		return "largest"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the string representation of a mode back into a Mode.
func ParseMode(s string) (Mode, error) {
	for m := Auto; m <= Largest; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	if s == "" {
		return Auto, nil
	}
	return Auto, fmt.Errorf("unknown locator mode %q", s)
}

// Reference is the reference geometry of a mask.  CL and BL may be the same
// shape.
type Reference struct {
	CL, BL artwork.Shape

	// Strategy is the strategy which found CL and BL.  This is never Auto.
	Strategy Mode
}

// Options controls [Find].
type Options struct {
	Mode Mode

	// CaseLabel and BleedLabel are the substrings searched for in group
	// names by the Named strategy.  The defaults are "CL" and "BL".
	CaseLabel, BleedLabel string

	Logger *slog.Logger
}

// Find locates the reference geometry in doc.
// If no strategy succeeds, a [*dieline.ReferenceNotFoundError] is returned.
func Find(h host.Host, doc *artwork.Document, opt *Options) (*Reference, error) {
	if opt == nil {
		opt = &Options{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = dieline.Logger()
	}

	layers := h.Layers(doc)

	if opt.Mode == Auto || opt.Mode == Named {
		ref, err := findNamed(layers, opt)
		if err != nil || ref != nil {
			return ref, err
		}
		if opt.Mode == Named {
			return nil, &dieline.ReferenceNotFoundError{
				Missing: []string{"CL", "BL"},
				Reason:  "no group is labelled " + caseLabel(opt) + " or " + bleedLabel(opt),
			}
		}
		logger.Debug("no labelled groups, trying positional lookup")
	}

	candidates := topLevelGroups(layers)

	if (opt.Mode == Auto || opt.Mode == Positional) && len(candidates) >= 2 {
		return &Reference{CL: candidates[0], BL: candidates[1], Strategy: Positional}, nil
	}
	if opt.Mode == Positional {
		return nil, &dieline.ReferenceNotFoundError{
			Missing: []string{"CL", "BL"},
			Reason:  fmt.Sprintf("need at least two top-level groups, found %d", len(candidates)),
		}
	}

	if (opt.Mode == Auto || opt.Mode == Single) && len(candidates) == 1 {
		logger.Info("single group used as case and bleed line",
			"name", candidates[0].Name)
		return &Reference{CL: candidates[0], BL: candidates[0], Strategy: Single}, nil
	}
	if opt.Mode == Single {
		return nil, &dieline.ReferenceNotFoundError{
			Missing: []string{"CL", "BL"},
			Reason:  fmt.Sprintf("need exactly one top-level group, found %d", len(candidates)),
		}
	}

	// In automatic mode, the largest-path strategy is only used for masks
	// without any groups.
	if opt.Mode == Largest || (opt.Mode == Auto && len(candidates) == 0) {
		if s, area := artwork.LargestInLayers(layers); s != nil {
			logger.Info("largest closed path used as case and bleed line",
				"kind", s.Kind(), "area", area)
			return &Reference{CL: s, BL: s, Strategy: Largest}, nil
		}
	}

	reason := "mask contains no usable groups or closed paths"
	if opt.Mode == Largest {
		reason = "mask contains no closed paths"
	}
	return nil, &dieline.ReferenceNotFoundError{
		Missing: []string{"CL", "BL"},
		Reason:  reason,
	}
}

// findNamed returns nil, nil if no group carries either label.
func findNamed(layers []*artwork.Layer, opt *Options) (*Reference, error) {
	fold := cases.Fold()
	clLabel := fold.String(caseLabel(opt))
	blLabel := fold.String(bleedLabel(opt))

	var cl, bl *artwork.Group
	for _, g := range artwork.Groups(layers) {
		name := fold.String(g.Name)
		if cl == nil && strings.Contains(name, clLabel) {
			cl = g
		}
		if bl == nil && strings.Contains(name, blLabel) {
			bl = g
		}
	}

	switch {
	case cl != nil && bl != nil:
		return &Reference{CL: cl, BL: bl, Strategy: Named}, nil
	case cl != nil:
		return nil, &dieline.ReferenceNotFoundError{
			Missing: []string{"BL"},
			Reason:  fmt.Sprintf("group %q is labelled %s, but no group is labelled %s", cl.Name, caseLabel(opt), bleedLabel(opt)),
		}
	case bl != nil:
		return nil, &dieline.ReferenceNotFoundError{
			Missing: []string{"CL"},
			Reason:  fmt.Sprintf("group %q is labelled %s, but no group is labelled %s", bl.Name, bleedLabel(opt), caseLabel(opt)),
		}
	}
	return nil, nil
}

// topLevelGroups returns the top-level groups of the first layer.  If there
// are fewer than two of these, the top-level groups of all layers are
// returned instead.
func topLevelGroups(layers []*artwork.Layer) []*artwork.Group {
	collect := func(ll []*artwork.Layer) []*artwork.Group {
		var res []*artwork.Group
		for _, l := range ll {
			for _, s := range l.Children() {
				if g, ok := s.(*artwork.Group); ok {
					res = append(res, g)
				}
			}
		}
		return res
	}
	if len(layers) == 0 {
		return nil
	}
	res := collect(layers[:1])
	if len(res) < 2 {
		res = collect(layers)
	}
	return res
}

func caseLabel(opt *Options) string {
	if opt.CaseLabel != "" {
		return opt.CaseLabel
	}
	return "CL"
}

func bleedLabel(opt *Options) string {
	if opt.BleedLabel != "" {
		return opt.BleedLabel
	}
	return "BL"
}
