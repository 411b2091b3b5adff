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

package pipeline

import (
	"context"

	"seehuhn.de/go/dieline/journal"
)

// These tags are used for the color and black variants of a pattern.
const (
	TagColor = "PatCol"
	TagBlack = "PatBlk"
)

// PatternFile is one entry of a [Batch].
type PatternFile struct {
	Path string
	Tag  string
}

// Batch describes several pattern files to be placed onto the same mask.
type Batch struct {
	Mask     string
	Patterns []PatternFile
}

// NewBatch returns the usual batch of a color and a black pattern for one
// mask.
func NewBatch(mask, color, black string) Batch {
	return Batch{
		Mask: mask,
		Patterns: []PatternFile{
			{Path: color, Tag: TagColor},
			{Path: black, Tag: TagBlack},
		},
	}
}

// Report is the outcome of a batch.
type Report struct {
	BatchID string

	// Outputs lists the files written, in the order of the batch.
	Outputs []string

	// Err is the error which stopped the batch, or nil if all patterns
	// were processed.
	Err error

	// Failed is the tag of the pattern which failed, and Skipped lists the
	// tags of the patterns which were not attempted as a consequence.
	Failed  string
	Skipped []string
}

// Success reports whether all patterns of the batch were processed.
func (r *Report) Success() bool {
	return r.Err == nil
}

// RunBatch processes the patterns of b one by one.  The first failure stops
// the batch; the outputs written up to this point are kept and listed in
// the report.
func (p *Pipeline) RunBatch(ctx context.Context, b Batch) *Report {
	r := &Report{BatchID: journal.NewID()}
	p.opt.Logger.Info("batch started", "batch", r.BatchID, "mask", b.Mask, "patterns", len(b.Patterns))

	for i, pf := range b.Patterns {
		if err := ctx.Err(); err != nil {
			r.Err = err
			r.Skipped = tags(b.Patterns[i:])
			break
		}
		job := Job{Mask: b.Mask, Pattern: pf.Path, Tag: pf.Tag}
		out, err := p.runAndRecord(ctx, job, r.BatchID)
		if err != nil {
			r.Err = err
			r.Failed = pf.Tag
			r.Skipped = tags(b.Patterns[i+1:])
			break
		}
		r.Outputs = append(r.Outputs, out)
	}

	if r.Err != nil {
		p.opt.Logger.Error("batch aborted", "batch", r.BatchID,
			"completed", len(r.Outputs), "skipped", len(r.Skipped), "error", r.Err)
	} else {
		p.opt.Logger.Info("batch complete", "batch", r.BatchID, "outputs", len(r.Outputs))
	}
	return r
}

func tags(pp []PatternFile) []string {
	var res []string
	for _, pf := range pp {
		res = append(res, pf.Tag)
	}
	return res
}
