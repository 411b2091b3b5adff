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

// Package pipeline runs all stages needed to place pattern artwork onto a
// die-line mask: locating the reference geometry, importing and
// registering the pattern, clipping, and exporting the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/artwork"
	"seehuhn.de/go/dieline/clip"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/dieline/journal"
	"seehuhn.de/go/dieline/locate"
	"seehuhn.de/go/dieline/pattern"
	"seehuhn.de/go/dieline/register"
)

// TargetLayer is the name of the layer which receives the final artwork.
const TargetLayer = "Target"

// DefaultOutputDir is used when Options.OutputDir is empty.
const DefaultOutputDir = "Target"

// Recorder stores the outcome of pipeline runs.
// This is implemented by [*journal.Journal].
type Recorder interface {
	Record(ctx context.Context, e *journal.Entry) error
}

// Options configures a [Pipeline].
type Options struct {
	// OutputDir is the directory for the exported files.  It is created
	// when needed.
	OutputDir string

	// Format is the output file format.  The default is EPS.
	Format host.Format

	// Creator is recorded in the output files.
	Creator string

	Locator locate.Options
	Clip    clip.Options

	// Markers, Edge and Tolerance configure the detection of protected
	// text, see [pattern.Importer].
	Markers   []string
	Edge      pattern.Edge
	Tolerance float64

	// Journal, if set, receives one entry per run.
	Journal Recorder

	Logger *slog.Logger
}

// Job describes one pattern file to be placed onto a mask.
type Job struct {
	Mask    string
	Pattern string

	// Tag distinguishes the outputs for different patterns on the same
	// mask, for example "PatCol" and "PatBlk".
	Tag string
}

// Pipeline places pattern artwork onto masks.
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	host host.Host
	opt  Options
}

// New returns a new pipeline which uses h for all document operations.
func New(h host.Host, opt Options) *Pipeline {
	if opt.OutputDir == "" {
		opt.OutputDir = DefaultOutputDir
	}
	if opt.Format == "" {
		opt.Format = host.FormatEPS
	}
	if opt.Logger == nil {
		opt.Logger = dieline.Logger()
	}
	if opt.Locator.Logger == nil {
		opt.Locator.Logger = opt.Logger
	}
	if opt.Clip.Logger == nil {
		opt.Clip.Logger = opt.Logger
	}
	return &Pipeline{host: h, opt: opt}
}

// Run processes a single job and returns the name of the output file.
// Errors are reported as [*dieline.StageError].
func (p *Pipeline) Run(ctx context.Context, job Job) (string, error) {
	return p.runAndRecord(ctx, job, "")
}

func (p *Pipeline) runAndRecord(ctx context.Context, job Job, batchID string) (string, error) {
	logger := p.opt.Logger
	name := filepath.Base(job.Pattern)
	if job.Tag != "" {
		name = job.Tag
	}
	logger.Info(fmt.Sprintf("===== %s STARTED =====", name),
		"mask", job.Mask, "pattern", job.Pattern)

	entry := &journal.Entry{
		BatchID: batchID,
		Started: time.Now(),
		Mask:    job.Mask,
		Pattern: job.Pattern,
		Tag:     job.Tag,
	}
	out, used, err := p.run(ctx, job)
	entry.Finished = time.Now()
	if err != nil {
		logger.Error(fmt.Sprintf("===== %s FAILED =====", name), "error", err)
		entry.Error = err.Error()
		var stageErr *dieline.StageError
		if errors.As(err, &stageErr) {
			entry.Stage = string(stageErr.Stage)
		}
	} else {
		logger.Info(fmt.Sprintf("===== %s COMPLETED =====", name),
			"output", out, "strategy", used)
		entry.Output = out
		entry.Strategy = used.String()
	}

	if p.opt.Journal != nil {
		if jErr := p.opt.Journal.Record(context.WithoutCancel(ctx), entry); jErr != nil {
			logger.Warn("cannot record run", "error", jErr)
		}
	}
	return out, err
}

func (p *Pipeline) run(ctx context.Context, job Job) (out string, used clip.Strategy, err error) {
	h := p.host
	logger := p.opt.Logger
	fail := func(stage dieline.Stage, err error) error {
		return &dieline.StageError{Stage: stage, Tag: job.Tag, Err: err}
	}
	// step checks for cancellation between stages.
	step := func(stage dieline.Stage) error {
		if err := ctx.Err(); err != nil {
			return fail(stage, err)
		}
		logger.Debug("stage", "name", stage)
		return nil
	}

	if err := step(dieline.StageOpen); err != nil {
		return "", 0, err
	}
	mask, err := h.Open(job.Mask)
	if err != nil {
		return "", 0, fail(dieline.StageOpen, err)
	}
	defer func() {
		if cErr := h.Close(mask, true); cErr != nil {
			err = errors.Join(err, fail(dieline.StageClose, cErr))
		}
	}()
	pat, err := h.Open(job.Pattern)
	if err != nil {
		return "", 0, fail(dieline.StageOpen, err)
	}
	defer func() {
		if cErr := h.Close(pat, true); cErr != nil {
			err = errors.Join(err, fail(dieline.StageClose, cErr))
		}
	}()

	if err := step(dieline.StageLocate); err != nil {
		return "", 0, err
	}
	ref, err := locate.Find(h, mask, &p.opt.Locator)
	if err != nil {
		return "", 0, fail(dieline.StageLocate, err)
	}
	logger.Info("reference found", "strategy", ref.Strategy,
		"cl", ref.CL.Attrs().Name, "bl", ref.BL.Attrs().Name)

	if err := step(dieline.StageImport); err != nil {
		return "", 0, err
	}
	im := &pattern.Importer{
		Host:      h,
		Markers:   p.opt.Markers,
		Edge:      p.opt.Edge,
		Tolerance: p.opt.Tolerance,
		Logger:    logger,
	}
	bundle, err := im.Import(pat, mask)
	if err != nil {
		return "", 0, fail(dieline.StageImport, err)
	}

	if err := step(dieline.StageSolve); err != nil {
		return "", 0, err
	}
	refBox, ok := ref.CL.Bounds()
	if !ok {
		return "", 0, fail(dieline.StageSolve,
			&dieline.DegenerateGeometryError{What: "case line bounds"})
	}
	patBox, ok := bundle.Artwork.Bounds()
	if !ok {
		return "", 0, fail(dieline.StageSolve,
			&dieline.DegenerateGeometryError{What: "pattern bounds"})
	}
	tr, err := register.Solve(patBox, refBox)
	if err != nil {
		return "", 0, fail(dieline.StageSolve, err)
	}
	logger.Info("pattern registered", "transform", tr)

	if err := step(dieline.StageTransform); err != nil {
		return "", 0, err
	}
	err = register.Apply(h, mask, bundle.Artwork, tr)
	if err != nil {
		return "", 0, fail(dieline.StageTransform, err)
	}

	if err := step(dieline.StageClip); err != nil {
		return "", 0, err
	}
	engine := &clip.Engine{Host: h}
	res, err := engine.Clip(mask, bundle, ref, &p.opt.Clip)
	if err != nil {
		return "", 0, fail(dieline.StageClip, err)
	}

	if err := step(dieline.StageAssemble); err != nil {
		return "", 0, err
	}
	err = p.assemble(mask, res.Group)
	if err != nil {
		return "", 0, fail(dieline.StageAssemble, err)
	}

	if err := step(dieline.StageExport); err != nil {
		return "", 0, err
	}
	out = filepath.Join(p.opt.OutputDir, OutputName(job.Mask, job.Tag, p.opt.Format))
	err = os.MkdirAll(p.opt.OutputDir, 0755)
	if err != nil {
		return "", 0, fail(dieline.StageExport, err)
	}
	err = h.Export(mask, out, &host.ExportOptions{
		Format:         p.opt.Format,
		SingleArtboard: true,
		Creator:        p.opt.Creator,
	})
	if err != nil {
		return "", 0, fail(dieline.StageExport, err)
	}
	return out, res.Used, nil
}

// assemble places the final group on a new top-level layer and hides all
// other layers.
func (p *Pipeline) assemble(doc *artwork.Document, g *artwork.Group) error {
	h := p.host
	original := h.Layers(doc)

	target, err := h.AddLayer(doc, TargetLayer)
	if err != nil {
		return err
	}
	err = h.Move(doc, g, target, artwork.AtEnd)
	if err != nil {
		return err
	}
	for _, l := range original {
		err := h.SetVisible(doc, l, false)
		if err != nil {
			return err
		}
	}
	return nil
}

// OutputName returns the file name used for the output of a job.  This is
// the base name of the mask file, without a trailing ".eps" or other
// extension, followed by an underscore, the tag and the extension of the
// output format.
func OutputName(mask, tag string, format host.Format) string {
	base := filepath.Base(mask)
	if strings.HasSuffix(strings.ToLower(base), ".eps") {
		base = base[:len(base)-4]
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := ".eps"
	if format == host.FormatYAML {
		ext = ".yaml"
	}
	if tag == "" {
		return base + ext
	}
	return base + "_" + tag + ext
}
