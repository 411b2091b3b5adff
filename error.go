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

package dieline

import (
	"fmt"
	"strings"
)

// ReferenceNotFoundError is returned if a mask document does not contain
// usable reference geometry.
type ReferenceNotFoundError struct {
	// Missing lists the roles which could not be identified ("CL", "BL").
	Missing []string

	// Reason describes what was found instead.
	Reason string
}

func (err *ReferenceNotFoundError) Error() string {
	msg := "mask reference not found"
	if len(err.Missing) > 0 {
		msg += " (missing " + strings.Join(err.Missing, ", ") + ")"
	}
	if err.Reason != "" {
		msg += ": " + err.Reason
	}
	return msg
}

// DegenerateGeometryError indicates that a bounding box has a zero,
// negative or non-finite dimension where a positive size is required.
type DegenerateGeometryError struct {
	What  string
	Value float64
}

func (err *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: %s is %g", err.What, err.Value)
}

// UnsupportedGeometryError is returned by the host if a shape cannot be
// converted into a compound path.
type UnsupportedGeometryError struct {
	Op     string
	Reason string
}

func (err *UnsupportedGeometryError) Error() string {
	return err.Op + ": unsupported geometry: " + err.Reason
}

// BooleanOpFailedError is returned by the host if a path boolean operation
// cannot be carried out.
type BooleanOpFailedError struct {
	Op     string
	Reason string
}

func (err *BooleanOpFailedError) Error() string {
	return err.Op + " failed: " + err.Reason
}

// ClippingFailedError is returned if every clipping strategy has failed.
// Errs contains the failure of each attempted strategy, in order.
type ClippingFailedError struct {
	Errs []error
}

func (err *ClippingFailedError) Error() string {
	if len(err.Errs) == 0 {
		return "clipping failed"
	}
	parts := make([]string, len(err.Errs))
	for i, e := range err.Errs {
		parts[i] = e.Error()
	}
	return "clipping failed: " + strings.Join(parts, "; ")
}

func (err *ClippingFailedError) Unwrap() []error {
	return err.Errs
}

// Stage identifies a step of the pipeline.
type Stage string

// These are the stages of the pipeline, in execution order.
const (
	StageOpen      Stage = "open"
	StageLocate    Stage = "locate"
	StageImport    Stage = "import"
	StageSolve     Stage = "solve"
	StageTransform Stage = "transform"
	StageClip      Stage = "clip"
	StageAssemble  Stage = "assemble"
	StageExport    Stage = "export"
	StageClose     Stage = "close"
)

// StageError records the pipeline stage at which processing of a pattern
// file failed.
type StageError struct {
	Stage Stage
	Tag   string
	Err   error
}

func (err *StageError) Error() string {
	tail := ""
	if err.Err != nil {
		tail = ": " + err.Err.Error()
	}
	if err.Tag == "" {
		return string(err.Stage) + tail
	}
	return err.Tag + ": " + string(err.Stage) + tail
}

func (err *StageError) Unwrap() error {
	return err.Err
}
