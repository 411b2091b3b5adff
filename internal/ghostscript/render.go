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

// Package ghostscript renders PostScript files in unit tests.
package ghostscript

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
)

var keepTempFiles = false

// RenderEPS can be used in unit tests to render an EPS file to an image.
//
// This calls the ghostscript command-line tool to render the file to a PNG
// image, cropped to the bounding box given in the EPS header.  If
// ghostscript is not installed, the test is skipped.  If ghostscript
// rejects the file, the test fails.
//
// This function can be used to verify that ghostscript's idea of our EPS
// output matches our own.
func RenderEPS(t *testing.T, eps []byte) image.Image {
	t.Helper()

	if !isAvailable() {
		t.Skip("ghostscript not found")
	}

	img, err := render(eps)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func render(eps []byte) (image.Image, error) {
	var dir string
	var err error
	if !keepTempFiles {
		dir, err = os.MkdirTemp("", "eps")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
	} else {
		const dirName = "./render-files"
		err = os.Mkdir(dirName, 0755)
		if err != nil && !os.IsExist(err) {
			return nil, err
		}
		dir, err = filepath.Abs(dirName)
		if err != nil {
			return nil, err
		}
	}

	idx := <-gsIndex
	gsIndex <- idx + 1

	epsName := filepath.Join(dir, fmt.Sprintf("test%03d.eps", idx))
	pngName := filepath.Join(dir, fmt.Sprintf("test%03d.png", idx))
	err = os.WriteFile(epsName, eps, 0644)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(
		"gs", "-q", "-dSAFER", "-dBATCH", "-dNOPAUSE", "-dEPSCrop",
		"-sDEVICE=png16m", fmt.Sprintf("-r%d", gsResolution),
		"-dGraphicsAlphaBits=4",
		"-o", pngName,
		epsName)
	cmd.Dir = dir
	cmd.Stdin = nil
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ghostscript: %w: %s", err, out)
	}
	if len(out) > 0 {
		return nil, fmt.Errorf("unexpected ghostscript output: %s", out)
	}

	fd, err := os.Open(pngName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return png.Decode(fd)
}

// isAvailable returns true if the ghostscript command-line tool is available.
func isAvailable() bool {
	gsScriptOnce.Do(func() {
		out, err := exec.Command("gs", "-h").Output()
		if err != nil {
			gsScriptFound = false
			return
		}
		gsScriptFound = gsScriptPNGRe.Match(out)
		gsIndex <- 1
	})
	return gsScriptFound
}

var (
	gsScriptOnce  sync.Once
	gsScriptPNGRe = regexp.MustCompile(`\bpng16m\b`)
	gsScriptFound bool
	gsIndex       = make(chan int, 1)
)

const gsResolution = 72
