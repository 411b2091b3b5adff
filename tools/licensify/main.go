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

// Licensify adds the license header to all Go source files of the module.
//
// With -check, no files are changed and the exit status is non-zero if a
// header is missing.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const header = `// seehuhn.de/go/dieline - register and clip artwork to die-line masks
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

`

var errUnexpected = errors.New("file does not start with a package clause or comment")

func main() {
	check := flag.Bool("check", false, "only report files without header")
	flag.Parse()
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	missing := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		updated, changed, err := addHeader(body)
		if err != nil {
			fmt.Printf("ATTENTION %s: %v\n", path, err)
			return nil
		}
		if !changed {
			return nil
		}
		missing++
		if *check {
			fmt.Println("missing header: " + path)
			return nil
		}
		fmt.Println("updating " + path)
		return os.WriteFile(path, updated, 0o644)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *check && missing > 0 {
		os.Exit(1)
	}
}

// addHeader returns body with the license header in front.  An existing
// GPL header of a different project or year is replaced.
func addHeader(body []byte) ([]byte, bool, error) {
	if bytes.HasPrefix(body, []byte(header)) {
		return body, false, nil
	}
	if bytes.HasPrefix(body, []byte("package ")) {
		return append([]byte(header), body...), true, nil
	}
	if bytes.HasPrefix(body, []byte("//")) {
		end := bytes.Index(body, []byte("\n\n"))
		if end >= 0 && bytes.Contains(body[:end], []byte("GNU General Public License")) {
			return append([]byte(header), body[end+2:]...), true, nil
		}
		// a package comment without license header
		return append([]byte(header), body...), true, nil
	}
	return nil, false, errUnexpected
}
