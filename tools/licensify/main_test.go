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

package main

import (
	"strings"
	"testing"
)

func TestAddHeader(t *testing.T) {
	oldHeader := strings.Replace(header, "2026", "2021", 1)
	cases := []struct {
		name    string
		in      string
		changed bool
		want    string
	}{
		{"bare", "package x\n", true, header + "package x\n"},
		{"done", header + "package x\n", false, header + "package x\n"},
		{"doc comment", "// Package x does things.\npackage x\n", true,
			header + "// Package x does things.\npackage x\n"},
		{"old header", oldHeader + "package x\n", true, header + "package x\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, changed, err := addHeader([]byte(c.in))
			if err != nil {
				t.Fatal(err)
			}
			if changed != c.changed || string(got) != c.want {
				t.Errorf("got %t %q", changed, got)
			}
		})
	}

	if _, _, err := addHeader([]byte("//go:build ignore\n")); err != nil {
		t.Errorf("build constraint line rejected: %v", err)
	}
	if _, _, err := addHeader([]byte("\npackage x\n")); err != errUnexpected {
		t.Errorf("got %v", err)
	}
}
