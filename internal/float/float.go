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

// Package float formats numbers for PostScript output.
package float

import (
	"regexp"
	"strconv"
	"strings"
)

// Format converts x to a decimal string with at most precision digits
// after the decimal point.  Trailing zeros and a leading zero before the
// decimal point are omitted, and negative zero is written as "0".
func Format(x float64, precision int) string {
	out := strconv.FormatFloat(x, 'f', precision, 64)
	if m := tailRegexp.FindStringSubmatchIndex(out); m != nil {
		if m[2] > 0 {
			out = out[:m[2]]
		} else if m[4] > 0 {
			out = out[:m[4]]
		}
	}
	neg := strings.HasPrefix(out, "-")
	if neg {
		out = out[1:]
	}
	if strings.HasPrefix(out, "0.") {
		out = out[1:]
	}
	if out == "0" || out == "" {
		return "0"
	}
	if neg {
		out = "-" + out
	}
	return out
}

// Round rounds x to the given number of decimal digits, in the same way as
// [Format].
func Round(x float64, digits int) float64 {
	s := Format(x, digits)
	y, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return y
}

var (
	tailRegexp = regexp.MustCompile(`(?:\..*[1-9](0+)|(\.0+))$`)
)
