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

package runlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewHandler(buf, nil))

	logger.Debug("hidden")
	logger.Info("===== mask_PatCol STARTED =====", "pattern", "flowers.eps")
	logger.With("run", "r1").WithGroup("clip").Warn("fallback", "strategy", "largest", "n", 2)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	stamp := `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `
	cases := []string{
		stamp + `===== mask_PatCol STARTED ===== pattern=flowers\.eps$`,
		stamp + `WARN fallback run=r1 clip\.strategy=largest clip\.n=2$`,
	}
	for i, pat := range cases {
		if !regexp.MustCompile(pat).MatchString(lines[i]) {
			t.Errorf("line %d: %q does not match %q", i, lines[i], pat)
		}
	}
}

func TestQuoting(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewHandler(buf, slog.LevelDebug))
	logger.Debug("x", "msg", "two words", "empty", "")
	if !strings.HasSuffix(buf.String(), ` x msg="two words" empty=""`+"\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFanout(t *testing.T) {
	a := &bytes.Buffer{}
	b := &bytes.Buffer{}
	h := Fanout(
		NewHandler(a, slog.LevelInfo),
		nil,
		slog.NewJSONHandler(b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)
	logger.Info("one")
	logger.Error("two", "k", 1)

	if n := strings.Count(a.String(), "\n"); n != 2 {
		t.Errorf("file handler got %d lines", n)
	}
	var rec map[string]any
	if err := json.Unmarshal(b.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "two" || rec["k"] != 1.0 {
		t.Errorf("unexpected JSON record %v", rec)
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	for i := range 2 {
		l, err := Open(path, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		l.Info("run", "i", i)
		if err := l.Close(); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "] run i="); n != 2 {
		t.Errorf("found %d records in %q", n, data)
	}
	if !regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} `).Match(data) {
		t.Errorf("missing date prefix: %q", data)
	}
}

func TestOpenError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "log.txt"), nil, nil)
	if err == nil {
		t.Error("log file in missing directory accepted")
	}
}
