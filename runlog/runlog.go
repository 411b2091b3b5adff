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

// Package runlog sets up logging for the maskpat tool.
//
// Log records are written to an append-only run log file, one line per
// record in the form
//
//	[2006-01-02 15:04:05] message key=value ...
//
// and optionally to the console.
package runlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const timeFormat = "2006-01-02 15:04:05"

// Handler is a slog.Handler which writes the run log format.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	prefix string // group prefix for attribute keys
	attrs  []byte // pre-formatted attributes
}

// NewHandler returns a handler which writes log lines to w.
// If level is nil, slog.LevelInfo is used.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{mu: &sync.Mutex{}, w: w, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}

	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	buf.WriteString(t.Format(timeFormat))
	buf.WriteString("] ")
	if r.Level >= slog.LevelWarn {
		buf.WriteString(r.Level.String())
		buf.WriteByte(' ')
	}
	buf.WriteString(r.Message)
	buf.Write(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(slices.Clone(h.attrs))
	for _, a := range attrs {
		appendAttr(buf, h.prefix, a)
	}
	h2 := *h
	h2.attrs = buf.Bytes()
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, b := range a.Value.Group() {
			appendAttr(buf, prefix, b)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	var s string
	switch a.Value.Kind() {
	case slog.KindTime:
		s = a.Value.Time().Format(timeFormat)
	default:
		s = a.Value.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		s = strconv.Quote(s)
	}
	buf.WriteString(s)
}

// Console returns a handler for log output to f.  Terminals get
// human-readable text, everything else gets JSON lines.
func Console(f *os.File, level slog.Leveler) slog.Handler {
	opt := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(f.Fd())) {
		return slog.NewTextHandler(f, opt)
	}
	return slog.NewJSONHandler(f, opt)
}

// Fanout returns a handler which passes every record to all of hh.
func Fanout(hh ...slog.Handler) slog.Handler {
	return fanout(slices.DeleteFunc(slices.Clone(hh), func(h slog.Handler) bool {
		return h == nil
	}))
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("runlog: %d handler(s) failed: %w", len(errs), errs[0])
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithAttrs(attrs)
	}
	return res
}

func (f fanout) WithGroup(name string) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithGroup(name)
	}
	return res
}

// Log is an open run log.
type Log struct {
	*slog.Logger
	file *os.File
}

// Open opens (or creates) the run log file at path in append mode.  If
// console is not nil, log records are also written there.  An empty path
// gives a logger which writes to the console only.
func Open(path string, console *os.File, level slog.Leveler) (*Log, error) {
	var hh []slog.Handler
	var file *os.File
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open run log: %w", err)
		}
		file = f
		hh = append(hh, NewHandler(f, level))
	}
	if console != nil {
		hh = append(hh, Console(console, level))
	}
	return &Log{Logger: slog.New(Fanout(hh...)), file: file}, nil
}

// Close closes the log file.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
