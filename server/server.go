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

// Package server exposes the pipeline as an HTTP service.
//
// Runs are serialised: a request which arrives while a batch is being
// processed waits for it to finish.  Mask and pattern paths in requests
// are relative to the input directory of the server; absolute paths and
// paths leaving this directory are rejected.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"seehuhn.de/go/dieline"
	"seehuhn.de/go/dieline/clip"
	"seehuhn.de/go/dieline/host"
	"seehuhn.de/go/dieline/journal"
	"seehuhn.de/go/dieline/pipeline"
)

// RunRequest is the body of a POST /v1/runs request.
type RunRequest struct {
	Mask     string         `json:"mask"`
	Patterns []PatternEntry `json:"patterns"`

	// Strategy and PreserveStrokes override the configured clip options.
	Strategy        string `json:"strategy,omitempty"`
	PreserveStrokes *bool  `json:"preserve_strokes,omitempty"`
}

// PatternEntry names one pattern file and its output tag.
type PatternEntry struct {
	Path string `json:"path"`
	Tag  string `json:"tag"`
}

// RunResponse reports the outcome of a batch.
type RunResponse struct {
	BatchID      string   `json:"batch_id"`
	Success      bool     `json:"success"`
	OutputPaths  []string `json:"output_paths"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Failed       string   `json:"failed,omitempty"`
	Skipped      []string `json:"skipped,omitempty"`
}

// Server handles HTTP requests for pipeline runs.
type Server struct {
	host     host.Host
	opt      pipeline.Options
	inputDir string
	journal  *journal.Journal
	logger   *slog.Logger
	router   chi.Router

	mu sync.Mutex // serialises runs
}

// New returns a server which runs batches on h, reading input files from
// inputDir.  An empty inputDir means the current directory.  The journal j
// is optional; without it the run history is not available.
func New(h host.Host, opt pipeline.Options, j *journal.Journal, inputDir string) *Server {
	logger := opt.Logger
	if logger == nil {
		logger = dieline.Logger()
	}
	if j != nil {
		opt.Journal = j
	}
	if inputDir == "" {
		inputDir = "."
	}
	s := &Server{
		host:     h,
		opt:      opt,
		inputDir: inputDir,
		journal:  j,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/runs", s.handleRun)
	r.Get("/v1/runs", s.handleHistory)
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves requests on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	opt, err := s.options(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := pipeline.Batch{Mask: s.resolve(req.Mask)}
	for _, pe := range req.Patterns {
		batch.Patterns = append(batch.Patterns, pipeline.PatternFile{Path: s.resolve(pe.Path), Tag: pe.Tag})
	}

	s.mu.Lock()
	opt.Logger = s.logger.With("request", middleware.GetReqID(r.Context()))
	rep := pipeline.New(s.host, opt).RunBatch(r.Context(), batch)
	s.mu.Unlock()

	resp := &RunResponse{
		BatchID:     rep.BatchID,
		Success:     rep.Success(),
		OutputPaths: rep.Outputs,
		Failed:      rep.Failed,
		Skipped:     rep.Skipped,
	}
	if resp.OutputPaths == nil {
		resp.OutputPaths = []string{}
	}
	status := http.StatusOK
	if rep.Err != nil {
		resp.ErrorMessage = rep.Err.Error()
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// options validates req and merges it into the server's pipeline options.
func (s *Server) options(req *RunRequest) (pipeline.Options, error) {
	opt := s.opt
	if req.Mask == "" {
		return opt, errors.New("missing mask")
	}
	if !filepath.IsLocal(req.Mask) {
		return opt, fmt.Errorf("mask %q is not a path inside the input directory", req.Mask)
	}
	if len(req.Patterns) == 0 {
		return opt, errors.New("no patterns given")
	}
	seen := make(map[string]bool)
	for i, pe := range req.Patterns {
		if pe.Path == "" || pe.Tag == "" {
			return opt, fmt.Errorf("patterns[%d]: path and tag are required", i)
		}
		if !filepath.IsLocal(pe.Path) {
			return opt, fmt.Errorf("patterns[%d]: %q is not a path inside the input directory", i, pe.Path)
		}
		if seen[pe.Tag] {
			return opt, fmt.Errorf("patterns[%d]: duplicate tag %q", i, pe.Tag)
		}
		seen[pe.Tag] = true
	}
	if req.Strategy != "" {
		strategy, err := clip.ParseStrategy(req.Strategy)
		if err != nil {
			return opt, err
		}
		opt.Clip.Strategy = strategy
	}
	if req.PreserveStrokes != nil {
		opt.Clip.PreserveStrokes = *req.PreserveStrokes
	}
	return opt, nil
}

// resolve maps a request path, already checked by options, into the
// input directory.
func (s *Server) resolve(name string) string {
	return filepath.Join(s.inputDir, name)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "run journal is disabled")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit "+strconv.Quote(v))
			return
		}
		limit = n
	}
	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("read journal", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot read run journal")
		return
	}
	if entries == nil {
		entries = []*journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
