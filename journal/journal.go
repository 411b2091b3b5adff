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

// Package journal records pipeline runs in an SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Schema is the journal schema.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    batch_id    TEXT NOT NULL DEFAULT '',
    started_at  INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,
    mask        TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    tag         TEXT NOT NULL DEFAULT '',
    strategy    TEXT NOT NULL DEFAULT '',
    output      TEXT NOT NULL DEFAULT '',
    stage       TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_batch ON runs(batch_id);
`

// ApplySchema creates the journal tables, if needed.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Entry describes one pipeline run.
type Entry struct {
	ID       string    `json:"id"`
	BatchID  string    `json:"batch_id,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Mask     string    `json:"mask"`
	Pattern  string    `json:"pattern"`
	Tag      string    `json:"tag"`
	Strategy string    `json:"strategy,omitempty"`
	Output   string    `json:"output,omitempty"`

	// Stage and Error are set for failed runs.
	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the run succeeded.
func (e *Entry) OK() bool {
	return e.Error == ""
}

// Journal is a run journal backed by an SQLite database.
type Journal struct {
	DB *sql.DB
}

// Open opens the journal database at path, creating it if needed.
// The path ":memory:" gives a transient in-memory journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// Every connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)
	if err := ApplySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{DB: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.DB.Close()
}

// NewID returns a new random identifier for runs and batches.
func NewID() string {
	return uuid.NewString()
}

// Record stores e.  If e.ID is empty, a new identifier is assigned.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	_, err := j.DB.ExecContext(ctx,
		`INSERT INTO runs (id, batch_id, started_at, finished_at, mask, pattern,
		tag, strategy, output, stage, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BatchID, e.Started.UnixMilli(), e.Finished.UnixMilli(),
		e.Mask, e.Pattern, e.Tag, e.Strategy, e.Output, e.Stage, e.Error,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return j.query(ctx,
		`SELECT id, batch_id, started_at, finished_at, mask, pattern,
		tag, strategy, output, stage, error
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
}

// Batch returns the runs of one batch, in the order they were started.
func (j *Journal) Batch(ctx context.Context, batchID string) ([]*Entry, error) {
	return j.query(ctx,
		`SELECT id, batch_id, started_at, finished_at, mask, pattern,
		tag, strategy, output, stage, error
		FROM runs WHERE batch_id = ? ORDER BY started_at, rowid`, batchID)
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := j.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		var e Entry
		var started, finished int64
		if err := rows.Scan(&e.ID, &e.BatchID, &started, &finished, &e.Mask,
			&e.Pattern, &e.Tag, &e.Strategy, &e.Output, &e.Stage, &e.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Started = time.UnixMilli(started)
		e.Finished = time.UnixMilli(finished)
		result = append(result, &e)
	}
	return result, rows.Err()
}
