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

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestApplySchema(t *testing.T) {
	j := openTestJournal(t)
	var name string
	err := j.DB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='runs'`).Scan(&name)
	if err != nil {
		t.Fatalf("table runs not found: %v", err)
	}
	// applying the schema twice is harmless
	if err := ApplySchema(j.DB); err != nil {
		t.Error(err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	t0 := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	batch := NewID()
	entries := []*Entry{
		{BatchID: batch, Started: t0, Finished: t0.Add(time.Second), Mask: "2d.yaml", Pattern: "col.yaml", Tag: "PatCol", Strategy: "compound", Output: "Target/2d_PatCol.eps"},
		{BatchID: batch, Started: t0.Add(2 * time.Second), Finished: t0.Add(3 * time.Second), Mask: "2d.yaml", Pattern: "blk.yaml", Tag: "PatBlk", Stage: "locate", Error: "CL not found"},
		{Started: t0.Add(time.Hour), Finished: t0.Add(time.Hour), Mask: "other.yaml", Pattern: "x.yaml"},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
		if e.ID == "" {
			t.Error("no ID assigned")
		}
	}

	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries", len(recent))
	}
	if recent[0].Mask != "other.yaml" || recent[1].Tag != "PatBlk" {
		t.Error("wrong order")
	}
	if recent[1].OK() || !entries[0].OK() {
		t.Error("OK() is wrong")
	}

	got, err := j.Batch(ctx, batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("batch has %d entries", len(got))
	}
	want := *entries[0]
	if d := cmp.Diff(&want, got[0], cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); d != "" {
		t.Errorf("entry changed (-want +got):\n%s", d)
	}
}

func TestDuplicateID(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	e := &Entry{ID: "run-1", Mask: "m", Pattern: "p"}
	if err := j.Record(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, e); err == nil {
		t.Error("duplicate ID accepted")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	err = j.Record(context.Background(), &Entry{Mask: "m", Pattern: "p"})
	if err != nil {
		t.Fatal(err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	recent, err := j.Recent(context.Background(), 0)
	if err != nil || len(recent) != 1 {
		t.Errorf("reopened journal: %d entries, %v", len(recent), err)
	}
}
