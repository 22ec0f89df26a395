/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package admin

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/pkg/errors"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func setupPanel(t *testing.T) (*Panel, *memory.Store) {
	c := clock.NewMock()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	c.SetNow(now)

	s := memory.New(c)
	a := s.SeedNote(store.NoteRecord{Title: "a", Subject: "fikih", LikesCount: 3, CreatedAt: now.Add(-time.Hour)})
	s.SeedNote(store.NoteRecord{Title: "b", Subject: "nahwu", LikesCount: 4, CreatedAt: now})
	s.SeedComment(store.CommentRecord{NoteID: a.ID, Text: "x", CreatedAt: now})

	e, err := engine.Open(context.Background(), engine.Params{Store: s, Clock: c})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening engine"))
	}

	return NewPanel(e), s
}

func TestPanelStats(t *testing.T) {
	p, _ := setupPanel(t)

	got := p.Stats(context.Background())

	assert.Equal(t, got.TotalNotes, 2, "notes")
	assert.Equal(t, got.TotalLikes, 7, "likes")
	assert.Equal(t, got.TotalComments, 1, "comments")
	assert.Equal(t, got.Estimated, false, "estimated")
	assert.Equal(t, len(got.Subjects), 2, "subjects")
}

func TestPanelStatsFallback(t *testing.T) {
	testCases := []struct {
		name     string
		failures memory.Failures
	}{
		{"likes total fails", memory.Failures{TotalLikes: errors.New("boom")}},
		{"comments total fails", memory.Failures{TotalComments: errors.New("boom")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, s := setupPanel(t)
			s.SetFailures(tc.failures)

			got := p.Stats(context.Background())

			assert.Equal(t, got.TotalLikes, 7, "likes summed from notes")
			assert.Equal(t, got.TotalComments, 0, "comments")
			assert.Equal(t, got.Estimated, true, "estimated")
		})
	}
}

func TestPanelNotesAndDelete(t *testing.T) {
	p, s := setupPanel(t)

	notes := p.Notes()
	assert.Equal(t, len(notes), 2, "notes")
	assert.Equal(t, notes[0].Title, "b", "newest first")

	if err := p.Delete(context.Background(), notes[1].ID); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	assert.Equal(t, len(p.Notes()), 1, "notes after delete")
	assert.Equal(t, s.NoteCount(), 1, "stored notes")
	assert.Equal(t, s.CommentCount(), 0, "stored comments")
}
