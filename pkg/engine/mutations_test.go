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

package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/pkg/errors"
)

// disconnect makes every later probe of the store fail
func disconnect(s *memory.Store) {
	s.SetProbeFailures(1 << 20)
	s.Reset()
}

func TestToggleRoundTrip(t *testing.T) {
	testCases := []struct {
		initial  store.ReactionType
		reaction store.ReactionType
	}{
		{"", store.ReactionLike},
		{"", store.ReactionDislike},
		{store.ReactionLike, store.ReactionLike},
		{store.ReactionLike, store.ReactionDislike},
		{store.ReactionDislike, store.ReactionLike},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			s, c := newTestStore()
			n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow, LikesCount: 4, DislikesCount: 2})
			if tc.initial != "" {
				s.SeedReaction(store.ReactionRecord{NoteID: n.ID, UserID: testUser, Type: tc.initial})
			}
			e := openTestEngine(t, s, c)
			before := e.LikeStatus(n.ID)

			ctx := context.Background()
			if _, err := e.ToggleReaction(ctx, testUser, n.ID, tc.reaction); err != nil {
				t.Fatal(errors.Wrap(err, "first toggle"))
			}
			if _, err := e.ToggleReaction(ctx, testUser, n.ID, tc.reaction); err != nil {
				t.Fatal(errors.Wrap(err, "second toggle"))
			}

			after := e.LikeStatus(n.ID)
			if tc.initial == "" || tc.initial == tc.reaction {
				assert.Equal(t, after, before, "round trip")
			} else {
				// the second toggle removes the reaction taken over from the initial one
				assert.Equal(t, after.Liked || after.Disliked, false, "no reaction left")
			}
		})
	}
}

func TestToggleLikeThenDislike(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow, LikesCount: 5, DislikesCount: 1})
	e := openTestEngine(t, s, c)
	ctx := context.Background()

	liked, err := e.ToggleLike(ctx, n.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "liking"))
	}
	assert.Equal(t, *liked, LikeStatus{Liked: true, Count: 6, Dislikes: 1}, "liked")

	disliked, err := e.ToggleDislike(ctx, n.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "disliking"))
	}
	assert.Equal(t, *disliked, LikeStatus{Disliked: true, Count: 5, Dislikes: 2}, "disliked")

	stored, _ := s.Note(n.ID)
	assert.Equal(t, stored.LikesCount, 5, "stored likes")
	assert.Equal(t, stored.DislikesCount, 2, "stored dislikes")

	reactions := s.Reactions()
	assert.Equal(t, len(reactions), 1, "one reaction per user")
	assert.Equal(t, reactions[0].Type, store.ReactionDislike, "stored reaction")
	assert.Equal(t, s.Calls("UpdateNoteStats"), 2, "counter writes")
}

func TestToggleUnknownNote(t *testing.T) {
	s, c := newTestStore()
	e := openTestEngine(t, s, c)

	status, err := e.ToggleLike(context.Background(), "404")
	if err != nil {
		t.Fatal(errors.Wrap(err, "toggling"))
	}
	if status != nil {
		t.Errorf("expected a nil status, got %+v", status)
	}
	assert.Equal(t, s.Calls("ToggleLike"), 0, "no remote call")
}

func TestToggleInvalidReaction(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
	e := openTestEngine(t, s, c)

	_, err := e.ToggleReaction(context.Background(), testUser, n.ID, "love")
	assert.Equal(t, errors.Cause(err), ErrValidation, "error mismatch")
}

func TestToggleNoRollback(t *testing.T) {
	testCases := []struct {
		name     string
		failures memory.Failures
	}{
		{"reaction write fails", memory.Failures{ToggleLike: errors.New("rejected")}},
		{"counter write fails", memory.Failures{UpdateNoteStats: errors.New("rejected")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, c := newTestStore()
			n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow, LikesCount: 1})
			e := openTestEngine(t, s, c)
			s.SetFailures(tc.failures)

			status, err := e.ToggleLike(context.Background(), n.ID)

			assert.Equal(t, errors.Cause(err), ErrRemoteWrite, "error mismatch")
			assert.Equal(t, *status, LikeStatus{Liked: true, Count: 2}, "returned status")
			assert.Equal(t, e.LikeStatus(n.ID), LikeStatus{Liked: true, Count: 2}, "local state kept")

			note, _ := e.Note(n.ID)
			assert.Equal(t, note.Likes, 2, "local counter kept")
		})
	}
}

func TestToggleDisconnected(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
	e := openTestEngine(t, s, c)
	disconnect(s)

	status, err := e.ToggleLike(context.Background(), n.ID)

	assert.Equal(t, errors.Cause(err), ErrRemoteWrite, "error mismatch")
	assert.Equal(t, status.Liked, true, "liked locally")
	assert.Equal(t, s.Calls("ToggleLike"), 0, "no remote call")
}

func TestToggleUsersIndependent(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
	e := openTestEngine(t, s, c)
	ctx := context.Background()

	e.ToggleReaction(ctx, "user_a", n.ID, store.ReactionLike)
	e.ToggleReaction(ctx, "user_b", n.ID, store.ReactionLike)
	e.ToggleReaction(ctx, "user_c", n.ID, store.ReactionDislike)

	assert.Equal(t, e.LikeStatusFor("user_a", n.ID), LikeStatus{Liked: true, Count: 2, Dislikes: 1}, "user a")
	assert.Equal(t, e.LikeStatusFor("user_c", n.ID), LikeStatus{Disliked: true, Count: 2, Dislikes: 1}, "user c")
	assert.Equal(t, e.LikeStatusFor("user_d", n.ID), LikeStatus{Count: 2, Dislikes: 1}, "user d")
}

func TestAddNote(t *testing.T) {
	s, c := newTestStore()
	old := s.SeedNote(store.NoteRecord{Title: "lama", CreatedAt: testNow.Add(-time.Hour)})
	e := openTestEngine(t, s, c)

	n, err := e.AddNote(context.Background(), NoteInput{
		Title:   "  Bab Thaharah ",
		Subject: "FIKIH",
		Content: " isi ",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding note"))
	}

	assert.Equal(t, n.Title, "Bab Thaharah", "title")
	assert.Equal(t, n.Subject, "fikih", "subject")
	assert.Equal(t, n.Author, store.AnonymousAuthor, "author")
	assert.Equal(t, n.Likes, 0, "likes")

	notes := e.Notes()
	assert.Equal(t, len(notes), 2, "notes length")
	assert.Equal(t, notes[0].ID, n.ID, "new note first")
	assert.Equal(t, notes[1].ID, old.ID, "old note second")
	assert.Equal(t, len(e.Comments(n.ID)), 0, "no comments")
}

func TestAddNoteErrors(t *testing.T) {
	testCases := []struct {
		name        string
		input       NoteInput
		disconnect  bool
		failures    memory.Failures
		expectedErr error
		storeCalls  int
	}{
		{
			name:        "missing title",
			input:       NoteInput{Title: "  ", Content: "isi"},
			expectedErr: ErrValidation,
		},
		{
			name:        "missing content",
			input:       NoteInput{Title: "judul"},
			expectedErr: ErrValidation,
		},
		{
			name:        "disconnected",
			input:       NoteInput{Title: "judul", Content: "isi"},
			disconnect:  true,
			expectedErr: ErrNotConnected,
		},
		{
			name:        "store rejects",
			input:       NoteInput{Title: "judul", Content: "isi"},
			failures:    memory.Failures{AddNote: errors.New("rls")},
			expectedErr: ErrRemoteWrite,
			storeCalls:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, c := newTestStore()
			s.SeedNote(store.NoteRecord{Title: "lama", CreatedAt: testNow})
			e := openTestEngine(t, s, c)
			if tc.disconnect {
				disconnect(s)
			}
			s.SetFailures(tc.failures)

			_, err := e.AddNote(context.Background(), tc.input)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			assert.Equal(t, s.Calls("AddNote"), tc.storeCalls, "store calls")
			assert.Equal(t, len(e.Notes()), 1, "mirror unchanged")
		})
	}
}

func TestAddComment(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
	s.SeedComment(store.CommentRecord{NoteID: n.ID, Text: "pertama", CreatedAt: testNow.Add(-time.Minute)})
	e := openTestEngine(t, s, c)

	cm, err := e.AddComment(context.Background(), n.ID, " kedua ", " Aisyah ")
	if err != nil {
		t.Fatal(errors.Wrap(err, "commenting"))
	}

	assert.Equal(t, cm.Text, "kedua", "text")
	assert.Equal(t, cm.Author, "Aisyah", "author")

	comments := e.Comments(n.ID)
	assert.Equal(t, len(comments), 2, "comments length")
	assert.Equal(t, comments[1].ID, cm.ID, "appended")
}

func TestAddCommentErrors(t *testing.T) {
	testCases := []struct {
		name        string
		noteID      store.ID
		text        string
		disconnect  bool
		failures    memory.Failures
		expectedErr error
	}{
		{"missing text", "1", "   ", false, memory.Failures{}, ErrValidation},
		{"disconnected", "1", "halo", true, memory.Failures{}, ErrNotConnected},
		{"unknown note", "404", "halo", false, memory.Failures{}, ErrNoteNotFound},
		{"store rejects", "1", "halo", false, memory.Failures{AddComment: errors.New("rls")}, ErrRemoteWrite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, c := newTestStore()
			n := s.SeedNote(store.NoteRecord{ID: "1", Title: "A", CreatedAt: testNow})
			s.SeedComment(store.CommentRecord{NoteID: n.ID, Text: "pertama", CreatedAt: testNow})
			e := openTestEngine(t, s, c)
			if tc.disconnect {
				disconnect(s)
			}
			s.SetFailures(tc.failures)

			_, err := e.AddComment(context.Background(), tc.noteID, tc.text, "")

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			assert.Equal(t, len(e.Comments(n.ID)), 1, "comments unchanged")
		})
	}
}

func TestDeleteNote(t *testing.T) {
	s, c := newTestStore()
	keep := s.SeedNote(store.NoteRecord{Title: "keep", CreatedAt: testNow})
	gone := s.SeedNote(store.NoteRecord{Title: "gone", CreatedAt: testNow.Add(-time.Hour)})
	s.SeedComment(store.CommentRecord{NoteID: gone.ID, Text: "x", CreatedAt: testNow})
	s.SeedReaction(store.ReactionRecord{NoteID: gone.ID, UserID: testUser, Type: store.ReactionLike})
	e := openTestEngine(t, s, c)

	if err := e.DeleteNote(context.Background(), gone.ID); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	notes := e.Notes()
	assert.Equal(t, len(notes), 1, "notes length")
	assert.Equal(t, notes[0].ID, keep.ID, "kept note")
	assert.Equal(t, len(e.Comments(gone.ID)), 0, "comments dropped")
	assert.Equal(t, s.NoteCount(), 1, "stored notes")
	assert.Equal(t, s.CommentCount(), 0, "stored comments")
	assert.Equal(t, len(s.Reactions()), 0, "stored reactions")
}

func TestDeleteNoteDependentsFail(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "gone", CreatedAt: testNow})
	s.SeedComment(store.CommentRecord{NoteID: n.ID, Text: "x", CreatedAt: testNow})
	e := openTestEngine(t, s, c)
	s.SetFailures(memory.Failures{
		DeleteLikes:    errors.New("likes"),
		DeleteComments: errors.New("comments"),
	})

	if err := e.DeleteNote(context.Background(), n.ID); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	assert.Equal(t, e.TotalNotes(), 0, "note removed from mirror")
	assert.Equal(t, s.NoteCount(), 0, "note removed from store")
	assert.Equal(t, s.CommentCount(), 1, "dependent left behind")
}

func TestDeleteNoteFails(t *testing.T) {
	testCases := []struct {
		name        string
		disconnect  bool
		failures    memory.Failures
		expectedErr error
	}{
		{"disconnected", true, memory.Failures{}, ErrNotConnected},
		{"note delete rejected", false, memory.Failures{DeleteNote: errors.New("rls")}, ErrRemoteWrite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, c := newTestStore()
			n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
			s.SeedComment(store.CommentRecord{NoteID: n.ID, Text: "x", CreatedAt: testNow})
			e := openTestEngine(t, s, c)
			if tc.disconnect {
				disconnect(s)
			}
			s.SetFailures(tc.failures)

			err := e.DeleteNote(context.Background(), n.ID)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			assert.Equal(t, e.TotalNotes(), 1, "note kept in mirror")
			assert.Equal(t, len(e.Comments(n.ID)), 1, "comments kept in mirror")
		})
	}
}

func TestConcurrentToggles(t *testing.T) {
	s, c := newTestStore()
	n := s.SeedNote(store.NoteRecord{Title: "A", CreatedAt: testNow})
	e := openTestEngine(t, s, c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.ToggleReaction(context.Background(), fmt.Sprintf("user_%d", i), n.ID, store.ReactionLike)
		}(i)
	}
	wg.Wait()

	note, _ := e.Note(n.ID)
	assert.Equal(t, note.Likes, 50, "local counter")
	assert.Equal(t, len(s.Reactions()), 50, "stored reactions")
}
