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


package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	pkgErrors "github.com/pkg/errors"
)

func seedNote(t *testing.T, a *App, title string) store.NoteRecord {
	s := a.TestStore()
	n := s.SeedNote(store.NoteRecord{
		Title:     title,
		Subject:   "fikih",
		Content:   "isi",
		Author:    "Umar",
		CreatedAt: a.Clock.Now().Add(-time.Hour),
	})

	if err := a.Engine.Refresh(context.Background()); err != nil {
		t.Fatal(pkgErrors.Wrap(err, "refreshing"))
	}

	return n
}

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(pkgErrors.Wrap(err, "encoding png"))
	}

	return buf.Bytes()
}

func TestCreateNote(t *testing.T) {
	a := NewTest()

	n, err := a.CreateNote(context.Background(), NoteParams{
		Title:   "Hukum Mim Mati",
		Subject: "Tahsin",
		Content: "ikhfa syafawi",
		Author:  "Aisyah",
		Image:   pngBytes(t, 1200, 300),
	})
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "creating note"))
	}

	assert.Equal(t, n.Subject, "tahsin", "subject mismatch")
	assert.Equal(t, strings.HasPrefix(n.ImageURL, "data:image/jpeg;base64,"), true, "image url mismatch")
	assert.Equal(t, a.Engine.TotalNotes(), 1, "mirror mismatch")
	assert.Equal(t, a.TestStore().NoteCount(), 1, "store mismatch")
}

func TestCreateNoteUnknownSubject(t *testing.T) {
	a := NewTest()

	n, err := a.CreateNote(context.Background(), NoteParams{
		Title:   "Optik",
		Subject: "fisika",
		Content: "cahaya",
		Author:  "Umar",
	})
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "creating note"))
	}

	assert.Equal(t, n.Subject, "other", "subject mismatch")
}

func TestCreateNoteErrors(t *testing.T) {
	valid := NoteParams{Title: "Thaharah", Subject: "fikih", Content: "isi", Author: "Umar"}

	testCases := []struct {
		name     string
		edit     func(p *NoteParams)
		prep     func(s *memory.Store)
		expected error
	}{
		{name: "title", edit: func(p *NoteParams) { p.Title = " " }, expected: engine.ErrValidation},
		{name: "subject", edit: func(p *NoteParams) { p.Subject = "" }, expected: engine.ErrValidation},
		{name: "content", edit: func(p *NoteParams) { p.Content = "" }, expected: engine.ErrValidation},
		{name: "author", edit: func(p *NoteParams) { p.Author = "" }, expected: engine.ErrValidation},
		{name: "image too large", edit: func(p *NoteParams) { p.Image = make([]byte, media.MaxBytes+1) }, expected: media.ErrTooLarge},
		{name: "not an image", edit: func(p *NoteParams) { p.Image = []byte("hello") }, expected: media.ErrUnsupported},
		{
			name:     "disconnected",
			edit:     func(p *NoteParams) {},
			prep:     func(s *memory.Store) { s.SetUnavailable(true); s.Reset() },
			expected: engine.ErrNotConnected,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewTest()
			if tc.prep != nil {
				tc.prep(a.TestStore())
			}

			p := valid
			tc.edit(&p)

			_, err := a.CreateNote(context.Background(), p)
			assert.Equal(t, errors.Is(err, tc.expected), true, "error mismatch")
			assert.Equal(t, a.Engine.TotalNotes(), 0, "no note should be added")
		})
	}
}

func TestReact(t *testing.T) {
	a := NewTest()
	n := seedNote(t, &a, "Thaharah")

	s, err := a.React(context.Background(), "user_alice0001", n.ID, store.ReactionLike)
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "liking"))
	}
	assert.Equal(t, s.Liked, true, "liked mismatch")
	assert.Equal(t, s.Count, 1, "count mismatch")

	s, err = a.React(context.Background(), "user_alice0001", n.ID, store.ReactionDislike)
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "disliking"))
	}
	assert.Equal(t, s.Liked, false, "liked mismatch")
	assert.Equal(t, s.Disliked, true, "disliked mismatch")
	assert.Equal(t, s.Count, 0, "count mismatch")
	assert.Equal(t, s.Dislikes, 1, "dislikes mismatch")

	// another user does not see the first user's reaction
	s, err = a.React(context.Background(), "user_bob000001", n.ID, store.ReactionLike)
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "liking as another user"))
	}
	assert.Equal(t, s.Liked, true, "liked mismatch")
	assert.Equal(t, s.Disliked, false, "disliked mismatch")
	assert.Equal(t, s.Count, 1, "count mismatch")
}

func TestReactErrors(t *testing.T) {
	t.Run("unknown note", func(t *testing.T) {
		a := NewTest()

		_, err := a.React(context.Background(), "user_alice0001", "404", store.ReactionLike)
		assert.Equal(t, errors.Is(err, engine.ErrNoteNotFound), true, "error mismatch")
	})

	t.Run("unknown reaction", func(t *testing.T) {
		a := NewTest()
		n := seedNote(t, &a, "Thaharah")

		_, err := a.React(context.Background(), "user_alice0001", n.ID, "love")
		assert.Equal(t, errors.Is(err, engine.ErrValidation), true, "error mismatch")
	})

	t.Run("remote failure keeps the local state", func(t *testing.T) {
		a := NewTest()
		n := seedNote(t, &a, "Thaharah")
		a.TestStore().SetFailures(memory.Failures{ToggleLike: errors.New("connection reset")})

		s, err := a.React(context.Background(), "user_alice0001", n.ID, store.ReactionLike)
		assert.Equal(t, errors.Is(err, engine.ErrRemoteWrite), true, "error mismatch")
		assert.Equal(t, s.Liked, true, "local state should be kept")
		assert.Equal(t, s.Count, 1, "count mismatch")
	})
}

func TestComment(t *testing.T) {
	a := NewTest()
	n := seedNote(t, &a, "Thaharah")

	c, err := a.Comment(context.Background(), n.ID, "jazakallah", "Zaid")
	if err != nil {
		t.Fatal(pkgErrors.Wrap(err, "commenting"))
	}

	assert.Equal(t, c.Text, "jazakallah", "text mismatch")
	assert.Equal(t, len(a.Engine.Comments(n.ID)), 1, "comment count mismatch")

	_, err = a.Comment(context.Background(), "404", "halo", "Zaid")
	assert.Equal(t, errors.Is(err, engine.ErrNoteNotFound), true, "unknown note error mismatch")

	_, err = a.Comment(context.Background(), n.ID, "  ", "Zaid")
	assert.Equal(t, errors.Is(err, engine.ErrValidation), true, "blank text error mismatch")
}

func TestRefresh(t *testing.T) {
	a := NewTest()
	a.TestStore().SeedNote(store.NoteRecord{Title: "Thaharah", Subject: "fikih", Content: "isi", CreatedAt: a.Clock.Now()})
	assert.Equal(t, a.Engine.TotalNotes(), 0, "mirror should be stale")

	if err := a.Refresh(context.Background()); err != nil {
		t.Fatal(pkgErrors.Wrap(err, "refreshing"))
	}
	assert.Equal(t, a.Engine.TotalNotes(), 1, "mirror mismatch")

	a.TestStore().SetUnavailable(true)
	err := a.Refresh(context.Background())
	assert.Equal(t, errors.Is(err, engine.ErrDegraded), true, "error mismatch")
	assert.Equal(t, a.Engine.TotalNotes(), 1, "mirror should be kept")
}
