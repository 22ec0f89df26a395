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

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func noteFromRecord(r store.NoteRecord) Note {
	return Note{
		ID:        r.ID,
		Title:     r.Title,
		Subject:   subject.Normalize(r.Subject),
		Content:   r.Content,
		Author:    store.DefaultAuthor(r.Author),
		CreatedAt: r.CreatedAt,
		Likes:     r.LikesCount,
		Dislikes:  r.DislikesCount,
		ImageURL:  r.ImageURL,
	}
}

func commentFromRecord(r store.CommentRecord) Comment {
	return Comment{
		ID:        r.ID,
		NoteID:    r.NoteID,
		Author:    store.DefaultAuthor(r.Author),
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// extras are the reactions and comments of one note
type extras struct {
	reactions map[string]store.ReactionType
	comments  []Comment
}

// load fetches every note, then the reactions and comments of each note
// concurrently, and replaces the mirror
func (e *Engine) load(ctx context.Context) error {
	records, err := e.store.GetNotes(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching notes")
	}

	notes := make([]Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, noteFromRecord(r))
	}

	reactions := make(map[store.ID]map[string]store.ReactionType, len(notes))
	comments := make(map[store.ID][]Comment, len(notes))

	if e.store.CheckConnection(ctx) {
		results := make([]extras, len(notes))

		var g errgroup.Group
		for i := range notes {
			i := i
			g.Go(func() error {
				results[i] = e.fetchExtras(ctx, notes[i].ID)
				return nil
			})
		}
		g.Wait()

		for i, n := range notes {
			reactions[n.ID] = results[i].reactions
			comments[n.ID] = results[i].comments
		}
	}

	e.mu.Lock()
	e.notes = notes
	e.reactions = reactions
	e.comments = comments
	e.mu.Unlock()

	return nil
}

// fetchExtras gets the reactions and comments of a note. A failure of
// either falls back to no reactions and no comments for that note only.
func (e *Engine) fetchExtras(ctx context.Context, noteID store.ID) extras {
	var likes []store.ReactionRecord
	var comments []store.CommentRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		likes, err = e.store.GetLikes(gctx, noteID)
		return errors.Wrap(err, "fetching likes")
	})
	g.Go(func() error {
		var err error
		comments, err = e.store.GetComments(gctx, noteID)
		return errors.Wrap(err, "fetching comments")
	})

	if err := g.Wait(); err != nil {
		log.WithFields(log.Fields{
			"note_id": noteID,
			"error":   err.Error(),
		}).Warn("falling back to defaults for note")

		return extras{
			reactions: map[string]store.ReactionType{},
			comments:  []Comment{},
		}
	}

	ret := extras{
		reactions: make(map[string]store.ReactionType, len(likes)),
		comments:  make([]Comment, 0, len(comments)),
	}
	for _, l := range likes {
		if l.Type.Valid() {
			ret.reactions[l.UserID] = l.Type
		}
	}
	for _, c := range comments {
		ret.comments = append(ret.comments, commentFromRecord(c))
	}

	return ret
}
