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
	"strings"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
)

// NoteInput is the data submitted for a new note
type NoteInput struct {
	Title    string
	Subject  string
	Content  string
	Author   string
	ImageURL string
}

func (e *Engine) indexLocked(noteID store.ID) int {
	for i, n := range e.notes {
		if n.ID == noteID {
			return i
		}
	}

	return -1
}

func (e *Engine) likeStatusLocked(idx int, userID string) LikeStatus {
	n := e.notes[idx]
	t := e.reactions[n.ID][userID]

	return LikeStatus{
		Liked:    t == store.ReactionLike,
		Disliked: t == store.ReactionDislike,
		Count:    n.Likes,
		Dislikes: n.Dislikes,
	}
}

func adjust(n *Note, t store.ReactionType, delta int) {
	if t == store.ReactionLike {
		n.Likes += delta
	} else {
		n.Dislikes += delta
	}
}

// ToggleLike toggles the like of the engine user on the note
func (e *Engine) ToggleLike(ctx context.Context, noteID store.ID) (*LikeStatus, error) {
	return e.ToggleReaction(ctx, e.userID, noteID, store.ReactionLike)
}

// ToggleDislike toggles the dislike of the engine user on the note
func (e *Engine) ToggleDislike(ctx context.Context, noteID store.ID) (*LikeStatus, error) {
	return e.ToggleReaction(ctx, e.userID, noteID, store.ReactionDislike)
}

// ToggleReaction applies a reaction of the user to the note. Asserting the
// reaction the user already has removes it. Asserting the other one replaces
// it. The mirror is updated first and is never rolled back: when the store
// write fails the new status is returned along with an error wrapping
// ErrRemoteWrite. An unknown note yields a nil status and no error.
func (e *Engine) ToggleReaction(ctx context.Context, userID string, noteID store.ID, t store.ReactionType) (*LikeStatus, error) {
	if !t.Valid() {
		return nil, validationError("unknown reaction type '%s'", t)
	}

	e.mu.Lock()
	idx := e.indexLocked(noteID)
	if idx == -1 {
		e.mu.Unlock()
		return nil, nil
	}

	n := &e.notes[idx]
	byUser := e.reactions[noteID]
	if byUser == nil {
		byUser = map[string]store.ReactionType{}
		e.reactions[noteID] = byUser
	}

	switch prev := byUser[userID]; prev {
	case t:
		adjust(n, t, -1)
		delete(byUser, userID)
	case "":
		adjust(n, t, 1)
		byUser[userID] = t
	default:
		adjust(n, prev, -1)
		adjust(n, t, 1)
		byUser[userID] = t
	}

	status := e.likeStatusLocked(idx, userID)
	e.mu.Unlock()

	if err := e.persistReaction(ctx, userID, noteID, t, status); err != nil {
		log.WithFields(log.Fields{
			"note_id": noteID,
			"error":   err.Error(),
		}).Warn("reaction kept locally")

		return &status, err
	}

	return &status, nil
}

// persistReaction writes the reaction row, then overwrites the note counters
func (e *Engine) persistReaction(ctx context.Context, userID string, noteID store.ID, t store.ReactionType, status LikeStatus) error {
	if !e.store.CheckConnection(ctx) {
		return errors.Wrapf(ErrRemoteWrite, "persisting reaction: %v", store.ErrNotConnected)
	}

	if _, err := e.store.ToggleLike(ctx, noteID, userID, t); err != nil {
		return errors.Wrapf(ErrRemoteWrite, "persisting reaction: %v", err)
	}
	if err := e.store.UpdateNoteStats(ctx, noteID, status.Count, status.Dislikes); err != nil {
		return errors.Wrapf(ErrRemoteWrite, "persisting note counters: %v", err)
	}

	return nil
}

// AddNote stores a new note and puts it at the front of the mirror. It
// requires a connection since the store assigns the identifier.
func (e *Engine) AddNote(ctx context.Context, in NoteInput) (Note, error) {
	draft := store.NoteDraft{
		Title:    in.Title,
		Subject:  subject.Normalize(in.Subject),
		Content:  in.Content,
		Author:   in.Author,
		ImageURL: in.ImageURL,
	}.Normalize()

	if draft.Title == "" {
		return Note{}, validationError("title is required")
	}
	if draft.Content == "" {
		return Note{}, validationError("content is required")
	}

	if !e.store.CheckConnection(ctx) {
		return Note{}, ErrNotConnected
	}

	rec, err := e.store.AddNote(ctx, draft)
	if err != nil {
		return Note{}, remoteWriteError(err, "adding note")
	}

	n := noteFromRecord(rec)

	e.mu.Lock()
	e.notes = append([]Note{n}, e.notes...)
	e.comments[n.ID] = []Comment{}
	e.mu.Unlock()

	return n, nil
}

// AddComment stores a comment and appends it to the comments of the note
func (e *Engine) AddComment(ctx context.Context, noteID store.ID, text, author string) (Comment, error) {
	draft := store.CommentDraft{
		NoteID: noteID,
		Author: author,
		Text:   text,
	}.Normalize()

	if draft.Text == "" {
		return Comment{}, validationError("comment text is required")
	}

	if !e.store.CheckConnection(ctx) {
		return Comment{}, ErrNotConnected
	}

	e.mu.RLock()
	known := e.indexLocked(noteID) != -1
	e.mu.RUnlock()
	if !known {
		return Comment{}, errors.Wrapf(ErrNoteNotFound, "note %s", noteID)
	}

	rec, err := e.store.AddComment(ctx, draft)
	if err != nil {
		return Comment{}, remoteWriteError(err, "adding comment")
	}

	c := commentFromRecord(rec)
	if c.NoteID == "" {
		c.NoteID = noteID
	}

	e.mu.Lock()
	e.comments[noteID] = append(e.comments[noteID], c)
	e.mu.Unlock()

	return c, nil
}

// DeleteNote deletes the note with its reactions and comments. The mirror
// is left untouched when the store could not delete the note.
func (e *Engine) DeleteNote(ctx context.Context, noteID store.ID) error {
	if strings.TrimSpace(noteID.String()) == "" {
		return validationError("note id is required")
	}
	if !e.store.CheckConnection(ctx) {
		return ErrNotConnected
	}

	if err := e.store.DeleteNote(ctx, noteID); err != nil {
		return remoteWriteError(err, "deleting note")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.indexLocked(noteID); idx != -1 {
		e.notes = append(e.notes[:idx:idx], e.notes[idx+1:]...)
	}
	delete(e.reactions, noteID)
	delete(e.comments, noteID)

	return nil
}
