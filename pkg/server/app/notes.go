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
	"context"
	"strings"

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
)

// NoteParams is the data of an uploaded note
type NoteParams struct {
	Title   string
	Subject string
	Content string
	Author  string
	// Image is the raw uploaded image, if any
	Image []byte
}

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Wrapf(engine.ErrValidation, "%s is required", field)
	}

	return nil
}

// CreateNote validates the upload, stores its image and adds the note
func (a *App) CreateNote(ctx context.Context, p NoteParams) (engine.Note, error) {
	if err := required(p.Title, "title"); err != nil {
		return engine.Note{}, err
	}
	if err := required(p.Subject, "subject"); err != nil {
		return engine.Note{}, err
	}
	if err := required(p.Content, "content"); err != nil {
		return engine.Note{}, err
	}
	if err := required(p.Author, "author"); err != nil {
		return engine.Note{}, err
	}

	in := engine.NoteInput{
		Title:   p.Title,
		Subject: subject.Normalize(p.Subject),
		Content: p.Content,
		Author:  p.Author,
	}

	if len(p.Image) > 0 {
		url, err := media.Process(ctx, a.Uploader, p.Image)
		if err != nil {
			return engine.Note{}, errors.Wrap(err, "processing the image")
		}
		in.ImageURL = url
	}

	n, err := a.Engine.AddNote(ctx, in)
	if err != nil {
		return engine.Note{}, errors.Wrap(err, "adding the note")
	}

	log.WithFields(log.Fields{
		"note_id": n.ID.String(),
		"subject": n.Subject,
	}).Info("note created")

	return n, nil
}

// React toggles the reaction of the user. The status is returned along with
// an ErrRemoteWrite error when the store did not persist the change.
func (a *App) React(ctx context.Context, userID string, noteID store.ID, t store.ReactionType) (engine.LikeStatus, error) {
	status, err := a.Engine.ToggleReaction(ctx, userID, noteID, t)
	if status == nil {
		if err == nil {
			err = errors.Wrapf(engine.ErrNoteNotFound, "note %s", noteID)
		}
		return engine.LikeStatus{}, err
	}

	return *status, err
}

// Comment adds a comment to the note
func (a *App) Comment(ctx context.Context, noteID store.ID, text, author string) (engine.Comment, error) {
	c, err := a.Engine.AddComment(ctx, noteID, text, author)
	if err != nil {
		return engine.Comment{}, errors.Wrap(err, "adding the comment")
	}

	return c, nil
}

// Refresh synchronizes the mirror again
func (a *App) Refresh(ctx context.Context) error {
	err := a.Engine.Refresh(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("refresh failed")

		return err
	}

	log.WithFields(log.Fields{
		"notes": a.Engine.TotalNotes(),
	}).Debug("mirror refreshed")

	return nil
}
