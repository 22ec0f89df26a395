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


package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/context"
	"github.com/catatan/catatan/pkg/server/views"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
)

const (
	// maxUploadBytes caps the upload request: the image plus the text fields
	maxUploadBytes = media.MaxBytes + 1<<20
	// maxUploadMemory is the part of an upload kept in memory
	maxUploadMemory = 8 << 20
)

// NewNotes creates a new Notes controller.
// It panics if the necessary templates are not parsed.
func NewNotes(app *app.App, viewEngine *views.Engine, notFound http.HandlerFunc) *Notes {
	return &Notes{
		NewView:  viewEngine.NewView(app, views.Config{Title: "Upload", Layout: "base", AlertInBody: true, Clock: app.Clock}, "notes/new"),
		ShowView: viewEngine.NewView(app, views.Config{Layout: "base", Clock: app.Clock}, "notes/show"),
		notFound: notFound,
		app:      app,
	}
}

// Notes is the controller of the note pages and forms
type Notes struct {
	NewView  *views.View
	ShowView *views.View
	notFound http.HandlerFunc
	app      *app.App
}

// NoteForm is the form data for uploading a note
type NoteForm struct {
	Title   string `schema:"title" json:"title"`
	Subject string `schema:"subject" json:"subject"`
	Content string `schema:"content" json:"content"`
	Author  string `schema:"author" json:"author"`
}

// CommentForm is the form data for commenting on a note
type CommentForm struct {
	Text   string `schema:"text" json:"text"`
	Author string `schema:"author" json:"author"`
}

// New renders the upload form
func (n *Notes) New(w http.ResponseWriter, r *http.Request) {
	n.NewView.Render(w, r, nil, http.StatusOK)
}

// parseUpload reads the upload form and its optional image
func parseUpload(w http.ResponseWriter, r *http.Request) (NoteForm, []byte, error) {
	var form NoteForm

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form, nil, media.ErrTooLarge
		}

		return form, nil, errors.Wrap(errBadRequest, err.Error())
	}

	if err := parseForm(r, &form); err != nil {
		return form, nil, err
	}

	image, err := readImage(r)
	if err != nil {
		return form, nil, err
	}

	return form, image, nil
}

func readImage(r *http.Request) ([]byte, error) {
	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(errBadRequest, err.Error())
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, media.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading the image")
	}
	if len(b) > media.MaxBytes {
		return nil, media.ErrTooLarge
	}

	return b, nil
}

// Create handles POST /notes
func (n *Notes) Create(w http.ResponseWriter, r *http.Request) {
	form, image, err := parseUpload(w, r)
	vd := views.Data{
		Yield: map[string]interface{}{
			"Form": form,
		},
	}
	if err != nil {
		handleHTMLError(w, r, err, "parsing the upload", n.NewView, vd)
		return
	}

	note, err := n.app.CreateNote(r.Context(), app.NoteParams{
		Title:   form.Title,
		Subject: form.Subject,
		Content: form.Content,
		Author:  form.Author,
		Image:   image,
	})
	if err != nil {
		handleHTMLError(w, r, err, "creating the note", n.NewView, vd)
		return
	}

	views.RedirectAlert(w, r, fmt.Sprintf("/notes/%s", note.ID), views.Alert{
		Level:   views.AlertLvlSuccess,
		Message: fmt.Sprintf("Your note was uploaded to %s.", subject.Name(note.Subject)),
	})
}

// Show handles GET /notes/{noteID}
func (n *Notes) Show(w http.ResponseWriter, r *http.Request) {
	e := n.app.Engine

	note, ok := e.Note(noteID(r))
	if !ok {
		n.notFound(w, r)
		return
	}

	vd := views.Data{
		Title: note.Title,
		Yield: map[string]interface{}{
			"Card": newNoteCard(e, context.UserID(r.Context()), note),
		},
	}

	n.ShowView.Render(w, r, &vd, http.StatusOK)
}

func (n *Notes) react(t store.ReactionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := noteID(r)
		dest := backPath(r, fmt.Sprintf("/notes/%s", id))

		_, err := n.app.React(r.Context(), context.UserID(r.Context()), id, t)
		if errors.Is(err, engine.ErrRemoteWrite) {
			views.RedirectAlert(w, r, dest, views.Alert{
				Level:   views.AlertLvlWarning,
				Message: "Your reaction is shown here but could not be saved to the server.",
			})
			return
		} else if err != nil {
			redirectError(w, r, err, "toggling the reaction", dest)
			return
		}

		http.Redirect(w, r, dest, http.StatusFound)
	}
}

// Like handles POST /notes/{noteID}/like
func (n *Notes) Like(w http.ResponseWriter, r *http.Request) {
	n.react(store.ReactionLike)(w, r)
}

// Dislike handles POST /notes/{noteID}/dislike
func (n *Notes) Dislike(w http.ResponseWriter, r *http.Request) {
	n.react(store.ReactionDislike)(w, r)
}

// Comment handles POST /notes/{noteID}/comments
func (n *Notes) Comment(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	dest := fmt.Sprintf("/notes/%s#comments", id)

	var form CommentForm
	if err := parseForm(r, &form); err != nil {
		redirectError(w, r, err, "parsing the comment", dest)
		return
	}

	if _, ok := n.app.Engine.Note(id); !ok {
		n.notFound(w, r)
		return
	}

	if _, err := n.app.Comment(r.Context(), id, form.Text, form.Author); err != nil {
		redirectError(w, r, err, "adding the comment", dest)
		return
	}

	http.Redirect(w, r, dest, http.StatusFound)
}
