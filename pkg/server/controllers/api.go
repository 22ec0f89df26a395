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
	"net/http"
	"strconv"

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/context"
	mw "github.com/catatan/catatan/pkg/server/middleware"
	"github.com/catatan/catatan/pkg/server/presenters"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

// maxLimit caps the limit query parameter
const maxLimit = 50

// NewAPI creates a new API controller
func NewAPI(app *app.App) *API {
	return &API{app: app}
}

// API is the controller of the JSON API
type API struct {
	app *app.App
}

// parseLimit reads the limit query parameter
func parseLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxLimit {
		return maxLimit
	}

	return n
}

func (a *API) presentNotes(r *http.Request, notes []engine.Note) []presenters.Note {
	return presenters.PresentNotes(a.app.Engine, context.UserID(r.Context()), notes)
}

// NotesResponse is the response of the note list
type NotesResponse struct {
	Notes []presenters.Note `json:"notes"`
	Total int               `json:"total"`
}

// Notes handles GET /api/notes?subject=&sort=
func (a *API) Notes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	notes := a.app.Engine.Filtered(parseSubject(q.Get("subject")), parseSort(q.Get("sort")))

	mw.RespondJSON(w, http.StatusOK, NotesResponse{
		Notes: a.presentNotes(r, notes),
		Total: len(notes),
	})
}

func (a *API) findNote(id store.ID) (engine.Note, error) {
	n, ok := a.app.Engine.Note(id)
	if !ok {
		return engine.Note{}, errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
	}

	return n, nil
}

// Note handles GET /api/notes/{noteID}
func (a *API) Note(w http.ResponseWriter, r *http.Request) {
	n, err := a.findNote(noteID(r))
	if err != nil {
		handleJSONError(w, err, "finding the note")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentNote(a.app.Engine, context.UserID(r.Context()), n))
}

// Comments handles GET /api/notes/{noteID}/comments
func (a *API) Comments(w http.ResponseWriter, r *http.Request) {
	n, err := a.findNote(noteID(r))
	if err != nil {
		handleJSONError(w, err, "finding the note")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentComments(a.app.Engine.Comments(n.ID)))
}

func (a *API) react(w http.ResponseWriter, r *http.Request, t store.ReactionType) {
	id := noteID(r)

	status, err := a.app.React(r.Context(), context.UserID(r.Context()), id, t)
	if err != nil && !errors.Is(err, engine.ErrRemoteWrite) {
		handleJSONError(w, err, "toggling the reaction")
		return
	}

	ret := presenters.PresentReaction(id, status)
	if err != nil {
		ret.Warning = "the reaction could not be saved to the server"
	}

	mw.RespondJSON(w, http.StatusOK, ret)
}

// Like handles POST /api/notes/{noteID}/like
func (a *API) Like(w http.ResponseWriter, r *http.Request) {
	a.react(w, r, store.ReactionLike)
}

// Dislike handles POST /api/notes/{noteID}/dislike
func (a *API) Dislike(w http.ResponseWriter, r *http.Request) {
	a.react(w, r, store.ReactionDislike)
}

// AddComment handles POST /api/notes/{noteID}/comments
func (a *API) AddComment(w http.ResponseWriter, r *http.Request) {
	n, err := a.findNote(noteID(r))
	if err != nil {
		handleJSONError(w, err, "finding the note")
		return
	}

	var form CommentForm
	if err := parseRequestData(w, r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	c, err := a.app.Comment(r.Context(), n.ID, form.Text, form.Author)
	if err != nil {
		handleJSONError(w, err, "adding the comment")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentComment(c))
}

// Trending handles GET /api/trending?limit=
func (a *API) Trending(w http.ResponseWriter, r *http.Request) {
	notes := a.app.Engine.Trending(parseLimit(r, engine.DefaultTrendingLimit))

	mw.RespondJSON(w, http.StatusOK, a.presentNotes(r, notes))
}

// TodayResponse is the response of the note of the day. Note is null when
// there are no notes.
type TodayResponse struct {
	Note *presenters.Note `json:"note"`
}

// Today handles GET /api/today
func (a *API) Today(w http.ResponseWriter, r *http.Request) {
	var ret TodayResponse

	if n, ok := a.app.Engine.NoteOfTheDay(); ok {
		p := presenters.PresentNote(a.app.Engine, context.UserID(r.Context()), n)
		ret.Note = &p
	}

	mw.RespondJSON(w, http.StatusOK, ret)
}

// Categories handles GET /api/categories
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	mw.RespondJSON(w, http.StatusOK, a.app.Engine.Categories())
}

// Activity handles GET /api/activity?limit=
func (a *API) Activity(w http.ResponseWriter, r *http.Request) {
	acts := a.app.Engine.RecentActivity(parseLimit(r, engine.DefaultActivityLimit))
	if acts == nil {
		acts = []engine.Activity{}
	}

	mw.RespondJSON(w, http.StatusOK, acts)
}

func (a *API) status() presenters.Status {
	e := a.app.Engine

	return presenters.PresentStatus(e.Status(), e.TotalNotes(), e.TotalSubjects())
}

// Status handles GET /api/status
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	mw.RespondJSON(w, http.StatusOK, a.status())
}

// Refresh handles POST /api/refresh. A degraded synchronization responds
// with 503 along with the status.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	err := a.app.Refresh(r.Context())
	if err != nil && !errors.Is(err, engine.ErrDegraded) {
		handleJSONError(w, err, "refreshing")
		return
	}

	statusCode := http.StatusOK
	if err != nil {
		statusCode = http.StatusServiceUnavailable
	}

	mw.RespondJSON(w, statusCode, a.status())
}

// Stats handles GET /api/admin/stats
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	mw.RespondJSON(w, http.StatusOK, a.app.AdminStats(r.Context()))
}

// DeleteNote handles DELETE /api/admin/notes/{noteID}
func (a *API) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := a.app.DeleteNote(r.Context(), noteID(r)); err != nil {
		handleJSONError(w, err, "deleting the note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
