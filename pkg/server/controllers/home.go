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

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/context"
	"github.com/catatan/catatan/pkg/server/views"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
)

// noteCard is a note as rendered for a visitor
type noteCard struct {
	Note         engine.Note
	Status       engine.LikeStatus
	Comments     []engine.Comment
	CommentCount int
}

func newNoteCard(e *engine.Engine, userID string, n engine.Note) noteCard {
	comments := e.Comments(n.ID)

	return noteCard{
		Note:         n,
		Status:       e.LikeStatusFor(userID, n.ID),
		Comments:     comments,
		CommentCount: len(comments),
	}
}

func newNoteCards(e *engine.Engine, userID string, notes []engine.Note) []noteCard {
	ret := make([]noteCard, 0, len(notes))
	for _, n := range notes {
		ret = append(ret, newNoteCard(e, userID, n))
	}

	return ret
}

// parseSort returns the known sort order, defaulting to the newest first
func parseSort(s string) string {
	switch s {
	case engine.SortLikes, engine.SortOldest:
		return s
	}

	return engine.SortRecent
}

// parseSubject returns the subject filter, defaulting to every subject
func parseSubject(s string) string {
	if s == "" {
		return subject.All
	}

	return s
}

// NewHome creates a new Home controller.
// It panics if the necessary templates are not parsed.
func NewHome(app *app.App, viewEngine *views.Engine) *Home {
	return &Home{
		IndexView: viewEngine.NewView(app, views.Config{Layout: "base", Clock: app.Clock}, "home"),
		app:       app,
	}
}

// Home is the controller of the home page
type Home struct {
	IndexView *views.View
	app       *app.App
}

// Index handles GET /
func (h *Home) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subj := parseSubject(q.Get("subject"))
	sortBy := parseSort(q.Get("sort"))

	e := h.app.Engine
	userID := context.UserID(r.Context())

	vd := views.Data{
		Yield: map[string]interface{}{
			"Trending":      newNoteCards(e, userID, e.Trending(engine.DefaultTrendingLimit)),
			"Categories":    e.Categories(),
			"Activity":      e.RecentActivity(engine.DefaultActivityLimit),
			"Notes":         newNoteCards(e, userID, e.Filtered(subj, sortBy)),
			"Subject":       subj,
			"Sort":          sortBy,
			"TotalNotes":    e.TotalNotes(),
			"TotalSubjects": e.TotalSubjects(),
		},
	}
	if n, ok := e.NoteOfTheDay(); ok {
		vd.Yield["Today"] = newNoteCard(e, userID, n)
	}

	h.IndexView.Render(w, r, &vd, http.StatusOK)
}

// Refresh handles POST /refresh
func (h *Home) Refresh(w http.ResponseWriter, r *http.Request) {
	dest := backPath(r, "/")

	if err := h.app.Refresh(r.Context()); err != nil {
		alert := views.Alert{
			Level:   views.AlertLvlWarning,
			Message: "Can't connect to the server. Showing the notes loaded so far.",
		}
		if !errors.Is(err, engine.ErrDegraded) {
			alert = views.Alert{Level: views.AlertLvlError, Message: views.AlertMsgGeneric}
		}

		views.RedirectAlert(w, r, dest, alert)
		return
	}

	views.RedirectAlert(w, r, dest, views.Alert{
		Level:   views.AlertLvlSuccess,
		Message: "Notes are up to date.",
	})
}
