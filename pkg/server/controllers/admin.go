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
	"net/http"

	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/context"
	"github.com/catatan/catatan/pkg/server/helpers"
	"github.com/catatan/catatan/pkg/server/views"
)

// NewAdmin creates a new Admin controller.
// It panics if the necessary templates are not parsed.
func NewAdmin(app *app.App, viewEngine *views.Engine) *Admin {
	return &Admin{
		LoginView: viewEngine.NewView(app, views.Config{Title: "Admin Login", Layout: "base", AlertInBody: true, Clock: app.Clock}, "admin/login"),
		PanelView: viewEngine.NewView(app, views.Config{Title: "Admin", Layout: "base", Clock: app.Clock}, "admin/panel"),
		app:       app,
	}
}

// Admin is the controller of the admin panel
type Admin struct {
	LoginView *views.View
	PanelView *views.View
	app       *app.App
}

// LoginForm is the form data for the admin login
type LoginForm struct {
	Password string `schema:"password" json:"password"`
	Referrer string `schema:"referrer" json:"referrer"`
}

func getDataWithReferrer(referrer string) views.Data {
	return views.Data{
		Yield: map[string]interface{}{
			"Referrer": referrer,
		},
	}
}

// NewLogin renders the admin login page
func (a *Admin) NewLogin(w http.ResponseWriter, r *http.Request) {
	vd := getDataWithReferrer(r.URL.Query().Get("referrer"))
	a.LoginView.Render(w, r, &vd, http.StatusOK)
}

// Login handles POST /admin/login
func (a *Admin) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseForm(r, &form); err != nil {
		handleHTMLError(w, r, err, "parsing payload", a.LoginView, getDataWithReferrer(""))
		return
	}
	vd := getDataWithReferrer(form.Referrer)

	s, err := a.app.AdminLogin(form.Password)
	if err != nil {
		handleHTMLError(w, r, err, "logging in admin", a.LoginView, vd)
		return
	}

	if err := a.app.Sessions.SetAdmin(w, s); err != nil {
		handleHTMLError(w, r, err, "setting the admin session", a.LoginView, vd)
		return
	}

	dest := helpers.LocalPath(form.Referrer, "/admin")
	http.Redirect(w, r, dest, http.StatusFound)
}

// Logout handles POST /admin/logout
func (a *Admin) Logout(w http.ResponseWriter, r *http.Request) {
	a.app.Sessions.ClearAdmin(w)

	views.RedirectAlert(w, r, "/", views.Alert{
		Level:   views.AlertLvlInfo,
		Message: "Logged out.",
	})
}

// Panel handles GET /admin
func (a *Admin) Panel(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{
		Yield: map[string]interface{}{
			"Stats": a.app.AdminStats(r.Context()),
			"Notes": a.app.AdminNotes(),
		},
	}
	if s := context.Admin(r.Context()); s != nil {
		vd.Yield["ExpiresAt"] = a.app.Gate.ExpiresAt(*s)
	}

	a.PanelView.Render(w, r, &vd, http.StatusOK)
}

// Delete handles POST /admin/notes/{noteID}/delete
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)

	n, ok := a.app.Engine.Note(id)
	title := string(id)
	if ok {
		title = n.Title
	}

	if err := a.app.DeleteNote(r.Context(), id); err != nil {
		redirectError(w, r, err, "deleting the note", "/admin")
		return
	}

	views.RedirectAlert(w, r, "/admin", views.Alert{
		Level:   views.AlertLvlSuccess,
		Message: fmt.Sprintf("Deleted \"%s\".", title),
	})
}
