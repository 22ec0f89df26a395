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

	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/assets"
	mw "github.com/catatan/catatan/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
}

// NewWebRoutes returns a new web routes
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	redirectToLogin := &mw.AdminParams{RedirectToLogin: true}

	return []Route{
		{"GET", "/", c.Home.Index, true},
		{"POST", "/refresh", c.Home.Refresh, true},

		{"GET", "/notes/new", c.Notes.New, true},
		{"POST", "/notes", c.Notes.Create, true},
		{"GET", "/notes/{noteID}", c.Notes.Show, true},
		{"POST", "/notes/{noteID}/like", c.Notes.Like, true},
		{"POST", "/notes/{noteID}/dislike", c.Notes.Dislike, true},
		{"POST", "/notes/{noteID}/comments", c.Notes.Comment, true},

		{"GET", "/admin/login", mw.AdminGuestOnly(c.Admin.NewLogin), true},
		{"POST", "/admin/login", mw.AdminGuestOnly(c.Admin.Login), true},
		{"POST", "/admin/logout", c.Admin.Logout, true},
		{"GET", "/admin", mw.Admin(c.Admin.Panel, redirectToLogin), true},
		{"POST", "/admin/notes/{noteID}/delete", mw.Admin(c.Admin.Delete, redirectToLogin), true},

		{"GET", "/health", c.Health.Index, false},
	}
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/notes", c.API.Notes, true},
		{"GET", "/notes/{noteID}", c.API.Note, true},
		{"GET", "/notes/{noteID}/comments", c.API.Comments, true},
		{"POST", "/notes/{noteID}/like", c.API.Like, true},
		{"POST", "/notes/{noteID}/dislike", c.API.Dislike, true},
		{"POST", "/notes/{noteID}/comments", c.API.AddComment, true},
		{"GET", "/trending", c.API.Trending, true},
		{"GET", "/today", c.API.Today, true},
		{"GET", "/categories", c.API.Categories, true},
		{"GET", "/activity", c.API.Activity, true},
		{"GET", "/status", c.API.Status, true},
		{"POST", "/refresh", c.API.Refresh, true},

		{"GET", "/admin/stats", mw.Admin(c.API.Stats, nil), true},
		{"DELETE", "/admin/notes/{noteID}", mw.Admin(c.API.DeleteNote, nil), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	webRouter := router.PathPrefix("/").Subrouter()
	webRouter.Use(mw.CSRF(app))
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)

	// static
	staticFs, err := assets.GetStaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "getting the filesystem for static files")
	}

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFs)))
	router.PathPrefix("/static/").Handler(staticHandler)

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\nDisallow: /admin\n"))
	})

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(router), nil
}
