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
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/views"
)

// Controllers is a group of controllers
type Controllers struct {
	Home   *Home
	Notes  *Notes
	Admin  *Admin
	API    *API
	Static *Static
	Health *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	viewEngine := views.NewDefaultEngine()

	c.Static = NewStatic(app, viewEngine)
	c.Home = NewHome(app, viewEngine)
	c.Notes = NewNotes(app, viewEngine, c.Static.NotFound)
	c.Admin = NewAdmin(app, viewEngine)
	c.API = NewAPI(app)
	c.Health = NewHealth(app)

	return &c
}
