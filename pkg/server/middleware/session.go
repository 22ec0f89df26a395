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


package middleware

import (
	"net/http"
	"net/url"

	"github.com/catatan/catatan/pkg/identity"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/context"
	"github.com/catatan/catatan/pkg/server/helpers"
)

// UserHeader lets API clients present their own identity instead of the cookie
const UserHeader = "X-Catatan-User"

// resolveUser returns the identity of the request and whether it must be
// written back as a cookie
func resolveUser(a *app.App, r *http.Request) (string, bool, error) {
	if h := r.Header.Get(UserHeader); identity.Valid(h) {
		return h, false, nil
	}

	if id, ok := a.Sessions.UserID(r); ok && identity.Valid(id) {
		return id, false, nil
	}

	id, err := identity.Generate()
	if err != nil {
		return "", false, err
	}

	return id, true, nil
}

// Session puts the user identity and any valid admin session in the request
// context. A visitor without an identity is given a new one.
func Session(a *app.App, next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, isNew, err := resolveUser(a, r)
		if err != nil {
			DoError(w, "resolving the user identity", err, http.StatusInternalServerError)
			return
		}
		if isNew {
			if err := a.Sessions.SetUserID(w, userID, a.Clock.Now()); err != nil {
				log.ErrorWrap(err, "setting the identity cookie")
			}
		}

		ctx := context.WithUserID(r.Context(), userID)

		if s := a.Sessions.Admin(r); a.AdminSessionValid(s) {
			ctx = context.WithAdmin(ctx, &s)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminParams is the params for the admin middleware
type AdminParams struct {
	RedirectToLogin bool
}

// Admin lets through only the requests carrying a valid admin session. It
// must run after Session.
func Admin(next http.HandlerFunc, p *AdminParams) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if context.Admin(r.Context()) == nil {
			if p != nil && p.RedirectToLogin {
				q := url.Values{}
				q.Set("referrer", r.URL.Path)
				path := helpers.GetPath("/admin/login", &q)

				http.Redirect(w, r, path, http.StatusFound)
				return
			}

			RespondUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminGuestOnly redirects a logged in admin to the panel
func AdminGuestOnly(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if context.Admin(r.Context()) != nil {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
