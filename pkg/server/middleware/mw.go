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
	"fmt"
	"net/http"
	"time"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/server/helpers"
	"github.com/gorilla/csrf"
)

// RequestIDHeader is the response header carrying the request id
const RequestIDHeader = "X-Request-Id"

// Middleware is a middleware for request handlers
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// WebMw is the middleware for the web routes
func WebMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return Session(app, ApplyLimit(h, rateLimit))
}

// APIMw is the middleware for the API routes. The responses are not cached.
func APIMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return Session(app, noStore(ApplyLimit(h, rateLimit)))
}

func noStore(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		h.ServeHTTP(w, r)
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Global is the middleware for all routes. It tags the request with an id,
// logs it and recovers from panics in the handlers.
func Global(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		requestID, err := helpers.GenRequestID()
		if err != nil {
			log.ErrorWrap(err, "generating the request id")
		} else {
			w.Header().Set(RequestIDHeader, requestID)
		}

		defer func() {
			if v := recover(); v != nil {
				DoError(rec, "handling the request", fmt.Errorf("panic: %v", v), http.StatusInternalServerError)
			}

			log.WithFields(log.Fields{
				"requestId":  requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"statusCode": rec.statusCode,
				"duration":   time.Since(start).String(),
			}).Debug("request")
		}()

		h.ServeHTTP(rec, r)
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.WithFields(log.Fields{
		"path":   r.URL.Path,
		"reason": csrf.FailureReason(r).Error(),
	}).Warn("csrf check failed")

	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// CSRF returns the CSRF protection for the form routes. Tests run unprotected.
func CSRF(a *app.App) func(http.Handler) http.Handler {
	if a.IsTest() {
		return func(h http.Handler) http.Handler {
			return h
		}
	}

	protect := csrf.Protect(
		a.CSRFKey,
		csrf.Secure(a.IsProd()),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(h http.Handler) http.Handler {
		protected := protect(h)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !a.IsProd() {
				r = csrf.PlaintextHTTPRequest(r)
			}

			protected.ServeHTTP(w, r)
		})
	}
}
