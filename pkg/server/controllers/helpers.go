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
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/helpers"
	mw "github.com/catatan/catatan/pkg/server/middleware"
	"github.com/catatan/catatan/pkg/server/views"
	"github.com/catatan/catatan/pkg/store"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// errBadRequest is returned when the request body cannot be read
var errBadRequest = errors.New("malformed request")

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	return nil
}

// maxBodyBytes bounds the body of API requests
const maxBodyBytes = 64 << 10

func parseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}

	return nil
}

// parseRequestData parses the request body as JSON or as a form, depending on the content type
func parseRequestData(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return parseJSON(r, dst)
	}

	return parseForm(r, dst)
}

// noteID reads the note id path variable
func noteID(r *http.Request) store.ID {
	return store.ID(mux.Vars(r)["noteID"])
}

type errorInfo struct {
	statusCode int
	message    string
}

// describeError maps an error to the status code and the message shown to
// the visitor. Unknown errors map to a 500 with a generic message.
func describeError(err error) errorInfo {
	switch {
	case errors.Is(err, errBadRequest):
		return errorInfo{http.StatusBadRequest, "The request could not be read."}
	case errors.Is(err, media.ErrTooLarge):
		return errorInfo{http.StatusBadRequest, "The image is larger than 4MB."}
	case errors.Is(err, media.ErrTooManyPixels):
		return errorInfo{http.StatusBadRequest, "The image dimensions are too large."}
	case errors.Is(err, media.ErrUnsupported):
		return errorInfo{http.StatusBadRequest, "The image format is not supported."}
	case errors.Is(err, engine.ErrValidation):
		return errorInfo{http.StatusBadRequest, validationMessage(err)}
	case errors.Is(err, engine.ErrNoteNotFound):
		return errorInfo{http.StatusNotFound, "The note was not found."}
	case errors.Is(err, engine.ErrNotConnected):
		return errorInfo{http.StatusServiceUnavailable, "Can't connect to the server. Please try again later."}
	case errors.Is(err, engine.ErrRemoteWrite):
		return errorInfo{http.StatusBadGateway, "The change could not be saved. Please try again."}
	case errors.Is(err, admin.ErrPasswordRequired):
		return errorInfo{http.StatusBadRequest, "Please enter the password."}
	case errors.Is(err, admin.ErrInvalidPassword):
		return errorInfo{http.StatusUnauthorized, "Wrong password."}
	case errors.Is(err, admin.ErrNoDigest):
		return errorInfo{http.StatusServiceUnavailable, "Admin login is not configured."}
	}

	return errorInfo{http.StatusInternalServerError, views.AlertMsgGeneric}
}

// validationMessage returns the field message of a validation error, such
// as "title is required"
func validationMessage(err error) string {
	msg := err.Error()
	suffix := ": " + engine.ErrValidation.Error()

	if idx := strings.LastIndex(msg, suffix); idx != -1 {
		msg = msg[:idx]
		if i := strings.LastIndex(msg, ": "); i != -1 {
			msg = msg[i+2:]
		}
	}
	if msg == "" || msg == engine.ErrValidation.Error() {
		msg = "some required fields are missing"
	}

	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func logError(err error, msg string, statusCode int) {
	if statusCode < http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"error":      err.Error(),
			"statusCode": statusCode,
		}).Info(msg)
		return
	}

	log.WithFields(log.Fields{
		"error":      err.Error(),
		"statusCode": statusCode,
	}).Error(msg)
}

// handleHTMLError renders the view with an alert describing the error
func handleHTMLError(w http.ResponseWriter, r *http.Request, err error, msg string, v *views.View, d views.Data) {
	info := describeError(err)
	logError(err, msg, info.statusCode)

	d.PutAlert(views.Alert{
		Level:   views.AlertLvlError,
		Message: info.message,
	}, v.AlertInBody)

	v.Render(w, r, &d, info.statusCode)
}

// redirectError redirects back with an alert describing the error
func redirectError(w http.ResponseWriter, r *http.Request, err error, msg, dest string) {
	info := describeError(err)
	logError(err, msg, info.statusCode)

	views.RedirectAlert(w, r, dest, views.Alert{
		Level:   views.AlertLvlError,
		Message: info.message,
	})
}

// handleJSONError responds with a JSON error describing the error
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	info := describeError(err)
	logError(err, msg, info.statusCode)

	mw.RespondJSONError(w, info.statusCode, info.message)
}

// backPath returns the path of the referring page on this site, or the fallback
func backPath(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}

	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}

	return helpers.LocalPath(u.RequestURI(), fallback)
}
