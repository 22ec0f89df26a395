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


package views

import (
	"net/http"
	"net/url"
	"time"

	"github.com/catatan/catatan/pkg/log"
)

const (
	// AlertLvlError is an alert level for error
	AlertLvlError = "danger"
	// AlertLvlWarning is an alert level for warning
	AlertLvlWarning = "warning"
	// AlertLvlInfo is an alert level for info
	AlertLvlInfo = "info"
	// AlertLvlSuccess is an alert level for success
	AlertLvlSuccess = "success"

	// AlertMsgGeneric is displayed when any random error is encountered by our backend
	AlertMsgGeneric = "Something went wrong. Please try again."

	alertLevelCookie   = "alert_level"
	alertMessageCookie = "alert_message"
)

// Alert is used to render Bootstrap Alert messages in templates
type Alert struct {
	Level   string
	Message string
}

// Data is the top level structure that views expect for data
type Data struct {
	Alert     *Alert
	BodyAlert *Alert
	Title     string
	Admin     bool
	UserID    string
	Degraded  bool
	Yield     map[string]interface{}
}

// PutAlert puts an alert in the data
func (d *Data) PutAlert(alert Alert, alertInBody bool) {
	if alertInBody {
		d.BodyAlert = &alert
	} else {
		d.Alert = &alert
	}
}

// SetAlert sets an alert for the given message. Errors other than a
// PublicError are logged and shown as the generic message.
func (d *Data) SetAlert(err error, alertInBody bool) {
	msg := AlertMsgGeneric

	if pErr, ok := err.(PublicError); ok {
		msg = pErr.Public()
	} else {
		log.ErrorWrap(err, "rendering an alert")
	}

	d.PutAlert(Alert{
		Level:   AlertLvlError,
		Message: msg,
	}, alertInBody)
}

// AlertError returns a new error alert using the given message
func (d *Data) AlertError(msg string, alertInBody bool) {
	d.PutAlert(Alert{
		Level:   AlertLvlError,
		Message: msg,
	}, alertInBody)
}

// PublicError is an error meant to be displayed to the visitor
type PublicError interface {
	error
	Public() string
}

type publicError struct {
	err error
	msg string
}

func (e publicError) Error() string {
	return e.err.Error()
}

func (e publicError) Public() string {
	return e.msg
}

func (e publicError) Cause() error {
	return e.err
}

// NewPublicError wraps the error with a message that is safe to display
func NewPublicError(err error, msg string) error {
	return publicError{err: err, msg: msg}
}

func persistAlert(w http.ResponseWriter, alert Alert) {
	expiresAt := time.Now().Add(5 * time.Minute)
	lvl := http.Cookie{
		Name:     alertLevelCookie,
		Value:    alert.Level,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
	}
	msg := http.Cookie{
		Name:     alertMessageCookie,
		Value:    url.QueryEscape(alert.Message),
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
	}
	http.SetCookie(w, &lvl)
	http.SetCookie(w, &msg)
}

func clearAlert(w http.ResponseWriter) {
	for _, name := range []string{alertLevelCookie, alertMessageCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now(),
			MaxAge:   -1,
			Path:     "/",
			HttpOnly: true,
		})
	}
}

func getAlert(r *http.Request) *Alert {
	lvl, err := r.Cookie(alertLevelCookie)
	if err != nil {
		return nil
	}
	msg, err := r.Cookie(alertMessageCookie)
	if err != nil {
		return nil
	}

	message, err := url.QueryUnescape(msg.Value)
	if err != nil {
		return nil
	}

	return &Alert{
		Level:   lvl.Value,
		Message: message,
	}
}

// RedirectAlert redirects to the url and shows the alert on the next page
func RedirectAlert(w http.ResponseWriter, r *http.Request, urlStr string, alert Alert) {
	persistAlert(w, alert)
	http.Redirect(w, r, urlStr, http.StatusFound)
}
