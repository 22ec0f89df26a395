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


// Package session keeps the user identity and the admin session in signed
// cookies
package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
)

const (
	// UserCookieName is the name of the cookie holding the user identity
	UserCookieName = "catatan_uid"
	// AdminCookieName is the name of the cookie holding the admin session
	AdminCookieName = "catatan_admin"

	// userCookieMaxAge keeps the identity for a year
	userCookieMaxAge = 365 * 24 * 60 * 60
)

// Keys are the secrets derived from the session secret
type Keys struct {
	Hash  []byte
	Block []byte
	CSRF  []byte
}

func derive(secret, label string) []byte {
	sum := sha256.Sum256([]byte(label + ":" + secret))
	return sum[:]
}

// NewKeys derives the cookie and CSRF keys from the secret. An empty secret
// yields random keys, which invalidates the cookies on restart.
func NewKeys(secret string) Keys {
	if secret == "" {
		return Keys{
			Hash:  securecookie.GenerateRandomKey(32),
			Block: securecookie.GenerateRandomKey(32),
			CSRF:  securecookie.GenerateRandomKey(32),
		}
	}

	return Keys{
		Hash:  derive(secret, "hash"),
		Block: derive(secret, "block"),
		CSRF:  derive(secret, "csrf"),
	}
}

// Manager reads and writes the session cookies
type Manager struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewManager returns a manager. Secure marks the cookies for HTTPS only.
func NewManager(k Keys, secure bool) *Manager {
	codec := securecookie.New(k.Hash, k.Block)
	codec.MaxAge(userCookieMaxAge)

	return &Manager{codec: codec, secure: secure}
}

func (m *Manager) set(w http.ResponseWriter, name string, value interface{}, expires time.Time) error {
	encoded, err := m.codec.Encode(name, value)
	if err != nil {
		return errors.Wrapf(err, "encoding cookie %s", name)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (m *Manager) get(r *http.Request, name string, dest interface{}) bool {
	c, err := r.Cookie(name)
	if err != nil {
		return false
	}

	return m.codec.Decode(name, c.Value, dest) == nil
}

func unset(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

// UserID returns the identity in the request cookie. A missing or tampered
// cookie gives false.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	var id string
	if !m.get(r, UserCookieName, &id) || id == "" {
		return "", false
	}

	return id, true
}

// SetUserID writes the identity cookie
func (m *Manager) SetUserID(w http.ResponseWriter, id string, now time.Time) error {
	return m.set(w, UserCookieName, id, now.Add(userCookieMaxAge*time.Second))
}

// adminValue is the encoded admin session
type adminValue struct {
	AuthenticatedAt int64
}

// Admin returns the admin session in the request cookie. The zero value
// means logged out. The caller checks the login window.
func (m *Manager) Admin(r *http.Request) admin.Session {
	var v adminValue
	if !m.get(r, AdminCookieName, &v) || v.AuthenticatedAt == 0 {
		return admin.Session{}
	}

	return admin.Session{AuthenticatedAt: time.Unix(v.AuthenticatedAt, 0)}
}

// SetAdmin writes the admin session cookie, expiring with the login window
func (m *Manager) SetAdmin(w http.ResponseWriter, s admin.Session) error {
	v := adminValue{AuthenticatedAt: s.AuthenticatedAt.Unix()}

	return m.set(w, AdminCookieName, v, s.AuthenticatedAt.Add(admin.SessionWindow))
}

// ClearAdmin removes the admin session cookie
func (m *Manager) ClearAdmin(w http.ResponseWriter) {
	unset(w, AdminCookieName)
}
