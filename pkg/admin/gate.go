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

// Package admin implements the password gate in front of the admin panel
// and the panel operations. The gate only controls what the UI shows; the
// store enforces its own access rules.
package admin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/catatan/catatan/pkg/clock"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// SessionWindow is how long an admin login stays valid
const SessionWindow = 2 * time.Hour

var (
	// ErrNoDigest is returned when no password digest is configured
	ErrNoDigest = errors.New("admin password digest is not configured")
	// ErrPasswordRequired is returned for an empty password
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidPassword is returned when the password does not match the digest
	ErrInvalidPassword = errors.New("wrong admin password")
)

// Session records when the admin logged in. The zero value is logged out.
type Session struct {
	AuthenticatedAt time.Time
}

// Gate verifies admin passwords against a digest. The digest is either a
// bcrypt hash or the hex encoded SHA-256 of the password.
type Gate struct {
	digest string
	clock  clock.Clock
}

// NewGate returns a gate for the digest
func NewGate(digest string, c clock.Clock) *Gate {
	if c == nil {
		c = clock.New()
	}

	return &Gate{
		digest: strings.TrimSpace(digest),
		clock:  c,
	}
}

// Configured reports whether a digest is set
func (g *Gate) Configured() bool {
	return g.digest != ""
}

// SHA256Hex returns the hex encoded SHA-256 digest of the password
func SHA256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPassword returns a bcrypt digest of the password
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}

	return string(b), nil
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}

// Verify reports whether the password matches the digest
func (g *Gate) Verify(password string) bool {
	if g.digest == "" || password == "" {
		return false
	}

	if isBcrypt(g.digest) {
		return bcrypt.CompareHashAndPassword([]byte(g.digest), []byte(password)) == nil
	}

	got := SHA256Hex(password)
	want := strings.ToLower(g.digest)

	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Login verifies the password and returns a session starting now
func (g *Gate) Login(password string) (Session, error) {
	if !g.Configured() {
		return Session{}, ErrNoDigest
	}
	if password == "" {
		return Session{}, ErrPasswordRequired
	}
	if !g.Verify(password) {
		return Session{}, ErrInvalidPassword
	}

	return Session{AuthenticatedAt: g.clock.Now()}, nil
}

// Valid reports whether the session is within the login window
func (g *Gate) Valid(s Session) bool {
	if s.AuthenticatedAt.IsZero() {
		return false
	}

	elapsed := g.clock.Now().Sub(s.AuthenticatedAt)
	return elapsed >= 0 && elapsed < SessionWindow
}

// ExpiresAt returns when the session stops being valid
func (g *Gate) ExpiresAt(s Session) time.Time {
	return s.AuthenticatedAt.Add(SessionWindow)
}
