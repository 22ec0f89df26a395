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

// Package store defines the contract of the remote row store holding notes,
// reactions and comments, and the records exchanged with it.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotConnected is returned by write operations when the store is unreachable
var ErrNotConnected = errors.New("not connected to the store")

// ID is an opaque store-assigned identifier. The store may hand out numbers
// or strings; both are carried as strings.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "unmarshalling string id")
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(err, "unmarshalling id %s", string(b))
	}
	*id = ID(n.String())

	return nil
}

func (id ID) String() string {
	return string(id)
}

// ReactionType is the kind of a reaction
type ReactionType string

const (
	// ReactionLike is a like
	ReactionLike ReactionType = "like"
	// ReactionDislike is a dislike
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether the reaction type is known
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// ToggleState is the outcome of a reaction toggle in the store
type ToggleState string

const (
	// ToggleAdded means a new reaction row was inserted
	ToggleAdded ToggleState = "added"
	// ToggleUpdated means an existing reaction changed its type
	ToggleUpdated ToggleState = "updated"
	// ToggleRemoved means the existing reaction of the same type was deleted
	ToggleRemoved ToggleState = "removed"
)

// NoteRecord is a note row as stored
type NoteRecord struct {
	ID            ID        `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	DislikesCount int       `json:"dislikes_count"`
	ImageURL      string    `json:"image_url,omitempty"`
}

// NoteDraft is the data needed to create a note
type NoteDraft struct {
	Title    string `json:"title"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url,omitempty"`
	// Likes and Dislikes seed the note counters, normally zero
	Likes    int `json:"likes_count"`
	Dislikes int `json:"dislikes_count"`
}

// ReactionRecord is a like or dislike row
type ReactionRecord struct {
	ID        ID           `json:"id"`
	NoteID    ID           `json:"note_id"`
	UserID    string       `json:"user_id"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// ToggleResult is returned by a reaction toggle. Reaction is the zero value
// when the reaction was removed.
type ToggleResult struct {
	Reaction ReactionRecord
	State    ToggleState
}

// CommentRecord is a comment row
type CommentRecord struct {
	ID        ID        `json:"id"`
	NoteID    ID        `json:"note_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentDraft is the data needed to create a comment
type CommentDraft struct {
	NoteID ID     `json:"note_id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Client is the row store consumed by the sync engine and the admin panel.
//
// Reads fail closed: when the store is not connected they return empty
// results and a nil error. Writes return ErrNotConnected.
type Client interface {
	// Available reports whether the client is configured and can be probed
	Available() bool
	// CheckConnection probes the store. The outcome of the first probe is
	// memoized for the lifetime of the client.
	CheckConnection(ctx context.Context) bool

	GetNotes(ctx context.Context) ([]NoteRecord, error)
	AddNote(ctx context.Context, d NoteDraft) (NoteRecord, error)
	DeleteNote(ctx context.Context, id ID) error
	UpdateNoteStats(ctx context.Context, id ID, likes, dislikes int) error

	GetLikes(ctx context.Context, noteID ID) ([]ReactionRecord, error)
	ToggleLike(ctx context.Context, noteID ID, userID string, t ReactionType) (ToggleResult, error)

	GetComments(ctx context.Context, noteID ID) ([]CommentRecord, error)
	AddComment(ctx context.Context, d CommentDraft) (CommentRecord, error)

	GetTotalLikes(ctx context.Context) (int, error)
	GetTotalComments(ctx context.Context) (int, error)
}

// Resetter is implemented by clients whose memoized connection probe can be cleared
type Resetter interface {
	Reset()
}

// Normalize trims the draft fields and applies the defaults for blank ones
func (d NoteDraft) Normalize() NoteDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Author = DefaultAuthor(d.Author)
	if strings.TrimSpace(d.Subject) == "" {
		d.Subject = "other"
	}
	if d.ImageURL == "null" {
		d.ImageURL = ""
	}

	return d
}

// Normalize trims the draft fields and applies the defaults for blank ones
func (d CommentDraft) Normalize() CommentDraft {
	d.Author = DefaultAuthor(d.Author)
	d.Text = strings.TrimSpace(d.Text)

	return d
}

// AnonymousAuthor is the author given to notes and comments without one
const AnonymousAuthor = "Anonim"

// DefaultAuthor trims the author and falls back to AnonymousAuthor
func DefaultAuthor(author string) string {
	a := strings.TrimSpace(author)
	if a == "" {
		return AnonymousAuthor
	}

	return a
}
