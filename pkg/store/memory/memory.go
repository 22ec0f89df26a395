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

// Package memory provides an in-process store.Client. Failures can be
// injected per operation, which makes it the backing store of most tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

// Failures holds the errors returned by the corresponding operations.
// A nil error lets the operation proceed.
type Failures struct {
	GetNotes        error
	GetLikes        map[store.ID]error
	GetComments     map[store.ID]error
	AddNote         error
	AddComment      error
	ToggleLike      error
	UpdateNoteStats error
	DeleteLikes     error
	DeleteComments  error
	DeleteNote      error
	TotalLikes      error
	TotalComments   error
}

// Store is an in-memory implementation of store.Client
type Store struct {
	mu    sync.Mutex
	clock clock.Clock

	notes    []store.NoteRecord
	likes    []store.ReactionRecord
	comments []store.CommentRecord
	lastID   int

	unavailable   bool
	probeFailures int
	probes        int
	checked       bool
	connected     bool

	failures Failures
	calls    map[string]int
}

var _ store.Client = (*Store)(nil)
var _ store.Resetter = (*Store)(nil)

// New returns an empty, reachable store
func New(c clock.Clock) *Store {
	if c == nil {
		c = clock.New()
	}

	return &Store{
		clock: c,
		calls: map[string]int{},
	}
}

// SetUnavailable makes Available report false and probes fail
func (s *Store) SetUnavailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = v
}

// SetProbeFailures makes the first n connection probes fail
func (s *Store) SetProbeFailures(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeFailures = n
}

// SetFailures replaces the injected failures
func (s *Store) SetFailures(f Failures) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = f
}

// Calls returns how many times the named operation was called
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) nextID() store.ID {
	s.lastID++
	return store.ID(strconv.Itoa(s.lastID))
}

// SeedNote inserts a note record as is, assigning an id if it has none
func (s *Store) SeedNote(n store.NoteRecord) store.NoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = s.nextID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}
	s.notes = append(s.notes, n)

	return n
}

// SeedReaction inserts a reaction record as is
func (s *Store) SeedReaction(r store.ReactionRecord) store.ReactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.nextID()
	}
	s.likes = append(s.likes, r)

	return r
}

// SeedComment inserts a comment record as is
func (s *Store) SeedComment(c store.CommentRecord) store.CommentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}
	s.comments = append(s.comments, c)

	return c
}

// Note returns the stored note with the given id
func (s *Store) Note(id store.ID) (store.NoteRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}

	return store.NoteRecord{}, false
}

// Reactions returns every stored reaction
func (s *Store) Reactions() []store.ReactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret := make([]store.ReactionRecord, len(s.likes))
	copy(ret, s.likes)

	return ret
}

// NoteCount returns the number of stored notes
func (s *Store) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// CommentCount returns the number of stored comments
func (s *Store) CommentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

// Available implements store.Client
func (s *Store) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unavailable
}

// CheckConnection implements store.Client
func (s *Store) CheckConnection(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkLocked()
}

func (s *Store) checkLocked() bool {
	if s.checked {
		return s.connected
	}

	s.calls["CheckConnection"]++
	s.probes++
	s.connected = !s.unavailable && s.probes > s.probeFailures
	s.checked = true

	return s.connected
}

// Reset implements store.Resetter
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = false
	s.connected = false
}

// begin counts the call and reports whether the store is connected
func (s *Store) begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[op]++
	return s.checkLocked()
}

// GetNotes implements store.Client
func (s *Store) GetNotes(ctx context.Context) ([]store.NoteRecord, error) {
	if !s.begin("GetNotes") {
		return []store.NoteRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.GetNotes != nil {
		return nil, s.failures.GetNotes
	}

	ret := make([]store.NoteRecord, len(s.notes))
	copy(ret, s.notes)
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].CreatedAt.After(ret[j].CreatedAt)
	})

	return ret, nil
}

// AddNote implements store.Client
func (s *Store) AddNote(ctx context.Context, d store.NoteDraft) (store.NoteRecord, error) {
	if !s.begin("AddNote") {
		return store.NoteRecord{}, store.ErrNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.AddNote != nil {
		return store.NoteRecord{}, s.failures.AddNote
	}

	d = d.Normalize()
	n := store.NoteRecord{
		ID:            s.nextID(),
		Title:         d.Title,
		Subject:       d.Subject,
		Content:       d.Content,
		Author:        d.Author,
		ImageURL:      d.ImageURL,
		LikesCount:    d.Likes,
		DislikesCount: d.Dislikes,
		CreatedAt:     s.clock.Now(),
	}
	s.notes = append(s.notes, n)

	return n, nil
}

// DeleteNote implements store.Client. Dependent rows are removed before the
// note row. A failure on dependent rows is logged and does not stop the note deletion.
func (s *Store) DeleteNote(ctx context.Context, id store.ID) error {
	if !s.begin("DeleteNote") {
		return store.ErrNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures.DeleteLikes; err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting likes of note")
	} else {
		s.likes = filterReactions(s.likes, func(r store.ReactionRecord) bool { return r.NoteID != id })
	}
	if err := s.failures.DeleteComments; err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting comments of note")
	} else {
		s.comments = filterComments(s.comments, func(c store.CommentRecord) bool { return c.NoteID != id })
	}

	if s.failures.DeleteNote != nil {
		return errors.Wrap(s.failures.DeleteNote, "deleting note")
	}

	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes = kept

	return nil
}

// UpdateNoteStats implements store.Client
func (s *Store) UpdateNoteStats(ctx context.Context, id store.ID, likes, dislikes int) error {
	if !s.begin("UpdateNoteStats") {
		return store.ErrNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.UpdateNoteStats != nil {
		return s.failures.UpdateNoteStats
	}

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].LikesCount = likes
			s.notes[i].DislikesCount = dislikes
		}
	}

	return nil
}

// GetLikes implements store.Client
func (s *Store) GetLikes(ctx context.Context, noteID store.ID) ([]store.ReactionRecord, error) {
	if !s.begin("GetLikes") {
		return []store.ReactionRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures.GetLikes[noteID]; err != nil {
		return nil, err
	}

	return filterReactions(s.likes, func(r store.ReactionRecord) bool { return r.NoteID == noteID }), nil
}

// ToggleLike implements store.Client
func (s *Store) ToggleLike(ctx context.Context, noteID store.ID, userID string, t store.ReactionType) (store.ToggleResult, error) {
	if !s.begin("ToggleLike") {
		return store.ToggleResult{}, store.ErrNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.ToggleLike != nil {
		return store.ToggleResult{}, s.failures.ToggleLike
	}

	for i, r := range s.likes {
		if r.NoteID != noteID || r.UserID != userID {
			continue
		}

		if r.Type == t {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			return store.ToggleResult{State: store.ToggleRemoved}, nil
		}

		s.likes[i].Type = t
		return store.ToggleResult{Reaction: s.likes[i], State: store.ToggleUpdated}, nil
	}

	r := store.ReactionRecord{
		ID:        s.nextID(),
		NoteID:    noteID,
		UserID:    userID,
		Type:      t,
		CreatedAt: s.clock.Now(),
	}
	s.likes = append(s.likes, r)

	return store.ToggleResult{Reaction: r, State: store.ToggleAdded}, nil
}

// GetComments implements store.Client
func (s *Store) GetComments(ctx context.Context, noteID store.ID) ([]store.CommentRecord, error) {
	if !s.begin("GetComments") {
		return []store.CommentRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures.GetComments[noteID]; err != nil {
		return nil, err
	}

	ret := filterComments(s.comments, func(c store.CommentRecord) bool { return c.NoteID == noteID })
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})

	return ret, nil
}

// AddComment implements store.Client
func (s *Store) AddComment(ctx context.Context, d store.CommentDraft) (store.CommentRecord, error) {
	if !s.begin("AddComment") {
		return store.CommentRecord{}, store.ErrNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.AddComment != nil {
		return store.CommentRecord{}, s.failures.AddComment
	}

	d = d.Normalize()
	c := store.CommentRecord{
		ID:        s.nextID(),
		NoteID:    d.NoteID,
		Author:    d.Author,
		Text:      d.Text,
		CreatedAt: s.clock.Now(),
	}
	s.comments = append(s.comments, c)

	return c, nil
}

// GetTotalLikes implements store.Client
func (s *Store) GetTotalLikes(ctx context.Context) (int, error) {
	if !s.begin("GetTotalLikes") {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.TotalLikes != nil {
		return 0, s.failures.TotalLikes
	}

	total := 0
	for _, n := range s.notes {
		total += n.LikesCount
	}

	return total, nil
}

// GetTotalComments implements store.Client
func (s *Store) GetTotalComments(ctx context.Context) (int, error) {
	if !s.begin("GetTotalComments") {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures.TotalComments != nil {
		return 0, s.failures.TotalComments
	}

	return len(s.comments), nil
}

func filterReactions(rs []store.ReactionRecord, keep func(store.ReactionRecord) bool) []store.ReactionRecord {
	ret := []store.ReactionRecord{}
	for _, r := range rs {
		if keep(r) {
			ret = append(ret, r)
		}
	}

	return ret
}

func filterComments(cs []store.CommentRecord, keep func(store.CommentRecord) bool) []store.CommentRecord {
	ret := []store.CommentRecord{}
	for _, c := range cs {
		if keep(c) {
			ret = append(ret, c)
		}
	}

	return ret
}
