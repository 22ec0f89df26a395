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

// Package engine keeps an in-memory mirror of the notes, reactions and
// comments held by a store.Client. It loads the mirror with bounded retries,
// applies mutations optimistically and computes the views rendered by the
// command line client and the web server.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/retry"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

// State is the phase of the engine
type State string

const (
	// StateUninitialized is the state before Bootstrap
	StateUninitialized State = "uninitialized"
	// StateConnecting is the state while waiting for the store
	StateConnecting State = "connecting"
	// StateRetrying is the state after a failed synchronization attempt
	StateRetrying State = "retrying"
	// StateReady is the state after a synchronization, successful or not
	StateReady State = "ready"
	// StateDegradedEmpty is the state when the store never became available
	StateDegradedEmpty State = "degraded_empty"
)

const (
	// DefaultPollInterval is the wait between two availability checks
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultPollMaxWaits caps the availability wait at about ten seconds
	DefaultPollMaxWaits = 100
	// DefaultMaxAttempts is the number of synchronization attempts
	DefaultMaxAttempts = 5
	// DefaultRetryDelay is the wait between two synchronization attempts
	DefaultRetryDelay = 1500 * time.Millisecond
)

// DefaultPolicy returns the synchronization retry policy
func DefaultPolicy() retry.Policy {
	return retry.Fixed(DefaultMaxAttempts, DefaultRetryDelay)
}

// Note is a note in the mirror
type Note struct {
	ID        store.ID  `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"date"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	ImageURL  string    `json:"image,omitempty"`
}

// Comment is a comment in the mirror
type Comment struct {
	ID        store.ID  `json:"id"`
	NoteID    store.ID  `json:"note_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"date"`
}

// LikeStatus is the reaction of a user to a note along with the note counters
type LikeStatus struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
	Count    int  `json:"count"`
	Dislikes int  `json:"dislikes"`
}

// Status describes the synchronization state
type Status struct {
	State State `json:"state"`
	// Degraded is set when the last synchronization did not succeed
	Degraded    bool      `json:"degraded"`
	Initialized bool      `json:"initialized"`
	Attempts    int       `json:"attempts"`
	LastSync    time.Time `json:"last_sync"`
}

// Params are the parameters of an engine
type Params struct {
	Store store.Client
	Clock clock.Clock
	// UserID is the identity used by the single-user operations
	UserID string
	// Policy defaults to DefaultPolicy
	Policy       retry.Policy
	PollInterval time.Duration
	PollMaxWaits int
}

// Engine owns the mirror
type Engine struct {
	store  store.Client
	clock  clock.Clock
	userID string

	policy       retry.Policy
	pollInterval time.Duration
	pollMaxWaits int

	bootOnce sync.Once
	bootErr  error
	// syncMu serializes synchronization loops
	syncMu sync.Mutex

	mu     sync.RWMutex
	status Status
	notes  []Note
	// reactions maps a note to the reaction type of each user
	reactions map[store.ID]map[string]store.ReactionType
	comments  map[store.ID][]Comment
}

// New returns an engine with an empty mirror. Call Bootstrap to load it.
func New(p Params) (*Engine, error) {
	if p.Store == nil {
		return nil, errors.New("store is required")
	}

	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	policy := p.Policy
	if policy.MaxAttempts == 0 {
		policy = DefaultPolicy()
	}
	interval := p.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	maxWaits := p.PollMaxWaits
	if maxWaits == 0 {
		maxWaits = DefaultPollMaxWaits
	}

	return &Engine{
		store:        p.Store,
		clock:        c,
		userID:       p.UserID,
		policy:       policy,
		pollInterval: interval,
		pollMaxWaits: maxWaits,
		status:       Status{State: StateUninitialized},
		notes:        []Note{},
		reactions:    map[store.ID]map[string]store.ReactionType{},
		comments:     map[store.ID][]Comment{},
	}, nil
}

// Open returns a bootstrapped engine. A degraded bootstrap is not an error
// here; inspect Status to find out.
func Open(ctx context.Context, p Params) (*Engine, error) {
	e, err := New(p)
	if err != nil {
		return nil, err
	}

	if err := e.Bootstrap(ctx); err != nil && errors.Cause(err) != ErrDegraded {
		return nil, errors.Wrap(err, "bootstrapping")
	}

	return e, nil
}

// Status returns the synchronization status
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.status
}

// UserID returns the identity used by the single-user operations
func (e *Engine) UserID() string {
	return e.userID
}

// Store returns the store the engine synchronizes with
func (e *Engine) Store() store.Client {
	return e.store
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.State = s
}
