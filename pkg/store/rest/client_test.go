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

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Prefer string
	Body   string
}

// fakeServer records requests and answers them with the handler
type fakeServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Prefer: r.Header.Get("Prefer"),
		Body:   string(b),
	})
	f.mu.Unlock()

	if r.Method == http.MethodHead && r.URL.Path == "/rest/v1/notes" {
		w.WriteHeader(http.StatusOK)
		return
	}

	f.handler(w, r)
}

func (f *fakeServer) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	ret := make([]recordedRequest, len(f.requests))
	copy(ret, f.requests)
	return ret
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setup(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeServer) {
	f := &fakeServer{handler: handler}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)

	c := New(Config{URL: ts.URL + "/", Key: "anon-key", HTTPClient: ts.Client()})
	return c, f
}

func TestAvailable(t *testing.T) {
	testCases := []struct {
		url      string
		key      string
		expected bool
	}{
		{"https://x.supabase.co", "k", true},
		{"", "k", false},
		{"https://x.supabase.co", "", false},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			c := New(Config{URL: tc.url, Key: tc.key})
			assert.Equal(t, c.Available(), tc.expected, "result mismatch")
		})
	}
}

func TestCheckConnectionMemoized(t *testing.T) {
	var probes int
	var mu sync.Mutex
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		probes++
		mu.Unlock()

		assert.Equal(t, r.Header.Get("apikey"), "anon-key", "apikey mismatch")
		assert.Equal(t, r.Header.Get("Authorization"), "Bearer anon-key", "authorization mismatch")
		assert.Equal(t, r.Header.Get("Prefer"), "count=exact", "prefer mismatch")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(Config{URL: ts.URL, Key: "anon-key", HTTPClient: ts.Client()})
	ctx := context.Background()

	assert.Equal(t, c.CheckConnection(ctx), false, "first probe")
	assert.Equal(t, c.CheckConnection(ctx), false, "memoized probe")
	assert.Equal(t, probes, 1, "probe count")

	c.Reset()
	c.CheckConnection(ctx)
	assert.Equal(t, probes, 2, "probe count after reset")
}

func TestDisconnected(t *testing.T) {
	c := New(Config{})
	ctx := context.Background()

	notes, err := c.GetNotes(ctx)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting notes"))
	}
	assert.Equal(t, len(notes), 0, "notes length")

	likes, err := c.GetLikes(ctx, "1")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting likes"))
	}
	assert.Equal(t, len(likes), 0, "likes length")

	_, err = c.AddNote(ctx, store.NoteDraft{Title: "a", Content: "b"})
	assert.Equal(t, errors.Cause(err), store.ErrNotConnected, "add note error")

	err = c.DeleteNote(ctx, "1")
	assert.Equal(t, errors.Cause(err), store.ErrNotConnected, "delete note error")

	_, err = c.ToggleLike(ctx, "1", "user_a", store.ReactionLike)
	assert.Equal(t, errors.Cause(err), store.ErrNotConnected, "toggle error")
}

func TestGetNotes(t *testing.T) {
	c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 2, "title": "Shorof", "subject": "shorof", "likes_count": 3, "created_at": "2026-10-15T10:00:00+00:00"},
			{"id": 1, "title": "Nahwu", "subject": nil, "likes_count": nil, "created_at": "2026-10-14T10:00:00+00:00"},
		})
	})

	notes, err := c.GetNotes(context.Background())
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting notes"))
	}

	assert.Equal(t, len(notes), 2, "notes length")
	assert.Equal(t, notes[0].ID, store.ID("2"), "first id")
	assert.Equal(t, notes[0].LikesCount, 3, "first likes")
	assert.Equal(t, notes[1].Subject, "", "null subject")

	reqs := f.recorded()
	assert.Equal(t, len(reqs), 2, "request count")
	assert.Equal(t, reqs[1].Method, http.MethodGet, "method")
	assert.Equal(t, reqs[1].Path, "/rest/v1/notes", "path")
	assert.Equal(t, reqs[1].Query, "order=created_at.desc&select=%2A", "query")
}

func TestGetNotesError(t *testing.T) {
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom\n"))
	})

	_, err := c.GetNotes(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	httpErr, ok := errors.Cause(err).(*HTTPError)
	if !ok {
		t.Fatalf("expected an HTTPError, got %T", errors.Cause(err))
	}
	assert.Equal(t, httpErr.StatusCode, http.StatusInternalServerError, "status code")
	assert.Equal(t, httpErr.Message, "boom", "message")
}

func TestGetNotesContentType(t *testing.T) {
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	})

	_, err := c.GetNotes(context.Background())
	assert.Equal(t, errors.Cause(err), ErrContentTypeMismatch, "error mismatch")
}

func TestAddNote(t *testing.T) {
	c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []map[string]interface{}{
			{"id": 9, "title": "Tahsin", "subject": "tahsin", "author": "Anonim", "created_at": "2026-10-15T10:00:00+00:00"},
		})
	})

	n, err := c.AddNote(context.Background(), store.NoteDraft{Title: " Tahsin ", Subject: "tahsin", Content: "isi"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding note"))
	}
	assert.Equal(t, n.ID, store.ID("9"), "id mismatch")

	req := f.recorded()[1]
	assert.Equal(t, req.Method, http.MethodPost, "method")
	assert.Equal(t, req.Prefer, "return=representation", "prefer")
	assert.EqualJSON(t, req.Body, `[{"title":"Tahsin","subject":"tahsin","content":"isi","author":"Anonim","likes_count":0,"dislikes_count":0}]`, "body")
}

func TestDeleteNote(t *testing.T) {
	t.Run("dependents fail", func(t *testing.T) {
		c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/rest/v1/notes" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})

		if err := c.DeleteNote(context.Background(), "4"); err != nil {
			t.Fatal(errors.Wrap(err, "deleting note"))
		}

		reqs := f.recorded()
		assert.Equal(t, len(reqs), 4, "request count")
		assert.Equal(t, reqs[1].Path, "/rest/v1/likes", "likes first")
		assert.Equal(t, reqs[1].Query, "note_id=eq.4", "likes query")
		assert.Equal(t, reqs[2].Path, "/rest/v1/comments", "comments second")
		assert.Equal(t, reqs[3].Path, "/rest/v1/notes", "note last")
		assert.Equal(t, reqs[3].Query, "id=eq.4", "note query")
	})

	t.Run("note fails", func(t *testing.T) {
		c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/rest/v1/notes" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		err := c.DeleteNote(context.Background(), "4")
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestUpdateNoteStats(t *testing.T) {
	c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.UpdateNoteStats(context.Background(), "3", 5, 1); err != nil {
		t.Fatal(errors.Wrap(err, "updating stats"))
	}

	req := f.recorded()[1]
	assert.Equal(t, req.Method, http.MethodPatch, "method")
	assert.Equal(t, req.Query, "id=eq.3", "query")
	assert.EqualJSON(t, req.Body, `{"likes_count":5,"dislikes_count":1}`, "body")
}

func TestToggleLike(t *testing.T) {
	testCases := []struct {
		name          string
		existing      []map[string]interface{}
		reaction      store.ReactionType
		expectedState store.ToggleState
		expectedCall  string
	}{
		{
			name:          "no reaction",
			existing:      []map[string]interface{}{},
			reaction:      store.ReactionLike,
			expectedState: store.ToggleAdded,
			expectedCall:  http.MethodPost,
		},
		{
			name:          "same reaction",
			existing:      []map[string]interface{}{{"id": 11, "note_id": 1, "user_id": "user_a", "type": "like"}},
			reaction:      store.ReactionLike,
			expectedState: store.ToggleRemoved,
			expectedCall:  http.MethodDelete,
		},
		{
			name:          "other reaction",
			existing:      []map[string]interface{}{{"id": 11, "note_id": 1, "user_id": "user_a", "type": "like"}},
			reaction:      store.ReactionDislike,
			expectedState: store.ToggleUpdated,
			expectedCall:  http.MethodPatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					writeJSON(w, http.StatusOK, tc.existing)
				case http.MethodDelete:
					w.WriteHeader(http.StatusNoContent)
				default:
					writeJSON(w, http.StatusOK, []map[string]interface{}{
						{"id": 11, "note_id": 1, "user_id": "user_a", "type": string(tc.reaction)},
					})
				}
			})

			res, err := c.ToggleLike(context.Background(), "1", "user_a", tc.reaction)
			if err != nil {
				t.Fatal(errors.Wrap(err, "toggling"))
			}

			assert.Equal(t, res.State, tc.expectedState, "state mismatch")

			reqs := f.recorded()
			assert.Equal(t, len(reqs), 3, "request count")
			assert.Equal(t, reqs[1].Query, "note_id=eq.1&select=%2A&user_id=eq.user_a", "lookup query")
			assert.Equal(t, reqs[2].Method, tc.expectedCall, "write method")
			if tc.expectedState != store.ToggleRemoved {
				assert.Equal(t, res.Reaction.Type, tc.reaction, "reaction type")
			}
		})
	}
}

func TestGetComments(t *testing.T) {
	c, f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "note_id": 5, "author": "Umar", "text": "bagus", "created_at": "2026-10-15T10:00:00+00:00"},
		})
	})

	cs, err := c.GetComments(context.Background(), "5")
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting comments"))
	}

	assert.Equal(t, len(cs), 1, "comments length")
	assert.Equal(t, cs[0].NoteID, store.ID("5"), "note id")
	assert.Equal(t, f.recorded()[1].Query, "note_id=eq.5&order=created_at.asc&select=%2A", "query")
}

func TestGetTotals(t *testing.T) {
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Range", "0-24/57")
			w.WriteHeader(http.StatusOK)
			return
		}

		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"likes_count": 4}, {"likes_count": nil}, {"likes_count": 6},
		})
	})

	likes, err := c.GetTotalLikes(context.Background())
	if err != nil {
		t.Fatal(errors.Wrap(err, "total likes"))
	}
	assert.Equal(t, likes, 10, "total likes")

	comments, err := c.GetTotalComments(context.Background())
	if err != nil {
		t.Fatal(errors.Wrap(err, "total comments"))
	}
	assert.Equal(t, comments, 57, "total comments")
}

func TestParseContentRange(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		err      bool
	}{
		{"0-24/57", 57, false},
		{"*/0", 0, false},
		{"0-9/*", 0, true},
		{"", 0, true},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			got, err := parseContentRange(tc.input)
			assert.Equal(t, err != nil, tc.err, "error mismatch")
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}
