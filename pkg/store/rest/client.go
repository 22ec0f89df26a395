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

// Package rest provides a store.Client for a PostgREST row store, such as
// the one exposed by a hosted Supabase project.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	tableNotes    = "notes"
	tableLikes    = "likes"
	tableComments = "comments"

	restPath = "/rest/v1/"
)

// ErrContentTypeMismatch is an error for a response that is not JSON
var ErrContentTypeMismatch = errors.New("content type mismatch")

// HTTPError represents an HTTP error response from the store
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting. The fan-out
	// of a full load issues two requests per note at once.
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

// Config is the configuration of a Client
type Config struct {
	// URL is the project URL, without the /rest/v1 suffix
	URL string
	// Key is the API key sent as both apikey and bearer token
	Key        string
	HTTPClient *http.Client
}

// Client talks to the row store over HTTP
type Client struct {
	baseURL string
	key     string
	hc      *http.Client

	mu        sync.Mutex
	checked   bool
	connected bool
}

var _ store.Client = (*Client)(nil)
var _ store.Resetter = (*Client)(nil)

// New returns a new client
func New(c Config) *Client {
	hc := c.HTTPClient
	if hc == nil {
		hc = NewRateLimitedHTTPClient()
	}

	return &Client{
		baseURL: strings.TrimRight(c.URL, "/"),
		key:     c.Key,
		hc:      hc,
	}
}

type requestOptions struct {
	query  url.Values
	body   interface{}
	prefer string
}

func (c *Client) newReq(ctx context.Context, method, table string, o requestOptions) (*http.Request, error) {
	endpoint := c.baseURL + restPath + table
	if len(o.query) > 0 {
		endpoint = endpoint + "?" + o.query.Encode()
	}

	var body io.Reader
	if o.body != nil {
		b, err := json.Marshal(o.body)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling payload")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.key))
	req.Header.Set("Accept", "application/json")
	if o.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.prefer != "" {
		req.Header.Set("Prefer", o.prefer)
	}

	return req, nil
}

// checkRespErr checks if the given http response indicates an error
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "store responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

func checkContentType(res *http.Response) error {
	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, "application/json") {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s'. Is the store URL configured correctly?", got)
	}

	return nil
}

// do performs the request and decodes the JSON response into dest, if given
func (c *Client) do(ctx context.Context, method, table string, o requestOptions, dest interface{}) (*http.Response, error) {
	req, err := c.newReq(ctx, method, table, o)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.WithFields(log.Fields{
		"method": method,
		"table":  table,
	}).Debug("store request")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	if err := checkRespErr(res); err != nil {
		return res, errors.Wrap(err, "store responded with an error")
	}

	if dest == nil {
		io.Copy(io.Discard, res.Body)
		return res, nil
	}

	if err := checkContentType(res); err != nil {
		return res, errors.Wrap(err, "unexpected Content-Type")
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return res, errors.Wrap(err, "decoding response payload")
	}

	return res, nil
}

func eq(v interface{}) string {
	return fmt.Sprintf("eq.%v", v)
}

// parseContentRange returns the total of a Content-Range header such as "0-24/57" or "*/0"
func parseContentRange(h string) (int, error) {
	idx := strings.LastIndex(h, "/")
	if idx == -1 {
		return 0, errors.Errorf("malformed Content-Range '%s'", h)
	}

	total := h[idx+1:]
	if total == "*" {
		return 0, errors.Errorf("Content-Range without a total '%s'", h)
	}

	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing Content-Range total '%s'", h)
	}

	return n, nil
}

// Available implements store.Client
func (c *Client) Available() bool {
	return c.baseURL != "" && c.key != ""
}

// CheckConnection implements store.Client
func (c *Client) CheckConnection(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checked {
		return c.connected
	}

	c.connected = c.probe(ctx)
	c.checked = true

	return c.connected
}

func (c *Client) probe(ctx context.Context) bool {
	if !c.Available() {
		return false
	}

	q := url.Values{}
	q.Set("select", "count")
	q.Set("limit", "1")

	if _, err := c.do(ctx, http.MethodHead, tableNotes, requestOptions{query: q, prefer: "count=exact"}, nil); err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Warn("store connection probe failed")
		return false
	}

	return true
}

// Reset implements store.Resetter
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checked = false
	c.connected = false
}

// GetNotes implements store.Client
func (c *Client) GetNotes(ctx context.Context) ([]store.NoteRecord, error) {
	if !c.CheckConnection(ctx) {
		return []store.NoteRecord{}, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	ret := []store.NoteRecord{}
	if _, err := c.do(ctx, http.MethodGet, tableNotes, requestOptions{query: q}, &ret); err != nil {
		return nil, errors.Wrap(err, "fetching notes")
	}

	return ret, nil
}

// AddNote implements store.Client
func (c *Client) AddNote(ctx context.Context, d store.NoteDraft) (store.NoteRecord, error) {
	if !c.CheckConnection(ctx) {
		return store.NoteRecord{}, store.ErrNotConnected
	}

	var ret []store.NoteRecord
	o := requestOptions{
		body:   []store.NoteDraft{d.Normalize()},
		prefer: "return=representation",
	}
	if _, err := c.do(ctx, http.MethodPost, tableNotes, o, &ret); err != nil {
		return store.NoteRecord{}, errors.Wrap(err, "inserting note")
	}
	if len(ret) == 0 {
		return store.NoteRecord{}, errors.New("store returned no note after insert")
	}

	return ret[0], nil
}

// DeleteNote implements store.Client
func (c *Client) DeleteNote(ctx context.Context, id store.ID) error {
	if !c.CheckConnection(ctx) {
		return store.ErrNotConnected
	}

	byNote := url.Values{}
	byNote.Set("note_id", eq(id))

	if _, err := c.do(ctx, http.MethodDelete, tableLikes, requestOptions{query: byNote}, nil); err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting likes of note")
	}
	if _, err := c.do(ctx, http.MethodDelete, tableComments, requestOptions{query: byNote}, nil); err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting comments of note")
	}

	byID := url.Values{}
	byID.Set("id", eq(id))
	if _, err := c.do(ctx, http.MethodDelete, tableNotes, requestOptions{query: byID}, nil); err != nil {
		return errors.Wrapf(err, "deleting note %s", id)
	}

	return nil
}

type noteStats struct {
	LikesCount    int `json:"likes_count"`
	DislikesCount int `json:"dislikes_count"`
}

// UpdateNoteStats implements store.Client. The counters are overwritten.
func (c *Client) UpdateNoteStats(ctx context.Context, id store.ID, likes, dislikes int) error {
	if !c.CheckConnection(ctx) {
		return store.ErrNotConnected
	}

	q := url.Values{}
	q.Set("id", eq(id))

	o := requestOptions{
		query: q,
		body:  noteStats{LikesCount: likes, DislikesCount: dislikes},
	}
	if _, err := c.do(ctx, http.MethodPatch, tableNotes, o, nil); err != nil {
		return errors.Wrapf(err, "updating stats of note %s", id)
	}

	return nil
}

// GetLikes implements store.Client
func (c *Client) GetLikes(ctx context.Context, noteID store.ID) ([]store.ReactionRecord, error) {
	if !c.CheckConnection(ctx) {
		return []store.ReactionRecord{}, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("note_id", eq(noteID))

	ret := []store.ReactionRecord{}
	if _, err := c.do(ctx, http.MethodGet, tableLikes, requestOptions{query: q}, &ret); err != nil {
		return nil, errors.Wrapf(err, "fetching likes of note %s", noteID)
	}

	return ret, nil
}

type reactionPayload struct {
	NoteID store.ID           `json:"note_id,omitempty"`
	UserID string             `json:"user_id,omitempty"`
	Type   store.ReactionType `json:"type"`
}

// ToggleLike implements store.Client
func (c *Client) ToggleLike(ctx context.Context, noteID store.ID, userID string, t store.ReactionType) (store.ToggleResult, error) {
	if !c.CheckConnection(ctx) {
		return store.ToggleResult{}, store.ErrNotConnected
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("note_id", eq(noteID))
	q.Set("user_id", eq(userID))

	var existing []store.ReactionRecord
	if _, err := c.do(ctx, http.MethodGet, tableLikes, requestOptions{query: q}, &existing); err != nil {
		return store.ToggleResult{}, errors.Wrap(err, "finding existing reaction")
	}

	if len(existing) > 0 {
		r := existing[0]
		byID := url.Values{}
		byID.Set("id", eq(r.ID))

		if r.Type == t {
			if _, err := c.do(ctx, http.MethodDelete, tableLikes, requestOptions{query: byID}, nil); err != nil {
				return store.ToggleResult{}, errors.Wrap(err, "removing reaction")
			}

			return store.ToggleResult{State: store.ToggleRemoved}, nil
		}

		var updated []store.ReactionRecord
		o := requestOptions{
			query:  byID,
			body:   reactionPayload{Type: t},
			prefer: "return=representation",
		}
		if _, err := c.do(ctx, http.MethodPatch, tableLikes, o, &updated); err != nil {
			return store.ToggleResult{}, errors.Wrap(err, "updating reaction")
		}

		ret := store.ToggleResult{Reaction: r, State: store.ToggleUpdated}
		ret.Reaction.Type = t
		if len(updated) > 0 {
			ret.Reaction = updated[0]
		}

		return ret, nil
	}

	var inserted []store.ReactionRecord
	o := requestOptions{
		body:   []reactionPayload{{NoteID: noteID, UserID: userID, Type: t}},
		prefer: "return=representation",
	}
	if _, err := c.do(ctx, http.MethodPost, tableLikes, o, &inserted); err != nil {
		return store.ToggleResult{}, errors.Wrap(err, "inserting reaction")
	}

	ret := store.ToggleResult{State: store.ToggleAdded}
	if len(inserted) > 0 {
		ret.Reaction = inserted[0]
	}

	return ret, nil
}

// GetComments implements store.Client
func (c *Client) GetComments(ctx context.Context, noteID store.ID) ([]store.CommentRecord, error) {
	if !c.CheckConnection(ctx) {
		return []store.CommentRecord{}, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("note_id", eq(noteID))
	q.Set("order", "created_at.asc")

	ret := []store.CommentRecord{}
	if _, err := c.do(ctx, http.MethodGet, tableComments, requestOptions{query: q}, &ret); err != nil {
		return nil, errors.Wrapf(err, "fetching comments of note %s", noteID)
	}

	return ret, nil
}

// AddComment implements store.Client
func (c *Client) AddComment(ctx context.Context, d store.CommentDraft) (store.CommentRecord, error) {
	if !c.CheckConnection(ctx) {
		return store.CommentRecord{}, store.ErrNotConnected
	}

	var ret []store.CommentRecord
	o := requestOptions{
		body:   []store.CommentDraft{d.Normalize()},
		prefer: "return=representation",
	}
	if _, err := c.do(ctx, http.MethodPost, tableComments, o, &ret); err != nil {
		return store.CommentRecord{}, errors.Wrap(err, "inserting comment")
	}
	if len(ret) == 0 {
		return store.CommentRecord{}, errors.New("store returned no comment after insert")
	}

	return ret[0], nil
}

// GetTotalLikes implements store.Client
func (c *Client) GetTotalLikes(ctx context.Context) (int, error) {
	if !c.CheckConnection(ctx) {
		return 0, nil
	}

	q := url.Values{}
	q.Set("select", "likes_count")

	var rows []noteStats
	if _, err := c.do(ctx, http.MethodGet, tableNotes, requestOptions{query: q}, &rows); err != nil {
		return 0, errors.Wrap(err, "fetching like counters")
	}

	total := 0
	for _, r := range rows {
		total += r.LikesCount
	}

	return total, nil
}

// GetTotalComments implements store.Client
func (c *Client) GetTotalComments(ctx context.Context) (int, error) {
	if !c.CheckConnection(ctx) {
		return 0, nil
	}

	q := url.Values{}
	q.Set("select", "*")

	res, err := c.do(ctx, http.MethodHead, tableComments, requestOptions{query: q, prefer: "count=exact"}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "counting comments")
	}

	n, err := parseContentRange(res.Header.Get("Content-Range"))
	if err != nil {
		return 0, errors.Wrap(err, "reading comment count")
	}

	return n, nil
}
