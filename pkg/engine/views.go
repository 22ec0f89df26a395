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

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
)

const (
	// SortLikes orders notes by likes, most liked first
	SortLikes = "likes"
	// SortRecent orders notes by creation time, newest first
	SortRecent = "recent"
	// SortOldest orders notes by creation time, oldest first
	SortOldest = "oldest"
)

const (
	// DefaultTrendingLimit is the default number of trending notes
	DefaultTrendingLimit = 5
	// DefaultActivityLimit is the default number of activity entries
	DefaultActivityLimit = 5

	trendingWindow = 24 * time.Hour
	// activityNotes is how many of the newest notes feed the activity
	activityNotes = 10
)

const (
	// ActivityUpload is an activity for a new note
	ActivityUpload = "upload"
	// ActivityComment is an activity for the latest comment on a note
	ActivityComment = "comment"
)

// Category is a subject with the number of notes carrying it
type Category struct {
	Tag   string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Activity is an entry of the recent activity feed
type Activity struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Time    time.Time `json:"time"`
	NoteID  store.ID  `json:"note_id"`
	TimeAgo string    `json:"time_ago"`
}

func (e *Engine) snapshot() []Note {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ret := make([]Note, len(e.notes))
	copy(ret, e.notes)

	return ret
}

// Notes returns the notes of the mirror, newest first
func (e *Engine) Notes() []Note {
	return e.snapshot()
}

// Note returns the note with the given id
func (e *Engine) Note(id store.ID) (Note, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if idx := e.indexLocked(id); idx != -1 {
		return e.notes[idx], true
	}

	return Note{}, false
}

// Comments returns the comments of a note, oldest first
func (e *Engine) Comments(noteID store.ID) []Comment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ret := make([]Comment, len(e.comments[noteID]))
	copy(ret, e.comments[noteID])

	return ret
}

// LikeStatus returns the reaction of the engine user to a note
func (e *Engine) LikeStatus(noteID store.ID) LikeStatus {
	return e.LikeStatusFor(e.userID, noteID)
}

// LikeStatusFor returns the reaction of the user to a note. An unknown note
// yields the zero status.
func (e *Engine) LikeStatusFor(userID string, noteID store.ID) LikeStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx := e.indexLocked(noteID)
	if idx == -1 {
		return LikeStatus{}
	}

	return e.likeStatusLocked(idx, userID)
}

func sortNotes(notes []Note, by string) {
	switch by {
	case SortLikes:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].Likes > notes[j].Likes
		})
	case SortRecent:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		})
	}
}

// Filtered returns the notes of a subject, or of every subject for
// subject.All, in the given order. An unknown order keeps the mirror order.
func (e *Engine) Filtered(subjectTag, sortBy string) []Note {
	notes := e.snapshot()

	ret := notes
	if subjectTag != subject.All && subjectTag != "" {
		ret = make([]Note, 0, len(notes))
		for _, n := range notes {
			if n.Subject == subjectTag {
				ret = append(ret, n)
			}
		}
	}

	sortNotes(ret, sortBy)

	return ret
}

// daySeed is the sum of the character codes of the date
func daySeed(t time.Time) int {
	seed := 0
	for _, r := range t.Format("Mon Jan 02 2006") {
		seed += int(r)
	}

	return seed
}

// NoteOfTheDay picks a note deterministically from the date. The same note
// is returned all day as long as the notes do not change.
func (e *Engine) NoteOfTheDay() (Note, bool) {
	sorted := e.Filtered(subject.All, SortLikes)
	if len(sorted) == 0 {
		return Note{}, false
	}

	return sorted[daySeed(e.clock.Now())%len(sorted)], true
}

type scoredNote struct {
	note  Note
	score float64
}

// Trending returns the best scored notes of the last day, padded with the
// newest notes. The padding is not de-duplicated, so a note may appear twice.
func (e *Engine) Trending(limit int) []Note {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	e.mu.RLock()
	cutoff := e.clock.Now().Add(-trendingWindow)
	var scored []scoredNote
	for _, n := range e.notes {
		if !n.CreatedAt.After(cutoff) {
			continue
		}

		score := 0.7*float64(n.Likes) + 0.3*float64(len(e.comments[n.ID]))
		scored = append(scored, scoredNote{note: n, score: score})
	}
	newest := make([]Note, len(e.notes))
	copy(newest, e.notes)
	e.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ret := make([]Note, 0, 2*limit)
	for i := 0; i < len(scored) && i < limit; i++ {
		ret = append(ret, scored[i].note)
	}
	for i := 0; i < len(newest) && i < limit; i++ {
		ret = append(ret, newest[i])
	}
	if len(ret) > limit {
		ret = ret[:limit]
	}

	return ret
}

// Categories returns the known subjects that have at least one note
func (e *Engine) Categories() []Category {
	counts := map[string]int{}
	for _, n := range e.snapshot() {
		counts[n.Subject]++
	}

	ret := []Category{}
	for _, s := range subject.List {
		if c := counts[s.Tag]; c > 0 {
			ret = append(ret, Category{Tag: s.Tag, Name: s.Name, Count: c})
		}
	}

	return ret
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

// RecentActivity returns the latest uploads and comments, newest first
func (e *Engine) RecentActivity(limit int) []Activity {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	e.mu.RLock()
	var acts []Activity
	for i, n := range e.notes {
		if i == activityNotes {
			break
		}

		acts = append(acts, Activity{
			Type:   ActivityUpload,
			Text:   fmt.Sprintf("Catatan baru: \"%s...\"", truncate(n.Title, 30)),
			Time:   n.CreatedAt,
			NoteID: n.ID,
		})

		if cs := e.comments[n.ID]; len(cs) > 0 {
			acts = append(acts, Activity{
				Type:   ActivityComment,
				Text:   fmt.Sprintf("Komentar di \"%s...\"", truncate(n.Title, 20)),
				Time:   cs[len(cs)-1].CreatedAt,
				NoteID: n.ID,
			})
		}
	}
	e.mu.RUnlock()

	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Time.After(acts[j].Time)
	})
	if len(acts) > limit {
		acts = acts[:limit]
	}

	now := e.clock.Now()
	for i := range acts {
		acts[i].TimeAgo = TimeAgo(now.Sub(acts[i].Time))
	}

	return acts
}

// TimeAgo describes the duration in its coarsest whole unit
func TimeAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	sec := int(d / time.Second)
	min := sec / 60
	hr := min / 60
	day := hr / 24

	switch {
	case day > 0:
		return fmt.Sprintf("%d hari lalu", day)
	case hr > 0:
		return fmt.Sprintf("%d jam lalu", hr)
	case min > 0:
		return fmt.Sprintf("%d menit lalu", min)
	}

	return fmt.Sprintf("%d detik lalu", sec)
}

// TotalNotes returns the number of notes in the mirror
func (e *Engine) TotalNotes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.notes)
}

// TotalSubjects returns the number of distinct subjects among the notes
func (e *Engine) TotalSubjects() int {
	seen := map[string]struct{}{}
	for _, n := range e.snapshot() {
		seen[n.Subject] = struct{}{}
	}

	return len(seen)
}
