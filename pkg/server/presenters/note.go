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


package presenters

import (
	"time"

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/subject"
)

// Note is a result of PresentNote
type Note struct {
	ID          store.ID  `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	SubjectName string    `json:"subject_name"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Likes       int       `json:"likes"`
	Dislikes    int       `json:"dislikes"`
	Image       string    `json:"image,omitempty"`
	Comments    int       `json:"comments"`
	Liked       bool      `json:"liked"`
	Disliked    bool      `json:"disliked"`
}

// Mirror is the read side of the engine needed to present notes for a user
type Mirror interface {
	LikeStatusFor(userID string, noteID store.ID) engine.LikeStatus
	Comments(noteID store.ID) []engine.Comment
}

// PresentNote presents a note as seen by the user
func PresentNote(m Mirror, userID string, n engine.Note) Note {
	status := m.LikeStatusFor(userID, n.ID)

	return Note{
		ID:          n.ID,
		Title:       n.Title,
		Subject:     n.Subject,
		SubjectName: subject.Name(n.Subject),
		Content:     n.Content,
		Author:      n.Author,
		Date:        FormatTS(n.CreatedAt),
		Likes:       n.Likes,
		Dislikes:    n.Dislikes,
		Image:       n.ImageURL,
		Comments:    len(m.Comments(n.ID)),
		Liked:       status.Liked,
		Disliked:    status.Disliked,
	}
}

// PresentNotes presents notes
func PresentNotes(m Mirror, userID string, notes []engine.Note) []Note {
	ret := []Note{}

	for _, n := range notes {
		ret = append(ret, PresentNote(m, userID, n))
	}

	return ret
}

// Comment is a result of PresentComment
type Comment struct {
	ID     store.ID  `json:"id"`
	NoteID store.ID  `json:"note_id"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// PresentComment presents a comment
func PresentComment(c engine.Comment) Comment {
	return Comment{
		ID:     c.ID,
		NoteID: c.NoteID,
		Author: c.Author,
		Text:   c.Text,
		Date:   FormatTS(c.CreatedAt),
	}
}

// PresentComments presents comments
func PresentComments(comments []engine.Comment) []Comment {
	ret := []Comment{}

	for _, c := range comments {
		ret = append(ret, PresentComment(c))
	}

	return ret
}

// Reaction is the result of a like or dislike toggle
type Reaction struct {
	NoteID   store.ID `json:"note_id"`
	Liked    bool     `json:"liked"`
	Disliked bool     `json:"disliked"`
	Likes    int      `json:"likes"`
	Dislikes int      `json:"dislikes"`
	// Warning is set when the store did not persist the change
	Warning string `json:"warning,omitempty"`
}

// PresentReaction presents a like status
func PresentReaction(noteID store.ID, s engine.LikeStatus) Reaction {
	return Reaction{
		NoteID:   noteID,
		Liked:    s.Liked,
		Disliked: s.Disliked,
		Likes:    s.Count,
		Dislikes: s.Dislikes,
	}
}
