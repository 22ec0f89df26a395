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

package sqlstore

import (
	"time"

	"github.com/catatan/catatan/pkg/store"
)

// Note is a model for a note
type Note struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Subject       string    `gorm:"type:varchar(64);index;default:other"`
	Content       string    `gorm:"type:text"`
	Author        string    `gorm:"type:varchar(255)"`
	LikesCount    int       `gorm:"default:0"`
	DislikesCount int       `gorm:"default:0"`
	ImageURL      string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"index"`
}

// Like is a model for a reaction of a user to a note. A user has at most one
// reaction per note.
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	NoteID    string    `gorm:"type:varchar(36);uniqueIndex:idx_likes_note_user"`
	UserID    string    `gorm:"type:varchar(64);uniqueIndex:idx_likes_note_user"`
	Type      string    `gorm:"type:varchar(16)"`
	CreatedAt time.Time
}

// Comment is a model for a comment on a note
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	NoteID    string    `gorm:"type:varchar(36);index"`
	Author    string    `gorm:"type:varchar(255)"`
	Text      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

func (n Note) record() store.NoteRecord {
	return store.NoteRecord{
		ID:            store.ID(n.ID),
		Title:         n.Title,
		Subject:       n.Subject,
		Content:       n.Content,
		Author:        n.Author,
		CreatedAt:     n.CreatedAt,
		LikesCount:    n.LikesCount,
		DislikesCount: n.DislikesCount,
		ImageURL:      n.ImageURL,
	}
}

func (l Like) record() store.ReactionRecord {
	return store.ReactionRecord{
		ID:        store.ID(l.ID),
		NoteID:    store.ID(l.NoteID),
		UserID:    l.UserID,
		Type:      store.ReactionType(l.Type),
		CreatedAt: l.CreatedAt,
	}
}

func (c Comment) record() store.CommentRecord {
	return store.CommentRecord{
		ID:        store.ID(c.ID),
		NoteID:    store.ID(c.NoteID),
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
