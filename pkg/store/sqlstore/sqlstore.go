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

// Package sqlstore provides a store.Client backed by a SQL database through
// gorm. It lets the site run against a self-hosted sqlite, postgres or mysql
// database instead of a hosted row store.
package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	// DriverSQLite is the driver name for sqlite
	DriverSQLite = "sqlite"
	// DriverPostgres is the driver name for postgres
	DriverPostgres = "postgres"
	// DriverMySQL is the driver name for mysql. The DSN must set parseTime=true.
	DriverMySQL = "mysql"
)

// getDBLogLevel converts application log level to GORM log level
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelInfo:
		return logger.Silent
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// sqlitePragmas apply to file databases, which the CLI and the server may share
const sqlitePragmas = "_journal_mode=WAL&_busy_timeout=5000"

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.Contains(dsn, "_journal_mode") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}

	return dsn + "?" + sqlitePragmas
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" {
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrapf(err, "creating database directory at %s", dir)
			}
		}
		return sqlite.Open(sqliteDSN(dsn)), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	}

	return nil, errors.Errorf("unsupported driver '%s'", driver)
}

// Open initializes the database connection, brings the schema up to date and
// applies the data migrations
func Open(driver, dsn, logLevel string) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	if err := InitSchema(db); err != nil {
		return nil, err
	}
	if err := Migrate(db, driver); err != nil {
		return nil, err
	}

	return db, nil
}

// Store implements store.Client on top of a gorm database
type Store struct {
	db    *gorm.DB
	clock clock.Clock

	mu        sync.Mutex
	checked   bool
	connected bool
}

var _ store.Client = (*Store)(nil)
var _ store.Resetter = (*Store)(nil)

// New returns a new store. The schema is expected to be migrated.
func New(db *gorm.DB, c clock.Clock) *Store {
	if c == nil {
		c = clock.New()
	}

	return &Store{db: db, clock: c}
}

// Available implements store.Client
func (s *Store) Available() bool {
	return s.db != nil
}

// CheckConnection implements store.Client
func (s *Store) CheckConnection(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checked {
		return s.connected
	}

	s.connected = s.ping(ctx)
	s.checked = true

	return s.connected
}

func (s *Store) ping(ctx context.Context) bool {
	if !s.Available() {
		return false
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		log.ErrorWrap(err, "getting sql.DB")
		return false
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("database ping failed")
		return false
	}

	return true
}

// Reset implements store.Resetter
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = false
	s.connected = false
}

// GetNotes implements store.Client
func (s *Store) GetNotes(ctx context.Context) ([]store.NoteRecord, error) {
	if !s.CheckConnection(ctx) {
		return []store.NoteRecord{}, nil
	}

	var notes []Note
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}

	ret := make([]store.NoteRecord, 0, len(notes))
	for _, n := range notes {
		ret = append(ret, n.record())
	}

	return ret, nil
}

// AddNote implements store.Client
func (s *Store) AddNote(ctx context.Context, d store.NoteDraft) (store.NoteRecord, error) {
	if !s.CheckConnection(ctx) {
		return store.NoteRecord{}, store.ErrNotConnected
	}

	d = d.Normalize()
	n := Note{
		ID:            uuid.New().String(),
		Title:         d.Title,
		Subject:       d.Subject,
		Content:       d.Content,
		Author:        d.Author,
		ImageURL:      d.ImageURL,
		LikesCount:    d.Likes,
		DislikesCount: d.Dislikes,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return store.NoteRecord{}, errors.Wrap(err, "inserting note")
	}

	return n.record(), nil
}

// DeleteNote implements store.Client. Likes and comments are removed before
// the note. Their failures are logged and the note is deleted regardless.
func (s *Store) DeleteNote(ctx context.Context, id store.ID) error {
	if !s.CheckConnection(ctx) {
		return store.ErrNotConnected
	}

	db := s.db.WithContext(ctx)

	if err := db.Where("note_id = ?", id.String()).Delete(&Like{}).Error; err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting likes of note")
	}
	if err := db.Where("note_id = ?", id.String()).Delete(&Comment{}).Error; err != nil {
		log.WithFields(log.Fields{"note_id": id, "error": err}).Error("deleting comments of note")
	}
	if err := db.Where("id = ?", id.String()).Delete(&Note{}).Error; err != nil {
		return errors.Wrapf(err, "deleting note %s", id)
	}

	return nil
}

// UpdateNoteStats implements store.Client
func (s *Store) UpdateNoteStats(ctx context.Context, id store.ID, likes, dislikes int) error {
	if !s.CheckConnection(ctx) {
		return store.ErrNotConnected
	}

	err := s.db.WithContext(ctx).Model(&Note{}).Where("id = ?", id.String()).Updates(map[string]interface{}{
		"likes_count":    likes,
		"dislikes_count": dislikes,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "updating stats of note %s", id)
	}

	return nil
}

// GetLikes implements store.Client
func (s *Store) GetLikes(ctx context.Context, noteID store.ID) ([]store.ReactionRecord, error) {
	if !s.CheckConnection(ctx) {
		return []store.ReactionRecord{}, nil
	}

	var likes []Like
	if err := s.db.WithContext(ctx).Where("note_id = ?", noteID.String()).Find(&likes).Error; err != nil {
		return nil, errors.Wrapf(err, "finding likes of note %s", noteID)
	}

	ret := make([]store.ReactionRecord, 0, len(likes))
	for _, l := range likes {
		ret = append(ret, l.record())
	}

	return ret, nil
}

// ToggleLike implements store.Client
func (s *Store) ToggleLike(ctx context.Context, noteID store.ID, userID string, t store.ReactionType) (store.ToggleResult, error) {
	if !s.CheckConnection(ctx) {
		return store.ToggleResult{}, store.ErrNotConnected
	}

	var ret store.ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Like
		conn := tx.Where("note_id = ? AND user_id = ?", noteID.String(), userID).Limit(1).Find(&existing)
		if conn.Error != nil {
			return errors.Wrap(conn.Error, "finding existing reaction")
		}

		if conn.RowsAffected > 0 && existing.Type == string(t) {
			if err := tx.Delete(&existing).Error; err != nil {
				return errors.Wrap(err, "removing reaction")
			}

			ret = store.ToggleResult{State: store.ToggleRemoved}
			return nil
		}

		like := Like{
			ID:        uuid.New().String(),
			NoteID:    noteID.String(),
			UserID:    userID,
			Type:      string(t),
			CreatedAt: s.clock.Now().UTC(),
		}
		state := store.ToggleAdded
		if conn.RowsAffected > 0 {
			like = existing
			like.Type = string(t)
			state = store.ToggleUpdated
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type"}),
		}).Create(&like).Error; err != nil {
			return errors.Wrap(err, "upserting reaction")
		}

		ret = store.ToggleResult{Reaction: like.record(), State: state}
		return nil
	})
	if err != nil {
		return store.ToggleResult{}, err
	}

	return ret, nil
}

// GetComments implements store.Client
func (s *Store) GetComments(ctx context.Context, noteID store.ID) ([]store.CommentRecord, error) {
	if !s.CheckConnection(ctx) {
		return []store.CommentRecord{}, nil
	}

	var comments []Comment
	if err := s.db.WithContext(ctx).Where("note_id = ?", noteID.String()).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, errors.Wrapf(err, "finding comments of note %s", noteID)
	}

	ret := make([]store.CommentRecord, 0, len(comments))
	for _, c := range comments {
		ret = append(ret, c.record())
	}

	return ret, nil
}

// AddComment implements store.Client
func (s *Store) AddComment(ctx context.Context, d store.CommentDraft) (store.CommentRecord, error) {
	if !s.CheckConnection(ctx) {
		return store.CommentRecord{}, store.ErrNotConnected
	}

	d = d.Normalize()
	c := Comment{
		ID:        uuid.New().String(),
		NoteID:    d.NoteID.String(),
		Author:    d.Author,
		Text:      d.Text,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return store.CommentRecord{}, errors.Wrap(err, "inserting comment")
	}

	return c.record(), nil
}

// GetTotalLikes implements store.Client
func (s *Store) GetTotalLikes(ctx context.Context) (int, error) {
	if !s.CheckConnection(ctx) {
		return 0, nil
	}

	var total int
	if err := s.db.WithContext(ctx).Model(&Note{}).Select("COALESCE(SUM(likes_count), 0)").Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "summing like counters")
	}

	return total, nil
}

// GetTotalComments implements store.Client
func (s *Store) GetTotalComments(ctx context.Context) (int, error) {
	if !s.CheckConnection(ctx) {
		return 0, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Comment{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting comments")
	}

	return int(count), nil
}
