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


package jobs

import (
	"fmt"
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting sql.DB"))
	}
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func TestNewRunner(t *testing.T) {
	a := app.NewTest()

	testCases := []struct {
		name            string
		app             *app.App
		params          Params
		expectedErr     error
		expectedEntries int
	}{
		{
			name:        "missing app",
			params:      Params{RefreshSchedule: "@every 5m"},
			expectedErr: ErrEmptyApp,
		},
		{
			name:        "missing schedule",
			app:         &a,
			expectedErr: ErrEmptySchedule,
		},
		{
			name:            "refresh only",
			app:             &a,
			params:          Params{RefreshSchedule: "@every 5m"},
			expectedEntries: 1,
		},
		{
			name:            "with database maintenance",
			app:             &a,
			params:          Params{RefreshSchedule: "@every 1m", DB: openTestDB(t)},
			expectedEntries: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRunner(tc.app, tc.params)
			assert.Equal(t, err, tc.expectedErr, "error mismatch")

			if tc.expectedErr == nil {
				assert.Equal(t, len(r.Cron.Entries()), tc.expectedEntries, "entry count mismatch")
			}
		})
	}
}

func TestNewRunnerInvalidSchedule(t *testing.T) {
	a := app.NewTest()

	if _, err := NewRunner(&a, Params{RefreshSchedule: "every now and then"}); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestRefreshMirror(t *testing.T) {
	a := app.NewTest()
	a.TestStore().SeedNote(store.NoteRecord{Title: "Sifat huruf", Subject: "tahsin"})
	assert.Equal(t, a.Engine.TotalNotes(), 0, "the note should not be loaded yet")

	r, err := NewRunner(&a, Params{RefreshSchedule: "@every 5m"})
	if err != nil {
		t.Fatal(err)
	}
	r.RefreshMirror()

	assert.Equal(t, a.Engine.TotalNotes(), 1, "the note should be loaded")
}

func TestRefreshMirrorDegraded(t *testing.T) {
	a := app.NewTest()
	s := a.TestStore()
	s.SetProbeFailures(1 << 20)
	s.Reset()

	r, err := NewRunner(&a, Params{RefreshSchedule: "@every 5m"})
	if err != nil {
		t.Fatal(err)
	}
	r.RefreshMirror()

	assert.Equal(t, a.Engine.Status().Degraded, true, "engine should be degraded")
}

func TestMaintenance(t *testing.T) {
	a := app.NewTest()
	r, err := NewRunner(&a, Params{RefreshSchedule: "@every 5m", DB: openTestDB(t)})
	if err != nil {
		t.Fatal(err)
	}

	// both log on failure and must not panic
	r.Checkpoint()
	r.Vacuum()
}
