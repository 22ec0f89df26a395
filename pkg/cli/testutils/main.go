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


// Package testutils provides utilities used in tests
package testutils

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/catatan/catatan/pkg/cli/consts"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/database"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Store returns the in-memory store of a test context
func Store(t *testing.T, ctx context.CatatanCtx) *memory.Store {
	s, ok := ctx.Store.(*memory.Store)
	if !ok {
		t.Fatal("test context is not backed by a memory store")
	}

	return s
}

// Now returns the current time of the test context clock
func Now(ctx context.CatatanCtx) time.Time {
	return ctx.Clock.Now()
}

// Setup1 seeds three notes. The second one has a comment and a like from
// another user.
func Setup1(t *testing.T, ctx context.CatatanCtx) []store.NoteRecord {
	s := Store(t, ctx)
	now := Now(ctx)

	n1 := s.SeedNote(store.NoteRecord{Title: "Hukum Nun Mati", Subject: "tahsin", Content: "izhar, idgham, iqlab, ikhfa", Author: "Aisyah", CreatedAt: now.Add(-3 * time.Hour), LikesCount: 2})
	n2 := s.SeedNote(store.NoteRecord{Title: "Pengantar Ilmu Nahwu", Subject: "nahwu", Content: "kalimat isim fiil huruf", Author: "Umar", CreatedAt: now.Add(-2 * time.Hour), LikesCount: 5})
	n3 := s.SeedNote(store.NoteRecord{Title: "Adab Penuntut Ilmu", Subject: "adab-akhlaq", Content: "ikhlas", Author: "Fatimah", CreatedAt: now.Add(-1 * time.Hour)})

	s.SeedReaction(store.ReactionRecord{NoteID: n2.ID, UserID: "user_other0001", Type: store.ReactionLike})
	s.SeedComment(store.CommentRecord{NoteID: n2.ID, Author: "Zaid", Text: "jazakallah khair", CreatedAt: now.Add(-30 * time.Minute)})

	return []store.NoteRecord{n1, n2, n3}
}

// AdminLogin simulates an admin login at the given time by inserting the
// login timestamp in the local database
func AdminLogin(t *testing.T, ctx context.CatatanCtx, at time.Time) {
	database.MustExec(t, "inserting admin login time", ctx.DB,
		"INSERT INTO system (key, value) VALUES (?, ?)", consts.SystemAdminLoginTime, strconv.FormatInt(at.Unix(), 10))
}

// SetNow moves the clock of the test context
func SetNow(t *testing.T, ctx context.CatatanCtx, now time.Time) {
	m, ok := ctx.Clock.(*clock.Mock)
	if !ok {
		t.Fatal("test context does not use a mock clock")
	}

	m.SetNow(now)
}

// RunCmd executes the command with the arguments and returns what it printed
func RunCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer

	prev := log.Output
	prevNoColor := color.NoColor
	log.Output = &buf
	color.NoColor = true
	defer func() {
		log.Output = prev
		color.NoColor = prevNoColor
	}()

	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()

	return buf.String(), err
}
