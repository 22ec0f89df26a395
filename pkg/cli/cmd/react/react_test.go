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


package react

import (
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/testutils"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/store"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/pkg/errors"
)

func TestLikeRoundTrip(t *testing.T) {
	ctx := context.InitTestCtx(t)
	notes := testutils.Setup1(t, ctx)
	s := testutils.Store(t, ctx)
	id := notes[0].ID

	out, err := testutils.RunCmd(t, NewLikeCmd(ctx), id.String())
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, out, "  ✔ "+id.String()+": liked (+3 -0)\n", "like output mismatch")

	rec, _ := s.Note(id)
	assert.Equal(t, rec.LikesCount, 3, "stored likes mismatch")

	// a second process sees the persisted reaction and takes it back
	out, err = testutils.RunCmd(t, NewLikeCmd(ctx), id.String())
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, out, "  ✔ "+id.String()+": no reaction (+2 -0)\n", "unlike output mismatch")

	rec, _ = s.Note(id)
	assert.Equal(t, rec.LikesCount, 2, "stored likes mismatch")
	assert.Equal(t, len(s.Reactions()), 1, "only the other user's reaction should remain")
}

func TestDislikeReplacesLike(t *testing.T) {
	ctx := context.InitTestCtx(t)
	notes := testutils.Setup1(t, ctx)
	s := testutils.Store(t, ctx)
	id := notes[2].ID

	if _, err := testutils.RunCmd(t, NewLikeCmd(ctx), id.String()); err != nil {
		t.Fatal(errors.Wrap(err, "liking"))
	}
	out, err := testutils.RunCmd(t, NewDislikeCmd(ctx), id.String())
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, out, "  ✔ "+id.String()+": disliked (+0 -1)\n", "output mismatch")

	var mine []store.ReactionRecord
	for _, r := range s.Reactions() {
		if r.UserID == ctx.UserID {
			mine = append(mine, r)
		}
	}
	assert.Equal(t, len(mine), 1, "reaction count mismatch")
	assert.Equal(t, mine[0].Type, store.ReactionDislike, "reaction type mismatch")
}

func TestLikeUnknownNote(t *testing.T) {
	ctx := context.InitTestCtx(t)
	testutils.Setup1(t, ctx)

	_, err := testutils.RunCmd(t, NewLikeCmd(ctx), "999")
	assert.Equal(t, errors.Cause(err), engine.ErrNoteNotFound, "error mismatch")
}

func TestLikeRemoteFailure(t *testing.T) {
	ctx := context.InitTestCtx(t)
	notes := testutils.Setup1(t, ctx)
	s := testutils.Store(t, ctx)
	s.SetFailures(memory.Failures{ToggleLike: errors.New("connection reset")})

	out, err := testutils.RunCmd(t, NewLikeCmd(ctx), notes[0].ID.String())
	assert.Equal(t, err, nil, "a failed write is a warning")
	assert.Contains(t, out, "liked (+3 -0)", "local status mismatch")
	assert.Contains(t, out, "the reaction could not be saved", "warning mismatch")
}
