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


package cat

import (
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/testutils"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/pkg/errors"
)

func TestCat(t *testing.T) {
	ctx := context.InitTestCtx(t)
	notes := testutils.Setup1(t, ctx)

	out, err := testutils.RunCmd(t, NewCmd(ctx), notes[1].ID.String())
	assert.Equal(t, err, nil, "error mismatch")

	assert.Contains(t, out, "title: Pengantar Ilmu Nahwu", "title mismatch")
	assert.Contains(t, out, "subject: Nahwu", "subject mismatch")
	assert.Contains(t, out, "kalimat isim fiil huruf", "content mismatch")
	assert.Contains(t, out, "30 menit lalu Zaid: jazakallah khair", "comment mismatch")
}

func TestCatNotFound(t *testing.T) {
	ctx := context.InitTestCtx(t)
	testutils.Setup1(t, ctx)

	_, err := testutils.RunCmd(t, NewCmd(ctx), "999")
	assert.Equal(t, errors.Cause(err), engine.ErrNoteNotFound, "error mismatch")
}
