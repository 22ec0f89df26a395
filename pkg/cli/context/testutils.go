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


package context

import (
	"testing"

	"github.com/catatan/catatan/pkg/cli/database"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/pkg/errors"
)

// InitTestCtx initializes a test context with an in-memory database, an
// in-memory store and a temporary directory for all paths
func InitTestCtx(t *testing.T) CatatanCtx {
	tmpDir := t.TempDir()
	paths := Paths{
		Home:   tmpDir,
		Cache:  tmpDir,
		Config: tmpDir,
		Data:   tmpDir,
	}

	if err := InitCatatanDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	c := clock.NewMock()

	return CatatanCtx{
		DB:        database.InitTestMemoryDB(t),
		Paths:     paths,
		Clock:     c,
		Store:     memory.New(c),
		StoreKind: "memory",
		UserID:    "user_test00001",
		Uploader:  media.DataURLUploader{},
	}
}
