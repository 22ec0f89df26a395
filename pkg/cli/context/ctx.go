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


// Package context defines catatan context
package context

import (
	"github.com/catatan/catatan/pkg/cli/database"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/store"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// CatatanCtx is a context holding the information of the current runtime
type CatatanCtx struct {
	Paths   Paths
	Version string
	DB      *database.DB
	Clock   clock.Clock

	// Store is the row store the engine synchronizes with
	Store       store.Client
	StoreKind   string
	APIEndpoint string
	APIKey      string

	// UserID is the identity persisted in the local database
	UserID      string
	Author      string
	AdminDigest string
	Editor      string
	Uploader    media.Uploader
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx CatatanCtx) CatatanCtx {
	flag := func(s string) string {
		if s != "" {
			return "1"
		}
		return "0"
	}

	ctx.APIKey = flag(ctx.APIKey)
	ctx.AdminDigest = flag(ctx.AdminDigest)

	return ctx
}
