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


package app

import (
	"context"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/assets"
	"github.com/catatan/catatan/pkg/server/config"
	"github.com/catatan/catatan/pkg/server/session"
	"github.com/catatan/catatan/pkg/store/memory"
	"github.com/pkg/errors"
)

// TestAdminPassword is the admin password accepted by test apps
const TestAdminPassword = "rahasia"

const testSecret = "catatan-test-secret-0123456789abcdef"

// NewTest returns an app for a testing environment, backed by an in-memory
// store on a mock clock. The engine is bootstrapped over the empty store.
func NewTest() App {
	c := clock.NewMock()
	s := memory.New(c)

	e, err := engine.Open(context.Background(), engine.Params{
		Store: s,
		Clock: c,
	})
	if err != nil {
		panic(errors.Wrap(err, "opening the test engine"))
	}

	keys := session.NewKeys(testSecret)

	return App{
		Engine:       e,
		Gate:         admin.NewGate(admin.SHA256Hex(TestAdminPassword), c),
		Sessions:     session.NewManager(keys, false),
		Clock:        c,
		Uploader:     media.DataURLUploader{},
		HTTP500Page:  assets.MustGetHTTP500ErrorPage(),
		CSRFKey:      keys.CSRF,
		AppEnv:       config.AppEnvTest,
		WebURL:       "http://127.0.0.1",
		Port:         "3000",
		AssetBaseURL: "/static",
	}
}

// TestStore returns the in-memory store of a test app
func (a *App) TestStore() *memory.Store {
	s, ok := a.Engine.Store().(*memory.Store)
	if !ok {
		panic("the app is not backed by a memory store")
	}

	return s
}

// TestClock returns the mock clock of a test app
func (a *App) TestClock() *clock.Mock {
	c, ok := a.Clock.(*clock.Mock)
	if !ok {
		panic("the app does not use a mock clock")
	}

	return c
}
