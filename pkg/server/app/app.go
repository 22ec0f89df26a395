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


// Package app holds the server application and the operations its
// controllers run against the sync engine
package app

import (
	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/clock"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/config"
	"github.com/catatan/catatan/pkg/server/session"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyEngine is an error for missing engine in the app configuration
	ErrEmptyEngine = errors.New("No engine was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrEmptyGate is an error for missing admin gate in the app configuration
	ErrEmptyGate = errors.New("No admin gate was provided")
	// ErrEmptySessions is an error for missing session manager in the app configuration
	ErrEmptySessions = errors.New("No session manager was provided")
	// ErrEmptyUploader is an error for missing image uploader in the app configuration
	ErrEmptyUploader = errors.New("No image uploader was provided")
	// ErrEmptyCSRFKey is an error for missing CSRF key outside of tests
	ErrEmptyCSRFKey = errors.New("No CSRF key was provided")
	// ErrEmptyHTTP500Page is an error for missing HTTP 500 page content
	ErrEmptyHTTP500Page = errors.New("No HTTP 500 error page was set")
)

// App is an application context
type App struct {
	Engine       *engine.Engine
	Gate         *admin.Gate
	Sessions     *session.Manager
	Clock        clock.Clock
	Uploader     media.Uploader
	HTTP500Page  []byte
	CSRFKey      []byte
	AppEnv       string
	WebURL       string
	Port         string
	AssetBaseURL string
}

// IsProd checks if the app environment is production
func (a *App) IsProd() bool {
	return a.AppEnv == config.AppEnvProduction
}

// IsTest checks if the app environment is the test environment
func (a *App) IsTest() bool {
	return a.AppEnv == config.AppEnvTest
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Engine == nil {
		return ErrEmptyEngine
	}
	if a.Gate == nil {
		return ErrEmptyGate
	}
	if a.Sessions == nil {
		return ErrEmptySessions
	}
	if a.Uploader == nil {
		return ErrEmptyUploader
	}
	if len(a.CSRFKey) == 0 && !a.IsTest() {
		return ErrEmptyCSRFKey
	}
	if a.HTTP500Page == nil {
		return ErrEmptyHTTP500Page
	}

	return nil
}
