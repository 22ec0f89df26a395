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

package engine

import (
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

var (
	// ErrNotConnected is returned by the non-optimistic mutations when the store is unreachable
	ErrNotConnected = store.ErrNotConnected
	// ErrValidation is returned when a required field of a mutation is missing
	ErrValidation = errors.New("validation failed")
	// ErrRemoteWrite is returned when the store rejected a write. For the
	// optimistic mutations the local change is kept and the error is a warning.
	ErrRemoteWrite = errors.New("remote write failed")
	// ErrNoteNotFound is returned when the note is not in the mirror
	ErrNoteNotFound = errors.New("note not found")
	// ErrDegraded is returned by Bootstrap and Refresh when the mirror could
	// not be synchronized. The engine stays usable.
	ErrDegraded = errors.New("synchronization degraded")
)

// remoteWriteError wraps the store error with ErrRemoteWrite, leaving
// ErrNotConnected untouched
func remoteWriteError(err error, msg string) error {
	if errors.Cause(err) == store.ErrNotConnected {
		return errors.Wrap(err, msg)
	}

	return errors.Wrapf(ErrRemoteWrite, "%s: %v", msg, err)
}

func validationError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
