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
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

// AdminLogin verifies the password and returns a new admin session
func (a *App) AdminLogin(password string) (admin.Session, error) {
	s, err := a.Gate.Login(password)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("admin login rejected")

		return admin.Session{}, err
	}

	log.Info("admin logged in")

	return s, nil
}

// AdminSessionValid reports whether the session is within the login window
func (a *App) AdminSessionValid(s admin.Session) bool {
	return a.Gate.Valid(s)
}

func (a *App) panel() *admin.Panel {
	return admin.NewPanel(a.Engine)
}

// AdminNotes returns every note for the admin panel
func (a *App) AdminNotes() []engine.Note {
	return a.panel().Notes()
}

// AdminStats returns the admin panel figures
func (a *App) AdminStats(ctx context.Context) admin.Stats {
	return a.panel().Stats(ctx)
}

// DeleteNote deletes a note with its reactions and comments
func (a *App) DeleteNote(ctx context.Context, id store.ID) error {
	if _, ok := a.Engine.Note(id); !ok {
		return errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
	}

	if err := a.panel().Delete(ctx, id); err != nil {
		return errors.Wrap(err, "deleting the note")
	}

	log.WithFields(log.Fields{
		"note_id": id.String(),
	}).Info("note deleted by admin")

	return nil
}
