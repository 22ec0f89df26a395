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


// Package admin provides the commands of the admin panel
package admin

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/cli/consts"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is returned by the panel commands without a valid admin session
var ErrNotLoggedIn = errors.New("admin login required. Run 'catatan admin login'")

// NewCmd returns a new admin command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage notes as an admin",
	}

	cmd.AddCommand(newLoginCmd(ctx))
	cmd.AddCommand(newLogoutCmd(ctx))
	cmd.AddCommand(newDeleteCmd(ctx))
	cmd.AddCommand(newStatsCmd(ctx))

	return cmd
}

func newGate(ctx context.CatatanCtx) *admin.Gate {
	return admin.NewGate(ctx.AdminDigest, ctx.Clock)
}

// loadSession reads the admin session from the local database. A missing
// session is the zero value.
func loadSession(db *database.DB) (admin.Session, error) {
	var ts string
	err := database.GetSystem(db, consts.SystemAdminLoginTime, &ts)
	if errors.Cause(err) == sql.ErrNoRows {
		return admin.Session{}, nil
	} else if err != nil {
		return admin.Session{}, errors.Wrap(err, "getting the admin login time")
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return admin.Session{}, errors.Wrapf(err, "parsing the admin login time %s", ts)
	}

	return admin.Session{AuthenticatedAt: time.Unix(sec, 0)}, nil
}

func saveSession(db *database.DB, s admin.Session) error {
	ts := strconv.FormatInt(s.AuthenticatedAt.Unix(), 10)
	if err := database.UpsertSystem(db, consts.SystemAdminLoginTime, ts); err != nil {
		return errors.Wrap(err, "saving the admin login time")
	}

	return nil
}

func clearSession(db *database.DB) error {
	if err := database.DeleteSystem(db, consts.SystemAdminLoginTime); err != nil {
		return errors.Wrap(err, "deleting the admin login time")
	}

	return nil
}

// requireSession returns ErrNotLoggedIn unless a session within the login
// window exists. An expired session is cleared.
func requireSession(ctx context.CatatanCtx) error {
	s, err := loadSession(ctx.DB)
	if err != nil {
		return err
	}

	if newGate(ctx).Valid(s) {
		return nil
	}

	if !s.AuthenticatedAt.IsZero() {
		if err := clearSession(ctx.DB); err != nil {
			return err
		}
	}

	return ErrNotLoggedIn
}
