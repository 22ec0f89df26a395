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


package admin

import (
	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var loginExample = `
  catatan admin login

  * Read the password from stdin
  echo "$PASSWORD" | catatan admin login`

func newLoginCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in to the admin panel",
		Example: loginExample,
		Args:    cobra.NoArgs,
		RunE:    newLoginRun(ctx),
	}

	return cmd
}

func newLoginRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		gate := newGate(ctx)
		if !gate.Configured() {
			return errors.Wrap(admin.ErrNoDigest, "set adminPasswordHash in the configuration or ADMIN_PASSWORD_HASH")
		}

		var password string
		if err := ui.PromptPassword("password", &password); err != nil {
			return errors.Wrap(err, "getting password input")
		}

		s, err := gate.Login(password)
		if err != nil {
			return err
		}

		if err := saveSession(ctx.DB, s); err != nil {
			return err
		}

		log.Successf("logged in until %s\n", gate.ExpiresAt(s).Local().Format("15:04"))

		return nil
	}
}

func newLogoutCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of the admin panel",
		Args:  cobra.NoArgs,
		RunE:  newLogoutRun(ctx),
	}

	return cmd
}

func newLogoutRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(ctx.DB)
		if err != nil {
			return err
		}
		if s.AuthenticatedAt.IsZero() {
			log.Error("not logged in\n")
			return nil
		}

		if err := clearSession(ctx.DB); err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
