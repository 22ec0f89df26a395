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
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/cli/ui"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var deleteExample = `
  * Delete a note with its reactions and comments
  catatan admin delete 12

  * Skip the confirmation
  catatan admin delete 12 -y`

func newDeleteCmd(ctx context.CatatanCtx) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <note id>",
		Aliases: []string{"rm", "d"},
		Short:   "Delete a note",
		Example: deleteExample,
		Args:    cobra.ExactArgs(1),
		RunE:    newDeleteRun(ctx, &yes),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without confirmation")

	return cmd
}

func newDeleteRun(ctx context.CatatanCtx, yes *bool) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireSession(ctx); err != nil {
			return err
		}

		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		id := store.ID(args[0])
		n, ok := e.Note(id)
		if !ok {
			return errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
		}

		output.NoteLine(n)

		if !*yes {
			ok, err := ui.Confirm("delete this note with its reactions and comments?", false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := admin.NewPanel(e).Delete(cmd.Context(), id); err != nil {
			return errors.Wrap(err, "deleting the note")
		}

		log.Successf("deleted %s\n", n.Title)

		return nil
	}
}

func newStatsCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "See the admin panel figures",
		Args:  cobra.NoArgs,
		RunE:  newStatsRun(ctx),
	}

	return cmd
}

func newStatsRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireSession(ctx); err != nil {
			return err
		}

		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		output.Stats(admin.NewPanel(e).Stats(cmd.Context()))

		return nil
	}
}
