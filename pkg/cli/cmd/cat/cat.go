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
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * See the note with id 12 along with its comments
 catatan cat 12
 `

// NewCmd returns a new cat command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cat <note id>",
		Aliases: []string{"c", "view"},
		Short:   "See a note",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		id := store.ID(args[0])
		n, ok := e.Note(id)
		if !ok {
			return errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
		}

		output.NoteInfo(n, e.Comments(id), ctx.Clock.Now())

		return nil
	}
}
