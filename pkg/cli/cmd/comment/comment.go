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


// Package comment provides the commands to read and write comments
package comment

import (
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

var example = `
 * Comment on the note with id 12
 catatan comment 12 -m "jazakallah khair"

 * Comment under another name
 catatan comment 12 -m "mantap" -a Fatimah`

// NewCmd returns a new comment command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	var message, author string

	cmd := &cobra.Command{
		Use:     "comment <note id>",
		Short:   "Comment on a note",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx, &message, &author),
	}

	f := cmd.Flags()
	f.StringVarP(&message, "message", "m", "", "the comment text (prompted when missing)")
	f.StringVarP(&author, "author", "a", "", "the name shown with the comment (defaults to the configured author)")

	return cmd
}

func newRun(ctx context.CatatanCtx, message, author *string) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		text := *message
		if text == "" {
			if err := ui.PromptRequired("Comment", &text); err != nil {
				return err
			}
		}
		name := *author
		if name == "" {
			name = ctx.Author
		}

		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		c, err := e.AddComment(cmd.Context(), store.ID(args[0]), text, name)
		if err != nil {
			return errors.Wrap(err, "adding the comment")
		}

		log.Successf("commented on %s as %s\n", c.NoteID, c.Author)

		return nil
	}
}

// NewListCmd returns a new comments command
func NewListCmd(ctx context.CatatanCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "comments <note id>",
		Short:   "List the comments of a note",
		Example: "  catatan comments 12",
		Args:    cobra.ExactArgs(1),
		RunE:    newListRun(ctx),
	}
}

func newListRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		id := store.ID(args[0])
		if _, ok := e.Note(id); !ok {
			return errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
		}

		output.Comments(e.Comments(id), ctx.Clock.Now())

		return nil
	}
}
