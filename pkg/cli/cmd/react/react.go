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


// Package react provides the like and dislike commands
package react

import (
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewLikeCmd returns a new like command
func NewLikeCmd(ctx context.CatatanCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "like <note id>",
		Short:   "Like a note, or take the like back",
		Example: "  catatan like 12",
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx, store.ReactionLike),
	}
}

// NewDislikeCmd returns a new dislike command
func NewDislikeCmd(ctx context.CatatanCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "dislike <note id>",
		Short:   "Dislike a note, or take the dislike back",
		Example: "  catatan dislike 12",
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx, store.ReactionDislike),
	}
}

func newRun(ctx context.CatatanCtx, t store.ReactionType) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		id := store.ID(args[0])
		status, err := e.ToggleReaction(cmd.Context(), ctx.UserID, id, t)
		if status == nil && err == nil {
			return errors.Wrapf(engine.ErrNoteNotFound, "note %s", id)
		}
		if status == nil {
			return errors.Wrap(err, "toggling the reaction")
		}

		output.LikeStatus(id.String(), *status)
		if err != nil {
			log.Warnf("the reaction could not be saved: %s\n", err.Error())
		}

		return nil
	}
}
