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


package sync

import (
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  catatan sync`

// NewCmd returns a new sync command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s", "refresh"},
		Short:   "Synchronize with the store",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := engine.Open(cmd.Context(), engine.Params{
			Store:  ctx.Store,
			Clock:  ctx.Clock,
			UserID: ctx.UserID,
		})
		if err != nil {
			return errors.Wrap(err, "opening the engine")
		}

		// a degraded bootstrap gets one more round of attempts
		if e.Status().Degraded {
			log.Debug("bootstrap degraded, refreshing\n")

			if err := e.Refresh(cmd.Context()); err != nil && errors.Cause(err) != engine.ErrDegraded {
				return errors.Wrap(err, "refreshing")
			}
		}

		s := e.Status()
		if !s.Degraded {
			if err := infra.RecordSync(ctx, s); err != nil {
				return err
			}
		}

		output.Status(s)
		log.Plainf("%d notes in %d subjects\n", e.TotalNotes(), e.TotalSubjects())

		return nil
	}
}
