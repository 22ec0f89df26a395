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


package activity

import (
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewCmd returns a new activity command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "See the latest uploads and comments",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("the limit must be at least 1")
			}
			return nil
		},
		RunE: newRun(ctx, &limit),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", engine.DefaultActivityLimit, "the number of entries to show")

	return cmd
}

func newRun(ctx context.CatatanCtx, limit *int) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		output.Activity(e.RecentActivity(*limit))

		return nil
	}
}
