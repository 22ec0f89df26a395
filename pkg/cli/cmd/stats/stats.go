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


package stats

import (
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/spf13/cobra"
)

// NewCmd returns a new stats command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "See how many notes and subjects there are",
		Args:  cobra.NoArgs,
		RunE:  newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.CatatanCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		log.Infof("notes: %d\n", e.TotalNotes())
		log.Infof("subjects: %d\n", e.TotalSubjects())

		return nil
	}
}
