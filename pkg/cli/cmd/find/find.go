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


package find

import (
	"strings"

	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var example = `
 * Find notes by title
 catatan find nahwu

 * Letters may be skipped
 catatan find "hkm nun"`

// titles adapts notes to a fuzzy source
type titles []engine.Note

func (t titles) String(i int) string {
	return t[i].Title
}

func (t titles) Len() int {
	return len(t)
}

// Search returns the notes whose title fuzzily matches the query, best match first
func Search(notes []engine.Note, query string) []engine.Note {
	matches := fuzzy.FindFrom(query, titles(notes))

	ret := make([]engine.Note, 0, len(matches))
	for _, m := range matches {
		ret = append(ret, notes[m.Index])
	}

	return ret
}

// NewCmd returns a new find command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find <query>",
		Aliases: []string{"f"},
		Short:   "Find notes by title",
		Example: example,
		Args:    cobra.MinimumNArgs(1),
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

		query := strings.Join(args, " ")
		found := Search(e.Notes(), query)
		if len(found) == 0 {
			log.Infof("no notes match '%s'\n", query)
			return nil
		}

		output.Notes(found)

		return nil
	}
}
