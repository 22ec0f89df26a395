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


package ls

import (
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List all notes, newest first
 catatan ls

 * List the most liked notes of a subject
 catatan ls --subject nahwu --sort likes`

func validateSort(s string) error {
	switch s {
	case engine.SortLikes, engine.SortRecent, engine.SortOldest:
		return nil
	}

	return errors.Errorf("unknown sort '%s'. Use one of: likes, recent, oldest", s)
}

func validateSubject(s string) error {
	if s == "" || s == subject.All || s == subject.Other || subject.Valid(s) {
		return nil
	}

	return errors.Errorf("unknown subject '%s'. Run 'catatan categories' to see the subjects", s)
}

// NewCmd returns a new ls command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	var subjectFlag, sortFlag string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l", "notes"},
		Short:   "List notes",
		Example: example,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSort(sortFlag); err != nil {
				return err
			}
			return validateSubject(subjectFlag)
		},
		RunE: newRun(ctx, &subjectFlag, &sortFlag),
	}

	f := cmd.Flags()
	f.StringVarP(&subjectFlag, "subject", "s", subject.All, "only list notes of the subject")
	f.StringVar(&sortFlag, "sort", engine.SortRecent, "sort order: likes, recent or oldest")

	return cmd
}

func newRun(ctx context.CatatanCtx, subjectTag, sortBy *string) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		output.Notes(e.Filtered(*subjectTag, *sortBy))

		return nil
	}
}
