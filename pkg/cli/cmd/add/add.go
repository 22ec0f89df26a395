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


package add

import (
	"strings"

	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/cli/output"
	"github.com/catatan/catatan/pkg/cli/ui"
	"github.com/catatan/catatan/pkg/cli/utils"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/subject"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Answer the prompts and write the content in an editor
 catatan add

 * Skip the prompts and the editor
 catatan add -t "Hukum Mim Mati" -s tahsin -a Aisyah -c "ikhfa syafawi, idgham mimi, izhar syafawi"

 * Attach an image
 catatan add -t "Tabel Tashrif" -s shorof -a Umar -c "fiil madhi" -i ./tashrif.png

 * Send stdin content to a note
 cat ringkasan.md | catatan add -t "Ringkasan Aqidah" -s aqidah -a Umar`

type flags struct {
	title   string
	subject string
	content string
	author  string
	image   string
}

// NewCmd returns a new add command
func NewCmd(ctx context.CatatanCtx) *cobra.Command {
	var fl flags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Upload a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx, &fl),
	}

	f := cmd.Flags()
	f.StringVarP(&fl.title, "title", "t", "", "the title of the note")
	f.StringVarP(&fl.subject, "subject", "s", "", "the subject of the note")
	f.StringVarP(&fl.content, "content", "c", "", "the content of the note")
	f.StringVarP(&fl.author, "author", "a", "", "the author shown with the note (defaults to the configured author)")
	f.StringVarP(&fl.image, "image", "i", "", "path to an image to attach (at most 4MB)")

	return cmd
}

func validateSubject(s string) error {
	if s == subject.Other || subject.Valid(s) {
		return nil
	}

	tags := make([]string, 0, len(subject.List)+1)
	for _, s := range subject.List {
		tags = append(tags, s.Tag)
	}
	tags = append(tags, subject.Other)

	return errors.Errorf("unknown subject '%s'. Use one of: %s", s, strings.Join(tags, ", "))
}

func getContent(ctx context.CatatanCtx, fl *flags) (string, error) {
	if fl.content != "" {
		return fl.content, nil
	}

	if ui.IsPiped() {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "Failed to get piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "Failed to get editor input")
	}

	return c, nil
}

// collect fills the missing fields from the prompts, the configuration and
// the editor
func collect(ctx context.CatatanCtx, fl *flags) (engine.NoteInput, error) {
	in := engine.NoteInput{
		Title:   fl.title,
		Subject: strings.ToLower(strings.TrimSpace(fl.subject)),
		Author:  fl.author,
	}

	if strings.TrimSpace(in.Title) == "" {
		if err := ui.PromptRequired("Title", &in.Title); err != nil {
			return in, err
		}
	}
	if in.Subject == "" {
		if err := ui.PromptRequired("Subject", &in.Subject); err != nil {
			return in, err
		}
		in.Subject = strings.ToLower(strings.TrimSpace(in.Subject))
	}
	if err := validateSubject(in.Subject); err != nil {
		return in, err
	}
	if strings.TrimSpace(in.Author) == "" {
		in.Author = ctx.Author
	}
	if strings.TrimSpace(in.Author) == "" {
		if err := ui.PromptRequired("Author", &in.Author); err != nil {
			return in, err
		}
	}

	content, err := getContent(ctx, fl)
	if err != nil {
		return in, errors.Wrap(err, "getting content")
	}
	if strings.TrimSpace(content) == "" {
		return in, errors.New("Empty content")
	}
	in.Content = content

	return in, nil
}

func newRun(ctx context.CatatanCtx, fl *flags) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		in, err := collect(ctx, fl)
		if err != nil {
			return err
		}

		if fl.image != "" {
			data, err := utils.ReadFileLimit(fl.image, media.MaxBytes)
			if errors.Cause(err) == utils.ErrFileTooLarge {
				return media.ErrTooLarge
			} else if err != nil {
				return errors.Wrap(err, "reading the image")
			}

			in.ImageURL, err = media.Process(cmd.Context(), ctx.Uploader, data)
			if err != nil {
				return errors.Wrap(err, "processing the image")
			}
		}

		e, err := infra.OpenEngine(cmd.Context(), ctx)
		if err != nil {
			return err
		}

		n, err := e.AddNote(cmd.Context(), in)
		if err != nil {
			return errors.Wrap(err, "Failed to upload the note")
		}

		log.Successf("uploaded to %s\n", subject.Name(n.Subject))
		output.NoteInfo(n, nil, ctx.Clock.Now())

		return nil
	}
}
