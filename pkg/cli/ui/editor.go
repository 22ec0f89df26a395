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


// Package ui provides the user interface for the program
package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/catatan/catatan/pkg/cli/consts"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/catatan/catatan/pkg/cli/utils"
	"github.com/pkg/errors"
)

// GetTmpContentPath returns the path to the temporary file containing
// content being written
func GetTmpContentPath(ctx context.CatatanCtx) (string, error) {
	dir := filepath.Join(ctx.Paths.Cache, consts.CatatanDirName)

	for i := 0; ; i++ {
		filename := fmt.Sprintf("%s_%d.%s", consts.TmpContentFileBase, i, consts.TmpContentFileExt)
		candidate := filepath.Join(dir, filename)

		ok, err := utils.FileExists(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking if file exists at %s", candidate)
		}
		if !ok {
			return candidate, nil
		}
	}
}

// DefaultEditor returns the editor command for $EDITOR, with the flags that
// make it wait until the file is closed
func DefaultEditor() string {
	switch editor := os.Getenv("EDITOR"); editor {
	case "subl":
		return "subl -n -w"
	case "code":
		return "code -n -w"
	case "mate":
		return "mate -w"
	case "vim", "nano", "emacs", "nvim", "hx":
		return editor
	default:
		return "vi"
	}
}

// GetEditorInput gets the user input by launching a text editor on fpath
// and waiting for it to exit. The file is removed afterwards.
func GetEditorInput(ctx context.CatatanCtx, fpath string) (string, error) {
	editor := ctx.Editor
	if editor == "" {
		editor = DefaultEditor()
	}

	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return "", errors.Wrap(err, "creating a temporary content file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "closing the temporary content file")
	}
	defer os.Remove(fpath)

	args := strings.Fields(editor)
	args = append(args, fpath)

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "running the editor %s", args[0])
	}

	b, err := os.ReadFile(fpath)
	if err != nil {
		return "", errors.Wrap(err, "reading the temporary content file")
	}

	return string(b), nil
}
