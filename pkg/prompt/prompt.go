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


// Package prompt reads answers to interactive questions
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

// ParseYesNo interprets an answer. "y", "yes" and "ya" confirm. In optimistic
// mode a blank answer confirms too.
func ParseYesNo(input string, optimistic bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "ya":
		return true
	case "":
		return optimistic
	default:
		return false
	}
}

// Reader reads answers line by line. A single Reader must be used for a
// stream so that buffered input is not lost between questions.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned with a nil error.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", errors.Wrap(err, "reading input")
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ReadYesNo reads an answer to a yes/no question
func (r *Reader) ReadYesNo(optimistic bool) (bool, error) {
	line, err := r.ReadLine()
	if err != nil {
		return false, err
	}

	return ParseYesNo(line, optimistic), nil
}
