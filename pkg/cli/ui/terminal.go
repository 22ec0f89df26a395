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


package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/prompt"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	input = prompt.NewReader(os.Stdin)
	// stdinInput is unset while a replaced reader is in use
	stdinInput = true
)

// SetInput replaces the reader prompts read from. It returns a function
// restoring the previous one.
func SetInput(r io.Reader) func() {
	prev := input
	input = prompt.NewReader(r)
	stdinInput = false

	return func() {
		input = prev
		stdinInput = true
	}
}

// PromptInput prompts the user input and saves the result to the destination
func PromptInput(message string, dest *string) error {
	log.Askf(message, false)

	line, err := input.ReadLine()
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}

	*dest = line

	return nil
}

// PromptRequired prompts until a non-blank answer is given
func PromptRequired(message string, dest *string) error {
	for {
		if err := PromptInput(message, dest); err != nil {
			return err
		}
		if strings.TrimSpace(*dest) != "" {
			return nil
		}

		log.Warnf("%s is required\n", message)
	}
}

// PromptPassword prompts the user input a password and saves the result to the destination.
// The input is masked, meaning it is not echoed on the terminal. A password
// piped through stdin is read as a plain line.
func PromptPassword(message string, dest *string) error {
	log.Askf(message, true)

	fd := int(syscall.Stdin)
	if !stdinInput || !terminal.IsTerminal(fd) {
		line, err := input.ReadLine()
		if err != nil {
			return errors.Wrap(err, "getting user input")
		}

		*dest = line
		return nil
	}

	password, err := terminal.ReadPassword(fd)
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}

	fmt.Println("")

	*dest = string(password)

	return nil
}

// Confirm prompts for user input to confirm a choice
func Confirm(question string, optimistic bool) (bool, error) {
	log.Askf(prompt.FormatQuestion(question, optimistic), false)

	confirmed, err := input.ReadYesNo(optimistic)
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	return confirmed, nil
}

// IsPiped reports whether stdin is not a terminal
func IsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice == 0
}

// ReadStdInput reads the whole of stdin
func ReadStdInput() (string, error) {
	var lines []string

	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return "", errors.Wrap(err, "reading pipe")
	}

	return strings.Join(lines, "\n"), nil
}
