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


package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/prompt"
	"github.com/pkg/errors"
)

// errEmptyPassword is returned when no password is given
var errEmptyPassword = errors.New("password is required")

// passwordDigest returns the digest of the password, reading it from r when
// it is empty
func passwordDigest(password string, legacy bool, r io.Reader) (string, error) {
	if password == "" {
		line, err := prompt.NewReader(r).ReadLine()
		if err != nil {
			return "", errors.Wrap(err, "reading the password")
		}
		password = line
	}
	if password == "" {
		return "", errEmptyPassword
	}

	if legacy {
		return admin.SHA256Hex(password), nil
	}

	return admin.HashPassword(password)
}

func hashPasswordCmd(args []string, stdin io.Reader, stdout io.Writer) {
	fs := setupFlagSet("hash-password", "catatan-server hash-password")

	password := fs.String("password", "", "Admin password (default: read a line from stdin)")
	legacy := fs.Bool("sha256", false, "Print an unsalted SHA-256 hex digest instead of bcrypt")

	fs.Parse(args)

	digest, err := passwordDigest(*password, *legacy, stdin)
	if err != nil {
		exitUsage(fs, err)
	}

	fmt.Fprintln(stdout, digest)
	if *legacy {
		fmt.Fprintln(os.Stderr, "warning: SHA-256 digests are unsalted, prefer bcrypt")
	}
}
