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


// Package dirs resolves the XDG base directories the command line client
// keeps its files in
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// The environment variable names for the XDG base directory specification
const (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

// Base holds the base directories of the current user
type Base struct {
	Home string
	// Config is where user-specific configurations are written
	Config string
	// Data is where user-specific data files are written
	Data string
	// Cache is where non-essential cached data is written
	Cache string
}

// Resolve builds the base directories under home, letting the XDG variables
// read through getenv take precedence
func Resolve(home string, getenv func(string) string) Base {
	readPath := func(envName, defaultPath string) string {
		if dir := getenv(envName); dir != "" {
			return dir
		}

		return defaultPath
	}

	return Base{
		Home:   home,
		Config: readPath(envConfigHome, filepath.Join(home, ".config")),
		Data:   readPath(envDataHome, filepath.Join(home, ".local", "share")),
		Cache:  readPath(envCacheHome, filepath.Join(home, ".cache")),
	}
}

// Current returns the base directories of the user running the process
func Current() (Base, error) {
	usr, err := user.Current()
	if err != nil {
		return Base{}, errors.Wrap(err, "getting home dir")
	}

	return Resolve(usr.HomeDir, os.Getenv), nil
}
