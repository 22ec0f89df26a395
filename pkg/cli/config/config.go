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


package config

import (
	"os"
	"path/filepath"

	"github.com/catatan/catatan/pkg/cli/consts"
	"github.com/catatan/catatan/pkg/cli/context"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Store kinds
const (
	StoreREST   = "rest"
	StoreSQL    = "sql"
	StoreMemory = "memory"
)

// Config holds catatan configuration
type Config struct {
	APIEndpoint       string `yaml:"apiEndpoint"`
	APIKey            string `yaml:"apiKey"`
	AdminPasswordHash string `yaml:"adminPasswordHash"`
	Author            string `yaml:"author"`
	Editor            string `yaml:"editor"`
	// Store selects the row store: rest, sql or memory
	Store string `yaml:"store"`
	// StoreDSN is the sqlite path used by the sql store
	StoreDSN string `yaml:"storeDSN,omitempty"`
}

// GetPath returns the path to the catatan config file
func GetPath(ctx context.CatatanCtx) string {
	return filepath.Join(ctx.Paths.Config, consts.CatatanDirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.CatatanCtx) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(ctx))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.CatatanCtx, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	err = os.WriteFile(GetPath(ctx), b, 0600)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// envKeys lists the variables consulted for each field, in order
var envKeys = struct {
	url, key, hash, author []string
}{
	url:    []string{"SUPABASE_URL", "VITE_SUPABASE_URL"},
	key:    []string{"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"},
	hash:   []string{"ADMIN_PASSWORD_HASH", "VITE_ADMIN_PASSWORD_HASH"},
	author: []string{"CATATAN_AUTHOR"},
}

func firstEnv(env map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := env[k]; ok && v != "" {
			return v
		}
		if v := os.Getenv(k); v != "" {
			return v
		}
	}

	return ""
}

// ApplyEnv fills the empty fields of the config from the environment and
// from the .env file at envPath, if there is one. Values in the config file
// win.
func ApplyEnv(cf Config, envPath string) (Config, error) {
	env, err := godotenv.Read(envPath)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return cf, errors.Wrapf(err, "reading %s", envPath)
		}
		env = map[string]string{}
	}

	fill := func(dst *string, keys []string) {
		if *dst == "" {
			*dst = firstEnv(env, keys)
		}
	}

	fill(&cf.APIEndpoint, envKeys.url)
	fill(&cf.APIKey, envKeys.key)
	fill(&cf.AdminPasswordHash, envKeys.hash)
	fill(&cf.Author, envKeys.author)

	return cf, nil
}
