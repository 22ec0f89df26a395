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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/store/sqlstore"
	"github.com/pkg/errors"
)

func validConfig() Config {
	return Config{
		WebURL:          "http://mock.url",
		Port:            "3000",
		Store:           StoreSQL,
		DBDriver:        sqlstore.DriverSQLite,
		DBPath:          "test.db",
		RefreshSchedule: DefaultRefreshSchedule,
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		edit        func(c *Config)
		expectedErr error
	}{
		{
			edit:        func(c *Config) {},
			expectedErr: nil,
		},
		{
			edit:        func(c *Config) { c.DBPath = "" },
			expectedErr: ErrDBMissingPath,
		},
		{
			edit:        func(c *Config) { c.WebURL = "" },
			expectedErr: ErrWebURLInvalid,
		},
		{
			edit:        func(c *Config) { c.Port = "" },
			expectedErr: ErrPortInvalid,
		},
		{
			edit:        func(c *Config) { c.Store = "redis" },
			expectedErr: ErrStoreInvalid,
		},
		{
			edit:        func(c *Config) { c.DBDriver = "oracle" },
			expectedErr: ErrDBDriverInvalid,
		},
		{
			edit:        func(c *Config) { c.DBDriver = sqlstore.DriverPostgres },
			expectedErr: ErrDBMissingPath,
		},
		{
			edit: func(c *Config) {
				c.DBDriver = sqlstore.DriverMySQL
				c.DBDSN = "user:pass@tcp(127.0.0.1:3306)/catatan?parseTime=true"
			},
			expectedErr: nil,
		},
		{
			edit:        func(c *Config) { c.Store = StoreREST },
			expectedErr: ErrRESTMissingURL,
		},
		{
			edit: func(c *Config) {
				c.Store = StoreREST
				c.SupabaseURL = "https://abc.supabase.co"
			},
			expectedErr: nil,
		},
		{
			edit:        func(c *Config) { c.Store = StoreMemory; c.DBPath = "" },
			expectedErr: nil,
		},
		{
			edit:        func(c *Config) { c.SessionSecret = "short" },
			expectedErr: ErrSessionSecretShort,
		},
		{
			edit:        func(c *Config) { c.RefreshSchedule = "every five minutes" },
			expectedErr: ErrRefreshScheduleInvalid,
		},
		{
			edit:        func(c *Config) { c.RefreshSchedule = "0 */10 * * * *" },
			expectedErr: nil,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			c := validConfig()
			tc.edit(&c)

			err := validate(c)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", AppEnvTest)
	t.Setenv("PORT", "4000")
	t.Setenv("STORE", StoreREST)
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("VITE_SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "anon")
	t.Setenv("ADMIN_PASSWORD_HASH", "abc123")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "catatan")
	t.Setenv("MINIO_USE_SSL", "true")

	c, err := New(Params{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.AppEnv, AppEnvTest, "app env mismatch")
	assert.Equal(t, c.Port, "4000", "port mismatch")
	assert.Equal(t, c.Store, StoreREST, "store mismatch")
	assert.Equal(t, c.SupabaseURL, "https://abc.supabase.co", "url mismatch")
	assert.Equal(t, c.SupabaseAnonKey, "anon", "key mismatch")
	assert.Equal(t, c.AdminPasswordHash, "abc123", "digest mismatch")
	assert.Equal(t, c.RefreshSchedule, DefaultRefreshSchedule, "schedule mismatch")
	assert.Equal(t, c.Minio.Enabled(), true, "minio should be enabled")
	assert.Equal(t, c.Minio.UseSSL, true, "ssl mismatch")
}

func TestNewParamsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("STORE", StoreREST)

	c, err := New(Params{Port: "5000", Store: StoreMemory})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "5000", "port mismatch")
	assert.Equal(t, c.Store, StoreMemory, "store mismatch")
}

func TestDSN(t *testing.T) {
	c := validConfig()
	assert.Equal(t, c.DSN(), "test.db", "sqlite path mismatch")

	c.DBDSN = "file:catatan?mode=memory"
	assert.Equal(t, c.DSN(), "file:catatan?mode=memory", "sqlite dsn mismatch")

	c = validConfig()
	c.DBDriver = sqlstore.DriverPostgres
	assert.Equal(t, c.DSN(), "", "postgres dsn mismatch")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CATATAN_TEST_FROM_FILE=file\nCATATAN_TEST_PRESET=file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing env file"))
	}

	t.Setenv("CATATAN_TEST_PRESET", "process")
	t.Setenv("CATATAN_TEST_FROM_FILE", "")
	os.Unsetenv("CATATAN_TEST_FROM_FILE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(errors.Wrap(err, "loading"))
	}

	assert.Equal(t, os.Getenv("CATATAN_TEST_FROM_FILE"), "file", "value from file mismatch")
	assert.Equal(t, os.Getenv("CATATAN_TEST_PRESET"), "process", "preset value should win")

	assert.Equal(t, LoadEnvFile(filepath.Join(dir, "missing.env")), nil, "missing file should be ignored")
}
