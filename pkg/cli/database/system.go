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


package database

import (
	"database/sql"
	_ "embed"

	"github.com/catatan/catatan/pkg/identity"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// InitSchema creates the tables if they do not exist
func InitSchema(db *DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "creating the schema")
	}

	return nil
}

// GetSystem scans the value of the system key into dest. It returns
// sql.ErrNoRows, wrapped, for a missing key.
func GetSystem(db *DB, key string, dest interface{}) error {
	if err := db.QueryRow("SELECT value FROM system WHERE key = ?", key).Scan(dest); err != nil {
		return errors.Wrapf(err, "finding system configuration record %s", key)
	}

	return nil
}

// UpsertSystem inserts or updates a system configuration
func UpsertSystem(db *DB, key, val string) error {
	_, err := db.Exec(`INSERT INTO system (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, val)
	if err != nil {
		return errors.Wrapf(err, "saving system config %s", key)
	}

	return nil
}

// DeleteSystem deletes the given system record
func DeleteSystem(db *DB, key string) error {
	if _, err := db.Exec("DELETE FROM system WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "deleting system config %s", key)
	}

	return nil
}

// SystemKV exposes the system table as a key/value store
type SystemKV struct {
	DB *DB
}

var _ identity.KV = SystemKV{}

// Get returns the value of the key, or an empty string if it is missing
func (kv SystemKV) Get(key string) (string, error) {
	var val string
	err := GetSystem(kv.DB, key, &val)
	if errors.Cause(err) == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return val, nil
}

// Set stores the value of the key
func (kv SystemKV) Set(key, value string) error {
	return UpsertSystem(kv.DB, key, value)
}
