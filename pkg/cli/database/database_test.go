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
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/identity"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

func TestInitSchemaIdempotent(t *testing.T) {
	db := InitTestMemoryDB(t)

	if err := InitSchema(db); err != nil {
		t.Fatal(errors.Wrap(err, "initializing schema twice"))
	}

	var count int
	MustScan(t, "counting system rows", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, 0, "count mismatch")
}

func TestUpsertSystem(t *testing.T) {
	db := InitTestMemoryDB(t)

	if err := UpsertSystem(db, "last_sync_time", "100"); err != nil {
		t.Fatal(errors.Wrap(err, "inserting"))
	}
	if err := UpsertSystem(db, "last_sync_time", "200"); err != nil {
		t.Fatal(errors.Wrap(err, "updating"))
	}

	var count int
	MustScan(t, "counting system rows", db.QueryRow("SELECT count(*) FROM system WHERE key = ?", "last_sync_time"), &count)
	assert.Equal(t, count, 1, "count mismatch")

	var val int64
	if err := GetSystem(db, "last_sync_time", &val); err != nil {
		t.Fatal(errors.Wrap(err, "getting"))
	}
	assert.Equal(t, val, int64(200), "value mismatch")
}

func TestGetSystemMissing(t *testing.T) {
	db := InitTestMemoryDB(t)

	var val string
	err := GetSystem(db, "missing", &val)
	assert.Equal(t, errors.Cause(err), sql.ErrNoRows, "error mismatch")
}

func TestDeleteSystem(t *testing.T) {
	db := InitTestMemoryDB(t)
	MustExec(t, "inserting", db, "INSERT INTO system (key, value) VALUES (?, ?)", "admin_login_time", "1")

	if err := DeleteSystem(db, "admin_login_time"); err != nil {
		t.Fatal(errors.Wrap(err, "deleting"))
	}

	var count int
	MustScan(t, "counting system rows", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, 0, "count mismatch")
}

func TestTransactionRollback(t *testing.T) {
	db := InitTestMemoryDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(errors.Wrap(err, "beginning"))
	}
	if err := UpsertSystem(tx, "k", "v"); err != nil {
		t.Fatal(errors.Wrap(err, "upserting"))
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(errors.Wrap(err, "rolling back"))
	}

	var count int
	MustScan(t, "counting system rows", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, 0, "count mismatch")
}

func TestSystemKVIdentity(t *testing.T) {
	db := InitTestMemoryDB(t)
	kv := SystemKV{DB: db}

	got, err := kv.Get(identity.Key)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting missing key"))
	}
	assert.Equal(t, got, "", "missing key should be empty")

	id, err := identity.Resolve(kv)
	if err != nil {
		t.Fatal(errors.Wrap(err, "resolving"))
	}
	assert.Equal(t, identity.Valid(id), true, "identity should be valid")

	again, err := identity.Resolve(kv)
	if err != nil {
		t.Fatal(errors.Wrap(err, "resolving again"))
	}
	assert.Equal(t, again, id, "identity should be stable")
}
