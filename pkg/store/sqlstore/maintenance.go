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


package sqlstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func isSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == DriverSQLite
}

// Checkpoint moves the sqlite write-ahead log into the database file and
// truncates it. Other drivers manage their own logs and are left alone.
func Checkpoint(db *gorm.DB) error {
	if !isSQLite(db) {
		return nil
	}

	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return errors.Wrap(err, "checkpointing the write-ahead log")
	}

	return nil
}

// Vacuum rebuilds the sqlite database file to reclaim the space of deleted
// notes. It is a no-op for other drivers.
func Vacuum(db *gorm.DB) error {
	if !isSQLite(db) {
		return nil
	}

	if err := db.Exec("VACUUM").Error; err != nil {
		return errors.Wrap(err, "vacuuming the database")
	}

	return nil
}
