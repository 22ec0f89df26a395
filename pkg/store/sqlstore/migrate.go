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
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store/sqlstore/migrations"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

// MigrationTableName is the name of the table that keeps track of data migrations
var MigrationTableName = "data_migrations"

// InitSchema migrates the database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Note{},
		&Like{},
		&Comment{},
	); err != nil {
		return errors.Wrap(err, "auto migrating schema")
	}

	return nil
}

// Migrate applies the pending data migrations
func Migrate(db *gorm.DB, driver string) error {
	src := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.Files,
		Root:       ".",
	}

	return runMigrations(db, driver, src)
}

func runMigrations(db *gorm.DB, driver string, src migrate.MigrationSource) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting sql.DB")
	}

	dialect, err := migrationDialect(driver)
	if err != nil {
		return err
	}

	ms := migrate.MigrationSet{TableName: MigrationTableName}
	n, err := ms.Exec(sqlDB, dialect, src, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running data migrations")
	}

	log.WithFields(log.Fields{
		"count": n,
	}).Info("Data migrations applied.")

	return nil
}

func migrationDialect(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	case DriverMySQL:
		return "mysql", nil
	}

	return "", errors.Errorf("unsupported driver '%s'", driver)
}
