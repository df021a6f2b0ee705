/* Copyright 2025 Dnote Authors
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
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/notesync/notesync/pkg/server/database/migrations"
	"github.com/notesync/notesync/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MigrationTableName is the name of the table that keeps track of applied migrations
const MigrationTableName = "schema_migrations"

type migrationFile struct {
	filename string
	version  int
}

// parseMigrationFilename checks that the name follows NNN-description.sql and
// returns its version
func parseMigrationFilename(name string) (int, error) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	if len(parts[0]) != 3 {
		return 0, errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version < 0 {
		return 0, errors.Errorf("invalid migration filename %s: version must be numeric", name)
	}

	return version, nil
}

// readMigrations reads, validates and sorts the migration files
func readMigrations(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migrationFile
	seen := map[int]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}

		version, err := parseMigrationFilename(name)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[version]; ok {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", version, existing, name)
		}
		seen[version] = name

		ret = append(ret, migrationFile{filename: name, version: version})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

// SchemaVersion returns the version of the last applied migration
func SchemaVersion(db *gorm.DB) (int, error) {
	var version int
	q := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", MigrationTableName)
	if err := db.Raw(q).Scan(&version).Error; err != nil {
		return 0, errors.Wrap(err, "reading schema version")
	}

	return version, nil
}

// Migrate runs the embedded migrations that have not been applied yet
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`, MigrationTableName)).Error; err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	files, err := readMigrations(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
		"files":   len(files),
	}).Debug("Database schema version.")

	for _, m := range files {
		if m.version <= version {
			continue
		}

		sql, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration file %s", m.filename)
		}
		if len(strings.TrimSpace(string(sql))) == 0 {
			return errors.Errorf("migration file %s is empty", m.filename)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sql)).Error; err != nil {
				return errors.Wrapf(err, "running migration %s", m.filename)
			}

			q := fmt.Sprintf("INSERT INTO %s (version) VALUES (?)", MigrationTableName)
			if err := tx.Exec(q, m.version).Error; err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("Applied migration.")
	}

	return nil
}
