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
	"strings"

	"github.com/notesync/notesync/pkg/cli/database/migrations"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"
)

type migrationFile struct {
	filename string
	version  int
}

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	version := parts[0]
	if len(version) != 3 {
		return errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}

	return nil
}

// getMigrationFiles reads, validates, and sorts migration files
func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migrationFile
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		if err := validateMigrationFilename(name); err != nil {
			return nil, err
		}

		var v int
		fmt.Sscanf(name, "%d", &v)

		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		ret = append(ret, migrationFile{filename: name, version: v})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

// SchemaVersion returns the version of the last applied migration
func SchemaVersion(db *DB) (int, error) {
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "reading current version")
	}

	return version, nil
}

// Migrate brings the schema to the latest version
func Migrate(db *DB) error {
	return migrate(db, migrations.Files, 0)
}

// migrate applies the pending migrations of fsys up to and including target.
// A target of 0 applies all of them.
func migrate(db *DB, fsys fs.FS, target int) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations
		(
			version integer PRIMARY KEY,
			applied_at datetime DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		return err
	}

	for _, m := range files {
		if m.version <= version {
			continue
		}
		if target > 0 && m.version > target {
			break
		}

		log.Debug("applying migration %s\n", m.filename)

		b, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration file %s", m.filename)
		}
		if len(strings.TrimSpace(string(b))) == 0 {
			return errors.Errorf("migration file %s is empty", m.filename)
		}

		err = db.inTx(func(tx *DB) error {
			if _, err := tx.Exec(string(b)); err != nil {
				return errors.Wrapf(err, "running migration %s", m.filename)
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
