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
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/notesync/notesync/pkg/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// reversedFS returns directory entries in reverse order
type reversedFS struct {
	fstest.MapFS
}

func (u reversedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := u.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

type errorFS struct{}

func (e errorFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (e errorFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return nil, fs.ErrPermission
}

func openMemoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	return db
}

func TestMigrate_embedded(t *testing.T) {
	db := openMemoryDB(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, version, 2, "schema version mismatch")

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_notes_user_id_modified'").Scan(&count).Error; err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, count, int64(1), "index count mismatch")

	// a second run is a no-op
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating again: %v", err)
	}
}

func TestMigrate_idempotency(t *testing.T) {
	db := openMemoryDB(t)
	if err := db.Exec("CREATE TABLE counter (value INTEGER)").Error; err != nil {
		t.Fatal(err)
	}

	migrationsFs := fstest.MapFS{
		"001-insert-data.sql": &fstest.MapFile{Data: []byte("INSERT INTO counter (value) VALUES (100);")},
	}

	for i := 0; i < 2; i++ {
		if err := migrate(db, migrationsFs); err != nil {
			t.Fatalf("migration %d failed: %v", i, err)
		}
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM counter").Scan(&count).Error; err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, count, int64(1), "row count mismatch")
}

func TestMigrate_ordering(t *testing.T) {
	db := openMemoryDB(t)
	if err := db.Exec("CREATE TABLE log (value INTEGER)").Error; err != nil {
		t.Fatal(err)
	}

	migrationsFs := reversedFS{
		MapFS: fstest.MapFS{
			"010-tenth.sql":  &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (3);")},
			"001-first.sql":  &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (1);")},
			"002-second.sql": &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (2);")},
		},
	}
	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var values []int
	if err := db.Raw("SELECT value FROM log ORDER BY rowid").Scan(&values).Error; err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, values, []int{1, 2, 3}, "order mismatch")

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, version, 10, "schema version mismatch")
}

func TestMigrate_errors(t *testing.T) {
	testCases := []struct {
		name string
		fsys fs.FS
	}{
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"001-first.sql":  &fstest.MapFile{Data: []byte("SELECT 1;")},
				"001-second.sql": &fstest.MapFile{Data: []byte("SELECT 2;")},
			},
		},
		{
			name: "read dir error",
			fsys: errorFS{},
		},
		{
			name: "invalid sql",
			fsys: fstest.MapFS{
				"001-bad-sql.sql": &fstest.MapFile{Data: []byte("INVALID SQL SYNTAX HERE;")},
			},
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{
				"001-empty.sql": &fstest.MapFile{Data: []byte("  \n\t ")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := openMemoryDB(t)

			if err := migrate(db, tc.fsys); err == nil {
				t.Fatal("expected an error, got nil")
			}

			version, err := SchemaVersion(db)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, version, 0, "schema version mismatch")
		})
	}
}

func TestParseMigrationFilename(t *testing.T) {
	testCases := []struct {
		filename string
		version  int
		wantErr  bool
	}{
		{"001-init.sql", 1, false},
		{"012-add-feature-v2.sql", 12, false},
		{"1-init.sql", 0, true},
		{"01-init.sql", 0, true},
		{"001init.sql", 0, true},
		{"001-.sql", 0, true},
		{"001-init.txt", 0, true},
		{"0a1-init.sql", 0, true},
		{"001_init.sql", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			version, err := parseMigrationFilename(tc.filename)

			assert.Equal(t, err != nil, tc.wantErr, "error mismatch")
			assert.Equal(t, version, tc.version, "version mismatch")
		})
	}
}
