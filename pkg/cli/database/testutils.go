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
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
)

// MustScan scans the given row and fails a test in case of any errors
func MustScan(t *testing.T, message string, row *sql.Row, args ...interface{}) {
	err := row.Scan(args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "scanning a row"), message))
	}
}

// MustExec executes the given SQL query and fails a test if an error occurs
func MustExec(t *testing.T, message string, db *DB, query string, args ...interface{}) sql.Result {
	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "executing sql"), message))
	}

	return result
}

// InitTestMemoryDB initializes an in-memory test database with the latest schema
func InitTestMemoryDB(t *testing.T) *DB {
	db := InitTestMemoryDBRaw(t)

	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating the test database"))
	}

	return db
}

// InitTestMemoryDBRaw initializes an empty in-memory test database without any schema.
// It is used for migration testing.
func InitTestMemoryDBRaw(t *testing.T) *DB {
	uuid := mustGenerateTestUUID(t)
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)

	db, err := Open(dbName)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening in-memory database"))
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// InitTestFileDB initializes a file-based test database with the latest schema
func InitTestFileDB(t *testing.T) (*DB, string) {
	uuid := mustGenerateTestUUID(t)
	dbPath := filepath.Join(t.TempDir(), fmt.Sprintf("notesync-%s.db", uuid))

	db, err := Open(dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	if err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating the test database"))
	}

	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

// MustInsertAccount inserts an account for the given user and host and fails the test on error
func MustInsertAccount(t *testing.T, db *DB, url, user string) Account {
	a := Account{
		URL:         url,
		UserName:    user,
		AccountName: fmt.Sprintf("%s@%s", user, url),
	}

	id, err := InsertAccount(db, a)
	if err != nil {
		t.Fatal(errors.Wrap(err, "inserting account"))
	}
	a.ID = id

	return a
}

// MustInsertNote inserts the note as is and fails the test on error. It returns the note with its id.
func MustInsertNote(t *testing.T, db *DB, n Note) Note {
	if n.Status == "" {
		n.Status = StatusVoid
	}

	res := MustExec(t, "inserting note", db, `INSERT INTO notes
		(remote_id, account_id, status, title, category, modified, content, favorite, etag, excerpt, scroll_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.RemoteID, n.AccountID, n.Status, n.Title, n.Category, n.Modified, n.Content, n.Favorite, n.ETag, n.Excerpt, n.ScrollY)

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting the note id"))
	}
	n.ID = int(id)

	return n
}

// MustGetNote finds the note with the given id and fails the test on error
func MustGetNote(t *testing.T, db *DB, id int) Note {
	n, err := GetNote(db, id)
	if err != nil {
		t.Fatal(errors.Wrapf(err, "getting note %d", id))
	}

	return n
}

// CountNotes returns the number of notes of the account
func CountNotes(t *testing.T, db *DB, accountID int) int {
	var count int
	MustScan(t, "counting notes", db.QueryRow("SELECT count(*) FROM notes WHERE account_id = ?", accountID), &count)

	return count
}

// mustGenerateTestUUID generates a UUID for test databases and fails the test on error
func mustGenerateTestUUID(t *testing.T) string {
	uuid, err := utils.GenerateUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "generating UUID for test database"))
	}
	return uuid
}
