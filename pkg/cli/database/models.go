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

	"github.com/pkg/errors"
)

// Account is a binding of a remote server and a user
type Account struct {
	ID          int
	URL         string
	UserName    string
	AccountName string
	// ETag is the ETag of the last notes listing
	ETag *string
	// Modified is the server time of the last successful pull, in seconds
	Modified         int64
	APIVersion       *string
	Color            string
	TextColor        string
	CapabilitiesETag *string
	DisplayName      string
}

// Note represents a note
type Note struct {
	ID        int
	RemoteID  *int64
	AccountID int
	Status    Status
	Title     string
	Category  string
	// Modified is in seconds and never decreases for local edits
	Modified int64
	Content  string
	Favorite bool
	ETag     *string
	Excerpt  string
	ScrollY  int
}

// Snapshot returns the values of the note that a guarded write compares against
func (n Note) Snapshot() Snapshot {
	return Snapshot{
		Modified: n.Modified,
		Content:  n.Content,
		Favorite: n.Favorite,
		Category: n.Category,
	}
}

// Snapshot is the state of a note as last observed by a caller of a guarded write
type Snapshot struct {
	Modified int64
	Content  string
	Favorite bool
	Category string
}

// RemoteValues is the server representation of a note
type RemoteValues struct {
	RemoteID int64
	Title    string
	Content  string
	Category string
	Favorite bool
	ETag     string
	Modified int64
}

// SyncDataEntry is a lightweight projection of a note with a remote id
type SyncDataEntry struct {
	ID       int
	RemoteID int64
	ETag     *string
	Status   Status
	Modified int64
}

// NoteParams holds the user editable fields of a note
type NoteParams struct {
	Title    string
	Content  string
	Category string
	Favorite bool
}

// CategoryCount is a category and the number of notes in it
type CategoryCount struct {
	Category string
	Count    int
}

const noteColumns = "id, remote_id, account_id, status, title, category, modified, content, favorite, etag, excerpt, scroll_y"

const accountColumns = "id, url, user_name, account_name, etag, modified, api_version, color, text_color, capabilities_etag, display_name"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(s scanner) (Note, error) {
	var n Note

	err := s.Scan(&n.ID, &n.RemoteID, &n.AccountID, &n.Status, &n.Title, &n.Category,
		&n.Modified, &n.Content, &n.Favorite, &n.ETag, &n.Excerpt, &n.ScrollY)

	return n, err
}

func scanAccount(s scanner) (Account, error) {
	var a Account

	err := s.Scan(&a.ID, &a.URL, &a.UserName, &a.AccountName, &a.ETag, &a.Modified,
		&a.APIVersion, &a.Color, &a.TextColor, &a.CapabilitiesETag, &a.DisplayName)

	return a, err
}

// queryNotes runs the given query and reads every row before returning
func queryNotes(db *DB, query string, args ...interface{}) ([]Note, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	defer rows.Close()

	ret := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a note")
		}

		ret = append(ret, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating notes")
	}

	return ret, nil
}

func getNote(db *DB, id int) (Note, error) {
	row := db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return n, errors.Wrapf(ErrNotFound, "note %d", id)
	} else if err != nil {
		return n, errors.Wrapf(err, "finding note %d", id)
	}

	return n, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting affected rows")
	}

	return n, nil
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to the given integer
func Int64Ptr(i int64) *int64 {
	return &i
}
