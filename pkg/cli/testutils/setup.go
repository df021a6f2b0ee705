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

package testutils

import (
	"testing"

	"github.com/notesync/notesync/pkg/cli/database"
)

// Setup1 sets up an env #1 with one account and notes the server has never seen
func Setup1(t *testing.T, db *database.DB) database.Account {
	a := database.MustInsertAccount(t, db, "https://cloud.example.com", "alice")

	database.MustInsertNote(t, db, database.Note{AccountID: a.ID, Status: database.StatusLocalCreated, Title: "Booleans", Content: "Booleans have toString()", Modified: 1515199943})

	return a
}

// Setup2 sets up an env #2 with one account and synchronized notes
func Setup2(t *testing.T, db *database.DB) database.Account {
	a := database.MustInsertAccount(t, db, "https://cloud.example.com", "alice")

	database.MustInsertNote(t, db, database.Note{
		AccountID: a.ID,
		RemoteID:  database.Int64Ptr(11),
		Title:     "Booleans",
		Content:   "Booleans have toString()",
		Category:  "js",
		Modified:  1515199943,
		ETag:      database.StringPtr("etag-11"),
	})
	database.MustInsertNote(t, db, database.Note{
		AccountID: a.ID,
		RemoteID:  database.Int64Ptr(12),
		Title:     "Dates",
		Content:   "Date object implements mathematical comparisons",
		Category:  "js",
		Modified:  1515199951,
		ETag:      database.StringPtr("etag-12"),
	})

	return a
}
