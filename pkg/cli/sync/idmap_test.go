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

package sync

import (
	"context"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/database"
)

func TestIDMapper_Build(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	a1 := database.MustInsertAccount(t, db, "https://a.example.com", "alice")
	a2 := database.MustInsertAccount(t, db, "https://b.example.com", "bob")

	n1 := database.MustInsertNote(t, db, database.Note{AccountID: a1.ID, RemoteID: database.Int64Ptr(1), Modified: 10})
	n3 := database.MustInsertNote(t, db, database.Note{AccountID: a1.ID, RemoteID: database.Int64Ptr(2), Modified: 20})
	database.MustInsertNote(t, db, database.Note{AccountID: a1.ID, RemoteID: database.Int64Ptr(3), Status: database.StatusLocalDeleted})
	database.MustInsertNote(t, db, database.Note{AccountID: a1.ID, Status: database.StatusLocalCreated})
	database.MustInsertNote(t, db, database.Note{AccountID: a2.ID, RemoteID: database.Int64Ptr(1)})

	m, err := NewIDMapper(db).Build(context.Background(), a1.ID)
	if err != nil {
		t.Fatal(err)
	}

	assert.DeepEqual(t, m, IDMap{1: n1.ID, 2: n3.ID}, "map mismatch")

	id, ok := m.Lookup(2)
	assert.Equal(t, ok, true, "remote id 2 should be mapped")
	assert.Equal(t, id, n3.ID, "local id mismatch")

	_, ok = m.Lookup(3)
	assert.Equal(t, ok, false, "notes pending deletion should not be mapped")

	assert.DeepEqual(t, m.Reverse(), map[int]int64{n1.ID: 1, n3.ID: 2}, "reverse mismatch")
}

func TestIDMapper_Build_cancelled(t *testing.T) {
	db := database.InitTestMemoryDB(t)
	a := database.MustInsertAccount(t, db, "https://a.example.com", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIDMapper(db).Build(ctx, a.ID)
	assert.EqualErrors(t, err, context.Canceled, "error mismatch")
}
