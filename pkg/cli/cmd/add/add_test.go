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

package add

import (
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/validate"
	"github.com/notesync/notesync/pkg/clock"
)

func TestAddNote(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := database.MustInsertAccount(t, ctx.DB, "https://cloud.example.com", "alice")

	n, err := addNote(ctx, a, database.NoteParams{
		Content:  "Groceries\nmilk\neggs",
		Category: "Shopping/Weekly",
		Favorite: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, n.AccountID, a.ID, "account mismatch")
	assert.Equal(t, n.Status, database.StatusLocalCreated, "status mismatch")
	assert.Equal(t, n.Title, "Groceries", "title should come from the first line")
	assert.Equal(t, n.Category, "Shopping/Weekly", "category mismatch")
	assert.Equal(t, n.Favorite, true, "favorite mismatch")
	assert.Equal(t, n.Modified, clock.Unix(ctx.Clock), "modified mismatch")
	assert.Equal(t, n.RemoteID == nil, true, "a new note has no remote id")
}

func TestAddNote_title(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := database.MustInsertAccount(t, ctx.DB, "https://cloud.example.com", "alice")

	n, err := addNote(ctx, a, database.NoteParams{Title: "Ideas", Content: "first line"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, n.Title, "Ideas", "title mismatch")
	assert.Equal(t, n.Content, "first line", "content mismatch")
}

func TestAddNote_invalid(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := database.MustInsertAccount(t, ctx.DB, "https://cloud.example.com", "alice")

	_, err := addNote(ctx, a, database.NoteParams{})
	assert.NotEqual(t, err, nil, "empty notes should be rejected")

	_, err = addNote(ctx, a, database.NoteParams{Content: "x", Category: "a//b"})
	assert.EqualErrors(t, err, validate.ErrCategoryEmptySegment, "error mismatch")

	assert.Equal(t, database.CountNotes(t, ctx.DB, a.ID), 0, "no note should be written")
}
