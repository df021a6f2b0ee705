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

package edit

import (
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/validate"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestToParams(t *testing.T) {
	derived := database.Note{Title: "Groceries", Content: "Groceries\nmilk", Category: "Shopping", Favorite: true}
	custom := database.Note{Title: "List", Content: "Groceries\nmilk"}

	testCases := []struct {
		name     string
		note     database.Note
		changes  changes
		expected database.NoteParams
	}{
		{
			name:     "no changes",
			note:     derived,
			expected: database.NoteParams{Title: "Groceries", Content: "Groceries\nmilk", Category: "Shopping", Favorite: true},
		},
		{
			name:     "derived title follows content",
			note:     derived,
			changes:  changes{Content: strPtr("Shopping list\nmilk")},
			expected: database.NoteParams{Title: "", Content: "Shopping list\nmilk", Category: "Shopping", Favorite: true},
		},
		{
			name:     "custom title is kept",
			note:     custom,
			changes:  changes{Content: strPtr("Shopping list\nmilk")},
			expected: database.NoteParams{Title: "List", Content: "Shopping list\nmilk"},
		},
		{
			name:     "explicit title",
			note:     derived,
			changes:  changes{Title: strPtr("Errands"), Content: strPtr("bread")},
			expected: database.NoteParams{Title: "Errands", Content: "bread", Category: "Shopping", Favorite: true},
		},
		{
			name:     "category and favorite",
			note:     derived,
			changes:  changes{Category: strPtr(""), Favorite: boolPtr(false)},
			expected: database.NoteParams{Title: "Groceries", Content: "Groceries\nmilk"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.DeepEqual(t, toParams(tc.note, tc.changes), tc.expected, "params mismatch")
		})
	}
}

func TestEditNote(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := database.MustInsertAccount(t, ctx.DB, "https://cloud.example.com", "alice")
	n := database.MustInsertNote(t, ctx.DB, database.Note{
		AccountID: a.ID,
		RemoteID:  database.Int64Ptr(7),
		Title:     "Groceries",
		Content:   "Groceries\nmilk",
		Modified:  100,
	})

	got, err := editNote(ctx, n, changes{Content: strPtr("Errands\nbread")})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got.Title, "Errands", "title mismatch")
	assert.Equal(t, got.Content, "Errands\nbread", "content mismatch")
	assert.Equal(t, got.Status, database.StatusLocalEdited, "status mismatch")

	stored := database.MustGetNote(t, ctx.DB, n.ID)
	assert.Equal(t, stored.Content, "Errands\nbread", "stored content mismatch")
}

func TestEditNote_invalid(t *testing.T) {
	ctx := context.InitTestCtx(t)
	a := database.MustInsertAccount(t, ctx.DB, "https://cloud.example.com", "alice")
	n := database.MustInsertNote(t, ctx.DB, database.Note{AccountID: a.ID, Title: "a", Content: "a"})

	_, err := editNote(ctx, n, changes{Category: strPtr("../secret")})
	assert.EqualErrors(t, err, validate.ErrCategoryRelative, "error mismatch")

	_, err = editNote(ctx, n, changes{Title: strPtr(""), Content: strPtr("")})
	assert.NotEqual(t, err, nil, "emptying a note should be rejected")

	stored := database.MustGetNote(t, ctx.DB, n.ID)
	assert.Equal(t, stored.Status, database.StatusVoid, "the note should be untouched")
}
