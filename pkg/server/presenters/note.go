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

// Package presenters formats the models for the API responses
package presenters

import (
	"github.com/notesync/notesync/pkg/server/database"
)

// Note is a result of PresentNote. A note that was pruned from a listing
// only carries its id.
type Note struct {
	ID       int     `json:"id"`
	ETag     *string `json:"etag,omitempty"`
	ReadOnly *bool   `json:"readonly,omitempty"`
	Modified *int64  `json:"modified,omitempty"`
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Content  *string `json:"content,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// PresentNote presents note
func PresentNote(note database.Note) Note {
	readOnly := false

	return Note{
		ID:       note.ID,
		ETag:     &note.ETag,
		ReadOnly: &readOnly,
		Modified: &note.Modified,
		Title:    &note.Title,
		Category: &note.Category,
		Content:  &note.Content,
		Favorite: &note.Favorite,
	}
}

// PresentNoteStub presents a note as its id only
func PresentNoteStub(note database.Note) Note {
	return Note{ID: note.ID}
}

// PresentNotes presents notes. The notes modified before pruneBefore are
// presented as stubs.
func PresentNotes(notes []database.Note, pruneBefore int64) []Note {
	ret := make([]Note, 0, len(notes))

	for _, note := range notes {
		if note.Modified < pruneBefore {
			ret = append(ret, PresentNoteStub(note))
			continue
		}

		ret = append(ret, PresentNote(note))
	}

	return ret
}
