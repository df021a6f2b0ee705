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

package app

import (
	"strconv"
	"strings"

	"github.com/notesync/notesync/pkg/clock"
	"github.com/notesync/notesync/pkg/server/database"
	"github.com/notesync/notesync/pkg/server/helpers"
	"github.com/notesync/notesync/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NoteParams are the fields of a note sent by a client. Nil fields are
// left unchanged on update.
type NoteParams struct {
	Title    *string
	Content  *string
	Category *string
	Favorite *bool
	Modified *int64
}

func (p NoteParams) validate() error {
	if p.Modified != nil && *p.Modified < 0 {
		return errors.Wrap(ErrInvalidNote, "modified must not be negative")
	}
	if p.Title != nil && strings.ContainsAny(*p.Title, "\n\r") {
		return errors.Wrap(ErrInvalidNote, "title must be a single line")
	}

	return nil
}

// apply copies the given fields onto the note. A missing or empty title is
// derived from the content.
func (p NoteParams) apply(note *database.Note, now int64) {
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Category != nil {
		note.Category = strings.TrimSpace(*p.Category)
	}
	if p.Favorite != nil {
		note.Favorite = *p.Favorite
	}

	if p.Title != nil {
		note.Title = strings.TrimSpace(*p.Title)
	}
	if note.Title == "" {
		note.Title = deriveTitle(note.Content)
	}

	if p.Modified != nil && *p.Modified > 0 {
		note.Modified = *p.Modified
	} else {
		note.Modified = now
	}
}

// saveWithETag saves the note and then stores its etag, which depends on the id
func saveWithETag(tx *gorm.DB, note *database.Note) error {
	if err := tx.Save(note).Error; err != nil {
		return errors.Wrap(err, "saving note")
	}

	note.ETag = note.ComputeETag()
	if err := tx.Model(note).Update("etag", note.ETag).Error; err != nil {
		return errors.Wrap(err, "saving etag")
	}

	return nil
}

// NotesListing is the result of listing the notes of a user
type NotesListing struct {
	Notes []database.Note
	// ETag identifies the state of every note of the user
	ETag string
	// LastModified is the most recent modification time among the notes
	LastModified int64
}

// ListNotes returns every note of the user ordered by id
func (a *App) ListNotes(user database.User) (NotesListing, error) {
	notes := []database.Note{}
	if err := a.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&notes).Error; err != nil {
		return NotesListing{}, errors.Wrap(err, "finding notes")
	}

	parts := make([]string, 0, len(notes))
	var lastModified int64
	for _, n := range notes {
		parts = append(parts, strconv.Itoa(n.ID)+":"+n.ETag)
		if n.Modified > lastModified {
			lastModified = n.Modified
		}
	}

	return NotesListing{
		Notes:        notes,
		ETag:         helpers.Digest(parts...),
		LastModified: lastModified,
	}, nil
}

// GetNote returns a note of the user
func (a *App) GetNote(user database.User, id int) (database.Note, error) {
	return getNote(a.DB, user, id)
}

func getNote(db *gorm.DB, user database.User, id int) (database.Note, error) {
	var note database.Note
	err := db.Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Note{}, ErrNotFound
	} else if err != nil {
		return database.Note{}, errors.Wrap(err, "finding note")
	}

	// notes of other users are reported as missing
	if !permissions.AccessNote(&user, note) {
		return database.Note{}, ErrNotFound
	}

	return note, nil
}

// CreateNote creates a note for the user. The modification time defaults to now.
func (a *App) CreateNote(user database.User, p NoteParams) (database.Note, error) {
	if err := p.validate(); err != nil {
		return database.Note{}, err
	}

	note := database.Note{UserID: user.ID}
	p.apply(&note, clock.Unix(a.Clock))

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		return saveWithETag(tx, &note)
	})
	if err != nil {
		return database.Note{}, err
	}

	return note, nil
}

// UpdateNote updates a note of the user. A non-empty ifMatch must match the
// current etag of the note, otherwise ErrPreconditionFailed is returned.
func (a *App) UpdateNote(user database.User, id int, ifMatch string, p NoteParams) (database.Note, error) {
	if err := p.validate(); err != nil {
		return database.Note{}, err
	}

	var note database.Note
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = getNote(tx, user, id)
		if err != nil {
			return err
		}

		if ifMatch != "" && !helpers.MatchETag(ifMatch, note.ETag) {
			return ErrPreconditionFailed
		}

		p.apply(&note, clock.Unix(a.Clock))

		return saveWithETag(tx, &note)
	})
	if err != nil {
		return database.Note{}, err
	}

	return note, nil
}

// DeleteNote deletes a note of the user
func (a *App) DeleteNote(user database.User, id int) error {
	res := a.DB.Where("user_id = ? AND id = ?", user.ID, id).Delete(&database.Note{})
	if err := res.Error; err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
