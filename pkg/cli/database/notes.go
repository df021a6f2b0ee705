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
	"strings"

	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
)

// ErrNoteDeleted is an error for editing a note that is pending deletion
var ErrNoteDeleted = errors.New("note is deleted")

// nextModified returns the modification time of a local edit. It never goes
// backwards so that a guarded write always notices an edit, even one made
// within the same second or against a server clock that runs ahead.
func nextModified(prev, now int64) int64 {
	if now > prev {
		return now
	}

	return prev + 1
}

// CreateLocalNote inserts a note that exists only locally and returns its id
func CreateLocalNote(db *DB, accountID int, p NoteParams, now int64) (int, error) {
	title := p.Title
	if title == "" {
		title = utils.GenerateTitle(p.Content)
	}

	res, err := db.Exec(`INSERT INTO notes
		(account_id, status, title, category, modified, content, favorite, excerpt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, StatusLocalCreated, title, p.Category, now, p.Content, p.Favorite, utils.GenerateExcerpt(p.Content, title))
	if err != nil {
		return 0, errors.Wrap(err, "inserting a note")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting the note id")
	}

	return int(id), nil
}

// GetNote finds the note with the given id
func GetNote(db *DB, id int) (Note, error) {
	return getNote(db, id)
}

// editLocal applies the mutation to the note and marks it as locally edited
func editLocal(db *DB, id int, now int64, mutate func(n *Note)) (Note, error) {
	var ret Note

	err := db.inTx(func(tx *DB) error {
		n, err := getNote(tx, id)
		if err != nil {
			return err
		}

		status := n.Status
		switch n.Status {
		case StatusVoid, StatusLocalEdited:
			status = StatusLocalEdited
		case StatusLocalCreated:
			status = StatusLocalCreated
		case StatusLocalDeleted:
			return errors.Wrapf(ErrNoteDeleted, "note %d", id)
		}

		mutate(&n)
		n.Status = status
		n.Modified = nextModified(n.Modified, now)
		n.Excerpt = utils.GenerateExcerpt(n.Content, n.Title)

		_, err = tx.Exec(`UPDATE notes
			SET status = ?, title = ?, category = ?, modified = ?, content = ?, favorite = ?, excerpt = ?
			WHERE id = ?`,
			n.Status, n.Title, n.Category, n.Modified, n.Content, n.Favorite, n.Excerpt, id)
		if err != nil {
			return errors.Wrapf(err, "updating note %d", id)
		}

		ret = n
		return nil
	})

	return ret, err
}

// EditLocalNote replaces the user editable fields of the note
func EditLocalNote(db *DB, id int, p NoteParams, now int64) (Note, error) {
	return editLocal(db, id, now, func(n *Note) {
		n.Title = p.Title
		if n.Title == "" {
			n.Title = utils.GenerateTitle(p.Content)
		}
		n.Content = p.Content
		n.Category = p.Category
		n.Favorite = p.Favorite
	})
}

// ToggleFavorite flips the favorite flag of the note
func ToggleFavorite(db *DB, id int, now int64) (Note, error) {
	return editLocal(db, id, now, func(n *Note) {
		n.Favorite = !n.Favorite
	})
}

// SetCategory moves the note to the given category
func SetCategory(db *DB, id int, category string, now int64) (Note, error) {
	return editLocal(db, id, now, func(n *Note) {
		n.Category = category
	})
}

// DeleteLocalNote marks the note for deletion. A note the server has never
// seen is purged right away.
func DeleteLocalNote(db *DB, id int) error {
	return db.inTx(func(tx *DB) error {
		n, err := getNote(tx, id)
		if err != nil {
			return err
		}

		switch n.Status {
		case StatusLocalDeleted:
			return nil
		case StatusVoid, StatusLocalCreated, StatusLocalEdited:
			if n.RemoteID == nil {
				if _, err := tx.Exec("DELETE FROM notes WHERE id = ?", id); err != nil {
					return errors.Wrapf(err, "purging note %d", id)
				}

				return nil
			}
		}

		if _, err := tx.Exec("UPDATE notes SET status = ? WHERE id = ?", StatusLocalDeleted, id); err != nil {
			return errors.Wrapf(err, "marking note %d as deleted", id)
		}

		return nil
	})
}

// SetScrollY stores the scroll position of the note. It is never synced.
func SetScrollY(db *DB, id int, y int) error {
	if _, err := db.Exec("UPDATE notes SET scroll_y = ? WHERE id = ?", y, id); err != nil {
		return errors.Wrapf(err, "updating scroll position of note %d", id)
	}

	return nil
}

// ListNotes returns the notes of the account that are not pending deletion.
// An empty category lists every category.
func ListNotes(db *DB, accountID int, category string) ([]Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE account_id = ? AND status != ?"
	args := []interface{}{accountID, StatusLocalDeleted}

	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY favorite DESC, modified DESC, id DESC"

	return queryNotes(db, query, args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return r.Replace(s)
}

// SearchNotes returns the notes of the account whose title or content contains the query
func SearchNotes(db *DB, accountID int, query string) ([]Note, error) {
	pattern := "%" + escapeLike(query) + "%"

	return queryNotes(db, "SELECT "+noteColumns+` FROM notes
		WHERE account_id = ? AND status != ?
		AND (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')
		ORDER BY favorite DESC, modified DESC, id DESC`,
		accountID, StatusLocalDeleted, pattern, pattern)
}

// GetCategories returns the categories of the account with the number of notes in each
func GetCategories(db *DB, accountID int) ([]CategoryCount, error) {
	rows, err := db.Query(`SELECT category, count(*) FROM notes
		WHERE account_id = ? AND status != ?
		GROUP BY category ORDER BY category`, accountID, StatusLocalDeleted)
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	defer rows.Close()

	ret := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scanning a category")
		}

		ret = append(ret, c)
	}

	return ret, rows.Err()
}
