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

	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
)

// GetDirtyNotes returns the notes of the account that must be pushed
func GetDirtyNotes(db *DB, accountID int) ([]Note, error) {
	return queryNotes(db, "SELECT "+noteColumns+" FROM notes WHERE account_id = ? AND status != ? ORDER BY id",
		accountID, StatusVoid)
}

// GetSyncDataEntries returns the projection of every note of the account that has a remote id
func GetSyncDataEntries(db *DB, accountID int) ([]SyncDataEntry, error) {
	rows, err := db.Query(`SELECT id, remote_id, etag, status, modified FROM notes
		WHERE account_id = ? AND remote_id IS NOT NULL`, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "querying sync data entries")
	}
	defer rows.Close()

	ret := []SyncDataEntry{}
	for rows.Next() {
		var e SyncDataEntry
		if err := rows.Scan(&e.ID, &e.RemoteID, &e.ETag, &e.Status, &e.Modified); err != nil {
			return nil, errors.Wrap(err, "scanning a sync data entry")
		}

		ret = append(ret, e)
	}

	return ret, rows.Err()
}

// BuildRemoteIDMap maps remote ids to local ids. Notes pending deletion are
// left out. When two rows claim the same remote id, the most recently
// modified one wins, then the one with the highest id.
func BuildRemoteIDMap(entries []SyncDataEntry) map[int64]int {
	ret := map[int64]int{}
	winners := map[int64]SyncDataEntry{}

	for _, e := range entries {
		switch e.Status {
		case StatusLocalDeleted:
			continue
		case StatusVoid, StatusLocalCreated, StatusLocalEdited:
		}

		cur, ok := winners[e.RemoteID]
		if ok && (cur.Modified > e.Modified || (cur.Modified == e.Modified && cur.ID > e.ID)) {
			continue
		}

		winners[e.RemoteID] = e
		ret[e.RemoteID] = e.ID
	}

	return ret
}

// GetRemoteIDMap returns the remote id to local id mapping of the account
func GetRemoteIDMap(db *DB, accountID int) (map[int64]int, error) {
	entries, err := GetSyncDataEntries(db, accountID)
	if err != nil {
		return nil, err
	}

	return BuildRemoteIDMap(entries), nil
}

func titleOf(v RemoteValues) string {
	if v.Title != "" {
		return v.Title
	}

	return utils.GenerateTitle(v.Content)
}

// ApplyRemoteCreate acknowledges the creation of a local note on the server.
// It also serves an edited note that was created again because the server
// lost it. The remote id and ETag are always recorded. The note becomes VOID
// only if it still matches the expected snapshot. Otherwise a created note is
// marked as edited so that the change made in the meantime is pushed as an
// update. It returns the number of notes that became VOID and ErrNotFound if
// the note is gone.
func ApplyRemoteCreate(db *DB, localID int, expected Snapshot, remote RemoteValues) (int64, error) {
	var applied int64

	err := db.inTx(func(tx *DB) error {
		var status Status
		err := tx.QueryRow("SELECT status FROM notes WHERE id = ?", localID).Scan(&status)
		if err == sql.ErrNoRows {
			return errors.Wrapf(ErrNotFound, "note %d", localID)
		} else if err != nil {
			return errors.Wrapf(err, "finding note %d", localID)
		}

		title := titleOf(remote)
		res, err := tx.Exec(`UPDATE notes
			SET remote_id = ?, etag = ?, title = ?, content = ?, category = ?, favorite = ?, modified = ?, excerpt = ?, status = ?
			WHERE id = ? AND status IN (?, ?)
			AND modified <= ? AND content = ? AND favorite = ? AND category = ?`,
			remote.RemoteID, remote.ETag, title, remote.Content, remote.Category, remote.Favorite, remote.Modified,
			utils.GenerateExcerpt(remote.Content, title), StatusVoid,
			localID, StatusLocalCreated, StatusLocalEdited,
			expected.Modified, expected.Content, expected.Favorite, expected.Category)
		if err != nil {
			return errors.Wrapf(err, "acknowledging creation of note %d", localID)
		}
		if applied, err = rowsAffected(res); err != nil {
			return err
		}
		if applied == 1 {
			return nil
		}

		if _, err := tx.Exec("UPDATE notes SET remote_id = ?, etag = ? WHERE id = ?",
			remote.RemoteID, remote.ETag, localID); err != nil {
			return errors.Wrapf(err, "recording remote id of note %d", localID)
		}
		if _, err := tx.Exec("UPDATE notes SET status = ? WHERE id = ? AND status = ?",
			StatusLocalEdited, localID, StatusLocalCreated); err != nil {
			return errors.Wrapf(err, "marking note %d as edited", localID)
		}

		return nil
	})

	return applied, err
}

// ApplyRemoteUpdate acknowledges an update pushed to the server. The note
// becomes VOID only if it still matches the expected snapshot. Otherwise only
// the new ETag is kept so that the next push is not rejected as a conflict.
func ApplyRemoteUpdate(db *DB, localID int, expected Snapshot, remote RemoteValues) (int64, error) {
	var applied int64

	err := db.inTx(func(tx *DB) error {
		title := titleOf(remote)
		res, err := tx.Exec(`UPDATE notes
			SET etag = ?, title = ?, content = ?, category = ?, favorite = ?, modified = ?, excerpt = ?, status = ?
			WHERE id = ? AND status = ?
			AND modified <= ? AND content = ? AND favorite = ? AND category = ?`,
			remote.ETag, title, remote.Content, remote.Category, remote.Favorite, remote.Modified,
			utils.GenerateExcerpt(remote.Content, title), StatusVoid,
			localID, StatusLocalEdited,
			expected.Modified, expected.Content, expected.Favorite, expected.Category)
		if err != nil {
			return errors.Wrapf(err, "acknowledging update of note %d", localID)
		}
		if applied, err = rowsAffected(res); err != nil {
			return err
		}
		if applied == 1 {
			return nil
		}

		if _, err := tx.Exec("UPDATE notes SET etag = ? WHERE id = ? AND status != ?",
			remote.ETag, localID, StatusVoid); err != nil {
			return errors.Wrapf(err, "recording etag of note %d", localID)
		}

		return nil
	})

	return applied, err
}

// ApplyRemoteDelete purges a note whose deletion the server acknowledged
func ApplyRemoteDelete(db *DB, localID int) (int64, error) {
	res, err := db.Exec("DELETE FROM notes WHERE id = ? AND status = ?", localID, StatusLocalDeleted)
	if err != nil {
		return 0, errors.Wrapf(err, "purging note %d", localID)
	}

	return rowsAffected(res)
}

// ApplyGuardedRemoteUpdate writes the server representation over a clean
// note. It only affects the row if the note is VOID, still matches the
// expected snapshot and at least one remote column differs. The excerpt is
// derived locally and plays no part in the decision. It returns 0 or 1.
func ApplyGuardedRemoteUpdate(db *DB, localID int, expected Snapshot, remote RemoteValues) (int64, error) {
	title := titleOf(remote)

	res, err := db.Exec(`UPDATE notes
		SET title = ?, content = ?, category = ?, favorite = ?, etag = ?, modified = ?, excerpt = ?
		WHERE id = ? AND status = ?
		AND modified <= ? AND content = ? AND favorite = ? AND category = ?
		AND (title != ? OR content != ? OR category != ? OR favorite != ? OR etag IS NULL OR etag != ? OR modified != ?)`,
		title, remote.Content, remote.Category, remote.Favorite, remote.ETag, remote.Modified,
		utils.GenerateExcerpt(remote.Content, title),
		localID, StatusVoid,
		expected.Modified, expected.Content, expected.Favorite, expected.Category,
		title, remote.Content, remote.Category, remote.Favorite, remote.ETag, remote.Modified)
	if err != nil {
		return 0, errors.Wrapf(err, "applying remote update to note %d", localID)
	}

	return rowsAffected(res)
}

// UpsertFromRemote inserts a note fetched from the server as VOID. Nothing is
// written if the account already has a note with the remote id, which is the
// case for a note pending deletion. It returns the number of inserted notes.
func UpsertFromRemote(db *DB, accountID int, remote RemoteValues) (int64, error) {
	var inserted int64

	err := db.inTx(func(tx *DB) error {
		var id int
		err := tx.QueryRow("SELECT id FROM notes WHERE account_id = ? AND remote_id = ?", accountID, remote.RemoteID).Scan(&id)
		if err == nil {
			return nil
		} else if err != sql.ErrNoRows {
			return errors.Wrapf(err, "finding note with remote id %d", remote.RemoteID)
		}

		title := titleOf(remote)
		_, err = tx.Exec(`INSERT INTO notes
			(remote_id, account_id, status, title, category, modified, content, favorite, etag, excerpt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			remote.RemoteID, accountID, StatusVoid, title, remote.Category, remote.Modified, remote.Content,
			remote.Favorite, remote.ETag, utils.GenerateExcerpt(remote.Content, title))
		if err != nil {
			return errors.Wrapf(err, "inserting note with remote id %d", remote.RemoteID)
		}

		inserted = 1
		return nil
	})

	return inserted, err
}

// PurgeRemotelyDeleted removes the clean notes of the account whose remote id
// the server no longer lists. Notes with local changes are kept.
func PurgeRemotelyDeleted(db *DB, accountID int, listed map[int64]bool) (int64, error) {
	var purged int64

	err := db.inTx(func(tx *DB) error {
		rows, err := tx.Query("SELECT id, remote_id FROM notes WHERE account_id = ? AND status = ? AND remote_id IS NOT NULL",
			accountID, StatusVoid)
		if err != nil {
			return errors.Wrap(err, "querying clean notes")
		}

		var ids []int
		for rows.Next() {
			var id int
			var remoteID int64
			if err := rows.Scan(&id, &remoteID); err != nil {
				rows.Close()
				return errors.Wrap(err, "scanning a clean note")
			}

			if !listed[remoteID] {
				ids = append(ids, id)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return errors.Wrap(err, "iterating clean notes")
		}

		for _, id := range ids {
			res, err := tx.Exec("DELETE FROM notes WHERE id = ? AND status = ?", id, StatusVoid)
			if err != nil {
				return errors.Wrapf(err, "purging note %d", id)
			}

			n, err := rowsAffected(res)
			if err != nil {
				return err
			}
			purged += n
		}

		return nil
	})

	return purged, err
}

// RebaseConflict stores the merged content of a note whose update the server
// rejected, along with the server ETag. The note stays LOCAL_EDITED so that
// the merge is pushed on the next pass. It returns 0 if the note changed
// since the snapshot was taken.
func RebaseConflict(db *DB, localID int, expected Snapshot, remoteETag, content string, now int64) (int64, error) {
	var applied int64

	err := db.inTx(func(tx *DB) error {
		n, err := getNote(tx, localID)
		if err != nil {
			return err
		}

		res, err := tx.Exec(`UPDATE notes SET etag = ?, content = ?, excerpt = ?, modified = ?
			WHERE id = ? AND status = ?
			AND modified <= ? AND content = ? AND favorite = ? AND category = ?`,
			remoteETag, content, utils.GenerateExcerpt(content, n.Title), nextModified(n.Modified, now),
			localID, StatusLocalEdited,
			expected.Modified, expected.Content, expected.Favorite, expected.Category)
		if err != nil {
			return errors.Wrapf(err, "rebasing note %d", localID)
		}

		applied, err = rowsAffected(res)
		return err
	})

	return applied, err
}
