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
	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"
)

func payloadOf(n database.Note) client.NotePayload {
	return client.NotePayload{
		Title:    n.Title,
		Content:  n.Content,
		Category: n.Category,
		Favorite: n.Favorite,
		Modified: n.Modified,
	}
}

func remoteValuesOf(n client.RemoteNote) database.RemoteValues {
	return database.RemoteValues{
		RemoteID: n.ID,
		Title:    n.Title,
		Content:  n.Content,
		Category: n.Category,
		Favorite: n.Favorite,
		ETag:     n.ETag,
		Modified: n.Modified,
	}
}

func remoteIDOf(n database.Note) int64 {
	if n.RemoteID == nil {
		return 0
	}

	return *n.RemoteID
}

// push sends the local changes of the account to the server. It returns
// false if the pass must stop.
func (o *Orchestrator) push(p *pass) bool {
	notes, err := database.GetDirtyNotes(o.db, p.account.ID)
	if err != nil {
		p.abort(newError(PhasePush, 0, 0, errors.Wrap(err, "getting dirty notes")))
		return false
	}

	log.Debug("pushing %d notes of %s\n", len(notes), p.account.AccountName)

	for _, n := range notes {
		if !p.checkpoint(PhasePush) {
			return false
		}

		if err := o.pushNote(p, n); err != nil {
			e := newError(PhasePush, n.ID, remoteIDOf(n), err)
			log.Debug("pushing note %d: %s\n", n.ID, e.Error())

			if isFatal(e) {
				p.abort(e)
				return false
			}

			p.result.add(e)
			continue
		}

		p.result.Pushed++
	}

	return true
}

func (o *Orchestrator) pushNote(p *pass, n database.Note) error {
	switch n.Status {
	case database.StatusLocalCreated:
		return o.pushCreate(p, n)
	case database.StatusLocalEdited:
		if n.RemoteID == nil {
			return o.pushCreate(p, n)
		}

		return o.pushUpdate(p, n)
	case database.StatusLocalDeleted:
		return o.pushDelete(p, n)
	case database.StatusVoid:
		return nil
	}

	return errors.Errorf("unknown status '%s' of note %d", n.Status, n.ID)
}

func (o *Orchestrator) pushCreate(p *pass, n database.Note) error {
	snapshot := n.Snapshot()

	remote, err := p.api.CreateNote(p.ctx, payloadOf(n))
	if err != nil {
		return errors.Wrap(err, "creating note")
	}

	applied, err := database.ApplyRemoteCreate(o.db, n.ID, snapshot, remoteValuesOf(remote))
	if errors.Is(err, database.ErrNotFound) {
		// the note was deleted locally while the request was in flight
		log.Debug("note %d was deleted during its creation, deleting remote note %d\n", n.ID, remote.ID)

		if err := p.api.DeleteNote(p.ctx, remote.ID); err != nil && !errors.Is(err, client.ErrNotFound) {
			return errors.Wrap(err, "deleting the created note")
		}

		return nil
	} else if err != nil {
		return err
	}

	if applied == 0 {
		log.Debug("note %d changed while being created as %d, pushing it again next time\n", n.ID, remote.ID)
	}

	return nil
}

func (o *Orchestrator) pushUpdate(p *pass, n database.Note) error {
	snapshot := n.Snapshot()

	remote, err := p.api.UpdateNote(p.ctx, *n.RemoteID, derefString(n.ETag), payloadOf(n))
	if errors.Is(err, client.ErrNotFound) {
		log.Debug("note %d is gone from the server, creating it again\n", n.ID)
		return o.pushCreate(p, n)
	} else if errors.Is(err, client.ErrPreconditionFailed) {
		return o.rebase(p, n)
	} else if err != nil {
		return errors.Wrap(err, "updating note")
	}

	applied, err := database.ApplyRemoteUpdate(o.db, n.ID, snapshot, remoteValuesOf(remote))
	if err != nil {
		return err
	}
	if applied == 0 {
		log.Debug("note %d changed while being updated, pushing it again next time\n", n.ID)
	}

	return nil
}

// rebase merges the server version of a note that changed on both sides
// into the local one with conflict markers. The merge is pushed on the next
// pass.
func (o *Orchestrator) rebase(p *pass, n database.Note) error {
	snapshot := n.Snapshot()

	server, err := p.api.GetNote(p.ctx, *n.RemoteID)
	if err != nil {
		return errors.Wrap(err, "getting the server version of a conflicting note")
	}

	merged := reportBodyConflict(n.Content, server.Content)

	applied, err := database.RebaseConflict(o.db, n.ID, snapshot, server.ETag, merged, o.now())
	if err != nil {
		return err
	}

	log.Debug("note %d conflicts with the server version, rebased: %d\n", n.ID, applied)

	return &Error{
		Kind:     KindConflictSkipped,
		NoteID:   n.ID,
		RemoteID: *n.RemoteID,
		Phase:    PhasePush,
		Err:      errors.Wrap(client.ErrPreconditionFailed, "note changed on the server"),
	}
}

func (o *Orchestrator) pushDelete(p *pass, n database.Note) error {
	if n.RemoteID != nil {
		err := p.api.DeleteNote(p.ctx, *n.RemoteID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			return errors.Wrap(err, "deleting note")
		}
	}

	if _, err := database.ApplyRemoteDelete(o.db, n.ID); err != nil {
		return err
	}

	return nil
}
