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

// pull fetches the notes changed on the server since the last pass and
// merges them into the store
func (o *Orchestrator) pull(p *pass) {
	listing, err := p.api.ListNotes(p.ctx, p.account.Modified, derefString(p.account.ETag))
	if err != nil {
		e := newError(PhasePull, 0, 0, err)
		if isFatal(e) {
			p.abort(e)
			return
		}

		p.result.add(e)
		return
	}

	o.updateAPIVersion(p, listing.APIVersions)

	if listing.NotModified {
		log.Debug("notes of %s not modified\n", p.account.AccountName)
		return
	}

	idMap, err := o.mapper.Build(p.ctx, p.account.ID)
	if err != nil {
		p.abort(newError(PhasePull, 0, 0, errors.Wrap(err, "building the id map")))
		return
	}

	listed := map[int64]bool{}
	for _, n := range listing.Notes {
		listed[n.ID] = true
	}

	log.Debug("pulled %d notes of %s\n", len(listing.Notes), p.account.AccountName)

	for _, n := range listing.Notes {
		if n.Stub {
			continue
		}

		if err := o.pullNote(p, idMap, n); err != nil {
			e := newError(PhasePull, 0, n.ID, err)
			log.Debug("pulling remote note %d: %s\n", n.ID, e.Error())
			p.result.add(e)
		}

		if !p.checkpoint(PhasePull) {
			return
		}
	}

	purged, err := database.PurgeRemotelyDeleted(o.db, p.account.ID, listed)
	if err != nil {
		p.result.add(newError(PhasePull, 0, 0, errors.Wrap(err, "purging remotely deleted notes")))
		return
	}
	p.result.Purged += int(purged)

	if p.result.failed(PhasePull) {
		return
	}

	modified := listing.LastModified
	if modified == 0 {
		modified = p.account.Modified
	}
	if err := database.UpdateSyncState(o.db, p.account.ID, listing.ETag, modified); err != nil {
		p.result.add(newError(PhasePull, 0, 0, errors.Wrap(err, "saving the sync state")))
	}
}

func (o *Orchestrator) pullNote(p *pass, idMap IDMap, n client.RemoteNote) error {
	values := remoteValuesOf(n)

	localID, ok := idMap.Lookup(n.ID)
	if !ok {
		inserted, err := database.UpsertFromRemote(o.db, p.account.ID, values)
		if err != nil {
			return err
		}

		p.result.Pulled += int(inserted)
		return nil
	}

	local, err := database.GetNote(o.db, localID)
	if errors.Is(err, database.ErrNotFound) {
		// purged since the map was built
		return nil
	} else if err != nil {
		return err
	}

	applied, err := database.ApplyGuardedRemoteUpdate(o.db, localID, local.Snapshot(), values)
	if err != nil {
		return err
	}
	if applied == 1 {
		p.result.Pulled++
		return nil
	}

	if local.Status.IsDirty() {
		return &Error{
			Kind:     KindConflictSkipped,
			NoteID:   localID,
			RemoteID: n.ID,
			Phase:    PhasePull,
			Err:      errors.New("note has local changes"),
		}
	}

	return nil
}

// updateAPIVersion caches the API versions the server announced in a response header
func (o *Orchestrator) updateAPIVersion(p *pass, raw string) {
	sanitized := client.SanitizeAPIVersions(raw)
	if sanitized == "" || sanitized == derefString(p.account.APIVersion) {
		return
	}

	if err := database.UpdateAPIVersion(o.db, p.account.ID, sanitized); err != nil {
		log.Debug("caching api version of %s: %v\n", p.account.AccountName, err)
		return
	}
	p.account.APIVersion = &sanitized
}
