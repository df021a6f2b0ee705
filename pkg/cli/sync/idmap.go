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

	"github.com/notesync/notesync/pkg/cli/database"
)

// IDMap maps the remote ids of an account to local note ids
type IDMap map[int64]int

// Lookup returns the local id of the remote id
func (m IDMap) Lookup(remoteID int64) (int, bool) {
	id, ok := m[remoteID]
	return id, ok
}

// Reverse returns the mapping from local ids to remote ids
func (m IDMap) Reverse() map[int]int64 {
	ret := make(map[int]int64, len(m))
	for remoteID, id := range m {
		ret[id] = remoteID
	}

	return ret
}

// IDMapper builds the remote id mapping of accounts
type IDMapper struct {
	db *database.DB
}

// NewIDMapper returns an IDMapper reading from the given database
func NewIDMapper(db *database.DB) *IDMapper {
	return &IDMapper{db: db}
}

// Build reads the mapping of the account. Notes pending deletion are not
// mapped. Duplicate remote ids resolve to the most recently modified note.
func (m *IDMapper) Build(ctx context.Context, accountID int) (IDMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ret, err := database.GetRemoteIDMap(m.db, accountID)
	if err != nil {
		return nil, err
	}

	return IDMap(ret), nil
}
