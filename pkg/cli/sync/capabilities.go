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

	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"
)

// Resolver fetches and caches the capabilities of accounts
type Resolver struct {
	db *database.DB
}

// NewResolver returns a resolver that caches capabilities in the given database
func NewResolver(db *database.DB) *Resolver {
	return &Resolver{db: db}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// cachedCapabilities returns the capabilities cached on the account
func cachedCapabilities(account database.Account) client.Capabilities {
	return client.Capabilities{
		APIVersion: derefString(account.APIVersion),
		Color:      account.Color,
		TextColor:  account.TextColor,
		ETag:       derefString(account.CapabilitiesETag),
	}
}

// Resolve returns the current capabilities of the account. A cached ETag
// makes the fetch conditional. A fresh document is persisted on the account.
// On error the account is left untouched and the returned *Error tells a
// server in maintenance apart from other failures.
func (r *Resolver) Resolve(ctx context.Context, account database.Account, api RemoteAPI) (client.Capabilities, error) {
	etag := derefString(account.CapabilitiesETag)

	caps, notModified, err := api.FetchCapabilities(ctx, etag)
	if err != nil {
		return client.Capabilities{}, newError(PhaseCapabilities, 0, 0, err)
	}
	if notModified {
		log.Debug("capabilities of %s not modified\n", account.AccountName)
		return cachedCapabilities(account), nil
	}

	log.Debug("capabilities of %s: api versions %s\n", account.AccountName, caps.APIVersion)

	err = database.UpdateCapabilities(r.db, account.ID, database.CapabilitiesCache{
		APIVersion: optionalString(caps.APIVersion),
		Color:      caps.Color,
		TextColor:  caps.TextColor,
		ETag:       optionalString(caps.ETag),
	})
	if err != nil {
		return client.Capabilities{}, errors.Wrap(err, "caching capabilities")
	}

	return caps, nil
}

// Invalidate makes the next resolution of the account a full fetch
func (r *Resolver) Invalidate(accountID int) error {
	return database.ClearCapabilitiesETag(r.db, accountID)
}
