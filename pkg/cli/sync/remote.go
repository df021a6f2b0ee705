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

// Package sync synchronizes the notes of an account with a remote Notes server
package sync

import (
	"context"
	"net/http"
	"time"

	"github.com/notesync/notesync/pkg/cli/client"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/pkg/errors"
)

// RemoteAPI is the part of the remote Notes API the sync engine uses.
// *client.Client implements it.
type RemoteAPI interface {
	FetchCapabilities(ctx context.Context, etag string) (client.Capabilities, bool, error)
	ListNotes(ctx context.Context, pruneBefore int64, etag string) (client.NotesListing, error)
	GetNote(ctx context.Context, id int64) (client.RemoteNote, error)
	CreateNote(ctx context.Context, p client.NotePayload) (client.RemoteNote, error)
	UpdateNote(ctx context.Context, id int64, etag string, p client.NotePayload) (client.RemoteNote, error)
	DeleteNote(ctx context.Context, id int64) error
}

// Dialer returns the remote API of the account. The API version to talk is
// derived from the version list cached on the account.
type Dialer func(account database.Account) (RemoteAPI, error)

// ClientOptions configures the clients made by NewClientDialer
type ClientOptions struct {
	HTTPClient *http.Client
	// Timeout bounds every HTTP call
	Timeout time.Duration
	Version string
}

// NewClientDialer returns a Dialer that builds an HTTP client from the stored
// credential of the account
func NewClientDialer(db *database.DB, opts ClientOptions) Dialer {
	return func(account database.Account) (RemoteAPI, error) {
		password, err := database.GetCredential(db, account.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "getting the credential of %s", account.AccountName)
		}

		c := client.New(account.URL, account.UserName, password)
		if opts.HTTPClient != nil {
			c.HTTPClient = opts.HTTPClient
		}
		c.Timeout = opts.Timeout
		c.Version = opts.Version
		if account.APIVersion != nil {
			if v, ok := client.PreferredAPIVersion(*account.APIVersion); ok {
				c.APIVersion = v
			}
		}

		return c, nil
	}
}
