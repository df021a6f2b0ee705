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

package account

import (
	gocontext "context"
	"fmt"

	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/sync"
	"github.com/notesync/notesync/pkg/cli/ui"
	"github.com/notesync/notesync/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrEmptyPassword is an error for an account added without a password
var ErrEmptyPassword = errors.New("empty password")

var offlineFlag bool

func newAddCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <url> <user>",
		Short:   "Add an account",
		Args:    cobra.ExactArgs(2),
		RunE:    newAddRun(ctx),
		Example: "  notesync account add https://cloud.example.com alice",
	}

	f := cmd.Flags()
	f.BoolVar(&offlineFlag, "offline", false, "add the account without contacting the server")

	return cmd
}

func newAddRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var password string
		if err := ui.PromptPassword("password:", &password); err != nil {
			return errors.Wrap(err, "getting the password")
		}

		a, err := addAccount(cmd.Context(), ctx, args[0], args[1], password, offlineFlag)
		if err != nil {
			return err
		}

		log.Successf("added %s\n", a.AccountName)
		output.AccountInfo(a)

		return nil
	}
}

// addAccount stores a new account and its credential. Unless offline, the
// server is asked for its capabilities first, and the account is removed
// again if that fails.
func addAccount(c gocontext.Context, ctx context.NotesyncCtx, rawURL, rawUser, password string, offline bool) (database.Account, error) {
	url, err := validate.ServerURL(rawURL)
	if err != nil {
		return database.Account{}, errors.Wrap(err, "invalid server url")
	}
	if err := validate.UserName(rawUser); err != nil {
		return database.Account{}, errors.Wrap(err, "invalid user name")
	}
	if password == "" {
		return database.Account{}, ErrEmptyPassword
	}

	db := ctx.DB
	id, err := database.InsertAccount(db, database.Account{
		URL:         url,
		UserName:    rawUser,
		AccountName: fmt.Sprintf("%s@%s", rawUser, url),
	})
	if err != nil {
		return database.Account{}, errors.Wrap(err, "inserting the account")
	}
	if err := database.SetCredential(db, id, password); err != nil {
		return database.Account{}, errors.Wrap(err, "saving the credential")
	}

	if !offline {
		if err := verifyAccount(c, ctx, id); err != nil {
			if dErr := database.DeleteAccount(db, id); dErr != nil {
				log.Errorf("removing the account: %s\n", dErr.Error())
			}

			return database.Account{}, errors.Wrap(err, "connecting to the server")
		}
	}

	return database.GetAccount(db, id)
}

func verifyAccount(c gocontext.Context, ctx context.NotesyncCtx, accountID int) error {
	a, err := database.GetAccount(ctx.DB, accountID)
	if err != nil {
		return err
	}

	api, err := infra.NewDialer(ctx)(a)
	if err != nil {
		return errors.Wrap(err, "making a client")
	}

	caps, err := sync.NewResolver(ctx.DB).Resolve(c, a, api)
	if err != nil {
		return err
	}
	if caps.APIVersion == "" {
		log.Warnf("the notes app does not seem to be installed on %s\n", a.URL)
	}

	return nil
}
