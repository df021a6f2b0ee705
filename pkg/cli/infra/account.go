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

package infra

import (
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
)

var (
	// ErrNoAccount is an error for a command that needs an account when none was added
	ErrNoAccount = errors.New("no account is configured. Run 'notesync account add <url> <user>' first")
	// ErrAccountRequired is an error for an ambiguous account argument
	ErrAccountRequired = errors.New("more than one account is configured. Specify one by name or id")
)

// FindAccount finds the account by its id or its name
func FindAccount(db *database.DB, nameOrID string) (database.Account, error) {
	if utils.IsNumber(nameOrID) {
		id, err := utils.ParseID(nameOrID)
		if err != nil {
			return database.Account{}, err
		}

		a, err := database.GetAccount(db, id)
		if err == nil || !errors.Is(err, database.ErrNotFound) {
			return a, err
		}
	}

	return database.GetAccountByName(db, nameOrID)
}

// DefaultAccount returns the only configured account
func DefaultAccount(db *database.DB) (database.Account, error) {
	accounts, err := database.ListAccounts(db)
	if err != nil {
		return database.Account{}, errors.Wrap(err, "listing accounts")
	}

	switch len(accounts) {
	case 0:
		return database.Account{}, ErrNoAccount
	case 1:
		return accounts[0], nil
	}

	return database.Account{}, ErrAccountRequired
}

// AccountFromArgs finds the account named by the first argument, or the only
// account if there are no arguments
func AccountFromArgs(db *database.DB, args []string) (database.Account, error) {
	if len(args) == 0 || args[0] == "" {
		return DefaultAccount(db)
	}

	return FindAccount(db, args[0])
}

// FindNote finds the note with the id given as a command argument. Notes
// pending deletion are not found.
func FindNote(db *database.DB, arg string) (database.Note, error) {
	id, err := utils.ParseID(arg)
	if err != nil {
		return database.Note{}, err
	}

	n, err := database.GetNote(db, id)
	if err != nil {
		return n, err
	}
	if n.Status == database.StatusLocalDeleted {
		return database.Note{}, errors.Wrapf(database.ErrNotFound, "note %d", id)
	}

	return n, nil
}
