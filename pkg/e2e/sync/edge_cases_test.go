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
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	cliDatabase "github.com/notesync/notesync/pkg/cli/database"
	clitest "github.com/notesync/notesync/pkg/cli/testutils"
	"github.com/notesync/notesync/pkg/server/app"
	"github.com/pkg/errors"
)

func TestSync_maintenance(t *testing.T) {
	env := setupTestEnv(t, func(a *app.App) {
		a.Maintenance = true
	})

	clitest.RunNotesyncCmd(t, env.CmdOpts, cliBinaryName, "add", "-c", "Groceries")

	runFailingCmd(t, env, "sync")

	// the note is pushed once the server is back
	checkState(t, env, systemState{
		clientNoteCount:  1,
		clientDirtyCount: 1,
		serverNoteCount:  0,
	})
}

func TestSync_wrongPassword(t *testing.T) {
	env := setupTestEnv(t, nil)
	if err := cliDatabase.SetCredential(env.DB, env.Account.ID, "wrong-password"); err != nil {
		t.Fatal(errors.Wrap(err, "saving the credential"))
	}

	env.Remote.createNote(t, "Booleans", "Booleans have toString()")

	runFailingCmd(t, env, "sync")

	checkState(t, env, systemState{
		clientNoteCount:  0,
		clientDirtyCount: 0,
		serverNoteCount:  1,
	})
}

func TestSync_conflictingFlags(t *testing.T) {
	env := setupTestEnv(t, nil)

	out := runFailingCmd(t, env, "sync", "--all", "--account", env.Account.AccountName)
	assert.Equal(t, len(out) > 0, true, "an error should be printed")
}

func TestSync_unknownAccount(t *testing.T) {
	env := setupTestEnv(t, nil)

	runFailingCmd(t, env, "sync", "--account", "bob@https://cloud.example.com")
}

func TestSync_noAccount(t *testing.T) {
	env := setupTestEnv(t, nil)
	if err := cliDatabase.DeleteAccount(env.DB, env.Account.ID); err != nil {
		t.Fatal(errors.Wrap(err, "deleting the account"))
	}

	runFailingCmd(t, env, "sync")
}
