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

// Package sync provides end-to-end tests of the notesync commands against a server
package sync

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/consts"
	cliDatabase "github.com/notesync/notesync/pkg/cli/database"
	clitest "github.com/notesync/notesync/pkg/cli/testutils"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/notesync/notesync/pkg/server/app"
	"github.com/notesync/notesync/pkg/server/controllers"
	"github.com/notesync/notesync/pkg/server/database"
	apitest "github.com/notesync/notesync/pkg/server/testutils"
	"github.com/pkg/errors"
)

// cliBinaryName is the path of the CLI binary built in TestMain
var cliBinaryName string

const (
	testUserName = "alice"
	testPassword = "pass1234"
)

// testServer is a running server with one user
type testServer struct {
	App    *app.App
	Server *httptest.Server
	User   database.User
}

// testEnv holds the test environment for a single test
type testEnv struct {
	DB      *cliDatabase.DB
	CmdOpts clitest.RunNotesyncCmdOptions
	TmpDir  string
	Remote  testServer
	Account cliDatabase.Account
}

// setupTestServer starts a server with its own database
func setupTestServer(t *testing.T, configure func(a *app.App)) testServer {
	a := app.NewTest()
	a.DB = apitest.InitMemoryDB(t)
	a.Clock = clock.New()
	if configure != nil {
		configure(&a)
	}

	server := controllers.MustNewServer(t, &a)
	t.Cleanup(server.Close)

	user := apitest.SetupUserData(a.DB, testUserName, testPassword)

	return testServer{
		App:    &a,
		Server: server,
		User:   user,
	}
}

// openClientDB creates the database of the commands in the data home
func openClientDB(t *testing.T, tmpDir string) *cliDatabase.DB {
	dir := filepath.Join(tmpDir, consts.NotesyncDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(errors.Wrap(err, "creating notesync directory"))
	}

	db := clitest.MustOpenDatabase(t, clitest.DBPath(tmpDir))
	if err := cliDatabase.Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating"))
	}

	return db
}

// addAccount stores an account of the test user on the given server
func addAccount(t *testing.T, db *cliDatabase.DB, s testServer, password string) cliDatabase.Account {
	a := cliDatabase.MustInsertAccount(t, db, s.Server.URL, testUserName)
	if err := cliDatabase.SetCredential(db, a.ID, password); err != nil {
		t.Fatal(errors.Wrap(err, "saving the credential"))
	}

	return a
}

// setupTestEnv creates an isolated client with one account on a new server
func setupTestEnv(t *testing.T, configure func(a *app.App)) testEnv {
	tmpDir := t.TempDir()

	db := openClientDB(t, tmpDir)
	remote := setupTestServer(t, configure)
	account := addAccount(t, db, remote, testPassword)

	cmdOpts := clitest.RunNotesyncCmdOptions{
		Env: []string{
			fmt.Sprintf("HOME=%s", tmpDir),
			fmt.Sprintf("XDG_CONFIG_HOME=%s", tmpDir),
			fmt.Sprintf("XDG_DATA_HOME=%s", tmpDir),
			fmt.Sprintf("XDG_CACHE_HOME=%s", tmpDir),
			"EDITOR=true",
		},
	}

	return testEnv{
		DB:      db,
		CmdOpts: cmdOpts,
		TmpDir:  tmpDir,
		Remote:  remote,
		Account: account,
	}
}

// runFailingCmd runs a command that is expected to exit with an error
func runFailingCmd(t *testing.T, env testEnv, arg ...string) string {
	cmd, stderr, stdout, err := clitest.NewNotesyncCmd(env.CmdOpts, cliBinaryName, arg...)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting command"))
	}

	if err := cmd.Run(); err == nil {
		t.Fatalf("expected the command to fail. stdout:\n%s", stdout)
	}

	t.Logf("\n%s\n%s", stdout, stderr)

	return stdout.String() + stderr.String()
}

func (s testServer) createNote(t *testing.T, title, content string) database.Note {
	n, err := s.App.CreateNote(s.User, app.NoteParams{Title: &title, Content: &content})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating server note"))
	}

	return n
}

func (s testServer) noteCount(t *testing.T) int64 {
	var count int64
	apitest.MustExec(t, s.App.DB.Model(&database.Note{}).Where("user_id = ?", s.User.ID).Count(&count), "counting server notes")

	return count
}

func (s testServer) note(t *testing.T, id int) database.Note {
	var n database.Note
	apitest.MustExec(t, s.App.DB.Where("id = ?", id).First(&n), "finding server note")

	return n
}

// clientNoteID returns the local id of the note with the given content
func clientNoteID(t *testing.T, db *cliDatabase.DB, content string) int {
	var id int
	cliDatabase.MustScan(t, "finding client note", db.QueryRow("SELECT id FROM notes WHERE content = ?", content), &id)

	return id
}

type systemState struct {
	clientNoteCount  int
	clientDirtyCount int
	serverNoteCount  int64
}

// checkState compares the state of the client and the server with the given state
func checkState(t *testing.T, env testEnv, expected systemState) {
	t.Helper()

	assert.Equal(t, cliDatabase.CountNotes(t, env.DB, env.Account.ID), expected.clientNoteCount, "client note count mismatch")

	dirty, err := cliDatabase.GetDirtyNotes(env.DB, env.Account.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting dirty notes"))
	}
	assert.Equal(t, len(dirty), expected.clientDirtyCount, "client dirty note count mismatch")

	assert.Equal(t, env.Remote.noteCount(t), expected.serverNoteCount, "server note count mismatch")
}
