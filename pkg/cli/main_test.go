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

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/consts"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/testutils"
	"github.com/notesync/notesync/pkg/cli/utils"
	"github.com/pkg/errors"
)

var binaryName = "test-notesync"

// setupTestEnv creates a unique test directory for parallel test execution
func setupTestEnv(t *testing.T) (string, testutils.RunNotesyncCmdOptions) {
	testDir := t.TempDir()
	opts := testutils.RunNotesyncCmdOptions{
		Env: []string{
			fmt.Sprintf("HOME=%s", testDir),
			fmt.Sprintf("XDG_CONFIG_HOME=%s", testDir),
			fmt.Sprintf("XDG_DATA_HOME=%s", testDir),
			fmt.Sprintf("XDG_CACHE_HOME=%s", testDir),
			"EDITOR=true",
		},
	}
	return testDir, opts
}

func TestMain(m *testing.M) {
	if err := exec.Command("go", "build", "-o", binaryName).Run(); err != nil {
		log.Print(errors.Wrap(err, "building a binary").Error())
		os.Exit(1)
	}

	code := m.Run()
	os.Remove(binaryName)

	os.Exit(code)
}

func TestInit(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	// run an arbitrary command "version" due to https://github.com/spf13/cobra/issues/1056
	testutils.RunNotesyncCmd(t, opts, binaryName, "version")

	db := testutils.MustOpenDatabase(t, testutils.DBPath(testDir))

	ok, err := utils.FileExists(fmt.Sprintf("%s/%s/%s", testDir, consts.NotesyncDirName, consts.ConfigFilename))
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking if the config exists"))
	}
	if !ok {
		t.Errorf("config file was not initialized")
	}

	for _, table := range []string{"accounts", "credentials", "notes", "system"} {
		var count int
		database.MustScan(t, "counting "+table,
			db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = ? AND name = ?", "table", table), &count)

		assert.Equal(t, count, 1, table+" table count mismatch")
	}

	version, err := database.SchemaVersion(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, version, 2, "schema version mismatch")
}

func TestVersion(t *testing.T) {
	_, opts := setupTestEnv(t)

	out := testutils.RunNotesyncCmd(t, opts, binaryName, "version")

	assert.Equal(t, strings.HasPrefix(out, "notesync "), true, "output mismatch")
}

func TestAccount(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.MustWaitNotesyncCmd(t, opts, testutils.UserPassword("secret"), binaryName,
		"account", "add", "https://cloud.example.com/", "alice", "--offline")

	db := testutils.MustOpenDatabase(t, testutils.DBPath(testDir))

	a, err := database.GetAccountByName(db, "alice@https://cloud.example.com")
	if err != nil {
		t.Fatal(err)
	}
	password, err := database.GetCredential(db, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, password, "secret", "credential mismatch")

	out := testutils.RunNotesyncCmd(t, opts, binaryName, "account", "ls")
	assert.Equal(t, strings.Contains(out, "alice@https://cloud.example.com"), true, "listing mismatch")

	testutils.MustWaitNotesyncCmd(t, opts, testutils.CancelRemoveAccount, binaryName, "account", "remove", a.AccountName)
	accounts, err := database.ListAccounts(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(accounts), 1, "a cancelled removal should keep the account")

	testutils.MustWaitNotesyncCmd(t, opts, testutils.ConfirmRemoveAccount, binaryName, "account", "remove", a.AccountName)
	accounts, err = database.ListAccounts(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(accounts), 0, "the account should be removed")
}

func TestAddNote(t *testing.T) {
	t.Run("content flag", func(t *testing.T) {
		_, opts := setupTestEnv(t)
		db, dbPath := database.InitTestFileDB(t)
		a := testutils.Setup1(t, db)

		testutils.RunNotesyncCmd(t, opts, binaryName, "--dbPath", dbPath, "add", "-c", "Groceries\nmilk", "--category", "Shopping", "--favorite")

		assert.Equalf(t, database.CountNotes(t, db, a.ID), 2, "note count mismatch")

		var n database.Note
		database.MustScan(t, "getting the note",
			db.QueryRow("SELECT title, content, category, favorite, status FROM notes WHERE content = ?", "Groceries\nmilk"),
			&n.Title, &n.Content, &n.Category, &n.Favorite, &n.Status)

		assert.Equal(t, n.Title, "Groceries", "title mismatch")
		assert.Equal(t, n.Category, "Shopping", "category mismatch")
		assert.Equal(t, n.Favorite, true, "favorite mismatch")
		assert.Equal(t, n.Status, database.StatusLocalCreated, "status mismatch")
	})

	t.Run("stdin", func(t *testing.T) {
		_, opts := setupTestEnv(t)
		db, dbPath := database.InitTestFileDB(t)
		a := testutils.Setup1(t, db)

		testutils.MustWaitNotesyncCmd(t, opts, testutils.UserContent, binaryName, "--dbPath", dbPath, "add", a.AccountName)

		assert.Equalf(t, database.CountNotes(t, db, a.ID), 2, "note count mismatch")

		var title string
		database.MustScan(t, "getting the title",
			db.QueryRow("SELECT title FROM notes WHERE content LIKE ?", "Lorem ipsum%"), &title)
		assert.Equal(t, title, "Lorem ipsum dolor sit amet, consectetur adipiscing elit,", "title mismatch")
	})
}

func TestEditNote(t *testing.T) {
	_, opts := setupTestEnv(t)
	db, dbPath := database.InitTestFileDB(t)
	testutils.Setup2(t, db)

	testutils.RunNotesyncCmd(t, opts, binaryName, "--dbPath", dbPath, "edit", "2", "-c", "Dates\ncompare with getTime()")

	n := database.MustGetNote(t, db, 2)
	assert.Equal(t, n.Content, "Dates\ncompare with getTime()", "content mismatch")
	assert.Equal(t, n.Title, "Dates", "title mismatch")
	assert.Equal(t, n.Status, database.StatusLocalEdited, "status mismatch")
	assert.Equal(t, n.Category, "js", "category should be kept")

	other := database.MustGetNote(t, db, 1)
	assert.Equal(t, other.Status, database.StatusVoid, "other notes should be untouched")
}

func TestFavorite(t *testing.T) {
	_, opts := setupTestEnv(t)
	db, dbPath := database.InitTestFileDB(t)
	testutils.Setup2(t, db)

	testutils.RunNotesyncCmd(t, opts, binaryName, "--dbPath", dbPath, "favorite", "1")

	n := database.MustGetNote(t, db, 1)
	assert.Equal(t, n.Favorite, true, "favorite mismatch")
	assert.Equal(t, n.Status, database.StatusLocalEdited, "status mismatch")
}

func TestRemoveNote(t *testing.T) {
	_, opts := setupTestEnv(t)
	db, dbPath := database.InitTestFileDB(t)
	testutils.Setup2(t, db)

	testutils.MustWaitNotesyncCmd(t, opts, testutils.ConfirmRemoveNote, binaryName, "--dbPath", dbPath, "remove", "1")

	n := database.MustGetNote(t, db, 1)
	assert.Equal(t, n.Status, database.StatusLocalDeleted, "the note should wait for the next sync")

	out := testutils.RunNotesyncCmd(t, opts, binaryName, "--dbPath", dbPath, "ls")
	assert.Equal(t, strings.Contains(out, "Booleans"), false, "removed notes should not be listed")
	assert.Equal(t, strings.Contains(out, "Dates"), true, "other notes should be listed")
}

func TestFind(t *testing.T) {
	_, opts := setupTestEnv(t)
	db, dbPath := database.InitTestFileDB(t)
	testutils.Setup2(t, db)

	out := testutils.RunNotesyncCmd(t, opts, binaryName, "--dbPath", dbPath, "find", "mathematical")

	assert.Equal(t, strings.Contains(out, "Dates"), true, "the match should be listed")
	assert.Equal(t, strings.Contains(out, "Booleans"), false, "other notes should not be listed")
}

func TestParseDBPath(t *testing.T) {
	testCases := []struct {
		args     []string
		expected string
	}{
		{args: []string{"--dbPath", "/tmp/a.db", "ls"}, expected: "/tmp/a.db"},
		{args: []string{"sync", "--dbPath=/tmp/b.db"}, expected: "/tmp/b.db"},
		{args: []string{"ls"}, expected: ""},
		{args: []string{"ls", "--dbPath"}, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			assert.Equal(t, parseDBPath(tc.args), tc.expected, "result mismatch")
		})
	}
}
