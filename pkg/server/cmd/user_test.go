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

package cmd

import (
	"strings"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/server/database"
	"github.com/notesync/notesync/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	err := userCreateCmd([]string{"--dbPath", tmpDB, "--user", "alice", "--password", "password123"})
	assert.Equal(t, err, nil, "executing command")

	db := testutils.InitDB(tmpDB)
	defer database.Close(db)

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "should have 1 user")

	var user database.User
	testutils.MustExec(t, db.Where("user_name = ?", "alice").First(&user), "finding user")
	assert.Equal(t, user.UserName, "alice", "user name mismatch")
	assert.NotEqual(t, user.Password, "password123", "password should be hashed")
}

func TestUserCreateCmd_MissingFlag(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	err := userCreateCmd([]string{"--dbPath", tmpDB, "--user", "alice"})
	assert.NotEqual(t, err, nil, "should fail without a password")
}

func TestUserCreateCmd_Duplicate(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	db := testutils.InitDB(tmpDB)
	testutils.SetupUserData(db, "alice", "password123")
	database.Close(db)

	err := userCreateCmd([]string{"--dbPath", tmpDB, "--user", "alice", "--password", "password456"})
	assert.NotEqual(t, err, nil, "should fail for an existing user")
}

func TestUserRemoveCmd(t *testing.T) {
	testCases := []struct {
		input         string
		expectedUsers int64
		expectedNotes int64
	}{
		{
			input:         "y\n",
			expectedUsers: 0,
			expectedNotes: 0,
		},
		{
			input:         "n\n",
			expectedUsers: 1,
			expectedNotes: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			tmpDB := t.TempDir() + "/test.db"

			db := testutils.InitDB(tmpDB)
			user := testutils.SetupUserData(db, "alice", "password123")
			testutils.SetupNoteData(db, user, database.Note{Title: "groceries", Content: "milk"})
			database.Close(db)

			err := userRemoveCmd([]string{"--dbPath", tmpDB, "--user", "alice"}, strings.NewReader(tc.input))
			assert.Equal(t, err, nil, "executing command")

			db2 := testutils.InitDB(tmpDB)
			defer database.Close(db2)

			var userCount, noteCount int64
			testutils.MustExec(t, db2.Model(&database.User{}).Count(&userCount), "counting users")
			testutils.MustExec(t, db2.Model(&database.Note{}).Count(&noteCount), "counting notes")
			assert.Equal(t, userCount, tc.expectedUsers, "user count mismatch")
			assert.Equal(t, noteCount, tc.expectedNotes, "note count mismatch")
		})
	}
}

func TestUserRemoveCmd_NotFound(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	err := userRemoveCmd([]string{"--dbPath", tmpDB, "--user", "nobody"}, strings.NewReader("y\n"))
	assert.NotEqual(t, err, nil, "should fail for a missing user")
}

func TestUserResetPasswordCmd(t *testing.T) {
	tmpDB := t.TempDir() + "/test.db"

	db := testutils.InitDB(tmpDB)
	user := testutils.SetupUserData(db, "alice", "oldpassword123")
	database.Close(db)

	err := userResetPasswordCmd([]string{"--dbPath", tmpDB, "--user", "alice", "--password", "newpassword123"})
	assert.Equal(t, err, nil, "executing command")

	db2 := testutils.InitDB(tmpDB)
	defer database.Close(db2)

	var updated database.User
	testutils.MustExec(t, db2.Where("id = ?", user.ID).First(&updated), "finding user")

	err = bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword123"))
	assert.Equal(t, err, nil, "new password should match")

	err = bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("oldpassword123"))
	assert.NotEqual(t, err, nil, "old password should not match")
}

func TestUserCmd_UnknownSubcommand(t *testing.T) {
	err := userCmd([]string{"rename"})
	assert.NotEqual(t, err, nil, "should fail for an unknown subcommand")

	err = userCmd(nil)
	assert.NotEqual(t, err, nil, "should fail without a subcommand")
}
