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
	"fmt"
	"io"
	"os"

	"github.com/notesync/notesync/pkg/prompt"
	"github.com/notesync/notesync/pkg/server/app"
	"github.com/pkg/errors"
)

const dbPathUsage = "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/notesync/server.db)"

func userCreateCmd(args []string) error {
	fs := setupFlagSet("create", "notesync-server user create")

	userName := fs.String("user", "", "User name used for basic auth (required)")
	password := fs.String("password", "", "User password (required)")
	dbPath := fs.String("dbPath", "", dbPathUsage)
	envFile := fs.String("envFile", "", "Path to an env file (default: .env if present)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireString(fs, *userName, "user"); err != nil {
		return err
	}
	if err := requireString(fs, *password, "password"); err != nil {
		return err
	}

	a, cleanup, err := setupAppWithDB(fs, *dbPath, *envFile)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := a.CreateUser(*userName, *password); err != nil {
		return errors.Wrap(err, "creating user")
	}

	fmt.Printf("User created successfully\n")
	fmt.Printf("User: %s\n", *userName)

	return nil
}

func userRemoveCmd(args []string, stdin io.Reader) error {
	fs := setupFlagSet("remove", "notesync-server user remove")

	userName := fs.String("user", "", "User name (required)")
	dbPath := fs.String("dbPath", "", dbPathUsage)
	envFile := fs.String("envFile", "", "Path to an env file (default: .env if present)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireString(fs, *userName, "user"); err != nil {
		return err
	}

	a, cleanup, err := setupAppWithDB(fs, *dbPath, *envFile)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.GetUserByName(*userName)
	if errors.Is(err, app.ErrNotFound) {
		return errors.Errorf("user %s not found", *userName)
	} else if err != nil {
		return errors.Wrap(err, "finding user")
	}

	count, err := a.CountUserNotes(*user)
	if err != nil {
		return err
	}

	question := fmt.Sprintf("Remove user %s and their %d notes?", *userName, count)
	ok, err := prompt.Confirm(stdin, os.Stdout, question, false)
	if err != nil {
		return errors.Wrap(err, "getting confirmation")
	}
	if !ok {
		fmt.Println("Aborted by user")
		return nil
	}

	if err := a.RemoveUser(*userName); err != nil {
		return errors.Wrap(err, "removing user")
	}

	fmt.Printf("User removed successfully\n")
	fmt.Printf("User: %s\n", *userName)

	return nil
}

func userResetPasswordCmd(args []string) error {
	fs := setupFlagSet("reset-password", "notesync-server user reset-password")

	userName := fs.String("user", "", "User name (required)")
	password := fs.String("password", "", "New password (required)")
	dbPath := fs.String("dbPath", "", dbPathUsage)
	envFile := fs.String("envFile", "", "Path to an env file (default: .env if present)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := requireString(fs, *userName, "user"); err != nil {
		return err
	}
	if err := requireString(fs, *password, "password"); err != nil {
		return err
	}

	a, cleanup, err := setupAppWithDB(fs, *dbPath, *envFile)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.GetUserByName(*userName)
	if errors.Is(err, app.ErrNotFound) {
		return errors.Errorf("user %s not found", *userName)
	} else if err != nil {
		return errors.Wrap(err, "finding user")
	}

	if err := app.UpdateUserPassword(a.DB, user, *password); err != nil {
		return errors.Wrap(err, "updating password")
	}

	fmt.Printf("Password reset successfully\n")
	fmt.Printf("User: %s\n", *userName)

	return nil
}

const userUsage = `Usage:
  notesync-server user [command]

Available commands:
  create: Create a new user
  remove: Remove a user and their notes
  reset-password: Reset a user's password`

func userCmd(args []string) error {
	if len(args) < 1 {
		fmt.Println(userUsage)
		return errors.New("missing subcommand")
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "create":
		return userCreateCmd(subArgs)
	case "remove":
		return userRemoveCmd(subArgs, os.Stdin)
	case "reset-password":
		return userResetPasswordCmd(subArgs)
	}

	fmt.Println(userUsage)
	return errors.Errorf("unknown subcommand: %s", subcommand)
}
