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
	"os"
	"strings"

	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/notesync/notesync/pkg/cli/cmd/account"
	"github.com/notesync/notesync/pkg/cli/cmd/add"
	"github.com/notesync/notesync/pkg/cli/cmd/daemon"
	"github.com/notesync/notesync/pkg/cli/cmd/edit"
	"github.com/notesync/notesync/pkg/cli/cmd/favorite"
	"github.com/notesync/notesync/pkg/cli/cmd/find"
	"github.com/notesync/notesync/pkg/cli/cmd/ls"
	"github.com/notesync/notesync/pkg/cli/cmd/remove"
	"github.com/notesync/notesync/pkg/cli/cmd/root"
	"github.com/notesync/notesync/pkg/cli/cmd/sync"
	"github.com/notesync/notesync/pkg/cli/cmd/version"
	"github.com/notesync/notesync/pkg/cli/cmd/view"
)

// versionTag is populated during link time
var versionTag = "master"

// parseDBPath extracts --dbPath flag value from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		// Handle --dbPath=value
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		// Handle --dbPath value
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	// --dbPath can appear after the subcommand (e.g. "notesync sync --dbPath=./custom.db")
	// and root.ParseFlags only parses flags before the subcommand.
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	root.Register(account.NewCmd(*ctx))
	root.Register(add.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(favorite.NewCmd(*ctx))
	root.Register(find.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(daemon.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
