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
	gocontext "context"
	"os"
	"os/signal"
	"syscall"

	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/sync"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrSyncFailed is an error for a sync in which a pass did not run cleanly
var ErrSyncFailed = errors.New("some accounts were not synchronized")

var example = `
  * Synchronize every account
  notesync sync

  * Synchronize one account
  notesync sync --account alice@https://cloud.example.com`

var accountFlag string
var allFlag bool

// NewCmd returns a new sync command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Sync notes with the servers",
		Example: example,
		Args:    cobra.NoArgs,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&accountFlag, "account", "a", "", "the name or id of the account to synchronize")
	f.BoolVar(&allFlag, "all", false, "synchronize every account (default)")

	return cmd
}

// selectAccounts returns the named account, or every account if no name is given
func selectAccounts(db *database.DB, name string) ([]database.Account, error) {
	if name != "" {
		a, err := infra.FindAccount(db, name)
		if err != nil {
			return nil, errors.Wrap(err, "finding the account")
		}

		return []database.Account{a}, nil
	}

	accounts, err := database.ListAccounts(db)
	if err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	if len(accounts) == 0 {
		return nil, infra.ErrNoAccount
	}

	return accounts, nil
}

// synchronize runs a pass for each account and prints the results
func synchronize(c gocontext.Context, syncer sync.Synchronizer, accounts []database.Account, concurrency int) error {
	ids := make([]int, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	results := sync.SynchronizeAll(c, syncer, ids, concurrency)

	failed := false
	for i, r := range results {
		output.SyncResult(accounts[i], r)

		if !r.OK() {
			failed = true
		}
	}

	if failed {
		return ErrSyncFailed
	}

	return nil
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if allFlag && accountFlag != "" {
			return errors.New("--account and --all cannot be used together")
		}

		accounts, err := selectAccounts(ctx.DB, accountFlag)
		if err != nil {
			return err
		}

		c, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Debug("synchronizing %d accounts\n", len(accounts))

		return synchronize(c, infra.NewOrchestrator(ctx), accounts, ctx.Concurrency)
	}
}
