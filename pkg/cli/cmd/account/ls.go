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
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLsCmd(ctx context.NotesyncCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the accounts",
		Args:    cobra.NoArgs,
		RunE:    newLsRun(ctx),
	}
}

func newLsRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		return listAccounts(ctx)
	}
}

func listAccounts(ctx context.NotesyncCtx) error {
	accounts, err := database.ListAccounts(ctx.DB)
	if err != nil {
		return errors.Wrap(err, "listing accounts")
	}

	if len(accounts) == 0 {
		log.Info("no accounts\n")
		return nil
	}

	for _, a := range accounts {
		output.AccountInfo(a)
	}

	return nil
}
