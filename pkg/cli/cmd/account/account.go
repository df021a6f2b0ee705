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

// Package account implements the commands managing the accounts of Notes servers
package account

import (
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/spf13/cobra"
)

var example = `
  * Add an account
  notesync account add https://cloud.example.com alice

  * List the accounts
  notesync account ls

  * Remove an account and its local notes
  notesync account remove alice@https://cloud.example.com`

// NewCmd returns a new account command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Short:   "Manage the accounts of Notes servers",
		Example: example,
	}

	cmd.AddCommand(newAddCmd(ctx))
	cmd.AddCommand(newLsCmd(ctx))
	cmd.AddCommand(newRemoveCmd(ctx))

	return cmd
}
