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

package remove

import (
	"fmt"

	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
  * Delete a note by id
  notesync remove 1

  * Skip the confirmation
  notesync remove 1 -y`

// NewCmd returns a new remove command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <note id>",
		Short:   "Delete a note",
		Aliases: []string{"rm", "d", "delete"},
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "delete without confirmation")

	return cmd
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := infra.FindNote(ctx.DB, args[0])
		if err != nil {
			return errors.Wrap(err, "finding the note")
		}

		if !yesFlag {
			output.NoteInfo(n)

			ok, err := ui.Confirm(fmt.Sprintf("remove note %d?", n.ID), true)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := removeNote(ctx, n); err != nil {
			return err
		}

		log.Successf("removed note %d\n", n.ID)

		return nil
	}
}

// removeNote deletes a note locally. The next sync deletes it on the server
// if the server has it.
func removeNote(ctx context.NotesyncCtx, n database.Note) error {
	if err := database.DeleteLocalNote(ctx.DB, n.ID); err != nil {
		return errors.Wrap(err, "removing the note")
	}

	return nil
}
