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

package favorite

import (
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewCmd returns a new favorite command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <note id>",
		Aliases: []string{"fav", "star"},
		Short:   "Mark or unmark a note as a favorite",
		Example: "  notesync favorite 3",
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx),
	}
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := toggle(ctx, args[0])
		if err != nil {
			return err
		}

		if n.Favorite {
			log.Successf("marked note %d as a favorite\n", n.ID)
		} else {
			log.Successf("unmarked note %d as a favorite\n", n.ID)
		}

		return nil
	}
}

func toggle(ctx context.NotesyncCtx, noteID string) (database.Note, error) {
	n, err := infra.FindNote(ctx.DB, noteID)
	if err != nil {
		return database.Note{}, errors.Wrap(err, "finding the note")
	}

	n, err = database.ToggleFavorite(ctx.DB, n.ID, clock.Unix(ctx.Clock))
	if err != nil {
		return database.Note{}, errors.Wrap(err, "toggling favorite")
	}

	return n, nil
}
