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

package ls

import (
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List all notes
 notesync ls

 * List the notes of a category
 notesync ls --category Shopping

 * List the categories
 notesync ls --categories

 * List the notes of one of several accounts
 notesync ls alice@https://cloud.example.com`

var categoryFlag string
var categoriesFlag bool

// NewCmd returns a new ls command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [account]",
		Aliases: []string{"l", "notes"},
		Short:   "List notes or categories",
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    NewRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&categoryFlag, "category", "", "list the notes of the category only")
	f.BoolVar(&categoriesFlag, "categories", false, "list the categories instead of the notes")

	return cmd
}

// NewRun returns a new run function for ls
func NewRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		a, err := infra.AccountFromArgs(ctx.DB, args)
		if err != nil {
			return errors.Wrap(err, "finding the account")
		}

		if categoriesFlag {
			return printCategories(ctx, a)
		}

		return printNotes(ctx, a, categoryFlag)
	}
}

func printNotes(ctx context.NotesyncCtx, a database.Account, category string) error {
	notes, err := database.ListNotes(ctx.DB, a.ID, category)
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}

	if len(notes) == 0 {
		log.Info("no notes\n")
		return nil
	}

	output.NoteList(notes)

	return nil
}

func printCategories(ctx context.NotesyncCtx, a database.Account) error {
	categories, err := database.GetCategories(ctx.DB, a.ID)
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}

	output.Categories(categories)

	return nil
}
