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

package add

import (
	"os"

	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/ui"
	"github.com/notesync/notesync/pkg/cli/validate"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var titleFlag string
var contentFlag string
var categoryFlag string
var favoriteFlag bool

var example = `
 * Open an editor to write content
 notesync add

 * Skip the editor by providing content directly
 notesync add -t Groceries -c "milk, eggs" --category Shopping

 * Add to one of several accounts
 notesync add alice@https://cloud.example.com -c "call the plumber"

 * Send stdin content to a note
 echo "a branch is just a pointer to a commit" | notesync add
 # or
 notesync add << EOF
 pull is fetch with a merge
 EOF`

// NewCmd returns a new add command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add [account]",
		Short:   "Add a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "the title of the note (defaults to the first line of the content)")
	f.StringVarP(&contentFlag, "content", "c", "", "the content of the note")
	f.StringVar(&categoryFlag, "category", "", "the category of the note. Subcategories are separated by a slash")
	f.BoolVar(&favoriteFlag, "favorite", false, "mark the note as a favorite")

	return cmd
}

func getContent(ctx context.NotesyncCtx) (string, error) {
	if contentFlag != "" {
		return contentFlag, nil
	}

	// check for piped content
	fInfo, _ := os.Stdin.Stat()
	if fInfo.Mode()&os.ModeCharDevice == 0 {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "Failed to get piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "Failed to get editor input")
	}

	return c, nil
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		a, err := infra.AccountFromArgs(ctx.DB, args)
		if err != nil {
			return errors.Wrap(err, "finding the account")
		}

		content, err := getContent(ctx)
		if err != nil {
			return errors.Wrap(err, "getting content")
		}

		n, err := addNote(ctx, a, database.NoteParams{
			Title:    titleFlag,
			Content:  content,
			Category: categoryFlag,
			Favorite: favoriteFlag,
		})
		if err != nil {
			return err
		}

		log.Successf("added to %s\n", a.AccountName)
		output.NoteInfo(n)

		return nil
	}
}

// addNote creates a note that the next sync of the account pushes
func addNote(ctx context.NotesyncCtx, a database.Account, p database.NoteParams) (database.Note, error) {
	if p.Content == "" && p.Title == "" {
		return database.Note{}, errors.New("Empty content")
	}
	if err := validate.Category(p.Category); err != nil {
		return database.Note{}, errors.Wrap(err, "invalid category")
	}

	id, err := database.CreateLocalNote(ctx.DB, a.ID, p, clock.Unix(ctx.Clock))
	if err != nil {
		return database.Note{}, errors.Wrap(err, "Failed to write note")
	}

	return database.GetNote(ctx.DB, id)
}
