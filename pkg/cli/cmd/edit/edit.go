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

package edit

import (
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/output"
	"github.com/notesync/notesync/pkg/cli/ui"
	"github.com/notesync/notesync/pkg/cli/utils"
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
  * Edit a note by id
  notesync edit 3

  * Edit a note without launching an editor
  notesync edit 3 -c "new content"

  * Move a note to another category
  notesync edit 3 --category Work/Meetings

  * Unmark a favorite
  notesync edit 3 --favorite=false
`

// NewCmd returns a new edit command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <note id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "a new title for the note")
	f.StringVarP(&contentFlag, "content", "c", "", "a new content for the note")
	f.StringVar(&categoryFlag, "category", "", "the category to move the note to. An empty value removes the category")
	f.BoolVar(&favoriteFlag, "favorite", false, "whether the note is a favorite")

	return cmd
}

// changes holds the fields to update. A nil field is left as is.
type changes struct {
	Title    *string
	Content  *string
	Category *string
	Favorite *bool
}

func (c changes) empty() bool {
	return c.Title == nil && c.Content == nil && c.Category == nil && c.Favorite == nil
}

func getChanges(cmd *cobra.Command) changes {
	var ret changes

	f := cmd.Flags()
	if f.Changed("title") {
		ret.Title = &titleFlag
	}
	if f.Changed("content") {
		ret.Content = &contentFlag
	}
	if f.Changed("category") {
		ret.Category = &categoryFlag
	}
	if f.Changed("favorite") {
		ret.Favorite = &favoriteFlag
	}

	return ret
}

// toParams applies the changes to the note. A title that was derived from
// the content follows a new content unless a title is given.
func toParams(n database.Note, c changes) database.NoteParams {
	p := database.NoteParams{
		Title:    n.Title,
		Content:  n.Content,
		Category: n.Category,
		Favorite: n.Favorite,
	}

	if c.Content != nil {
		if n.Title == utils.GenerateTitle(n.Content) {
			p.Title = ""
		}
		p.Content = *c.Content
	}
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Favorite != nil {
		p.Favorite = *c.Favorite
	}

	return p
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := infra.FindNote(ctx.DB, args[0])
		if err != nil {
			return errors.Wrap(err, "finding the note")
		}

		c := getChanges(cmd)
		if c.empty() {
			content, err := ui.EditContent(ctx, n.Content)
			if err != nil {
				return errors.Wrap(err, "getting editor input")
			}
			if content == n.Content {
				log.Info("Nothing changed\n")
				return nil
			}

			c.Content = &content
		}

		updated, err := editNote(ctx, n, c)
		if err != nil {
			return errors.Wrap(err, "editing note")
		}

		log.Success("edited the note\n")
		output.NoteInfo(updated)

		return nil
	}
}

func editNote(ctx context.NotesyncCtx, n database.Note, c changes) (database.Note, error) {
	p := toParams(n, c)
	if p.Title == "" && p.Content == "" {
		return database.Note{}, errors.New("Empty content")
	}
	if err := validate.Category(p.Category); err != nil {
		return database.Note{}, errors.Wrap(err, "invalid category")
	}

	return database.EditLocalNote(ctx.DB, n.ID, p, clock.Unix(ctx.Clock))
}
