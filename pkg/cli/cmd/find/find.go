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

package find

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/notesync/notesync/pkg/cli/context"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/infra"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  # find notes by a keyword
  notesync find rpoplpush

  # find notes by multiple words
  notesync find "building a heap"

  # search the notes of one of several accounts
  notesync find alice@https://cloud.example.com "merge sort"
	`

// maxLines is the number of matching lines printed per note
const maxLines = 3

// NewCmd returns a new find command
func NewCmd(ctx context.NotesyncCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find [account] <query>",
		Short:   "Find notes by keywords",
		Aliases: []string{"f"},
		Example: example,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    newRun(ctx),
	}

	return cmd
}

// highlight wraps every case insensitive occurrence of the query in s with mark
func highlight(s, query string, mark func(a ...interface{}) string) string {
	if query == "" {
		return s
	}

	lower := strings.ToLower(s)
	q := strings.ToLower(query)

	// case folding can change byte lengths
	if len(lower) != len(s) {
		return s
	}

	var b strings.Builder
	for {
		idx := strings.Index(lower, q)
		if idx == -1 {
			b.WriteString(s)
			break
		}

		b.WriteString(s[:idx])
		b.WriteString(mark(s[idx : idx+len(q)]))

		s = s[idx+len(q):]
		lower = lower[idx+len(q):]
	}

	return b.String()
}

// matchingLines returns up to max lines of the content containing the query
func matchingLines(content, query string, max int) []string {
	q := strings.ToLower(query)

	var ret []string
	for _, line := range strings.Split(content, "\n") {
		if len(ret) == max {
			break
		}

		if strings.Contains(strings.ToLower(line), q) {
			ret = append(ret, strings.TrimSpace(line))
		}
	}

	return ret
}

func printResults(notes []database.Note, query string) {
	mark := color.New(color.FgHiYellow, color.Bold).SprintFunc()

	for _, n := range notes {
		log.Plainf("%s %s\n", color.YellowString("(%d)", n.ID), highlight(n.Title, query, mark))

		for _, line := range matchingLines(n.Content, query, maxLines) {
			log.Plainf("    %s\n", highlight(line, query, mark))
		}
	}
}

func newRun(ctx context.NotesyncCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		query := args[len(args)-1]

		a, err := infra.AccountFromArgs(ctx.DB, args[:len(args)-1])
		if err != nil {
			return errors.Wrap(err, "finding the account")
		}

		notes, err := search(ctx, a, query)
		if err != nil {
			return err
		}

		if len(notes) == 0 {
			log.Info(fmt.Sprintf("no notes match '%s'\n", query))
			return nil
		}

		printResults(notes, query)

		return nil
	}
}

func search(ctx context.NotesyncCtx, a database.Account, query string) ([]database.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("Empty query")
	}

	notes, err := database.SearchNotes(ctx.DB, a.ID, query)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}

	return notes, nil
}
