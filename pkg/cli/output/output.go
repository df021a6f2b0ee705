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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/notesync/notesync/pkg/cli/sync"
)

const timeLayout = "Jan 2, 2006 3:04pm (MST)"

var dim = color.New(color.FgHiBlack).SprintFunc()

func formatTime(ts int64) string {
	if ts == 0 {
		return "never"
	}

	return time.Unix(ts, 0).Format(timeLayout)
}

// statusLabel returns a short marker for notes with local changes
func statusLabel(s database.Status) string {
	switch s {
	case database.StatusVoid:
		return ""
	case database.StatusLocalCreated:
		return "new"
	case database.StatusLocalEdited:
		return "edited"
	case database.StatusLocalDeleted:
		return "deleted"
	}

	return string(s)
}

// NoteInfo prints a note information
func NoteInfo(n database.Note) {
	log.Infof("title: %s\n", n.Title)
	if n.Category != "" {
		log.Infof("category: %s\n", n.Category)
	}
	log.Infof("modified: %s\n", formatTime(n.Modified))
	log.Infof("note id: %d\n", n.ID)
	if n.RemoteID != nil {
		log.Infof("remote id: %d\n", *n.RemoteID)
	}
	if label := statusLabel(n.Status); label != "" {
		log.Infof("status: %s\n", label)
	}
	if n.Favorite {
		log.Infof("favorite: yes\n")
	}

	fmt.Fprintf(log.Writer(), "\n------------------------content------------------------\n")
	fmt.Fprintf(log.Writer(), "%s", n.Content)
	fmt.Fprintf(log.Writer(), "\n-------------------------------------------------------\n")
}

// NoteContent prints the content of a note
func NoteContent(n database.Note) {
	fmt.Fprintf(log.Writer(), "%s", n.Content)
}

// NoteList prints one line per note
func NoteList(notes []database.Note) {
	for _, n := range notes {
		var marks []string
		if n.Favorite {
			marks = append(marks, "*")
		}
		if label := statusLabel(n.Status); label != "" {
			marks = append(marks, label)
		}

		var suffix string
		if len(marks) > 0 {
			suffix = " " + dim("("+strings.Join(marks, ", ")+")")
		}

		log.Plainf("%s %s%s\n", color.YellowString("(%d)", n.ID), n.Title, suffix)
		if n.Excerpt != "" {
			log.Plainf("    %s\n", dim(n.Excerpt))
		}
	}
}

// Categories prints the categories with their note counts
func Categories(categories []database.CategoryCount) {
	for _, c := range categories {
		name := c.Category
		if name == "" {
			name = "(uncategorized)"
		}

		log.Plainf("%s %s\n", name, dim(fmt.Sprintf("(%d)", c.Count)))
	}
}

// AccountInfo prints an account
func AccountInfo(a database.Account) {
	name := a.AccountName
	if a.DisplayName != "" {
		name = fmt.Sprintf("%s (%s)", a.AccountName, a.DisplayName)
	}

	log.Plainf("%s %s\n", color.YellowString("(%d)", a.ID), name)

	apiVersion := "unknown"
	if a.APIVersion != nil {
		apiVersion = *a.APIVersion
	}
	log.Plainf("    %s\n", dim(fmt.Sprintf("api %s, last sync %s", apiVersion, formatTime(a.Modified))))
}

// SyncResult prints the outcome of a sync pass
func SyncResult(account database.Account, r sync.Result) {
	summary := fmt.Sprintf("%s: pushed %d, pulled %d, purged %d", account.AccountName, r.Pushed, r.Pulled, r.Purged)

	if r.OK() {
		log.Successf("%s\n", summary)
	} else if r.Aborted {
		log.Errorf("%s, aborted\n", summary)
	} else {
		log.Warnf("%s, with errors\n", summary)
	}

	for _, e := range r.Errors {
		if e.Kind == sync.KindConflictSkipped {
			log.Plainf("    %s\n", dim(e.Error()))
			continue
		}

		log.Plainf("    %s\n", e.Error())
	}
}
