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
	"strings"

	"github.com/notesync/notesync/pkg/cli/utils/diff"
)

const (
	conflictLocalStart = "<<<<<<< Local\n"
	conflictSeparator  = "=======\n"
	conflictServerEnd  = ">>>>>>> Server\n"
)

// sanitize makes a non-empty conflicting text end with a line break so that
// the markers stay on their own lines
func sanitize(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}

func writeConflict(b *strings.Builder, local, server string) {
	b.WriteString(conflictLocalStart)
	b.WriteString(sanitize(local))
	b.WriteString(conflictSeparator)
	b.WriteString(sanitize(server))
	b.WriteString(conflictServerEnd)
}

// reportBodyConflict merges the local and the server content of a note. The
// common lines are kept and every differing region is wrapped in conflict
// markers. A region that changes the same number of lines on both sides is
// reported line by line.
func reportBodyConflict(local, server string) string {
	var b strings.Builder

	for _, h := range diff.Hunks(local, server) {
		if h.Equal {
			b.WriteString(h.Left)
			continue
		}

		localLines := diff.Lines(h.Left)
		serverLines := diff.Lines(h.Right)
		if len(localLines) != len(serverLines) {
			writeConflict(&b, h.Left, h.Right)
			continue
		}

		for i := range localLines {
			if localLines[i] == serverLines[i] {
				b.WriteString(localLines[i])
				continue
			}

			writeConflict(&b, localLines[i], serverLines[i])
		}
	}

	return b.String()
}
