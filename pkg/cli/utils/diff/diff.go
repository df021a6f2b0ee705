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

// Package diff provides line-by-line diff feature by wrapping
// a package github.com/sergi/go-diff/diffmatchpatch
package diff

import (
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// DiffEqual represents an equal diff
	DiffEqual = diffmatchpatch.DiffEqual
	// DiffInsert represents an insert diff
	DiffInsert = diffmatchpatch.DiffInsert
	// DiffDelete represents a delete diff
	DiffDelete = diffmatchpatch.DiffDelete
)

// Do computes line-by-line diff between two strings
func Do(s1, s2 string) (diffs []diffmatchpatch.Diff) {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = time.Hour

	s1Chars, s2Chars, arr := dmp.DiffLinesToRunes(s1, s2)
	diffs = dmp.DiffMainRunes(s1Chars, s2Chars, false)
	diffs = dmp.DiffCharsToLines(diffs, arr)

	return diffs
}

// Hunk is a run of lines that is either common to both sides or differs
// between them
type Hunk struct {
	// Equal is true if Left and Right hold the same text
	Equal bool
	Left  string
	Right string
}

// Hunks computes the line diff of two strings and groups the consecutive
// deletions and insertions between two common runs into a single hunk
func Hunks(s1, s2 string) []Hunk {
	ret := []Hunk{}

	var left, right strings.Builder
	flush := func() {
		if left.Len() == 0 && right.Len() == 0 {
			return
		}

		ret = append(ret, Hunk{Left: left.String(), Right: right.String()})
		left.Reset()
		right.Reset()
	}

	for _, d := range Do(s1, s2) {
		switch d.Type {
		case DiffEqual:
			flush()
			ret = append(ret, Hunk{Equal: true, Left: d.Text, Right: d.Text})
		case DiffDelete:
			left.WriteString(d.Text)
		case DiffInsert:
			right.WriteString(d.Text)
		}
	}
	flush()

	return ret
}

// Lines splits the text into lines, keeping the line break at the end of
// each line
func Lines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
