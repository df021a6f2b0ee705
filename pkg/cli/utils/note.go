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

package utils

import (
	"regexp"
	"strings"
)

// ExcerptLineSeparator replaces line breaks in an excerpt
const ExcerptLineSeparator = "   "

const excerptMaxLength = 200

var (
	regexHeading  = regexp.MustCompile(`^\s*#{1,6}\s+`)
	regexQuote    = regexp.MustCompile(`^\s*>+\s?`)
	regexList     = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	regexCheckbox = regexp.MustCompile(`^\[[ xX]\]\s+`)
	regexEmphasis = regexp.MustCompile("(\\*\\*|__|~~|`)")
	regexLink     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
)

// removeMarkdownLine strips block and inline markdown markers from a single line
func removeMarkdownLine(line string) string {
	line = regexHeading.ReplaceAllString(line, "")
	line = regexQuote.ReplaceAllString(line, "")
	line = regexList.ReplaceAllString(line, "")
	line = regexCheckbox.ReplaceAllString(line, "")
	line = regexLink.ReplaceAllString(line, "$1")
	line = regexEmphasis.ReplaceAllString(line, "")

	return line
}

// RemoveMarkdown strips markdown markers from every line of the given text
func RemoveMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = removeMarkdownLine(line)
	}

	return strings.Join(lines, "\n")
}

func isEmptyLine(line string) bool {
	return strings.TrimSpace(removeMarkdownLine(line)) == ""
}

// GenerateTitle returns the first non-empty line of the content without markdown
func GenerateTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if isEmptyLine(line) {
			continue
		}

		return strings.TrimSpace(removeMarkdownLine(line))
	}

	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

// GenerateExcerpt derives the list preview of a note. The title is dropped from
// the beginning of the content, the rest is cut to 200 characters and line
// breaks are replaced so the excerpt fits a single line.
func GenerateExcerpt(content, title string) string {
	content = strings.TrimSpace(RemoveMarkdown(strings.TrimSpace(content)))
	if content == "" {
		return ""
	}

	if title != "" {
		t := strings.TrimSpace(RemoveMarkdown(strings.TrimSpace(title)))
		content = strings.TrimPrefix(content, t)
	}

	excerpt := truncate(strings.TrimSpace(content), excerptMaxLength)

	return strings.ReplaceAll(excerpt, "\n", ExcerptLineSeparator)
}
