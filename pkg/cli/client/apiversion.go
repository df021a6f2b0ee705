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

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// APIVersion is a version of the notes API
type APIVersion struct {
	Major int
	Minor int
}

var (
	// APIVersion02 is the legacy notes API
	APIVersion02 = APIVersion{Major: 0, Minor: 2}
	// APIVersion10 is the notes API with ETag preconditions
	APIVersion10 = APIVersion{Major: 1, Minor: 0}
)

// SupportedAPIVersions lists the versions this client can talk, most preferred first
var SupportedAPIVersions = []APIVersion{APIVersion10, APIVersion02}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported reports whether the client can talk the version. Only the major
// version is compared since minor versions are backward compatible.
func (v APIVersion) Supported() bool {
	for _, s := range SupportedAPIVersions {
		if s.Major == v.Major {
			return true
		}
	}

	return false
}

// notesPath returns the path of the notes collection for the version
func (v APIVersion) notesPath() string {
	if v.Major == 0 {
		return fmt.Sprintf("/index.php/apps/notes/api/v%d.%d/notes", v.Major, v.Minor)
	}

	return fmt.Sprintf("/index.php/apps/notes/api/v%d/notes", v.Major)
}

// usesETags reports whether updates carry an If-Match precondition
func (v APIVersion) usesETags() bool {
	return v.Major >= 1
}

func (v APIVersion) less(o APIVersion) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}

	return v.Minor < o.Minor
}

var regexNumber = regexp.MustCompile(`[0-9]+`)

func extractNumber(s string) int {
	m := regexNumber.FindString(s)
	if m == "" {
		return 0
	}

	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}

	return n
}

// parseAPIVersion reads a version such as "1.2". Anything unreadable is 0.0.
func parseAPIVersion(s string) APIVersion {
	parts := strings.Split(s, ".")

	var v APIVersion
	v.Major = extractNumber(parts[0])
	if len(parts) > 1 {
		v.Minor = extractNumber(parts[1])
	}

	return v
}

func decodeVersionList(raw string) ([]interface{}, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, false
	}

	return items, true
}

// ParseAPIVersions reads a list of versions as sent by the server. It accepts
// a JSON array, a comma separated list or a single value. Unreadable entries
// are skipped.
func ParseAPIVersions(raw string) []APIVersion {
	if strings.TrimSpace(raw) == "" {
		return []APIVersion{}
	}

	items, ok := decodeVersionList(raw)
	if !ok {
		items, ok = decodeVersionList("[" + raw + "]")
	}
	if !ok {
		items = []interface{}{}
		for _, s := range strings.Split(raw, ",") {
			items = append(items, strings.TrimSpace(s))
		}
	}

	ret := []APIVersion{}
	for _, item := range items {
		var s string
		switch v := item.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		default:
			continue
		}

		version := parseAPIVersion(s)
		if version.Major == 0 && version.Minor == 0 {
			continue
		}

		ret = append(ret, version)
	}

	return ret
}

// SerializeAPIVersions returns the stored form of the versions, for example
// "[1.0,0.2]". It returns an empty string for no versions.
func SerializeAPIVersions(versions []APIVersion) string {
	if len(versions) == 0 {
		return ""
	}

	parts := make([]string, 0, len(versions))
	for _, v := range versions {
		parts = append(parts, v.String())
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// SanitizeAPIVersions normalizes a raw version list into its stored form
func SanitizeAPIVersions(raw string) string {
	return SerializeAPIVersions(ParseAPIVersions(raw))
}

// PreferredAPIVersion returns the highest version that is both offered by the
// server and supported by the client
func PreferredAPIVersion(raw string) (APIVersion, bool) {
	var ret APIVersion
	var found bool

	for _, v := range ParseAPIVersions(raw) {
		if !v.Supported() {
			continue
		}
		if !found || ret.less(v) {
			ret = v
			found = true
		}
	}

	return ret, found
}
