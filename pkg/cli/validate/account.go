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

// Package validate validates user input of the notesync commands
package validate

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrServerURLInvalid is an error for a server URL that cannot be parsed
var ErrServerURLInvalid = errors.New("The server URL is invalid")

// ErrServerURLScheme is an error for a server URL that is not http or https
var ErrServerURLScheme = errors.New("The server URL must start with http:// or https://")

// ErrUserNameEmpty is an error for an empty user name
var ErrUserNameEmpty = errors.New("The user name is empty")

// ErrUserNameHasColon is an error for a user name that basic auth cannot carry
var ErrUserNameHasColon = errors.New("The user name cannot contain a colon")

// ErrUserNameHasSpace is an error for a user name with whitespace
var ErrUserNameHasSpace = errors.New("The user name cannot contain spaces")

// ServerURL validates the base URL of a Notes server and returns it without a trailing slash
func ServerURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", ErrServerURLInvalid
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrServerURLScheme
	}

	u.RawQuery = ""
	u.Fragment = ""

	return strings.TrimRight(u.String(), "/"), nil
}

// UserName validates a user name
func UserName(name string) error {
	if name == "" {
		return ErrUserNameEmpty
	}

	if strings.Contains(name, ":") {
		return ErrUserNameHasColon
	}

	if strings.ContainsAny(name, " \t\r\n") {
		return ErrUserNameHasSpace
	}

	return nil
}
