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

package database

import (
	"database/sql/driver"
	"fmt"

	"github.com/pkg/errors"
)

// Status is the synchronization disposition of a note
type Status string

const (
	// StatusVoid marks a note whose content equals the last fetched server content
	StatusVoid Status = "VOID"
	// StatusLocalCreated marks a note that exists only locally
	StatusLocalCreated Status = "LOCAL_CREATED"
	// StatusLocalEdited marks a note that diverged from the last known server state
	StatusLocalEdited Status = "LOCAL_EDITED"
	// StatusLocalDeleted marks a note whose deletion is not yet acknowledged by the server
	StatusLocalDeleted Status = "LOCAL_DELETED"
)

// ParseStatus converts the stored text into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusVoid, StatusLocalCreated, StatusLocalEdited, StatusLocalDeleted:
		return Status(s), nil
	}

	return "", errors.Errorf("unknown note status '%s'", s)
}

// IsDirty returns true if the note must be pushed to the server
func (s Status) IsDirty() bool {
	switch s {
	case StatusVoid:
		return false
	case StatusLocalCreated, StatusLocalEdited, StatusLocalDeleted:
		return true
	}

	panic(fmt.Sprintf("unknown note status '%s'", string(s)))
}

// Scan implements sql.Scanner
func (s *Status) Scan(src interface{}) error {
	var raw string

	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.Errorf("cannot scan %T into a note status", src)
	}

	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// Value implements driver.Valuer
func (s Status) Value() (driver.Value, error) {
	if _, err := ParseStatus(string(s)); err != nil {
		return nil, err
	}

	return string(s), nil
}
