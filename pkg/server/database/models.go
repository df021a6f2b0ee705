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
	"strconv"
	"time"

	"github.com/notesync/notesync/pkg/server/helpers"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user. Clients authenticate with the user name and
// the password over HTTP basic auth.
type User struct {
	Model
	UUID     string `json:"uuid" gorm:"type:text;index"`
	UserName string `json:"user_name" gorm:"type:text;uniqueIndex"`
	Password string `json:"-"`
}

// Note is a model for a note. Modified is in seconds since the epoch and
// ETag changes whenever any user-visible field changes.
type Note struct {
	Model
	UserID   int    `json:"user_id" gorm:"index"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category" gorm:"index"`
	Favorite bool   `json:"favorite" gorm:"default:false"`
	Modified int64  `json:"modified"`
	ETag     string `json:"etag" gorm:"type:text"`
}

// ComputeETag returns the md5 digest of the fields a client can observe
func (n Note) ComputeETag() string {
	return helpers.Digest(
		strconv.Itoa(n.ID),
		n.Title,
		strconv.FormatInt(n.Modified, 10),
		n.Category,
		strconv.FormatBool(n.Favorite),
		n.Content,
	)
}
