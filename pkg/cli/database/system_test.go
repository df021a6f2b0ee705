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
	"testing"

	"github.com/notesync/notesync/pkg/assert"
)

func TestSystem(t *testing.T) {
	db := InitTestMemoryDB(t)

	var val string
	err := GetSystem(db, "last_daemon_run", &val)
	assert.EqualErrors(t, err, ErrNotFound, "missing key should not be found")

	if err := UpsertSystem(db, "last_daemon_run", "100"); err != nil {
		t.Fatal(err)
	}
	if err := UpsertSystem(db, "last_daemon_run", "200"); err != nil {
		t.Fatal(err)
	}

	var ts int64
	if err := GetSystem(db, "last_daemon_run", &ts); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ts, int64(200), "value mismatch")

	var count int
	MustScan(t, "counting system keys", db.QueryRow("SELECT count(*) FROM system"), &count)
	assert.Equal(t, count, 1, "count mismatch")
}
