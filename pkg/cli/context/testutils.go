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

package context

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/notesync/notesync/pkg/cli/consts"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/clock"
	"github.com/pkg/errors"
)

// getDefaultTestPaths creates default test paths with all paths pointing to a temp directory
func getDefaultTestPaths(t *testing.T) Paths {
	tmpDir := t.TempDir()
	return Paths{
		Home:   tmpDir,
		Cache:  tmpDir,
		Config: tmpDir,
		Data:   tmpDir,
	}
}

func newTestCtx(t *testing.T, db *database.DB) NotesyncCtx {
	paths := getDefaultTestPaths(t)

	if err := InitNotesyncDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	return NotesyncCtx{
		DB:    db,
		Paths: paths,
		// a mock clock makes timestamps deterministic
		Clock:          clock.NewMock(),
		RequestTimeout: consts.DefaultRequestTimeout * time.Second,
		SyncSchedule:   consts.DefaultSyncSchedule,
		Concurrency:    consts.DefaultConcurrency,
	}
}

// InitTestCtx initializes a test context with an in-memory database
// and a temporary directory for all paths
func InitTestCtx(t *testing.T) NotesyncCtx {
	return newTestCtx(t, database.InitTestMemoryDB(t))
}

// InitTestCtxWithDB initializes a test context with the provided database
// and a temporary directory for all paths.
func InitTestCtxWithDB(t *testing.T, db *database.DB) NotesyncCtx {
	return newTestCtx(t, db)
}

// InitTestCtxWithFileDB initializes a test context with a migrated file-based
// database at the path the commands use.
func InitTestCtxWithFileDB(t *testing.T) NotesyncCtx {
	paths := getDefaultTestPaths(t)

	if err := InitNotesyncDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	dbPath := filepath.Join(paths.Data, consts.NotesyncDirName, consts.NotesyncDBFileName)
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating database"))
	}

	t.Cleanup(func() { db.Close() })

	ctx := newTestCtx(t, db)
	ctx.Paths = paths

	return ctx
}
