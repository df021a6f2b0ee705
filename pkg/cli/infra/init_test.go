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

package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/notesync/notesync/pkg/cli/config"
	"github.com/notesync/notesync/pkg/cli/consts"
	"github.com/notesync/notesync/pkg/cli/database"
	"github.com/notesync/notesync/pkg/dirs"
	"github.com/pkg/errors"
)

func setupXDG(t *testing.T) string {
	tmpDir := t.TempDir()
	// runs after the environment is restored
	t.Cleanup(dirs.Reload)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("EDITOR", "nano")
	dirs.Reload()

	return tmpDir
}

func TestInit(t *testing.T) {
	tmpDir := setupXDG(t)

	ctx, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.Version, "test-version", "version mismatch")
	assert.Equal(t, ctx.Editor, "nano", "editor mismatch")
	assert.Equal(t, ctx.RequestTimeout, consts.DefaultRequestTimeout*time.Second, "timeout mismatch")
	assert.Equal(t, ctx.SyncSchedule, consts.DefaultSyncSchedule, "schedule mismatch")
	assert.Equal(t, ctx.Concurrency, consts.DefaultConcurrency, "concurrency mismatch")
	assert.Equal(t, ctx.DB.Filepath, filepath.Join(tmpDir, "data", consts.NotesyncDirName, consts.NotesyncDBFileName), "db path mismatch")

	version, err := database.SchemaVersion(ctx.DB)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, version, 2, "schema version mismatch")

	_, err = os.Stat(config.GetPath(*ctx))
	assert.Equal(t, err, nil, "config file should exist")
}

func TestInit_keepsConfig(t *testing.T) {
	setupXDG(t)

	ctx, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	cf := config.Default("emacs")
	cf.Concurrency = 1
	if err := config.Write(*ctx, cf); err != nil {
		t.Fatal(err)
	}

	ctx2, err := Init("test-version", "")
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing again"))
	}
	defer ctx2.DB.Close()

	assert.Equal(t, ctx2.Editor, "emacs", "editor should come from the existing config")
	assert.Equal(t, ctx2.Concurrency, 1, "concurrency should come from the existing config")
}

func TestInit_customDBPath(t *testing.T) {
	tmpDir := setupXDG(t)
	dbPath := filepath.Join(tmpDir, "custom.db")

	ctx, err := Init("test-version", dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing"))
	}
	defer ctx.DB.Close()

	assert.Equal(t, ctx.DB.Filepath, dbPath, "db path mismatch")
}

func TestGetEditorCommand(t *testing.T) {
	testCases := []struct {
		editor   string
		expected string
	}{
		{editor: "code", expected: "code -n -w"},
		{editor: "vim", expected: "vim"},
		{editor: "", expected: "vi"},
		{editor: "unknown", expected: "vi"},
	}

	for _, tc := range testCases {
		t.Run(tc.editor, func(t *testing.T) {
			t.Setenv("EDITOR", tc.editor)
			assert.Equal(t, getEditorCommand(), tc.expected, "command mismatch")
		})
	}
}
