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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/notesync/notesync/pkg/assert"
	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	valid := Config{
		DBPath:         "test.db",
		Port:           "3000",
		LogLevel:       "info",
		ThemeColor:     "#0082c9",
		ThemeTextColor: "#fff",
	}

	testCases := []struct {
		modify      func(c *Config)
		expectedErr error
	}{
		{
			modify:      func(c *Config) {},
			expectedErr: nil,
		},
		{
			modify:      func(c *Config) { c.DBPath = "" },
			expectedErr: ErrDBMissingPath,
		},
		{
			modify:      func(c *Config) { c.Port = "" },
			expectedErr: ErrPortInvalid,
		},
		{
			modify:      func(c *Config) { c.Port = "http" },
			expectedErr: ErrPortInvalid,
		},
		{
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			expectedErr: ErrLogLevelInvalid,
		},
		{
			modify:      func(c *Config) { c.ThemeColor = "blue" },
			expectedErr: ErrThemeColorInvalid,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			c := valid
			tc.modify(&c)

			err := validate(c)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestNew(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("MAINTENANCE", "true")
	t.Setenv("LOG_LEVEL", "")

	c, err := New(Params{DBPath: "/tmp/server.db", LogLevel: "debug"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.Port, "4000", "port should come from the env")
	assert.Equal(t, c.DBPath, "/tmp/server.db", "db path should come from the params")
	assert.Equal(t, c.LogLevel, "debug", "log level mismatch")
	assert.Equal(t, c.Maintenance, true, "maintenance mismatch")
	assert.Equal(t, c.AppEnv, AppEnvProduction, "app env should default to production")
	assert.Equal(t, c.IsProd(), true, "should be production")
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing default", func(t *testing.T) {
		t.Chdir(t.TempDir())

		assert.Equal(t, LoadEnvFile(""), nil, "a missing default file should be ignored")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
		assert.NotEqual(t, err, nil, "a missing explicit file should be an error")
	})

	t.Run("values", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		// registers the restore before the variable is unset
		t.Setenv("NOTESYNC_TEST_ENV_FILE", "")
		os.Unsetenv("NOTESYNC_TEST_ENV_FILE")

		path := filepath.Join(t.TempDir(), "server.env")
		if err := os.WriteFile(path, []byte("PORT=6000\nNOTESYNC_TEST_ENV_FILE=loaded\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, os.Getenv("NOTESYNC_TEST_ENV_FILE"), "loaded", "env file value should be set")
		assert.Equal(t, os.Getenv("PORT"), "5000", "existing env should win over the file")
	})
}
